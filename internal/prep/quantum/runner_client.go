package quantum

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RunnerConfig holds connection settings for an external circuit runner --
// a service that accepts OpenQASM programs and executes them on simulated or
// physical hardware. The engine only ever writes circuits to it.
type RunnerConfig struct {
	// API key sent as a bearer token
	APIKey string

	// Base URL of the runner service
	BaseURL string

	// Backend name the runner should target (e.g. "statevector", "ibm_kyoto")
	BackendName string

	// HTTP client with timeout
	HTTPClient *http.Client
}

// RunnerClient handles circuit submission to a remote runner
type RunnerClient struct {
	config *RunnerConfig
}

// RunnerJob represents a submitted circuit execution
type RunnerJob struct {
	ID        string    `json:"id"`
	Backend   string    `json:"backend"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created"`
}

// RunnerResult represents the measurement counts of a completed job
type RunnerResult struct {
	Counts        map[string]int `json:"counts"`
	Success       bool           `json:"success"`
	StatusMsg     string         `json:"status"`
	JobID         string         `json:"job_id"`
	ExecutionTime float64        `json:"execution_time"`
}

// RunnerCircuit is the submission payload
type RunnerCircuit struct {
	QASM    string `json:"qasm"`
	Shots   int    `json:"shots"`
	Backend string `json:"backend"`
}

// Runner API endpoints
const (
	DefaultRunnerURL = "http://localhost:9000"
	jobsEndpoint     = "/api/v1/jobs"
)

// Job status constants
const (
	JobStatusQueued    = "QUEUED"
	JobStatusRunning   = "RUNNING"
	JobStatusCompleted = "COMPLETED"
	JobStatusFailed    = "FAILED"
	JobStatusCancelled = "CANCELLED"
)

// NewRunnerClient creates a new runner API client
func NewRunnerClient(config *RunnerConfig) (*RunnerClient, error) {
	if config.BaseURL == "" {
		config.BaseURL = DefaultRunnerURL
	}

	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{
			Timeout: 60 * time.Second,
		}
	}

	return &RunnerClient{config: config}, nil
}

func (c *RunnerClient) do(req *http.Request) (*http.Response, error) {
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
	return c.config.HTTPClient.Do(req)
}

// SubmitJob submits a rendered circuit for execution
func (c *RunnerClient) SubmitJob(circuit *RunnerCircuit) (*RunnerJob, error) {
	if circuit.Backend == "" {
		circuit.Backend = c.config.BackendName
	}

	jsonData, err := json.Marshal(circuit)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", c.config.BaseURL+jobsEndpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("job submission failed: %s (status: %d)", string(body), resp.StatusCode)
	}

	var job RunnerJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, err
	}

	return &job, nil
}

// GetJobStatus retrieves the status of a submitted job
func (c *RunnerClient) GetJobStatus(jobID string) (*RunnerJob, error) {
	url := fmt.Sprintf("%s%s/%s", c.config.BaseURL, jobsEndpoint, jobID)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get job status failed: %s (status: %d)", string(body), resp.StatusCode)
	}

	var job RunnerJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, err
	}

	return &job, nil
}

// WaitForJob polls until the job completes, fails, or maxWaitTime elapses
func (c *RunnerClient) WaitForJob(jobID string, maxWaitTime time.Duration) (*RunnerJob, error) {
	pollInterval := 2 * time.Second
	timeout := time.After(maxWaitTime)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			return nil, fmt.Errorf("job %s timed out after %v", jobID, maxWaitTime)

		case <-ticker.C:
			job, err := c.GetJobStatus(jobID)
			if err != nil {
				return nil, err
			}

			switch job.Status {
			case JobStatusCompleted:
				return job, nil
			case JobStatusFailed:
				return job, fmt.Errorf("job %s failed", jobID)
			case JobStatusCancelled:
				return job, fmt.Errorf("job %s was cancelled", jobID)
				// Continue polling for QUEUED and RUNNING
			}
		}
	}
}

// GetJobResult retrieves the measurement counts of a completed job
func (c *RunnerClient) GetJobResult(jobID string) (*RunnerResult, error) {
	url := fmt.Sprintf("%s%s/%s/results", c.config.BaseURL, jobsEndpoint, jobID)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get job result failed: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result RunnerResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// CancelJob cancels a queued or running job
func (c *RunnerClient) CancelJob(jobID string) error {
	url := fmt.Sprintf("%s%s/%s/cancel", c.config.BaseURL, jobsEndpoint, jobID)

	req, err := http.NewRequest("POST", url, nil)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("cancel job failed: %s (status: %d)", string(body), resp.StatusCode)
	}

	return nil
}

// ExecuteCircuitSync submits a circuit and blocks until results are available
func (c *RunnerClient) ExecuteCircuitSync(circuit *RunnerCircuit, maxWaitTime time.Duration) (*RunnerResult, error) {
	job, err := c.SubmitJob(circuit)
	if err != nil {
		return nil, fmt.Errorf("job submission failed: %w", err)
	}

	completedJob, err := c.WaitForJob(job.ID, maxWaitTime)
	if err != nil {
		return nil, fmt.Errorf("job execution failed: %w", err)
	}

	result, err := c.GetJobResult(completedJob.ID)
	if err != nil {
		return nil, fmt.Errorf("result retrieval failed: %w", err)
	}

	return result, nil
}
