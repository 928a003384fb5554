package quantum

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestRunnerClientSubmit tests circuit submission against a stub runner
func TestRunnerClientSubmit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != jobsEndpoint || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer token, got %q", got)
		}

		var circuit RunnerCircuit
		if err := json.NewDecoder(r.Body).Decode(&circuit); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if circuit.Shots != 1024 {
			t.Errorf("expected 1024 shots, got %d", circuit.Shots)
		}
		if circuit.Backend != "statevector" {
			t.Errorf("expected default backend, got %q", circuit.Backend)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(RunnerJob{ID: "job-1", Status: JobStatusQueued})
	}))
	defer server.Close()

	client, err := NewRunnerClient(&RunnerConfig{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		BackendName: "statevector",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job, err := client.SubmitJob(&RunnerCircuit{QASM: "OPENQASM 3.0;", Shots: 1024})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID != "job-1" || job.Status != JobStatusQueued {
		t.Errorf("unexpected job: %+v", job)
	}
}

// TestRunnerClientStatusAndResult tests status polling and result retrieval
func TestRunnerClientStatusAndResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case jobsEndpoint + "/job-1":
			json.NewEncoder(w).Encode(RunnerJob{ID: "job-1", Status: JobStatusCompleted})
		case jobsEndpoint + "/job-1/results":
			json.NewEncoder(w).Encode(RunnerResult{
				Counts:  map[string]int{"010": 498, "001": 526},
				Success: true,
				JobID:   "job-1",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, _ := NewRunnerClient(&RunnerConfig{BaseURL: server.URL})

	job, err := client.GetJobStatus("job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != JobStatusCompleted {
		t.Errorf("expected completed status, got %q", job.Status)
	}

	result, err := client.GetJobResult("job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Counts["010"] != 498 {
		t.Errorf("unexpected counts: %v", result.Counts)
	}
}

// TestRunnerClientErrors tests error propagation from the runner
func TestRunnerClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend offline", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, _ := NewRunnerClient(&RunnerConfig{BaseURL: server.URL})

	if _, err := client.SubmitJob(&RunnerCircuit{QASM: "OPENQASM 3.0;"}); err == nil {
		t.Error("expected submission error, got nil")
	}
	if _, err := client.GetJobStatus("job-1"); err == nil {
		t.Error("expected status error, got nil")
	}
	if err := client.CancelJob("job-1"); err == nil {
		t.Error("expected cancel error, got nil")
	}
}
