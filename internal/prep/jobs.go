package prep

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quantalab/qprep/internal/logger"
	models "github.com/quantalab/qprep/internal/models/prep"
	"github.com/quantalab/qprep/internal/prep/quantum"
)

const defaultJobTTL = 60 * time.Minute

// JobManager synthesizes circuits for preparation requests and tracks
// the resulting jobs. A runner client is optional; without one, jobs
// stop at the synthesized state.
type JobManager struct {
	jobs   map[uuid.UUID]*models.PrepJob
	runner *quantum.RunnerClient
	log    zerolog.Logger
	mu     sync.RWMutex
}

// NewJobManager creates a job manager. runner may be nil.
func NewJobManager(runner *quantum.RunnerClient) *JobManager {
	return &JobManager{
		jobs:   make(map[uuid.UUID]*models.PrepJob),
		runner: runner,
		log:    logger.Logger().With().Str("component", "jobs").Logger(),
	}
}

// CreateJob validates the request, synthesizes the circuit and stores
// the job. When a runner is configured and shots > 0 the circuit is
// also submitted for execution.
func (m *JobManager) CreateJob(req *models.PrepRequest) (*models.PrepJob, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	circuit, err := synthesize(req)
	if err != nil {
		return nil, err
	}

	ttl := defaultJobTTL
	if req.TTLMinutes > 0 {
		ttl = time.Duration(req.TTLMinutes) * time.Minute
	}

	job := &models.PrepJob{
		JobID:       uuid.New(),
		Kind:        req.Kind,
		NumQubits:   req.NumQubits,
		Status:      models.StatusSynthesized,
		QASM:        circuit.QASM(),
		GateCount:   circuit.GateCount(),
		Fingerprint: circuit.Fingerprint(),
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(ttl),
	}

	m.log.Info().
		Str("job_id", job.JobID.String()).
		Str("kind", string(job.Kind)).
		Int("num_qubits", job.NumQubits).
		Int("gate_count", job.GateCount).
		Msg("circuit synthesized")

	if m.runner != nil && req.Shots > 0 {
		rj, err := m.runner.SubmitJob(&quantum.RunnerCircuit{
			QASM:  job.QASM,
			Shots: req.Shots,
		})
		if err != nil {
			m.log.Warn().Err(err).
				Str("job_id", job.JobID.String()).
				Msg("runner submission failed")
			job.Status = models.StatusFailed
		} else {
			job.RunnerJobID = rj.ID
			job.Status = models.StatusSubmitted
		}
	}

	m.mu.Lock()
	m.jobs[job.JobID] = job
	m.mu.Unlock()

	return job, nil
}

// GetJob returns the job with the given ID. When the job was submitted
// to a runner, its status and counts are refreshed first.
func (m *JobManager) GetJob(jobID uuid.UUID) (*models.PrepJob, error) {
	m.mu.RLock()
	job, ok := m.jobs[jobID]
	m.mu.RUnlock()
	if !ok {
		return nil, models.ErrJobNotFound
	}

	if job.IsExpired() && job.Status == models.StatusSynthesized {
		m.mu.Lock()
		job.Status = models.StatusExpired
		m.mu.Unlock()
	}

	if job.Status == models.StatusSubmitted && m.runner != nil {
		m.refresh(job)
	}
	return job, nil
}

// CancelJob aborts a submitted job on the runner, or discards a
// synthesized one.
func (m *JobManager) CancelJob(jobID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return models.ErrJobNotFound
	}
	switch job.Status {
	case models.StatusSynthesized:
	case models.StatusSubmitted:
		if m.runner != nil {
			if err := m.runner.CancelJob(job.RunnerJobID); err != nil {
				return fmt.Errorf("failed to cancel runner job: %w", err)
			}
		}
	default:
		return models.ErrJobNotCancellable
	}
	job.Status = models.StatusCancelled
	return nil
}

// CleanupExpiredJobs removes jobs past their TTL and returns how many
// were dropped.
func (m *JobManager) CleanupExpiredJobs() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, job := range m.jobs {
		if job.IsExpired() {
			delete(m.jobs, id)
			removed++
		}
	}
	if removed > 0 {
		m.log.Info().Int("removed", removed).Msg("expired jobs cleaned up")
	}
	return removed
}

// JobCount returns the number of tracked jobs.
func (m *JobManager) JobCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}

func (m *JobManager) refresh(job *models.PrepJob) {
	rj, err := m.runner.GetJobStatus(job.RunnerJobID)
	if err != nil {
		m.log.Warn().Err(err).
			Str("job_id", job.JobID.String()).
			Msg("runner status check failed")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	switch rj.Status {
	case quantum.JobStatusCompleted:
		job.Status = models.StatusCompleted
	case quantum.JobStatusFailed:
		job.Status = models.StatusFailed
	case quantum.JobStatusCancelled:
		job.Status = models.StatusCancelled
	default:
		return
	}

	if job.Status == models.StatusCompleted {
		result, err := m.runner.GetJobResult(job.RunnerJobID)
		if err != nil {
			m.log.Warn().Err(err).
				Str("job_id", job.JobID.String()).
				Msg("runner result fetch failed")
			return
		}
		job.Counts = result.Counts
	}
}

// synthesize records the circuit for a validated request.
func synthesize(req *models.PrepRequest) (*quantum.Circuit, error) {
	circuit, reg, err := quantum.NewCircuit(req.NumQubits)
	if err != nil {
		return nil, err
	}

	switch req.Kind {
	case models.KindEqual:
		err = EqualSuperposition(circuit, reg)
	case models.KindParity:
		err = ParitySuperposition(circuit, reg, req.IsEven)
	case models.KindZeroAndBits:
		var bits []bool
		bits, err = quantum.ParseBits(req.Bitstrings[0])
		if err == nil {
			err = ZeroAndBitstring(circuit, reg, bits)
		}
	case models.KindBitstrings:
		bitstrings := make([][]bool, len(req.Bitstrings))
		for i, s := range req.Bitstrings {
			bitstrings[i], err = quantum.ParseBits(s)
			if err != nil {
				return nil, err
			}
		}
		err = BitstringSuperposition(circuit, reg, bitstrings)
	case models.KindWState:
		err = WState(circuit, reg)
	case models.KindUnequal:
		err = UnequalSuperposition(circuit, reg[0], req.Alpha)
	case models.KindThreeStates:
		err = ThreeStates(circuit, reg)
	case models.KindHardy:
		err = HardyState(circuit, reg)
	default:
		return nil, models.ErrUnknownKind
	}
	if err != nil {
		return nil, err
	}
	return circuit, nil
}
