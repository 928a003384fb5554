// Package prep defines the API data model for state preparation jobs.
package prep

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// TargetKind names the family of states a job can prepare.
type TargetKind string

const (
	// KindEqual prepares an equal superposition over all basis states.
	KindEqual TargetKind = "equal"

	// KindParity prepares an equal superposition over one parity class.
	KindParity TargetKind = "parity"

	// KindZeroAndBits prepares (|0...0> + |bits>)/sqrt(2).
	KindZeroAndBits TargetKind = "zero_and_bits"

	// KindBitstrings prepares an equal superposition of the given
	// basis states. The number of bitstrings must be a power of two.
	KindBitstrings TargetKind = "bitstrings"

	// KindWState prepares the N-qubit W state.
	KindWState TargetKind = "wstate"

	// KindUnequal prepares cos(a)|0> + sin(a)|1> on a single qubit.
	KindUnequal TargetKind = "unequal"

	// KindThreeStates prepares the uniform three-state superposition
	// over |00>, |01> and |10>.
	KindThreeStates TargetKind = "three_states"

	// KindHardy prepares the Hardy state on two qubits.
	KindHardy TargetKind = "hardy"
)

// JobStatus tracks a preparation job through its lifecycle.
type JobStatus string

const (
	StatusSynthesized JobStatus = "synthesized"
	StatusSubmitted   JobStatus = "submitted"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
	StatusCancelled   JobStatus = "cancelled"
	StatusExpired     JobStatus = "expired"
)

// JobError represents an error validating or processing a job request.
type JobError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *JobError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common job errors.
var (
	ErrUnknownKind = &JobError{
		Code:    "UNKNOWN_KIND",
		Message: "unknown target kind",
	}
	ErrInvalidQubits = &JobError{
		Code:    "INVALID_QUBITS",
		Message: "num_qubits must be between 1 and 26",
	}
	ErrMissingBitstrings = &JobError{
		Code:    "MISSING_BITSTRINGS",
		Message: "bitstrings are required for this kind",
	}
	ErrInvalidAlpha = &JobError{
		Code:    "INVALID_ALPHA",
		Message: "alpha must be a finite angle",
	}
	ErrJobNotFound = &JobError{
		Code:    "JOB_NOT_FOUND",
		Message: "no job with that ID",
	}
	ErrJobNotCancellable = &JobError{
		Code:    "JOB_NOT_CANCELLABLE",
		Message: "job is not in a cancellable state",
	}
)

// PrepRequest is the payload for creating a state preparation job.
type PrepRequest struct {
	Kind       TargetKind `json:"kind"`
	NumQubits  int        `json:"num_qubits"`
	Bitstrings []string   `json:"bitstrings,omitempty"`
	IsEven     bool       `json:"is_even,omitempty"`
	Alpha      float64    `json:"alpha,omitempty"`
	Shots      int        `json:"shots,omitempty"`
	TTLMinutes int        `json:"ttl_minutes,omitempty"`
}

// Validate checks structural constraints on the request. Constraints
// specific to a kind (pattern widths, leading bits) are enforced by
// the synthesis routines themselves.
func (r *PrepRequest) Validate() error {
	switch r.Kind {
	case KindEqual, KindParity, KindWState:
		if r.NumQubits < 1 || r.NumQubits > 26 {
			return ErrInvalidQubits
		}
	case KindZeroAndBits, KindBitstrings:
		if len(r.Bitstrings) == 0 {
			return ErrMissingBitstrings
		}
		if r.NumQubits < 1 || r.NumQubits > 26 {
			return ErrInvalidQubits
		}
	case KindUnequal:
		if r.NumQubits != 1 {
			return ErrInvalidQubits
		}
		if math.IsNaN(r.Alpha) || math.IsInf(r.Alpha, 0) {
			return ErrInvalidAlpha
		}
	case KindThreeStates, KindHardy:
		if r.NumQubits != 2 {
			return ErrInvalidQubits
		}
	default:
		return ErrUnknownKind
	}

	if r.Shots < 0 || r.Shots > 100000 {
		return &JobError{
			Code:    "INVALID_SHOTS",
			Message: "shots must be between 0 and 100000",
		}
	}
	return nil
}

// PrepJob is a synthesized circuit tracked by the job manager.
type PrepJob struct {
	JobID       uuid.UUID      `json:"job_id"`
	Kind        TargetKind     `json:"kind"`
	NumQubits   int            `json:"num_qubits"`
	Status      JobStatus      `json:"status"`
	QASM        string         `json:"qasm"`
	GateCount   int            `json:"gate_count"`
	Fingerprint string         `json:"fingerprint"`
	RunnerJobID string         `json:"runner_job_id,omitempty"`
	Counts      map[string]int `json:"counts,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	ExpiresAt   time.Time      `json:"expires_at"`
}

// IsExpired reports whether the job passed its TTL.
func (j *PrepJob) IsExpired() bool {
	return time.Now().After(j.ExpiresAt)
}

// JobResponse is the public view of a job returned by the API.
type JobResponse struct {
	JobID       string         `json:"job_id"`
	Kind        TargetKind     `json:"kind"`
	NumQubits   int            `json:"num_qubits"`
	Status      JobStatus      `json:"status"`
	QASM        string         `json:"qasm"`
	GateCount   int            `json:"gate_count"`
	Fingerprint string         `json:"fingerprint"`
	RunnerJobID string         `json:"runner_job_id,omitempty"`
	Counts      map[string]int `json:"counts,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	ExpiresAt   time.Time      `json:"expires_at"`
}

// ToResponse converts a job to its API representation.
func (j *PrepJob) ToResponse() *JobResponse {
	return &JobResponse{
		JobID:       j.JobID.String(),
		Kind:        j.Kind,
		NumQubits:   j.NumQubits,
		Status:      j.Status,
		QASM:        j.QASM,
		GateCount:   j.GateCount,
		Fingerprint: j.Fingerprint,
		RunnerJobID: j.RunnerJobID,
		Counts:      j.Counts,
		CreatedAt:   j.CreatedAt,
		ExpiresAt:   j.ExpiresAt,
	}
}
