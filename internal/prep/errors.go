// Package prep implements the amplitude-encoding core: recursive synthesis of
// target superpositions into sequences of primitive gates emitted onto a
// quantum.Backend. Routines assume a register already in the all-zero basis
// state; precondition violations are reported before any gate is emitted.
package prep

// PreconditionError reports a malformed synthesis input. These are caller
// bugs: the register may be left partially transformed and must not be
// reused, and retrying cannot succeed.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// NumericError reports a degenerate angle computation. It is surfaced before
// any gate is emitted, so the register is untouched on this path.
type NumericError struct {
	Message string
}

func (e *NumericError) Error() string {
	return e.Message
}

var (
	ErrEmptyRegister      = &PreconditionError{"register must contain at least one qubit"}
	ErrLengthMismatch     = &PreconditionError{"bitstring length must match register size"}
	ErrLeadingBitUnset    = &PreconditionError{"bitstring must have its first bit set"}
	ErrDuplicateBitstring = &PreconditionError{"bitstrings must be pairwise distinct"}
	ErrBitstringCount     = &PreconditionError{"bitstring count must be a power of two and at least two"}
	ErrPatternWidth       = &PreconditionError{"bit pattern width must match control count"}
	ErrValueWidth         = &PreconditionError{"dispatch value does not fit in the control qubits"}
	ErrRegisterSize       = &PreconditionError{"register has the wrong size for this target"}

	ErrNegativeWeight = &NumericError{"branch weights must be non-negative"}
	ErrZeroWeights    = &NumericError{"branch weights must not both be zero"}
)
