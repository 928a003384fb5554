package prep

import (
	"github.com/quantalab/qprep/internal/prep/quantum"
)

// WState prepares the Hamming-weight-1 uniform superposition on N qubits:
// (|10...0⟩ + |010...0⟩ + ... + |0...01⟩)/√N.
//
// The construction is recursive. The head qubit takes amplitude √(1/N) on
// |1⟩ against √((N-1)/N) on |0⟩; gated on the head staying |0⟩, the same
// routine places the remaining single excitation uniformly across the other
// N-1 qubits. The recursion threads its control set through itself, so the
// controlled form is the same function with one more control.
func WState(b quantum.Backend, reg quantum.Register) error {
	if len(reg) == 0 {
		return ErrEmptyRegister
	}
	return wState(b, nil, reg)
}

func wState(b quantum.Backend, ctrls []quantum.Qubit, qs []quantum.Qubit) error {
	if len(qs) == 1 {
		if len(ctrls) == 0 {
			return b.Apply(quantum.X(), qs[0])
		}
		return b.ApplyControlled(quantum.X(), ctrls, qs[0])
	}

	// weight 1 on the head against N-1 spread over the remainder
	theta, err := SplitAngle(float64(len(qs)-1), 1)
	if err != nil {
		return err
	}
	rot := quantum.Ry(2 * theta)
	if len(ctrls) == 0 {
		err = b.Apply(rot, qs[0])
	} else {
		err = b.ApplyControlled(rot, ctrls, qs[0])
	}
	if err != nil {
		return err
	}

	// recurse on the remainder, gated on the head having stayed |0⟩
	flip := func() error { return b.Apply(quantum.X(), qs[0]) }
	return WithTransform(flip, flip, func() error {
		return wState(b, append(ctrls, qs[0]), qs[1:])
	})
}
