package prep

import (
	"github.com/quantalab/qprep/internal/prep/quantum"
)

// WithTransform applies encode, runs body, then applies decode on every exit
// path. It is the flip/apply/unflip workhorse behind pattern-controlled
// dispatch: encode maps the wanted control pattern onto all-ones, decode maps
// it back so the control qubits are left exactly as they were.
func WithTransform(encode, decode func() error, body func() error) error {
	if err := encode(); err != nil {
		return err
	}
	bodyErr := body()
	if err := decode(); err != nil && bodyErr == nil {
		return err
	}
	return bodyErr
}

// ControlledOnBits applies g to target iff the control qubits, compared
// bit-for-bit, equal pattern. Controls whose pattern bit is 0 are flipped
// before and after the all-ones controlled application.
func ControlledOnBits(b quantum.Backend, pattern []bool, g quantum.Gate, controls []quantum.Qubit, target quantum.Qubit) error {
	if len(pattern) != len(controls) {
		return ErrPatternWidth
	}

	flip := func() error {
		for i, bit := range pattern {
			if bit {
				continue
			}
			if err := b.Apply(quantum.X(), controls[i]); err != nil {
				return err
			}
		}
		return nil
	}

	return WithTransform(flip, flip, func() error {
		return b.ApplyControlled(g, controls, target)
	})
}

// ControlledOnInt applies g to target iff the control qubits, read as an
// unsigned big-endian integer, equal value.
func ControlledOnInt(b quantum.Backend, value uint64, g quantum.Gate, controls []quantum.Qubit, target quantum.Qubit) error {
	if len(controls) < 64 && value >= 1<<uint(len(controls)) {
		return ErrValueWidth
	}
	return ControlledOnBits(b, quantum.IndexToBits(value, len(controls)), g, controls, target)
}
