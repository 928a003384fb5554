package prep

import (
	"github.com/quantalab/qprep/internal/prep/quantum"
)

// UnequalSuperposition drives a single |0⟩ qubit to
// cos(alpha)|0⟩ + sin(alpha)|1⟩ for an arbitrary real alpha.
func UnequalSuperposition(b quantum.Backend, q quantum.Qubit, alpha float64) error {
	return b.Apply(quantum.Ry(2*alpha), q)
}

// ThreeStates prepares (|00⟩ + |01⟩ + |10⟩)/√3 on a two-qubit register.
// The first qubit takes weight 1 on |1⟩ against weight 2 on |0⟩; the |0⟩
// branch is then split evenly across the second qubit by a Hadamard
// dispatched on "first qubit equals 0". Branch products: √(2/3)·(1/√2) and
// √(1/3) both come out at 1/√3 exactly.
func ThreeStates(b quantum.Backend, reg quantum.Register) error {
	if len(reg) != 2 {
		return ErrRegisterSize
	}

	theta, err := SplitAngle(2, 1)
	if err != nil {
		return err
	}
	if err := b.Apply(quantum.Ry(2*theta), reg[0]); err != nil {
		return err
	}

	return ControlledOnInt(b, 0, quantum.H(), []quantum.Qubit{reg[0]}, reg[1])
}

// HardyState prepares (3|00⟩ + |01⟩ + |10⟩ + |11⟩)/√12 on a two-qubit
// register. The first qubit splits 10:2; its |0⟩ branch splits 9:1 and its
// |1⟩ branch splits evenly. Multiplying through: √(10/12)·(3/√10) = 3/√12,
// √(10/12)·(1/√10) = 1/√12, √(2/12)·(1/√2) = 1/√12.
func HardyState(b quantum.Backend, reg quantum.Register) error {
	if len(reg) != 2 {
		return ErrRegisterSize
	}

	theta, err := SplitAngle(10, 2)
	if err != nil {
		return err
	}
	if err := b.Apply(quantum.Ry(2*theta), reg[0]); err != nil {
		return err
	}

	zeroBranch, err := SplitAngle(9, 1)
	if err != nil {
		return err
	}
	if err := ControlledOnInt(b, 0, quantum.Ry(2*zeroBranch), []quantum.Qubit{reg[0]}, reg[1]); err != nil {
		return err
	}

	return b.ApplyControlled(quantum.H(), []quantum.Qubit{reg[0]}, reg[1])
}
