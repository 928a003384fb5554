package prep

import (
	"math/bits"

	"github.com/quantalab/qprep/internal/prep/quantum"
)

// EqualSuperposition drives an all-zero register into the uniform
// superposition over all 2^N basis states: one Hadamard per qubit, since
// tensor products of (|0⟩+|1⟩)/√2 cover every bitstring with equal weight.
func EqualSuperposition(b quantum.Backend, reg quantum.Register) error {
	if len(reg) == 0 {
		return ErrEmptyRegister
	}
	for _, q := range reg {
		if err := b.Apply(quantum.H(), q); err != nil {
			return err
		}
	}
	return nil
}

// ParitySuperposition prepares the uniform superposition over all even
// (or all odd) N-bit integers. Under the big-endian convention parity lives
// entirely in the last qubit: the leading N-1 qubits are free, the last is
// pinned to 0 for even and flipped to 1 for odd.
func ParitySuperposition(b quantum.Backend, reg quantum.Register, even bool) error {
	if len(reg) == 0 {
		return ErrEmptyRegister
	}
	for _, q := range reg[:len(reg)-1] {
		if err := b.Apply(quantum.H(), q); err != nil {
			return err
		}
	}
	if !even {
		return b.Apply(quantum.X(), reg[len(reg)-1])
	}
	return nil
}

// ZeroAndBitstring prepares (|0...0⟩ + |bits⟩)/√2 for a nonzero bitstring
// whose first bit is set. A Hadamard on the first qubit forks the two
// branches; every further 1-bit of the pattern is copied into place by a
// bit-flip controlled on that qubit, so exactly two basis states survive.
func ZeroAndBitstring(b quantum.Backend, reg quantum.Register, bitstring []bool) error {
	if len(reg) == 0 {
		return ErrEmptyRegister
	}
	if len(bitstring) != len(reg) {
		return ErrLengthMismatch
	}
	if !bitstring[0] {
		return ErrLeadingBitUnset
	}

	if err := b.Apply(quantum.H(), reg[0]); err != nil {
		return err
	}
	for i := 1; i < len(reg); i++ {
		if !bitstring[i] {
			continue
		}
		if err := b.ApplyControlled(quantum.X(), []quantum.Qubit{reg[0]}, reg[i]); err != nil {
			return err
		}
	}
	return nil
}

// TwoBitstrings prepares (|bitsA⟩ + |bitsB⟩)/√2 for two distinct bitstrings
// of the register's length, using one ancilla qubit as the branch selector.
func TwoBitstrings(b quantum.Backend, reg quantum.Register, bitsA, bitsB []bool) error {
	return BitstringSuperposition(b, reg, [][]bool{bitsA, bitsB})
}

// FourBitstrings prepares the uniform superposition of four distinct
// bitstrings using two ancilla qubits as a 2-bit selector.
func FourBitstrings(b quantum.Backend, reg quantum.Register, bitstrings [][]bool) error {
	if len(bitstrings) != 4 {
		return ErrBitstringCount
	}
	return BitstringSuperposition(b, reg, bitstrings)
}

// BitstringSuperposition prepares the uniform superposition of 2^k pairwise
// distinct bitstrings using k ancilla qubits.
//
// The ancillas are put into a uniform k-bit selector; for each register
// position, the bits of the selected pattern are written by bit-flips
// dispatched on the selector value. The selector is then uncomputed: because
// the patterns are distinct, the register contents uniquely identify which
// branch was taken, so flipping each set ancilla bit of selector s under
// "register equals pattern s" drives every ancilla back to |0⟩ and leaves
// nothing entangled at release time.
func BitstringSuperposition(b quantum.Backend, reg quantum.Register, bitstrings [][]bool) error {
	if len(reg) == 0 {
		return ErrEmptyRegister
	}
	m := len(bitstrings)
	if m < 2 || m&(m-1) != 0 {
		return ErrBitstringCount
	}
	k := bits.Len(uint(m)) - 1

	seen := make(map[uint64]bool, m)
	for _, bs := range bitstrings {
		if len(bs) != len(reg) {
			return ErrLengthMismatch
		}
		idx := quantum.BitsToIndex(bs)
		if seen[idx] {
			return ErrDuplicateBitstring
		}
		seen[idx] = true
	}

	return WithAncilla(b, k, func(anc []quantum.Qubit) error {
		for _, a := range anc {
			if err := b.Apply(quantum.H(), a); err != nil {
				return err
			}
		}

		// write each pattern under its selector value
		for i := range reg {
			for s := 0; s < m; s++ {
				if !bitstrings[s][i] {
					continue
				}
				if err := ControlledOnInt(b, uint64(s), quantum.X(), anc, reg[i]); err != nil {
					return err
				}
			}
		}

		// uncompute the selector: selector 0 is already all-zero
		for s := 1; s < m; s++ {
			for j := 0; j < k; j++ {
				if s&(1<<uint(k-1-j)) == 0 {
					continue
				}
				if err := ControlledOnBits(b, bitstrings[s], quantum.X(), reg, anc[j]); err != nil {
					return err
				}
			}
		}

		return nil
	})
}
