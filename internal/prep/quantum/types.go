package quantum

import (
	"fmt"
)

// GateKind identifies a primitive gate from the fixed gate set
type GateKind int

const (
	// KindX is the bit-flip gate: |0⟩↔|1⟩
	KindX GateKind = iota
	// KindH is the Hadamard gate: |0⟩→(|0⟩+|1⟩)/√2, |1⟩→(|0⟩−|1⟩)/√2
	KindH
	// KindS is the phase-90 gate: multiplies the |1⟩ amplitude by i
	KindS
	// KindSDg is the adjoint of KindS
	KindSDg
	// KindRy is the Y-rotation: |0⟩→cos(θ/2)|0⟩+sin(θ/2)|1⟩
	KindRy
)

// Gate is one primitive gate operation, possibly parametrized
type Gate struct {
	Kind  GateKind
	Theta float64
}

// X returns the bit-flip gate
func X() Gate { return Gate{Kind: KindX} }

// H returns the Hadamard gate
func H() Gate { return Gate{Kind: KindH} }

// S returns the phase-90 gate
func S() Gate { return Gate{Kind: KindS} }

// SDg returns the adjoint phase-90 gate
func SDg() Gate { return Gate{Kind: KindSDg} }

// Ry returns the Y-rotation gate with angle theta.
// Ry(2θ) maps |0⟩ to cos(θ)|0⟩ + sin(θ)|1⟩.
func Ry(theta float64) Gate { return Gate{Kind: KindRy, Theta: theta} }

// Adjoint returns the inverse gate: X and H are self-inverse,
// S↔S†, and rotations negate their angle.
func (g Gate) Adjoint() Gate {
	switch g.Kind {
	case KindS:
		return Gate{Kind: KindSDg}
	case KindSDg:
		return Gate{Kind: KindS}
	case KindRy:
		return Gate{Kind: KindRy, Theta: -g.Theta}
	default:
		return g
	}
}

// Name returns the lowercase OpenQASM name of the gate
func (g Gate) Name() string {
	switch g.Kind {
	case KindX:
		return "x"
	case KindH:
		return "h"
	case KindS:
		return "s"
	case KindSDg:
		return "sdg"
	case KindRy:
		return "ry"
	default:
		return "unknown"
	}
}

func (g Gate) String() string {
	if g.Kind == KindRy {
		return fmt.Sprintf("ry(%g)", g.Theta)
	}
	return g.Name()
}

// Qubit is an opaque handle to one two-level quantum system. Its state is
// never observable through the engine; it is mutated only by gate application.
type Qubit struct {
	wire int
}

// Wire returns the backend wire index the handle refers to
func (q Qubit) Wire() int { return q.wire }

func (q Qubit) String() string { return fmt.Sprintf("q[%d]", q.wire) }

// Register is an ordered sequence of qubits under the big-endian convention:
// index 0 holds the most significant classical bit.
type Register []Qubit

// BitsToIndex interprets a big-endian bit-string as an unsigned integer
func BitsToIndex(bits []bool) uint64 {
	var v uint64
	for _, bit := range bits {
		v <<= 1
		if bit {
			v |= 1
		}
	}
	return v
}

// IndexToBits expands an unsigned integer into a big-endian bit-string of
// length n. Bits above position n-1 are discarded.
func IndexToBits(v uint64, n int) []bool {
	bits := make([]bool, n)
	for i := n - 1; i >= 0; i-- {
		bits[i] = v&1 == 1
		v >>= 1
	}
	return bits
}

// ParseBits parses a bit-string such as "010" into its boolean form
func ParseBits(s string) ([]bool, error) {
	bits := make([]bool, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			bits[i] = true
		default:
			return nil, fmt.Errorf("invalid bit %q at position %d", s[i], i)
		}
	}
	return bits, nil
}

// FormatBits renders a boolean bit-string as "010"
func FormatBits(bits []bool) string {
	buf := make([]byte, len(bits))
	for i, bit := range bits {
		if bit {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}
