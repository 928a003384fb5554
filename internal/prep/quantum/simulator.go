package quantum

import (
	"errors"
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
)

var (
	ErrUnknownQubit   = errors.New("qubit is not allocated on this backend")
	ErrDuplicateQubit = errors.New("duplicate qubit among gate operands")
)

// MaxSimulatedQubits bounds the statevector size (2^n complex amplitudes)
const MaxSimulatedQubits = 26

// Simulator is a full statevector simulator implementing Backend. Amplitude
// indices carry one bit per live qubit; allocation appends a |0⟩ axis and
// release projects its axis away. Releasing a qubit that is still entangled
// with the rest of the register silently skews the surviving amplitudes --
// this is the corruption mode synthesis algorithms must avoid, and it is
// what the property tests probe for.
type Simulator struct {
	amps  []complex128
	pos   map[int]int // wire id -> bit position in the amplitude index
	wires []int       // bit position -> wire id
	live  *bitset.BitSet
	next  int
}

// NewSimulator creates an empty simulator with no qubits allocated
func NewSimulator() *Simulator {
	return &Simulator{
		amps: []complex128{1},
		pos:  make(map[int]int),
		live: bitset.New(64),
	}
}

// Alloc acquires n fresh qubits in |0⟩
func (s *Simulator) Alloc(n int) ([]Qubit, error) {
	if n <= 0 {
		return nil, fmt.Errorf("qubit count must be positive, got %d", n)
	}
	if len(s.wires)+n > MaxSimulatedQubits {
		return nil, fmt.Errorf("allocation of %d qubits exceeds simulator capacity of %d", n, MaxSimulatedQubits)
	}

	qs := make([]Qubit, n)
	for i := 0; i < n; i++ {
		wire := s.next
		s.next++
		s.pos[wire] = len(s.wires)
		s.wires = append(s.wires, wire)
		s.live.Set(uint(wire))
		qs[i] = Qubit{wire: wire}
	}

	// new axes are the high bits and start in |0⟩, so existing basis
	// states keep their indices
	ext := make([]complex128, 1<<len(s.wires))
	copy(ext, s.amps)
	s.amps = ext

	return qs, nil
}

// Release frees qubit handles and drops their axes from the statevector
func (s *Simulator) Release(qs ...Qubit) error {
	for _, q := range qs {
		if err := s.release(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) release(q Qubit) error {
	if !s.live.Test(uint(q.wire)) {
		return ErrUnknownQubit
	}
	p := s.pos[q.wire]
	bit := 1 << p

	var norm float64
	for i, a := range s.amps {
		if i&bit == 0 {
			norm += real(a)*real(a) + imag(a)*imag(a)
		}
	}
	if norm == 0 {
		// the vector cannot be contracted onto a nonexistent |0⟩ slice
		return fmt.Errorf("released %v carries no |0⟩ amplitude", q)
	}

	scale := complex(1/math.Sqrt(norm), 0)
	low := bit - 1
	contracted := make([]complex128, len(s.amps)/2)
	for i, a := range s.amps {
		if i&bit != 0 {
			continue
		}
		j := (i & low) | ((i >> 1) &^ low)
		contracted[j] = a * scale
	}
	s.amps = contracted

	s.live.Clear(uint(q.wire))
	delete(s.pos, q.wire)
	s.wires = append(s.wires[:p], s.wires[p+1:]...)
	for _, w := range s.wires[p:] {
		s.pos[w]--
	}

	return nil
}

// Apply applies a single-qubit gate
func (s *Simulator) Apply(g Gate, target Qubit) error {
	return s.apply(g, nil, target)
}

// ApplyControlled applies g to target iff all control qubits are |1⟩
func (s *Simulator) ApplyControlled(g Gate, controls []Qubit, target Qubit) error {
	return s.apply(g, controls, target)
}

func (s *Simulator) apply(g Gate, controls []Qubit, target Qubit) error {
	if !s.live.Test(uint(target.wire)) {
		return ErrUnknownQubit
	}
	tbit := 1 << s.pos[target.wire]

	mask := 0
	for _, c := range controls {
		if !s.live.Test(uint(c.wire)) {
			return ErrUnknownQubit
		}
		cbit := 1 << s.pos[c.wire]
		if cbit == tbit || mask&cbit != 0 {
			return ErrDuplicateQubit
		}
		mask |= cbit
	}

	switch g.Kind {
	case KindX:
		for i := range s.amps {
			if i&mask == mask && i&tbit == 0 {
				j := i | tbit
				s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
			}
		}
	case KindH:
		f := complex(1/math.Sqrt2, 0)
		for i := range s.amps {
			if i&mask == mask && i&tbit == 0 {
				j := i | tbit
				a0, a1 := s.amps[i], s.amps[j]
				s.amps[i], s.amps[j] = f*(a0+a1), f*(a0-a1)
			}
		}
	case KindS, KindSDg:
		f := complex(0, 1)
		if g.Kind == KindSDg {
			f = complex(0, -1)
		}
		for i := range s.amps {
			if i&mask == mask && i&tbit != 0 {
				s.amps[i] *= f
			}
		}
	case KindRy:
		c := complex(math.Cos(g.Theta/2), 0)
		sn := complex(math.Sin(g.Theta/2), 0)
		for i := range s.amps {
			if i&mask == mask && i&tbit == 0 {
				j := i | tbit
				a0, a1 := s.amps[i], s.amps[j]
				s.amps[i], s.amps[j] = c*a0-sn*a1, sn*a0+c*a1
			}
		}
	default:
		return fmt.Errorf("unsupported gate %v", g)
	}

	return nil
}

// NumQubits returns the count of live qubits
func (s *Simulator) NumQubits() int {
	return len(s.wires)
}

// Amplitude returns the amplitude of one full basis state. qs must cover
// every live qubit exactly once; bits[i] gives the classical value of qs[i].
func (s *Simulator) Amplitude(qs []Qubit, bits []bool) (complex128, error) {
	if len(qs) != len(bits) {
		return 0, fmt.Errorf("got %d qubits but %d bits", len(qs), len(bits))
	}
	if len(qs) != len(s.wires) {
		return 0, fmt.Errorf("basis state must cover all %d live qubits, got %d", len(s.wires), len(qs))
	}

	idx, seen := 0, 0
	for i, q := range qs {
		if !s.live.Test(uint(q.wire)) {
			return 0, ErrUnknownQubit
		}
		bit := 1 << s.pos[q.wire]
		if seen&bit != 0 {
			return 0, ErrDuplicateQubit
		}
		seen |= bit
		if bits[i] {
			idx |= bit
		}
	}

	return s.amps[idx], nil
}

// ProbabilityOfOne returns the probability of measuring q as 1, without
// collapsing anything. Test scaffolding only; synthesis code never reads it.
func (s *Simulator) ProbabilityOfOne(q Qubit) (float64, error) {
	if !s.live.Test(uint(q.wire)) {
		return 0, ErrUnknownQubit
	}
	bit := 1 << s.pos[q.wire]

	var prob float64
	for i, a := range s.amps {
		if i&bit != 0 {
			prob += real(a)*real(a) + imag(a)*imag(a)
		}
	}
	return prob, nil
}

// Norm returns the total probability mass of the statevector
func (s *Simulator) Norm() float64 {
	var norm float64
	for _, a := range s.amps {
		norm += real(a)*real(a) + imag(a)*imag(a)
	}
	return norm
}
