package quantum

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/crypto/sha3"
)

// OpKind distinguishes recorded circuit operations
type OpKind int

const (
	// OpGate is one (possibly controlled) gate application
	OpGate OpKind = iota
	// OpAlloc marks acquisition of fresh |0⟩ wires mid-circuit
	OpAlloc
	// OpRelease marks wires handed back to the backend
	OpRelease
)

// Operation is one recorded circuit step
type Operation struct {
	Kind     OpKind
	Gate     Gate
	Controls []int
	Target   int
	Wires    []int // alloc/release wire ids
}

// Circuit records gate operations instead of executing them. It implements
// Backend, so any synthesis routine can run against it unchanged; the
// recording can then be rendered to OpenQASM, fingerprinted, replayed onto
// another backend, or inverted (reverse order, adjoint gates, alloc and
// release swapped) to obtain the mechanical adjoint of the whole routine.
type Circuit struct {
	numWires int
	initial  int
	ops      []Operation
	live     *bitset.BitSet
}

// NewCircuit creates a recorder with an n-qubit register pre-bound to wires
// 0..n-1. The register is implicit: it is not part of the recording and is
// supplied again at replay time.
func NewCircuit(n int) (*Circuit, Register, error) {
	if n < 1 {
		return nil, nil, fmt.Errorf("register size must be positive, got %d", n)
	}
	c := &Circuit{
		numWires: n,
		initial:  n,
		live:     bitset.New(uint(n)),
	}
	reg := make(Register, n)
	for i := range reg {
		reg[i] = Qubit{wire: i}
		c.live.Set(uint(i))
	}
	return c, reg, nil
}

// Alloc acquires fresh recorder wires for ancilla use
func (c *Circuit) Alloc(n int) ([]Qubit, error) {
	if n <= 0 {
		return nil, fmt.Errorf("qubit count must be positive, got %d", n)
	}
	qs := make([]Qubit, n)
	wires := make([]int, n)
	for i := 0; i < n; i++ {
		w := c.numWires
		c.numWires++
		c.live.Set(uint(w))
		qs[i] = Qubit{wire: w}
		wires[i] = w
	}
	c.ops = append(c.ops, Operation{Kind: OpAlloc, Wires: wires})
	return qs, nil
}

// Release records wires handed back; no gates are emitted
func (c *Circuit) Release(qs ...Qubit) error {
	wires := make([]int, len(qs))
	for i, q := range qs {
		if !c.live.Test(uint(q.wire)) {
			return ErrUnknownQubit
		}
		c.live.Clear(uint(q.wire))
		wires[i] = q.wire
	}
	c.ops = append(c.ops, Operation{Kind: OpRelease, Wires: wires})
	return nil
}

// Apply records a single-qubit gate
func (c *Circuit) Apply(g Gate, target Qubit) error {
	return c.record(g, nil, target)
}

// ApplyControlled records a multi-controlled gate
func (c *Circuit) ApplyControlled(g Gate, controls []Qubit, target Qubit) error {
	return c.record(g, controls, target)
}

func (c *Circuit) record(g Gate, controls []Qubit, target Qubit) error {
	if !c.live.Test(uint(target.wire)) {
		return ErrUnknownQubit
	}
	seen := bitset.New(uint(c.numWires))
	seen.Set(uint(target.wire))
	ctrls := make([]int, len(controls))
	for i, q := range controls {
		if !c.live.Test(uint(q.wire)) {
			return ErrUnknownQubit
		}
		if seen.Test(uint(q.wire)) {
			return ErrDuplicateQubit
		}
		seen.Set(uint(q.wire))
		ctrls[i] = q.wire
	}
	if len(ctrls) == 0 {
		ctrls = nil
	}
	c.ops = append(c.ops, Operation{Kind: OpGate, Gate: g, Controls: ctrls, Target: target.wire})
	return nil
}

// Operations returns a copy of the recorded steps
func (c *Circuit) Operations() []Operation {
	ops := make([]Operation, len(c.ops))
	copy(ops, c.ops)
	return ops
}

// GateCount returns the number of recorded gate applications
func (c *Circuit) GateCount() int {
	count := 0
	for _, op := range c.ops {
		if op.Kind == OpGate {
			count++
		}
	}
	return count
}

// NumWires returns the total number of wires the circuit touches, register
// and ancillas included
func (c *Circuit) NumWires() int {
	return c.numWires
}

// Inverse returns the adjoint circuit: operations reversed, every gate
// replaced by its adjoint, allocations and releases swapped. Replaying the
// inverse immediately after the forward circuit returns the register to its
// starting state.
func (c *Circuit) Inverse() *Circuit {
	inv := &Circuit{
		numWires: c.numWires,
		initial:  c.initial,
		ops:      make([]Operation, 0, len(c.ops)),
		live:     bitset.New(uint(c.initial)),
	}
	for i := 0; i < c.initial; i++ {
		inv.live.Set(uint(i))
	}
	for i := len(c.ops) - 1; i >= 0; i-- {
		op := c.ops[i]
		switch op.Kind {
		case OpGate:
			op.Gate = op.Gate.Adjoint()
		case OpAlloc:
			op.Kind = OpRelease
		case OpRelease:
			op.Kind = OpAlloc
		}
		inv.ops = append(inv.ops, op)
	}
	return inv
}

// Replay executes the recording against another backend, binding the
// circuit's register wires to reg in order. Ancilla wires are acquired from
// and released to the target backend as the recording dictates.
func (c *Circuit) Replay(b Backend, reg Register) error {
	if len(reg) != c.initial {
		return fmt.Errorf("circuit binds %d register qubits, got %d", c.initial, len(reg))
	}
	bound := make(map[int]Qubit, c.numWires)
	for i, q := range reg {
		bound[i] = q
	}

	for _, op := range c.ops {
		switch op.Kind {
		case OpAlloc:
			qs, err := b.Alloc(len(op.Wires))
			if err != nil {
				return err
			}
			for i, w := range op.Wires {
				bound[w] = qs[i]
			}
		case OpRelease:
			qs := make([]Qubit, len(op.Wires))
			for i, w := range op.Wires {
				qs[i] = bound[w]
			}
			if err := b.Release(qs...); err != nil {
				return err
			}
		case OpGate:
			target, ok := bound[op.Target]
			if !ok {
				return ErrUnknownQubit
			}
			if len(op.Controls) == 0 {
				if err := b.Apply(op.Gate, target); err != nil {
					return err
				}
				continue
			}
			ctrls := make([]Qubit, len(op.Controls))
			for i, w := range op.Controls {
				q, ok := bound[w]
				if !ok {
					return ErrUnknownQubit
				}
				ctrls[i] = q
			}
			if err := b.ApplyControlled(op.Gate, ctrls, target); err != nil {
				return err
			}
		}
	}
	return nil
}

// QASM renders the recording as an OpenQASM 3.0 program. Multi-controlled
// gates use ctrl modifiers; alloc and release steps emit nothing, since the
// wires are already declared in the qubit register.
func (c *Circuit) QASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 3.0;\n")
	sb.WriteString("include \"stdgates.inc\";\n\n")
	fmt.Fprintf(&sb, "qubit[%d] q;\n\n", c.numWires)

	for _, op := range c.ops {
		if op.Kind != OpGate {
			continue
		}
		if len(op.Controls) > 0 {
			fmt.Fprintf(&sb, "ctrl(%d) @ ", len(op.Controls))
		}
		if op.Gate.Kind == KindRy {
			fmt.Fprintf(&sb, "ry(%.12g)", op.Gate.Theta)
		} else {
			sb.WriteString(op.Gate.Name())
		}
		sb.WriteString(" ")
		for _, w := range op.Controls {
			fmt.Fprintf(&sb, "q[%d], ", w)
		}
		fmt.Fprintf(&sb, "q[%d];\n", op.Target)
	}

	return sb.String()
}

// Fingerprint returns a hex SHA3-256 digest identifying the circuit up to
// exact gate sequence, rotation parameters, and wiring
func (c *Circuit) Fingerprint() string {
	h := sha3.New256()
	var buf [8]byte
	writeUint := func(v uint64) {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	writeUint(uint64(c.numWires))
	writeUint(uint64(c.initial))
	for _, op := range c.ops {
		writeUint(uint64(op.Kind))
		writeUint(uint64(op.Gate.Kind))
		writeUint(math.Float64bits(op.Gate.Theta))
		writeUint(uint64(len(op.Controls)))
		for _, w := range op.Controls {
			writeUint(uint64(w))
		}
		writeUint(uint64(op.Target))
		writeUint(uint64(len(op.Wires)))
		for _, w := range op.Wires {
			writeUint(uint64(w))
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}
