package quantum

// Backend is the primitive gate layer: a write-only actuator that applies
// unitary gates to qubits it owns. No backend reports intermediate state back
// to the caller; correctness of a gate sequence is a property of the emitted
// operations, not of anything readable here.
type Backend interface {
	// Alloc acquires n fresh qubits, each guaranteed to start in |0⟩
	Alloc(n int) ([]Qubit, error)

	// Release frees qubit handles. It performs no gate operations and no
	// validation: driving a qubit back to a disentangled |0⟩ before release
	// is the caller's obligation.
	Release(qs ...Qubit) error

	// Apply applies a single-qubit gate in place
	Apply(g Gate, target Qubit) error

	// ApplyControlled applies g to target iff every control qubit is |1⟩
	ApplyControlled(g Gate, controls []Qubit, target Qubit) error
}
