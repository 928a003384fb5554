package prep

import (
	"github.com/quantalab/qprep/internal/prep/quantum"
)

// WithAncilla acquires n fresh |0⟩ qubits, invokes body with them, and
// releases them on every exit path. Release frees the handles only: body must
// have already driven each ancilla back to a fixed, disentangled basis state,
// or the amplitudes remaining on the register are corrupted. The manager
// cannot check this -- disentanglement is a global-state property -- so the
// obligation sits with the synthesis algorithm and its property tests.
func WithAncilla(b quantum.Backend, n int, body func(anc []quantum.Qubit) error) (err error) {
	anc, err := b.Alloc(n)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := b.Release(anc...); rerr != nil && err == nil {
			err = rerr
		}
	}()

	err = body(anc)
	return err
}
