package quantum

import (
	"math"
	"math/cmplx"
	"testing"
)

const tolerance = 1e-9

func approxEqual(a complex128, b complex128) bool {
	return cmplx.Abs(a-b) < tolerance
}

// TestSimulatorAlloc tests qubit allocation
func TestSimulatorAlloc(t *testing.T) {
	t.Run("Fresh qubits start in zero", func(t *testing.T) {
		sim := NewSimulator()
		qs, err := sim.Alloc(3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sim.NumQubits() != 3 {
			t.Errorf("expected 3 qubits, got %d", sim.NumQubits())
		}

		amp, err := sim.Amplitude(qs, []bool{false, false, false})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !approxEqual(amp, 1) {
			t.Errorf("expected amplitude 1 on |000⟩, got %v", amp)
		}
	})

	t.Run("Allocation preserves existing state", func(t *testing.T) {
		sim := NewSimulator()
		first, _ := sim.Alloc(1)
		if err := sim.Apply(X(), first[0]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		second, err := sim.Alloc(1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		amp, err := sim.Amplitude([]Qubit{first[0], second[0]}, []bool{true, false})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !approxEqual(amp, 1) {
			t.Errorf("expected amplitude 1 on |10⟩, got %v", amp)
		}
	})

	t.Run("Zero count rejected", func(t *testing.T) {
		sim := NewSimulator()
		if _, err := sim.Alloc(0); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("Capacity enforced", func(t *testing.T) {
		sim := NewSimulator()
		if _, err := sim.Alloc(MaxSimulatedQubits + 1); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

// TestSimulatorGates tests the primitive gate set
func TestSimulatorGates(t *testing.T) {
	t.Run("X flips the basis state", func(t *testing.T) {
		sim := NewSimulator()
		qs, _ := sim.Alloc(1)
		if err := sim.Apply(X(), qs[0]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		amp, _ := sim.Amplitude(qs, []bool{true})
		if !approxEqual(amp, 1) {
			t.Errorf("expected amplitude 1 on |1⟩, got %v", amp)
		}
	})

	t.Run("H creates equal superposition", func(t *testing.T) {
		sim := NewSimulator()
		qs, _ := sim.Alloc(1)
		if err := sim.Apply(H(), qs[0]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := complex(1/math.Sqrt2, 0)
		for _, bit := range []bool{false, true} {
			amp, _ := sim.Amplitude(qs, []bool{bit})
			if !approxEqual(amp, want) {
				t.Errorf("expected amplitude %v on bit %v, got %v", want, bit, amp)
			}
		}
	})

	t.Run("H twice is identity", func(t *testing.T) {
		sim := NewSimulator()
		qs, _ := sim.Alloc(1)
		sim.Apply(H(), qs[0])
		sim.Apply(H(), qs[0])

		amp, _ := sim.Amplitude(qs, []bool{false})
		if !approxEqual(amp, 1) {
			t.Errorf("expected amplitude 1 on |0⟩, got %v", amp)
		}
	})

	t.Run("S phases the one amplitude", func(t *testing.T) {
		sim := NewSimulator()
		qs, _ := sim.Alloc(1)
		sim.Apply(X(), qs[0])
		sim.Apply(S(), qs[0])

		amp, _ := sim.Amplitude(qs, []bool{true})
		if !approxEqual(amp, complex(0, 1)) {
			t.Errorf("expected amplitude i on |1⟩, got %v", amp)
		}

		sim.Apply(SDg(), qs[0])
		amp, _ = sim.Amplitude(qs, []bool{true})
		if !approxEqual(amp, 1) {
			t.Errorf("expected amplitude 1 after sdg, got %v", amp)
		}
	})

	t.Run("Ry rotates by the half angle", func(t *testing.T) {
		sim := NewSimulator()
		qs, _ := sim.Alloc(1)
		theta := math.Pi / 5
		if err := sim.Apply(Ry(2*theta), qs[0]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		amp0, _ := sim.Amplitude(qs, []bool{false})
		amp1, _ := sim.Amplitude(qs, []bool{true})
		if !approxEqual(amp0, complex(math.Cos(theta), 0)) {
			t.Errorf("expected cos(θ) on |0⟩, got %v", amp0)
		}
		if !approxEqual(amp1, complex(math.Sin(theta), 0)) {
			t.Errorf("expected sin(θ) on |1⟩, got %v", amp1)
		}
	})
}

// TestSimulatorControlled tests multi-controlled gate application
func TestSimulatorControlled(t *testing.T) {
	t.Run("CX copies the control bit", func(t *testing.T) {
		sim := NewSimulator()
		qs, _ := sim.Alloc(2)
		sim.Apply(H(), qs[0])
		if err := sim.ApplyControlled(X(), []Qubit{qs[0]}, qs[1]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := complex(1/math.Sqrt2, 0)
		for _, bits := range [][]bool{{false, false}, {true, true}} {
			amp, _ := sim.Amplitude(qs, bits)
			if !approxEqual(amp, want) {
				t.Errorf("expected amplitude %v on %s, got %v", want, FormatBits(bits), amp)
			}
		}
		for _, bits := range [][]bool{{false, true}, {true, false}} {
			amp, _ := sim.Amplitude(qs, bits)
			if !approxEqual(amp, 0) {
				t.Errorf("expected amplitude 0 on %s, got %v", FormatBits(bits), amp)
			}
		}
	})

	t.Run("Toffoli fires only on all-ones controls", func(t *testing.T) {
		sim := NewSimulator()
		qs, _ := sim.Alloc(3)
		sim.Apply(X(), qs[0])
		if err := sim.ApplyControlled(X(), []Qubit{qs[0], qs[1]}, qs[2]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		amp, _ := sim.Amplitude(qs, []bool{true, false, false})
		if !approxEqual(amp, 1) {
			t.Errorf("gate should not fire with one control low, got %v", amp)
		}

		sim.Apply(X(), qs[1])
		if err := sim.ApplyControlled(X(), []Qubit{qs[0], qs[1]}, qs[2]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		amp, _ = sim.Amplitude(qs, []bool{true, true, true})
		if !approxEqual(amp, 1) {
			t.Errorf("gate should fire with all controls high, got %v", amp)
		}
	})

	t.Run("Duplicate operands rejected", func(t *testing.T) {
		sim := NewSimulator()
		qs, _ := sim.Alloc(2)
		if err := sim.ApplyControlled(X(), []Qubit{qs[0]}, qs[0]); err != ErrDuplicateQubit {
			t.Errorf("expected ErrDuplicateQubit, got %v", err)
		}
		if err := sim.ApplyControlled(X(), []Qubit{qs[0], qs[0]}, qs[1]); err != ErrDuplicateQubit {
			t.Errorf("expected ErrDuplicateQubit, got %v", err)
		}
	})
}

// TestSimulatorRelease tests axis contraction on release
func TestSimulatorRelease(t *testing.T) {
	t.Run("Releasing a zero qubit preserves the rest", func(t *testing.T) {
		sim := NewSimulator()
		qs, _ := sim.Alloc(2)
		sim.Apply(H(), qs[0])

		if err := sim.Release(qs[1]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sim.NumQubits() != 1 {
			t.Errorf("expected 1 qubit, got %d", sim.NumQubits())
		}

		want := complex(1/math.Sqrt2, 0)
		for _, bit := range []bool{false, true} {
			amp, err := sim.Amplitude([]Qubit{qs[0]}, []bool{bit})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !approxEqual(amp, want) {
				t.Errorf("expected amplitude %v on bit %v, got %v", want, bit, amp)
			}
		}
	})

	t.Run("Releasing a one qubit fails", func(t *testing.T) {
		sim := NewSimulator()
		qs, _ := sim.Alloc(1)
		sim.Apply(X(), qs[0])
		if err := sim.Release(qs[0]); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("Released handle is rejected afterwards", func(t *testing.T) {
		sim := NewSimulator()
		qs, _ := sim.Alloc(2)
		if err := sim.Release(qs[1]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := sim.Apply(X(), qs[1]); err != ErrUnknownQubit {
			t.Errorf("expected ErrUnknownQubit, got %v", err)
		}
	})

	t.Run("Entangled release skews the survivor", func(t *testing.T) {
		sim := NewSimulator()
		qs, _ := sim.Alloc(2)
		sim.Apply(Ry(2*math.Pi/5), qs[0])
		sim.ApplyControlled(X(), []Qubit{qs[0]}, qs[1])

		if err := sim.Release(qs[1]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// projection onto the |0⟩ slice collapses the survivor to |0⟩
		amp, _ := sim.Amplitude([]Qubit{qs[0]}, []bool{false})
		if !approxEqual(amp, 1) {
			t.Errorf("expected collapsed amplitude 1, got %v", amp)
		}
	})
}

// TestSimulatorNorm tests that gate application preserves probability mass
func TestSimulatorNorm(t *testing.T) {
	sim := NewSimulator()
	qs, _ := sim.Alloc(4)
	gates := []struct {
		g      Gate
		target int
	}{
		{H(), 0}, {Ry(1.234), 1}, {X(), 2}, {S(), 3}, {H(), 2}, {Ry(-0.7), 0},
	}
	for _, step := range gates {
		if err := sim.Apply(step.g, qs[step.target]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if norm := sim.Norm(); math.Abs(norm-1) > tolerance {
			t.Fatalf("norm drifted to %v after %v", norm, step.g)
		}
	}
}

// TestProbabilityOfOne tests the marginal probability helper
func TestProbabilityOfOne(t *testing.T) {
	sim := NewSimulator()
	qs, _ := sim.Alloc(2)
	theta := math.Pi / 7
	sim.Apply(Ry(2*theta), qs[0])
	sim.ApplyControlled(X(), []Qubit{qs[0]}, qs[1])

	want := math.Sin(theta) * math.Sin(theta)
	for _, q := range qs {
		prob, err := sim.ProbabilityOfOne(q)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(prob-want) > tolerance {
			t.Errorf("expected probability %v, got %v", want, prob)
		}
	}
}

func BenchmarkSimulatorHadamard(b *testing.B) {
	sim := NewSimulator()
	qs, _ := sim.Alloc(16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sim.Apply(H(), qs[i%len(qs)])
	}
}

func BenchmarkSimulatorControlledX(b *testing.B) {
	sim := NewSimulator()
	qs, _ := sim.Alloc(16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sim.ApplyControlled(X(), []Qubit{qs[0], qs[1]}, qs[2+i%14])
	}
}
