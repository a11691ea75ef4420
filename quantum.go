package main

import (
	"math"
	"math/cmplx"
)

// MaxQubits is the widest register the engine simulates.
const MaxQubits = 2

// normTolerance bounds |Σ|a|² − 1| for a state to count as normalized.
const normTolerance = 1e-9

// StateVector is an n-qubit register. Amplitudes[i] is the amplitude of the
// basis state whose bit q is the value of qubit q.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// NewStateVector returns the |0…0⟩ register on numQubits qubits.
func NewStateVector(numQubits int) (*StateVector, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, invalidQubit("register size out of range", numQubits, MaxQubits)
	}
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}, nil
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

func (s *StateVector) checkQubit(q int) error {
	if q < 0 || q >= s.NumQubits {
		return invalidQubit("qubit index outside register", q, s.NumQubits)
	}
	return nil
}

// ApplySingle applies m to qubit q. Each pair of amplitudes that differ only in
// bit q is mixed by m; nothing else is touched.
func (s *StateVector) ApplySingle(q int, m Matrix2) error {
	if err := s.checkQubit(q); err != nil {
		return err
	}
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = m[0][0]*a0 + m[0][1]*a1
			s.Amplitudes[j] = m[1][0]*a0 + m[1][1]*a1
		}
	}
	return nil
}

// ApplyControlledFlip flips the target qubit on every basis state whose control
// bit is set.
func (s *StateVector) ApplyControlledFlip(control, target int) error {
	if err := s.checkQubit(control); err != nil {
		return err
	}
	if err := s.checkQubit(target); err != nil {
		return err
	}
	if control == target {
		return invalidQubit("control and target must differ", target, s.NumQubits).
			WithContext("control", control)
	}
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
	return nil
}

// ApplyGate dispatches a single gate operation.
func (s *StateVector) ApplyGate(g Gate) error {
	switch g.Type {
	case GateRY:
		return s.ApplySingle(g.Target, RotationMatrix(g.Angle))
	case GateCX:
		return s.ApplyControlledFlip(g.Control, g.Target)
	default:
		return newSimError(CodeUnsupportedGate, "unknown gate type").WithContext("type", g.Type)
	}
}

// Evolve applies every gate of c in order. The register is mutated in place and
// never collapsed.
func (s *StateVector) Evolve(c *Circuit) error {
	if c.NumQubits > s.NumQubits {
		return invalidQubit("circuit is wider than register", c.NumQubits, s.NumQubits)
	}
	for i, gate := range c.Gates {
		if err := s.ApplyGate(gate); err != nil {
			if se, ok := err.(*SimError); ok {
				se.WithContext("gate_index", i)
			}
			return err
		}
	}
	return nil
}

// Norm returns Σ|a|².
func (s *StateVector) Norm() float64 {
	total := 0.0
	for _, amp := range s.Amplitudes {
		total += real(amp * cmplx.Conj(amp))
	}
	return total
}

// IsNormalized reports whether Norm is 1 within normTolerance.
func (s *StateVector) IsNormalized() bool {
	return math.Abs(s.Norm()-1) <= normTolerance
}

// Probabilities returns |a|² per basis index in index order.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, amp := range s.Amplitudes {
		probs[i] = real(amp * cmplx.Conj(amp))
	}
	return probs
}

type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

func (s *StateVector) GetQubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)
	n := len(s.Amplitudes)

	for i := 0; i < n; i++ {
		prob := real(s.Amplitudes[i] * cmplx.Conj(s.Amplitudes[i]))
		for q := 0; q < s.NumQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += prob
			} else {
				probs[q].Prob0 += prob
			}
		}
	}

	return probs
}

// SimulateCircuit evolves a fresh register through c.
func SimulateCircuit(c *Circuit) (*StateVector, error) {
	state, err := NewStateVector(c.NumQubits)
	if err != nil {
		return nil, err
	}
	if err := state.Evolve(c); err != nil {
		return nil, err
	}
	return state, nil
}
