package main

import (
	"fmt"
	"math"
	"strings"
)

// GateType tags the two operations the engine understands.
type GateType string

const (
	GateRY GateType = "RY" // rotation about Y on Target by Angle
	GateCX GateType = "CX" // flip Target when Control is 1
)

// Qubit roles in the occupied circuit.
const (
	ProbeQubit  = 0
	TargetQubit = 1
)

// Gate is one immutable operation of a circuit. Build it with Rotation or
// ControlledFlip.
type Gate struct {
	Type    GateType
	Target  int
	Control int // -1 unless Type is GateCX
	Angle   float64
}

// Rotation returns an RY gate on qubit by angle radians.
func Rotation(qubit int, angle float64) Gate {
	return Gate{Type: GateRY, Target: qubit, Control: -1, Angle: angle}
}

// ControlledFlip returns a CX gate.
func ControlledFlip(control, target int) Gate {
	return Gate{Type: GateCX, Target: target, Control: control}
}

func (g Gate) String() string {
	switch g.Type {
	case GateRY:
		return fmt.Sprintf("RY(%s) q[%d]", formatParam(g.Angle), g.Target)
	case GateCX:
		return fmt.Sprintf("CX q[%d], q[%d]", g.Control, g.Target)
	default:
		return string(g.Type)
	}
}

// Circuit is an ordered gate list plus the qubits read out at the end. It holds
// no register; evolving it is StateVector.Evolve's job.
type Circuit struct {
	NumQubits int
	Gates     []Gate
	Measured  []int
}

// ZenoAngle is the per-step rotation π/(2·repetitions).
func ZenoAngle(repetitions int) float64 {
	return math.Pi / (2 * float64(repetitions))
}

// BuildCircuit returns the Zeno probe for a cell. An occupied cell entangles
// the probe with a target qubit on every repetition; an empty cell only rotates
// the probe forth and back.
func BuildCircuit(repetitions int, occupied bool) (*Circuit, error) {
	if repetitions < 1 {
		return nil, newSimError(CodeInvalidRepetitionCount, "repetitions must be at least 1").
			WithContext("repetitions", repetitions)
	}
	theta := ZenoAngle(repetitions)

	if occupied {
		c := &Circuit{
			NumQubits: 2,
			Gates:     make([]Gate, 0, 3*repetitions),
			Measured:  []int{ProbeQubit, TargetQubit},
		}
		for range repetitions {
			c.Gates = append(c.Gates,
				Rotation(ProbeQubit, theta),
				ControlledFlip(ProbeQubit, TargetQubit),
				Rotation(ProbeQubit, -theta),
			)
		}
		return c, nil
	}

	c := &Circuit{
		NumQubits: 1,
		Gates:     make([]Gate, 0, 2*repetitions),
		Measured:  []int{ProbeQubit},
	}
	for range repetitions {
		c.Gates = append(c.Gates,
			Rotation(ProbeQubit, theta),
			Rotation(ProbeQubit, -theta),
		)
	}
	return c, nil
}

// Depth returns the number of gate layers. Gates here never act in parallel,
// so it equals the gate count.
func (c *Circuit) Depth() int {
	return len(c.Gates)
}

// CountGates returns how many gates of each type the circuit holds.
func (c *Circuit) CountGates() map[GateType]int {
	counts := make(map[GateType]int)
	for _, g := range c.Gates {
		counts[g.Type]++
	}
	return counts
}

func (c *Circuit) String() string {
	counts := c.CountGates()
	return fmt.Sprintf("circuit(qubits=%d, ry=%d, cx=%d, measured=%v)",
		c.NumQubits, counts[GateRY], counts[GateCX], c.Measured)
}

// ToQASM generates QASM 2.0 output from the circuit.
func (c *Circuit) ToQASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.NumQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", max(len(c.Measured), 1))

	for _, gate := range c.Gates {
		switch gate.Type {
		case GateRY:
			fmt.Fprintf(&sb, "ry(%s) q[%d];\n", formatParam(gate.Angle), gate.Target)
		case GateCX:
			fmt.Fprintf(&sb, "cx q[%d], q[%d];\n", gate.Control, gate.Target)
		}
	}
	for i, q := range c.Measured {
		fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", q, i)
	}

	return sb.String()
}
