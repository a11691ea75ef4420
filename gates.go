package main

import "math"

// Complex is the amplitude type used throughout the simulator.
type Complex = complex128

// Matrix2 is a single-qubit operator, indexed [row][col] in the |0⟩,|1⟩ basis.
type Matrix2 [2][2]Complex

// Matrix4 is a two-qubit operator over basis indices 0..3, where bit 0 of the
// index is qubit 0.
type Matrix4 [4][4]Complex

// Identity2 returns the 2x2 identity.
func Identity2() Matrix2 {
	return Matrix2{{1, 0}, {0, 1}}
}

// RotationMatrix returns the real Y-rotation by angle radians:
//
//	[ cos(a/2)  -sin(a/2) ]
//	[ sin(a/2)   cos(a/2) ]
func RotationMatrix(angle float64) Matrix2 {
	c := complex(math.Cos(angle/2), 0)
	s := complex(math.Sin(angle/2), 0)
	return Matrix2{
		{c, -s},
		{s, c},
	}
}

// ControlledFlipMatrix returns the CNOT with control on qubit 0 and target on
// qubit 1. Indices with bit 0 clear are fixed; 1 (|q1=0,q0=1⟩) and 3
// (|q1=1,q0=1⟩) are exchanged.
func ControlledFlipMatrix() Matrix4 {
	var m Matrix4
	m[0][0] = 1
	m[2][2] = 1
	m[1][3] = 1
	m[3][1] = 1
	return m
}

// Mul returns m·o.
func (m Matrix2) Mul(o Matrix2) Matrix2 {
	var r Matrix2
	for i := range 2 {
		for j := range 2 {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j]
		}
	}
	return r
}

// Transpose returns the plain (non-conjugated) transpose.
func (m Matrix2) Transpose() Matrix2 {
	return Matrix2{
		{m[0][0], m[1][0]},
		{m[0][1], m[1][1]},
	}
}

// Dagger returns the conjugate transpose.
func (m Matrix2) Dagger() Matrix2 {
	t := m.Transpose()
	for i := range 2 {
		for j := range 2 {
			t[i][j] = complex(real(t[i][j]), -imag(t[i][j]))
		}
	}
	return t
}

// ApproxEqual reports whether every entry of m is within tol of o.
func (m Matrix2) ApproxEqual(o Matrix2, tol float64) bool {
	for i := range 2 {
		for j := range 2 {
			d := m[i][j] - o[i][j]
			if math.Hypot(real(d), imag(d)) > tol {
				return false
			}
		}
	}
	return true
}

// IsUnitary reports whether m·m† is the identity within tol.
func (m Matrix2) IsUnitary(tol float64) bool {
	return m.Mul(m.Dagger()).ApproxEqual(Identity2(), tol)
}

// Apply multiplies the full 4-dimensional vector v by m. It is the dense
// reference used to cross-check the pairwise engine.
func (m Matrix4) Apply(v []Complex) []Complex {
	out := make([]Complex, 4)
	for i := range 4 {
		for j := range 4 {
			out[i] += m[i][j] * v[j]
		}
	}
	return out
}
