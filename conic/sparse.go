// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conic

// Nonzero is one entry of a sparse matrix in triplet form.
type Nonzero struct {
	Row, Col int
	Val      float64
}

// Matrix is a sparse matrix in triplet form. Entries keep insertion order
// and coordinates are never duplicated by the encoder, so the triplets can
// be handed to a solver coefficient list verbatim.
type Matrix struct {
	Rows, Cols int
	Nz         []Nonzero
}

// NewMatrix creates an empty rows×cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols}
}

// Set appends the entry (i, j, v).
func (m *Matrix) Set(i, j int, v float64) {
	m.Nz = append(m.Nz, Nonzero{Row: i, Col: j, Val: v})
}

// Scale multiplies every entry by a.
func (m *Matrix) Scale(a float64) {
	for i := range m.Nz {
		m.Nz[i].Val *= a
	}
}

// At returns the value at (i, j), summing duplicates. Linear scan,
// intended for tests and small slices only.
func (m *Matrix) At(i, j int) float64 {
	v := 0.0
	for _, nz := range m.Nz {
		if nz.Row == i && nz.Col == j {
			v += nz.Val
		}
	}
	return v
}

// Find returns the entries as parallel row/column/value slices.
func (m *Matrix) Find() (rows, cols []int, vals []float64) {
	rows = make([]int, len(m.Nz))
	cols = make([]int, len(m.Nz))
	vals = make([]float64, len(m.Nz))
	for i, nz := range m.Nz {
		rows[i], cols[i], vals[i] = nz.Row, nz.Col, nz.Val
	}
	return
}

// vstack concatenates the blocks row-wise into one cols-wide matrix.
func vstack(blocks []*Matrix, cols int) *Matrix {
	out := NewMatrix(0, cols)
	for _, b := range blocks {
		for _, nz := range b.Nz {
			out.Set(out.Rows+nz.Row, nz.Col, nz.Val)
		}
		out.Rows += b.Rows
	}
	return out
}
