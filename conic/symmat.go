// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conic

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SymFromLowerTri reconstructs a full dim×dim symmetric matrix from its
// half-vectorized form v: the lower-triangular entries listed column-major
// (column 0 contributes dim entries, column 1 contributes dim-1, …).
// Off-diagonal entries are mirrored, diagonal entries placed as-is.
func SymFromLowerTri(v []float64, dim int) (*mat.SymDense, error) {
	if dim < 1 {
		return nil, fmt.Errorf("matrix order %d must be at least 1", dim)
	}
	if want := dim * (dim + 1) / 2; len(v) != want {
		return nil, fmt.Errorf("half-vector length %d does not match order %d (want %d)", len(v), dim, want)
	}
	s := mat.NewSymDense(dim, nil)
	idx := 0
	for j := 0; j < dim; j++ {
		for i := j; i < dim; i++ {
			s.SetSym(i, j, v[idx])
			idx++
		}
	}
	return s, nil
}

// LowerTriWeight is the coefficient carried by the lower-triangular basis
// entry for position (r, c) when a symmetric matrix variable contributes a
// trace inner product term: 1 on the diagonal, ½ off it. Off-diagonal
// entries appear twice in the trace against a symmetric basis matrix, and
// the halving cancels that double count.
func LowerTriWeight(r, c int) float64 {
	if r == c {
		return 1.0
	}
	return 0.5
}
