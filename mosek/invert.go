// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mosek

import (
	"math"

	"github.com/curioloop/conic/conic"
)

// statusMap translates native solution statuses into canonical ones.
var statusMap = map[SolSta]conic.Status{
	SolStaOptimal:            conic.Optimal,
	SolStaIntegerOptimal:     conic.Optimal,
	SolStaPrimInfeasCer:      conic.Infeasible,
	SolStaDualInfeasCer:      conic.Unbounded,
	SolStaNearOptimal:        conic.OptimalInaccurate,
	SolStaNearIntegerOptimal: conic.OptimalInaccurate,
	SolStaNearPrimInfeasCer:  conic.InfeasibleInaccurate,
	SolStaNearDualInfeasCer:  conic.UnboundedInaccurate,
	SolStaUnknown:            conic.SolverError,
}

// mapStatus is total: any native value outside the table is a solver error.
func mapStatus(s SolSta) conic.Status {
	if st, ok := statusMap[s]; ok {
		return st
	}
	return conic.SolverError
}

// invert decodes the native result buffers into a canonical solution using
// the inverse map recorded while stacking.
//
// The dual of a constraint "expression ∈ K" is the conic dual of its slack
// "s ∈ K", not the multiplier of the linear row "A·x + s == b": the slack
// value equals the expression value by construction, so the slack dual is
// exactly the dual the caller's constraint expects. Equality rows read the
// row dual y, inequality rows the upper-bound dual suc, cone slacks the
// conic variable dual snx, and semidefinite blocks the half-vectorized
// matrix dual.
func invert(task Task, inv *conic.InverseMap) (*conic.Solution, error) {
	pool := SolTypeITR
	if inv.Integer {
		pool = SolTypeITG
	}

	ssta, err := task.GetSolSta(pool)
	if err != nil {
		return nil, err
	}
	status := mapStatus(ssta)
	sol := &conic.Solution{Status: status}

	if !status.SolutionPresent() {
		switch status {
		case conic.Infeasible:
			sol.Objective = math.Inf(1)
		case conic.Unbounded:
			sol.Objective = math.Inf(-1)
		default:
			sol.Objective = math.NaN()
		}
		return sol, nil
	}

	obj, err := task.GetPrimalObj(pool)
	if err != nil {
		return nil, err
	}
	sol.Objective = obj + inv.Constant

	x := make([]float64, inv.N0)
	if err := task.GetXXSlice(pool, 0, inv.N0, x); err != nil {
		return nil, err
	}
	sol.Primal = x

	duals := make(map[int64]conic.Dual)

	// Equality rows occupy the stacked prefix, the nonnegative block
	// follows; both buffers are indexed by constraint row.
	yLen := refTotal(inv.YSlacks)
	y := make([]float64, yLen)
	if err := task.GetYSlice(pool, 0, yLen, y); err != nil {
		return nil, err
	}
	splitDuals(duals, y, inv.YSlacks)

	sucLen := refTotal(inv.SucSlacks)
	suc := make([]float64, sucLen)
	if err := task.GetSucSlice(pool, yLen, yLen+sucLen, suc); err != nil {
		return nil, err
	}
	splitDuals(duals, suc, inv.SucSlacks)

	// Cone slack duals are indexed by variable; the slacks start at n0.
	snxLen := refTotal(inv.SnxSlacks)
	snx := make([]float64, snxLen)
	if err := task.GetSnxSlice(pool, inv.N0, inv.N0+snxLen, snx); err != nil {
		return nil, err
	}
	splitDuals(duals, snx, inv.SnxSlacks)

	for j, ref := range inv.PSDDims {
		sj := make([]float64, ref.Dim*(ref.Dim+1)/2)
		if err := task.GetBarSj(pool, j, sj); err != nil {
			return nil, err
		}
		m, err := conic.SymFromLowerTri(sj, ref.Dim)
		if err != nil {
			return nil, err
		}
		duals[ref.ID] = conic.Dual{Matrix: m}
	}

	sol.Duals = duals
	return sol, nil
}

// splitDuals slices a dual buffer per recorded constraint: single rows
// become scalars, wider blocks become vectors.
func splitDuals(dst map[int64]conic.Dual, buf []float64, refs []conic.ConstraintRef) {
	idx := 0
	for _, ref := range refs {
		if ref.Dim == 1 {
			dst[ref.ID] = conic.Dual{Scalar: buf[idx]}
		} else {
			dst[ref.ID] = conic.Dual{Vector: append([]float64(nil), buf[idx:idx+ref.Dim]...)}
		}
		idx += ref.Dim
	}
}

func refTotal(refs []conic.ConstraintRef) int {
	t := 0
	for _, r := range refs {
		t += r.Dim
	}
	return t
}
