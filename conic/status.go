// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conic

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Status is the canonical solve outcome, independent of any native
// solver status vocabulary.
type Status int

const (
	// Optimal solution found within tolerance.
	Optimal Status = iota
	// Infeasible problem, certified by the solver.
	Infeasible
	// Unbounded problem, certified by the solver.
	Unbounded
	// OptimalInaccurate solution found but outside the requested tolerance.
	OptimalInaccurate
	// InfeasibleInaccurate infeasibility certificate outside tolerance.
	InfeasibleInaccurate
	// UnboundedInaccurate unboundedness certificate outside tolerance.
	UnboundedInaccurate
	// SolverError solver stopped without a usable claim about the problem.
	SolverError
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "Optimal"
	case Infeasible:
		return "Infeasible"
	case Unbounded:
		return "Unbounded"
	case OptimalInaccurate:
		return "OptimalInaccurate"
	case InfeasibleInaccurate:
		return "InfeasibleInaccurate"
	case UnboundedInaccurate:
		return "UnboundedInaccurate"
	case SolverError:
		return "SolverError"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// SolutionPresent reports whether a primal point and dual values accompany
// the status.
func (s Status) SolutionPresent() bool {
	return s == Optimal || s == OptimalInaccurate
}

// Dual is the dual value of one constraint: a scalar for 1-row blocks,
// a vector for wider blocks, or a full symmetric matrix for PSD blocks.
// Exactly one representation is populated; Scalar holds when both Vector
// and Matrix are nil.
type Dual struct {
	Scalar float64
	Vector []float64
	Matrix *mat.SymDense
}

// Solution is the decoded outcome of one solve.
type Solution struct {
	// Status is the canonical outcome.
	Status Status
	// Objective is the optimal value translated by the recorded constant:
	// +Inf for Infeasible, -Inf for Unbounded, NaN when the solver made
	// no usable claim.
	Objective float64
	// Primal holds the first n0 entries of the solver primal vector.
	// Nil unless Status.SolutionPresent().
	Primal []float64
	// Duals maps original constraint identities to their dual values.
	// Nil unless Status.SolutionPresent().
	Duals map[int64]Dual
}
