// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mosek

import (
	"strings"

	"go.uber.org/zap"

	"github.com/curioloop/conic/conic"
)

// ExpConeOrder permutes canonical exponential cone axes (x, y, z) into the
// order the native solver expects. The value is pinned empirically against
// the solver's cone convention and is a fixed constant, never derived at
// runtime.
var ExpConeOrder = []int{2, 1, 0}

// Capability reports what this solver accepts. expCone marks whether the
// installed solver build ships the primal exponential cone; older releases
// do not. The descriptor is computed once at solver-selection time and
// passed alongside the handle; nothing mutates it afterwards.
func Capability(expCone bool) conic.Capabilities {
	return conic.Capabilities{
		MIP:          true,
		SecondOrder:  true,
		Exponential:  expCone,
		PSD:          true,
		ExpConeOrder: ExpConeOrder,
	}
}

// Solver drives encoded conic systems through a native optimizer task.
// Each Solve call acquires a fresh environment and task, and releases them
// on every exit path; no state crosses solve invocations.
type Solver struct {
	open    OpenEnv
	params  Params
	verbose bool
	log     *zap.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithParams supplies solver parameters, validated before any variable
// is declared.
func WithParams(p Params) Option {
	return func(s *Solver) { s.params = p }
}

// WithVerbose attaches a synchronous sink forwarding solver log output to
// the given logger, and enables the solver's infeasibility report and
// solution summary.
func WithVerbose(log *zap.Logger) Option {
	return func(s *Solver) {
		s.verbose = true
		if log != nil {
			s.log = log
		}
	}
}

// NewSolver creates a solver over the given environment opener.
func NewSolver(open OpenEnv, opts ...Option) *Solver {
	s := &Solver{open: open, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve submits the encoded system and decodes the result.
//
// A system with zero decision variables never reaches the solver: the native
// task rejects variable-less models, so the bridge returns a synthetic
// optimal result carrying the recorded constant offset.
func (s *Solver) Solve(sys *conic.EncodedSystem, inv *conic.InverseMap) (*conic.Solution, error) {
	if sys.N0 == 0 {
		return &conic.Solution{
			Status:    conic.Optimal,
			Objective: sys.Constant,
			Primal:    []float64{},
			Duals:     map[int64]conic.Dual{},
		}, nil
	}

	env, err := s.open()
	if err != nil {
		return nil, err
	}
	defer env.Close()

	task, err := env.Task(0, 0)
	if err != nil {
		return nil, err
	}
	defer task.Close()

	if err := s.params.apply(task); err != nil {
		return nil, err
	}

	if s.verbose {
		sink := func(text string) {
			s.log.Info(strings.TrimRight(text, "\n"))
		}
		env.SetStream(StreamLog, sink)
		task.SetStream(StreamLog, sink)
		if err := task.PutIntParam(IParamInfeasReportAuto, 1); err != nil {
			return nil, err
		}
	}

	if err := buildTask(task, sys); err != nil {
		return nil, err
	}
	if err := task.Optimize(); err != nil {
		return nil, err
	}
	if s.verbose {
		if err := task.SolutionSummary(StreamMsg); err != nil {
			return nil, err
		}
	}
	return invert(task, inv)
}

// buildTask populates the native model from the stacked system.
//
// The task variable vector x is a block vector: the first n0 entries are the
// original decision variables, followed by the second-order slacks and then
// the exponential slacks. Cone memberships apply to the slack suffix;
// semidefinite blocks become matrix variables and contribute trace terms
// instead of slack columns.
func buildTask(task Task, sys *conic.EncodedSystem) error {
	d := &sys.Dims
	n0 := sys.N0
	n := n0 + d.SlackTotal()
	m := len(sys.H)

	// All scalar variables are free: cone membership comes from the slack
	// rows of the linear system, not from variable bounds.
	if err := task.AppendVars(n); err != nil {
		return err
	}
	free := make([]BoundKey, n)
	for i := range free {
		free[i] = BoundFree
	}
	zeros := make([]float64, n)
	if err := task.PutVarBoundList(idxRange(0, n), free, zeros, zeros); err != nil {
		return err
	}

	if len(d.PSD) > 0 {
		if err := task.AppendBarVars(d.PSD); err != nil {
			return err
		}
	}

	// Register cone memberships over the slack suffix: one quadratic cone
	// per recorded size, then one exponential cone per complete triple.
	cursor := n0
	for _, size := range d.SOC {
		if err := task.AppendCone(ConeQuad, 0, idxRange(cursor, cursor+size)); err != nil {
			return err
		}
		cursor += size
	}
	for k := 0; k < d.ExpTotal()/3; k++ {
		if err := task.AppendCone(ConePExp, 0, idxRange(cursor, cursor+3)); err != nil {
			return err
		}
		cursor += 3
	}

	// Integrality on the original variables: booleans are ranged 0/1
	// integers, integer variables stay unbounded.
	if nb := len(sys.BoolIdx); nb > 0 {
		types := make([]VarType, nb)
		keys := make([]BoundKey, nb)
		lo, up := make([]float64, nb), make([]float64, nb)
		for i := range types {
			types[i], keys[i], up[i] = VarTypeInt, BoundRange, 1
		}
		if err := task.PutVarTypeList(sys.BoolIdx, types); err != nil {
			return err
		}
		if err := task.PutVarBoundList(sys.BoolIdx, keys, lo, up); err != nil {
			return err
		}
	}
	if ni := len(sys.IntIdx); ni > 0 {
		types := make([]VarType, ni)
		for i := range types {
			types[i] = VarTypeInt
		}
		if err := task.PutVarTypeList(sys.IntIdx, types); err != nil {
			return err
		}
	}

	// The stacked matrix defines the first n0 columns of the task's linear
	// system; an identity block ties each slack variable to its stacked row,
	// turning every cone row into "expression == slack".
	if err := task.AppendCons(m); err != nil {
		return err
	}
	if rows, cols, vals := sys.G.Find(); len(vals) > 0 {
		if err := task.PutAijList(rows, cols, vals); err != nil {
			return err
		}
	}
	if slacks := d.SlackTotal(); slacks > 0 {
		row := d.Eq + d.Leq
		ones := make([]float64, slacks)
		for i := range ones {
			ones[i] = 1
		}
		if err := task.PutAijList(idxRange(row, row+slacks), idxRange(n0, n0+slacks), ones); err != nil {
			return err
		}
	}

	// Semidefinite blocks contribute one basis-matrix trace term per dense
	// row. Iterating the full dim×dim grid in row-major order matches the
	// dense dim² flattening of the encoder; entry (r, c) lands on
	// lower-triangle coordinate (max, min) with the diagonal/off-diagonal
	// weighting of the codec.
	row := d.Eq + d.Leq + d.SlackTotal()
	for j, dim := range d.PSD {
		for r := 0; r < dim; r++ {
			for c := 0; c < dim; c++ {
				lo, hi := c, r
				if lo > hi {
					lo, hi = hi, lo
				}
				id, err := task.AppendSparseSymMat(dim, []int{hi}, []int{lo}, []float64{conic.LowerTriWeight(r, c)})
				if err != nil {
					return err
				}
				if err := task.PutBarAij(row, j, []int64{id}, []float64{1}); err != nil {
					return err
				}
				row++
			}
		}
	}

	// Row bounds: the equality prefix is fixed, the nonnegative block is
	// bounded above, and every slack or semidefinite row is an equality.
	keys := make([]BoundKey, m)
	for r := range keys {
		if r >= d.Eq && r < d.Eq+d.Leq {
			keys[r] = BoundUp
		} else {
			keys[r] = BoundFixed
		}
	}
	if err := task.PutConBoundList(idxRange(0, m), keys, sys.H, sys.H); err != nil {
		return err
	}

	if err := task.PutCList(idxRange(0, n0), sys.C); err != nil {
		return err
	}
	return task.PutObjSense(Minimize)
}

func idxRange(first, last int) []int {
	out := make([]int, last-first)
	for i := range out {
		out[i] = first + i
	}
	return out
}
