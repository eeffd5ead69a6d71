// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mosek bridges an encoded conic system to a MOSEK-style optimizer
// task: it declares solver-native variables, cones and constraints,
// expanding second-order and exponential memberships into slack variables
// and semidefinite blocks into matrix variables, then drives the solve and
// decodes the native result buffers back into a canonical solution keyed by
// the caller's constraint identities.
//
// The native API surface is expressed as the Env and Task contracts below.
// A cgo binding against the vendor library satisfies them in production;
// tests run against an in-memory double. The solver session is a scoped
// resource: acquired immediately before use, released on every exit path.
package mosek

// SolSta is a native solution status code.
type SolSta int

const (
	// SolStaUnknown solver made no claim about the solution.
	SolStaUnknown SolSta = iota
	// SolStaOptimal interior solution optimal within tolerance.
	SolStaOptimal
	// SolStaIntegerOptimal integer solution optimal within tolerance.
	SolStaIntegerOptimal
	// SolStaPrimInfeasCer certificate of primal infeasibility.
	SolStaPrimInfeasCer
	// SolStaDualInfeasCer certificate of dual infeasibility.
	SolStaDualInfeasCer
	// SolStaNearOptimal solution optimal outside the requested tolerance.
	SolStaNearOptimal
	// SolStaNearIntegerOptimal integer solution outside tolerance.
	SolStaNearIntegerOptimal
	// SolStaNearPrimInfeasCer near certificate of primal infeasibility.
	SolStaNearPrimInfeasCer
	// SolStaNearDualInfeasCer near certificate of dual infeasibility.
	SolStaNearDualInfeasCer
)

// SolType selects one of the solver's result pools.
type SolType int

const (
	// SolTypeITR is the interior (continuous) solution.
	SolTypeITR SolType = iota
	// SolTypeBAS is the basic solution from simplex or basis identification.
	SolTypeBAS
	// SolTypeITG is the integer solution.
	SolTypeITG
)

// BoundKey classifies a variable or constraint bound.
type BoundKey int

const (
	// BoundFree no finite bound.
	BoundFree BoundKey = iota
	// BoundUp bounded above.
	BoundUp
	// BoundLow bounded below.
	BoundLow
	// BoundFixed fixed at a value.
	BoundFixed
	// BoundRange bounded on both sides.
	BoundRange
)

// ConeType identifies a native cone.
type ConeType int

const (
	// ConeQuad is the quadratic (second-order) cone.
	ConeQuad ConeType = iota
	// ConePExp is the primal exponential cone.
	ConePExp
)

// ObjSense is the optimization direction.
type ObjSense int

const (
	Minimize ObjSense = iota
	Maximize
)

// VarType is the scalar variable type.
type VarType int

const (
	VarTypeCont VarType = iota
	VarTypeInt
)

// StreamType names a solver output stream.
type StreamType int

const (
	// StreamLog carries the solver's running log output.
	StreamLog StreamType = iota
	// StreamMsg carries summary messages.
	StreamMsg
)

// DParam, IParam and SParam are native typed parameter keys for double,
// integer and string parameters respectively.
type DParam int

const (
	DParamIntpntCoTolRelGap DParam = iota
	DParamOptimizerMaxTime
)

type IParam int

const (
	// IParamInfeasReportAuto toggles the automatic infeasibility report.
	IParamInfeasReportAuto IParam = iota
	IParamNumThreads
)

type SParam int

const (
	SParamDataFileName SParam = iota
)

// StreamFunc receives solver-emitted text synchronously on the solving
// goroutine during the optimize call. It must not block or panic.
type StreamFunc func(text string)

// Env is a solver environment, the outer scoped resource a task is
// created from.
type Env interface {
	// Task creates a model handle with the given initial capacity hints.
	Task(numCon, numVar int) (Task, error)
	// SetStream attaches a synchronous sink to an environment stream.
	SetStream(st StreamType, fn StreamFunc)
	// Close releases the environment.
	Close() error
}

// OpenEnv acquires a solver environment. The production implementation
// wraps the vendor library; tests substitute an in-memory double.
type OpenEnv func() (Env, error)

// Task is a native model handle. The method set mirrors the slice of the
// optimizer API the bridge exercises; "bar" methods deal with semidefinite
// matrix variables.
type Task interface {
	// AppendVars appends num scalar variables.
	AppendVars(num int) error
	// AppendCons appends num linear constraint rows.
	AppendCons(num int) error
	// AppendBarVars appends one symmetric matrix variable per entry of dims.
	AppendBarVars(dims []int) error
	// AppendCone registers membership of the sub variables in a cone.
	// par is the cone parameter, unused for the cone types here.
	AppendCone(ct ConeType, par float64, sub []int) error

	// PutVarBoundList sets bounds for the listed variables.
	PutVarBoundList(sub []int, keys []BoundKey, lo, up []float64) error
	// PutVarTypeList sets types for the listed variables.
	PutVarTypeList(sub []int, types []VarType) error
	// PutConBoundList sets bounds for the listed constraint rows.
	PutConBoundList(sub []int, keys []BoundKey, lo, up []float64) error
	// PutAijList sets linear coefficients at the listed coordinates.
	PutAijList(rows, cols []int, vals []float64) error
	// AppendSparseSymMat stores a sparse symmetric basis matrix given by
	// lower-triangular coordinates and returns its index.
	AppendSparseSymMat(dim int, rows, cols []int, vals []float64) (int64, error)
	// PutBarAij sets the coefficient of matrix variable j in row i to the
	// weighted sum of the referenced basis matrices.
	PutBarAij(i, j int, mats []int64, weights []float64) error
	// PutCList sets objective coefficients for the listed variables.
	PutCList(sub []int, vals []float64) error
	// PutObjSense sets the optimization direction.
	PutObjSense(sense ObjSense) error

	// PutDouParam, PutIntParam and PutStrParam set enum-keyed parameters.
	PutDouParam(p DParam, v float64) error
	PutIntParam(p IParam, v int) error
	PutStrParam(p SParam, v string) error
	// PutNaDouParam, PutNaIntParam and PutNaStrParam set name-keyed
	// parameters ("MSK_DPAR_…", "MSK_IPAR_…", "MSK_SPAR_…").
	PutNaDouParam(name string, v float64) error
	PutNaIntParam(name string, v int) error
	PutNaStrParam(name, v string) error

	// SetStream attaches a synchronous sink to a task stream.
	SetStream(st StreamType, fn StreamFunc)
	// Optimize runs the solve, blocking until the solver returns.
	Optimize() error
	// SolutionSummary writes a result summary to the given stream.
	SolutionSummary(st StreamType) error

	// GetSolSta returns the solution status of a result pool.
	GetSolSta(st SolType) (SolSta, error)
	// GetPrimalObj returns the primal objective of a result pool.
	GetPrimalObj(st SolType) (float64, error)
	// GetXXSlice copies primal variable values [first, last) into out.
	GetXXSlice(st SolType, first, last int, out []float64) error
	// GetSucSlice copies upper-bound row duals [first, last) into out.
	GetSucSlice(st SolType, first, last int, out []float64) error
	// GetYSlice copies equality row duals [first, last) into out.
	GetYSlice(st SolType, first, last int, out []float64) error
	// GetSnxSlice copies conic variable duals [first, last) into out.
	GetSnxSlice(st SolType, first, last int, out []float64) error
	// GetBarSj copies the half-vectorized dual of matrix variable j into out.
	GetBarSj(st SolType, j int, out []float64) error

	// Close releases the task.
	Close() error
}
