// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mosek

// simEnv and simTask are in-memory doubles of the native API: they record
// every declaration the bridge makes and serve scripted result buffers back
// to the decoder.

type simEnv struct {
	task    *simTask
	streams map[StreamType]StreamFunc
	opened  bool
	closed  bool
}

func newSimEnv(task *simTask) *simEnv {
	return &simEnv{task: task, streams: map[StreamType]StreamFunc{}}
}

func (e *simEnv) open() (Env, error) {
	e.opened = true
	return e, nil
}

func (e *simEnv) Task(numCon, numVar int) (Task, error) { return e.task, nil }

func (e *simEnv) SetStream(st StreamType, fn StreamFunc) { e.streams[st] = fn }

func (e *simEnv) Close() error {
	e.closed = true
	return nil
}

type varBound struct {
	key    BoundKey
	lo, up float64
}

type coneRecord struct {
	ct  ConeType
	sub []int
}

type symMatRecord struct {
	dim  int
	rows []int
	cols []int
	vals []float64
}

type barAijRecord struct {
	i, j    int
	mats    []int64
	weights []float64
}

type simTask struct {
	// Scripted results, full-length buffers indexed by row or variable.
	solsta SolSta
	pobj   float64
	xx     []float64
	y      []float64
	suc    []float64
	snx    []float64
	bars   [][]float64

	// Recorded model.
	numVars   int
	numCons   int
	barDims   []int
	varBounds map[int]varBound
	varTypes  map[int]VarType
	conBounds map[int]varBound
	cones     []coneRecord
	aij       map[[2]int]float64
	symMats   []symMatRecord
	barAij    []barAijRecord
	objC      map[int]float64
	objSense  ObjSense

	douParams map[DParam]float64
	intParams map[IParam]int
	strParams map[SParam]string
	naDou     map[string]float64
	naInt     map[string]int
	naStr     map[string]string

	streams   map[StreamType]StreamFunc
	logText   string
	queried   []SolType
	summaries []StreamType
	optimized bool
	closed    bool
}

func newSimTask() *simTask {
	return &simTask{
		varBounds: map[int]varBound{},
		varTypes:  map[int]VarType{},
		conBounds: map[int]varBound{},
		aij:       map[[2]int]float64{},
		objC:      map[int]float64{},
		douParams: map[DParam]float64{},
		intParams: map[IParam]int{},
		strParams: map[SParam]string{},
		naDou:     map[string]float64{},
		naInt:     map[string]int{},
		naStr:     map[string]string{},
		streams:   map[StreamType]StreamFunc{},
	}
}

func (t *simTask) AppendVars(num int) error {
	t.numVars += num
	return nil
}

func (t *simTask) AppendCons(num int) error {
	t.numCons += num
	return nil
}

func (t *simTask) AppendBarVars(dims []int) error {
	t.barDims = append(t.barDims, dims...)
	return nil
}

func (t *simTask) AppendCone(ct ConeType, par float64, sub []int) error {
	t.cones = append(t.cones, coneRecord{ct: ct, sub: append([]int(nil), sub...)})
	return nil
}

func (t *simTask) PutVarBoundList(sub []int, keys []BoundKey, lo, up []float64) error {
	for i, v := range sub {
		t.varBounds[v] = varBound{key: keys[i], lo: lo[i], up: up[i]}
	}
	return nil
}

func (t *simTask) PutVarTypeList(sub []int, types []VarType) error {
	for i, v := range sub {
		t.varTypes[v] = types[i]
	}
	return nil
}

func (t *simTask) PutConBoundList(sub []int, keys []BoundKey, lo, up []float64) error {
	for i, r := range sub {
		t.conBounds[r] = varBound{key: keys[i], lo: lo[i], up: up[i]}
	}
	return nil
}

func (t *simTask) PutAijList(rows, cols []int, vals []float64) error {
	for i := range rows {
		t.aij[[2]int{rows[i], cols[i]}] = vals[i]
	}
	return nil
}

func (t *simTask) AppendSparseSymMat(dim int, rows, cols []int, vals []float64) (int64, error) {
	t.symMats = append(t.symMats, symMatRecord{
		dim:  dim,
		rows: append([]int(nil), rows...),
		cols: append([]int(nil), cols...),
		vals: append([]float64(nil), vals...),
	})
	return int64(len(t.symMats) - 1), nil
}

func (t *simTask) PutBarAij(i, j int, mats []int64, weights []float64) error {
	t.barAij = append(t.barAij, barAijRecord{
		i: i, j: j,
		mats:    append([]int64(nil), mats...),
		weights: append([]float64(nil), weights...),
	})
	return nil
}

func (t *simTask) PutCList(sub []int, vals []float64) error {
	for i, v := range sub {
		t.objC[v] = vals[i]
	}
	return nil
}

func (t *simTask) PutObjSense(sense ObjSense) error {
	t.objSense = sense
	return nil
}

func (t *simTask) PutDouParam(p DParam, v float64) error {
	t.douParams[p] = v
	return nil
}

func (t *simTask) PutIntParam(p IParam, v int) error {
	t.intParams[p] = v
	return nil
}

func (t *simTask) PutStrParam(p SParam, v string) error {
	t.strParams[p] = v
	return nil
}

func (t *simTask) PutNaDouParam(name string, v float64) error {
	t.naDou[name] = v
	return nil
}

func (t *simTask) PutNaIntParam(name string, v int) error {
	t.naInt[name] = v
	return nil
}

func (t *simTask) PutNaStrParam(name, v string) error {
	t.naStr[name] = v
	return nil
}

func (t *simTask) SetStream(st StreamType, fn StreamFunc) { t.streams[st] = fn }

func (t *simTask) Optimize() error {
	t.optimized = true
	if fn, ok := t.streams[StreamLog]; ok && t.logText != "" {
		fn(t.logText)
	}
	return nil
}

func (t *simTask) SolutionSummary(st StreamType) error {
	t.summaries = append(t.summaries, st)
	return nil
}

func (t *simTask) GetSolSta(st SolType) (SolSta, error) {
	t.queried = append(t.queried, st)
	return t.solsta, nil
}

func (t *simTask) GetPrimalObj(st SolType) (float64, error) { return t.pobj, nil }

func (t *simTask) GetXXSlice(st SolType, first, last int, out []float64) error {
	copyBuf(out, t.xx, first)
	return nil
}

func (t *simTask) GetSucSlice(st SolType, first, last int, out []float64) error {
	copyBuf(out, t.suc, first)
	return nil
}

func (t *simTask) GetYSlice(st SolType, first, last int, out []float64) error {
	copyBuf(out, t.y, first)
	return nil
}

func (t *simTask) GetSnxSlice(st SolType, first, last int, out []float64) error {
	copyBuf(out, t.snx, first)
	return nil
}

func (t *simTask) GetBarSj(st SolType, j int, out []float64) error {
	copy(out, t.bars[j])
	return nil
}

func (t *simTask) Close() error {
	t.closed = true
	return nil
}

func copyBuf(out, buf []float64, first int) {
	for i := range out {
		out[i] = buf[first+i]
	}
}
