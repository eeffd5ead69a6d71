// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conic

import "fmt"

// Dims records the row layout of the stacked system,
// in canonical stacking order.
type Dims struct {
	// Eq is the row count of the zero-cone prefix.
	Eq int
	// Leq is the row count of the nonnegative block.
	Leq int
	// SOC lists the individual second-order cone sizes, flattened across
	// constraints in stacking order.
	SOC []int
	// Exp lists the exponential block length of each constraint,
	// every entry a multiple of 3.
	Exp []int
	// PSD lists the matrix order of each semidefinite block.
	// Each block occupies dim² stacked rows.
	PSD []int
}

// SOCTotal is the number of second-order slack variables.
func (d *Dims) SOCTotal() int {
	t := 0
	for _, s := range d.SOC {
		t += s
	}
	return t
}

// ExpTotal is the number of exponential slack variables.
func (d *Dims) ExpTotal() int {
	t := 0
	for _, s := range d.Exp {
		t += s
	}
	return t
}

// SlackTotal is the full slack suffix length: the second-order and
// exponential slacks occupy variable indices [n0, n0+SlackTotal).
func (d *Dims) SlackTotal() int {
	return d.SOCTotal() + d.ExpTotal()
}

// PSDEntryTotal is Σ dim² over the semidefinite blocks.
func (d *Dims) PSDEntryTotal() int {
	t := 0
	for _, dim := range d.PSD {
		t += dim * dim
	}
	return t
}

// EncodedSystem is one conic program in stacked block form: the constraint
// set reads G·x ≤_K H with K the product of cones described by Dims, and the
// objective reads min C·x + Constant. Built once per solve attempt and
// immutable afterwards.
type EncodedSystem struct {
	// C holds the objective coefficients over the first N0 variables.
	C []float64
	// Constant is the objective offset, added back after the solve.
	Constant float64
	// G is the stacked coefficient matrix, N0 columns wide.
	G *Matrix
	// H is the stacked offset vector, len(H) == G.Rows.
	H []float64
	// Dims is the row layout of G and H.
	Dims Dims
	// BoolIdx and IntIdx select 0/1 and integer variables among the
	// first N0 indices.
	BoolIdx []int
	IntIdx  []int
	// N0 is the variable count before slack expansion.
	N0 int
}

// InverseMap is the bookkeeping needed to map solver result buffers back to
// the caller's constraint identities. The four tables list constraints in
// the exact row order used while stacking; each is decoded through a
// different solver accessor.
type InverseMap struct {
	// YSlacks covers the zero-cone rows (equality duals).
	YSlacks []ConstraintRef
	// SucSlacks covers the nonnegative rows (inequality duals).
	SucSlacks []ConstraintRef
	// SnxSlacks covers the second-order and exponential rows
	// (conic slack duals).
	SnxSlacks []ConstraintRef
	// PSDDims lists the semidefinite blocks; Dim is the matrix order.
	PSDDims []ConstraintRef
	// N0 is the variable count before slack expansion.
	N0 int
	// Constant is the objective offset to add back while decoding.
	Constant float64
	// Integer reports whether any integrality constraint was declared,
	// selecting the solver result pool.
	Integer bool
}

// blockFormat stacks same-kind constraints into one coefficient block such
// that A·x ≤_K b holds exactly when every input constraint holds: each
// expression flattens to Aᶜ·x + bᶜ and contributes rows (-Aᶜ, bᶜ), so the
// cone slack b - A·x equals the expression value. perm, when non-nil,
// reorders rows within every consecutive group of len(perm) rows after
// flattening, for cone conventions whose native axis order differs from the
// canonical one. Empty input returns a nil block. Extractor failures are
// fatal precondition violations and propagate unchanged.
func blockFormat(ext CoeffExtractor, cons []Constraint, perm []int) (a *Matrix, b []float64, lengths []int, ids []int64, err error) {
	if len(cons) == 0 {
		return nil, nil, nil, nil, nil
	}
	var blocks []*Matrix
	for _, con := range cons {
		ca, cb, err := ext.Affine(con.Expr)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("constraint %d: %w", con.ID, err)
		}
		ca.Scale(-1)
		if perm != nil {
			ca, cb = permuteRows(ca, cb, perm)
		}
		blocks = append(blocks, ca)
		b = append(b, cb...)
		lengths = append(lengths, len(cb))
		ids = append(ids, con.ID)
	}
	return vstack(blocks, blocks[0].Cols), b, lengths, ids, nil
}

// permuteRows reorders rows within consecutive groups of len(perm) rows:
// stacked local row i takes flattened local row perm[i].
func permuteRows(a *Matrix, b []float64, perm []int) (*Matrix, []float64) {
	k := len(perm)
	inv := make([]int, k)
	for i, p := range perm {
		inv[p] = i
	}
	pa := NewMatrix(a.Rows, a.Cols)
	for _, nz := range a.Nz {
		g, q := nz.Row/k, nz.Row%k
		pa.Set(g*k+inv[q], nz.Col, nz.Val)
	}
	pb := make([]float64, len(b))
	for g := 0; g*k < len(b); g++ {
		for i := 0; i < k; i++ {
			pb[g*k+i] = b[g*k+perm[i]]
		}
	}
	return pa, pb
}

func refs(ids []int64, lengths []int) []ConstraintRef {
	out := make([]ConstraintRef, len(ids))
	for i := range ids {
		out[i] = ConstraintRef{ID: ids[i], Dim: lengths[i]}
	}
	return out
}

// Encode turns a conic program into one stacked system plus the inverse
// mapping that the decoder threads back through unchanged. Constraints are
// partitioned by cone kind and stacked in the canonical order
// Zero → NonNeg → SecondOrder → Exponential → PSD; the order fixes the row
// layout the bridge and the decoder both derive their offsets from.
// Semidefinite constraints flatten dense, dim² rows per block, trading row
// count for bookkeeping simplicity. A problem with zero variables still
// yields a well-formed empty system: the bridge short-circuits it instead of
// submitting a variable-less model.
func Encode(p *Problem, ext CoeffExtractor, caps Capabilities) (*EncodedSystem, *InverseMap, error) {
	if err := p.validate(); err != nil {
		return nil, nil, err
	}
	if err := caps.check(p); err != nil {
		return nil, nil, err
	}

	ca, cb, err := ext.Affine(p.Objective)
	if err != nil {
		return nil, nil, fmt.Errorf("objective: %w", err)
	}
	c := make([]float64, p.N)
	for _, nz := range ca.Nz {
		c[nz.Col] += nz.Val
	}

	var zero, nonneg, soc, exp, psd []Constraint
	for _, con := range p.Constraints {
		switch con.Kind {
		case Zero:
			zero = append(zero, con)
		case NonNeg:
			nonneg = append(nonneg, con)
		case SecondOrder:
			soc = append(soc, con)
		case Exponential:
			exp = append(exp, con)
		case PSD:
			psd = append(psd, con)
		default:
			return nil, nil, fmt.Errorf("constraint %d: unsupported cone kind %v", con.ID, con.Kind)
		}
	}

	sys := &EncodedSystem{
		C:        c,
		Constant: cb[0],
		BoolIdx:  append([]int(nil), p.BoolIdx...),
		IntIdx:   append([]int(nil), p.IntIdx...),
		N0:       p.N,
	}
	inv := &InverseMap{
		N0:       p.N,
		Constant: cb[0],
		Integer:  len(p.BoolIdx)+len(p.IntIdx) > 0,
	}

	var blocks []*Matrix
	var h []float64

	// Linear equalities.
	if a, b, lengths, ids, err := blockFormat(ext, zero, nil); err != nil {
		return nil, nil, err
	} else if a != nil {
		inv.YSlacks = refs(ids, lengths)
		sys.Dims.Eq = len(b)
		blocks, h = append(blocks, a), append(h, b...)
	}

	// Linear inequalities.
	if a, b, lengths, ids, err := blockFormat(ext, nonneg, nil); err != nil {
		return nil, nil, err
	} else if a != nil {
		inv.SucSlacks = refs(ids, lengths)
		sys.Dims.Leq = len(b)
		blocks, h = append(blocks, a), append(h, b...)
	}

	// Second-order cones.
	if a, b, lengths, ids, err := blockFormat(ext, soc, nil); err != nil {
		return nil, nil, err
	} else if a != nil {
		for _, con := range soc {
			sys.Dims.SOC = append(sys.Dims.SOC, con.SOCSizes...)
		}
		inv.SnxSlacks = append(inv.SnxSlacks, refs(ids, lengths)...)
		blocks, h = append(blocks, a), append(h, b...)
	}

	// Exponential cones, axes permuted into the solver's convention.
	if a, b, lengths, ids, err := blockFormat(ext, exp, caps.ExpConeOrder); err != nil {
		return nil, nil, err
	} else if a != nil {
		sys.Dims.Exp = lengths
		inv.SnxSlacks = append(inv.SnxSlacks, refs(ids, lengths)...)
		blocks, h = append(blocks, a), append(h, b...)
	}

	// Semidefinite blocks, flattened dense.
	for _, con := range psd {
		a, b, err := ext.Affine(con.Expr)
		if err != nil {
			return nil, nil, fmt.Errorf("constraint %d: %w", con.ID, err)
		}
		a.Scale(-1)
		inv.PSDDims = append(inv.PSDDims, ConstraintRef{ID: con.ID, Dim: con.Dim})
		sys.Dims.PSD = append(sys.Dims.PSD, con.Dim)
		blocks, h = append(blocks, a), append(h, b...)
	}

	sys.G = vstack(blocks, p.N)
	sys.H = h
	return sys, inv, nil
}
