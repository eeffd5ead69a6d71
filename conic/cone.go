// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package conic translates an abstract conic program (a linear objective
// subject to membership constraints in the standard cones) into one stacked
// sparse block system ready for a generic conic/integer solver, and defines
// the canonical status and solution types produced when the solver output is
// mapped back onto the caller's constraint identities.
//
// The supported cones are the zero cone, the nonnegative orthant, the
// second-order cone, the exponential cone, and the positive semidefinite cone.
// Rows are stacked per cone kind in the fixed order
// Zero → NonNeg → SecondOrder → Exponential → PSD; the decoder relies on
// exactly this layout, recorded in the InverseMap, to slice solver dual
// buffers back per constraint.
package conic

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ConeKind enumerates the cone memberships understood by the encoder.
// The set is closed: partitioning switches over it exhaustively, so adding
// a kind without updating the encoder and decoder fails loudly.
type ConeKind int

const (
	// Zero constrains the expression to equal 0 elementwise.
	Zero ConeKind = iota
	// NonNeg constrains the expression to the nonnegative orthant.
	NonNeg
	// SecondOrder constrains the expression to one or more quadratic cones.
	SecondOrder
	// Exponential constrains consecutive triples to the primal exponential cone.
	Exponential
	// PSD constrains a dim×dim symmetric expression to the semidefinite cone.
	PSD
)

func (k ConeKind) String() string {
	switch k {
	case Zero:
		return "Zero"
	case NonNeg:
		return "NonNeg"
	case SecondOrder:
		return "SecondOrder"
	case Exponential:
		return "Exponential"
	case PSD:
		return "PSD"
	}
	return fmt.Sprintf("ConeKind(%d)", int(k))
}

// Expr is an opaque handle to an affine expression owned by the caller's
// modeling layer. The encoder never inspects it beyond the row count:
// flattening is delegated to a CoeffExtractor.
type Expr interface {
	// Rows is the dimension of the expression value.
	Rows() int
}

// CoeffExtractor flattens an affine expression into coefficients A and an
// offset b such that the expression equals A·x + b over the scalar decision
// variables. A non-affine expression must be rejected with an error, which
// the encoder treats as a fatal precondition violation.
type CoeffExtractor interface {
	Affine(e Expr) (a *Matrix, b []float64, err error)
}

// Constraint ties a caller constraint identity to its cone membership.
type Constraint struct {
	// ID is the caller's identity for this constraint, unique per problem.
	ID int64
	// Kind selects the cone the expression must belong to.
	Kind ConeKind
	// Expr is the affine expression constrained to the cone.
	Expr Expr
	// SOCSizes lists the individual cone sizes within a SecondOrder
	// constraint. Their sum must equal Expr.Rows().
	SOCSizes []int
	// Dim is the matrix order of a PSD constraint.
	// The expression flattens to Dim² rows, column-major.
	Dim int
}

// ConstraintRef records one constraint identity and the row count it occupies
// in the stacked system, in the exact order used while stacking.
type ConstraintRef struct {
	ID  int64
	Dim int
}

// Problem is a conic program handed to Encode.
type Problem struct {
	// N is the number of scalar decision variables before slack expansion.
	N int
	// Objective is a scalar affine expression to be minimized.
	Objective Expr
	// Constraints is the full constraint list, any mix of cone kinds.
	Constraints []Constraint
	// BoolIdx selects 0/1 variables among the first N indices.
	BoolIdx []int
	// IntIdx selects unbounded integer variables among the first N indices.
	IntIdx []int
}

func (p *Problem) validate() (err error) {
	switch {
	case p.N < 0:
		err = errors.New("variable number must not be negative")
	case p.Objective == nil:
		err = errors.New("objective expression is required")
	case p.Objective.Rows() != 1:
		err = errors.New("objective expression must be scalar")
	}
	if err != nil {
		return
	}
	for _, i := range p.BoolIdx {
		if i < 0 || i >= p.N {
			return fmt.Errorf("boolean index %d out of range", i)
		}
	}
	for _, i := range p.IntIdx {
		if i < 0 || i >= p.N {
			return fmt.Errorf("integer index %d out of range", i)
		}
	}
	seen := make(map[int64]bool, len(p.Constraints))
	for _, con := range p.Constraints {
		if seen[con.ID] {
			return fmt.Errorf("duplicate constraint id %d", con.ID)
		}
		seen[con.ID] = true
		if con.Expr == nil {
			return fmt.Errorf("constraint %d: expression is required", con.ID)
		}
		rows := con.Expr.Rows()
		if rows < 1 {
			return fmt.Errorf("constraint %d: dimension must be at least 1", con.ID)
		}
		switch con.Kind {
		case Zero, NonNeg:
			// Any dimension is fine.
		case SecondOrder:
			total := 0
			for _, s := range con.SOCSizes {
				if s < 1 {
					return fmt.Errorf("constraint %d: cone size must be at least 1", con.ID)
				}
				total += s
			}
			if len(con.SOCSizes) == 0 || total != rows {
				return fmt.Errorf("constraint %d: cone sizes must sum to expression rows", con.ID)
			}
		case Exponential:
			if rows%3 != 0 {
				return fmt.Errorf("constraint %d: exponential block must be a multiple of 3 rows", con.ID)
			}
		case PSD:
			if con.Dim < 1 || con.Dim*con.Dim != rows {
				return fmt.Errorf("constraint %d: expression must flatten to dim² rows", con.ID)
			}
		default:
			return fmt.Errorf("constraint %d: unsupported cone kind %v", con.ID, con.Kind)
		}
	}
	return nil
}

// Capabilities describes what the selected solver accepts. It is computed
// once at solver-selection time and passed alongside the solver handle;
// nothing mutates it afterwards. The zero cone and the nonnegative orthant
// are always accepted.
type Capabilities struct {
	// MIP reports support for integer variables.
	MIP bool
	// SecondOrder, Exponential and PSD report optional cone support.
	// Older solver builds may lack the exponential cone.
	SecondOrder bool
	Exponential bool
	PSD         bool
	// ExpConeOrder permutes canonical exponential axes (x, y, z) into the
	// solver's native order. Nil means the identity order.
	ExpConeOrder []int
}

func (c Capabilities) check(p *Problem) error {
	if !c.MIP && len(p.BoolIdx)+len(p.IntIdx) > 0 {
		return errors.New("solver does not support integer variables")
	}
	for _, con := range p.Constraints {
		switch con.Kind {
		case Zero, NonNeg:
		case SecondOrder:
			if !c.SecondOrder {
				return fmt.Errorf("constraint %d: solver does not support the second-order cone", con.ID)
			}
		case Exponential:
			if !c.Exponential {
				return fmt.Errorf("constraint %d: solver does not support the exponential cone", con.ID)
			}
		case PSD:
			if !c.PSD {
				return fmt.Errorf("constraint %d: solver does not support the semidefinite cone", con.ID)
			}
		default:
			return fmt.Errorf("constraint %d: unsupported cone kind %v", con.ID, con.Kind)
		}
	}
	return nil
}

// Accepts reports whether the problem can be handed to a solver with these
// capabilities: every cone kind must be supported and every expression affine.
func (c Capabilities) Accepts(p *Problem, ext CoeffExtractor) bool {
	if p.validate() != nil || c.check(p) != nil {
		return false
	}
	if _, _, err := ext.Affine(p.Objective); err != nil {
		return false
	}
	for _, con := range p.Constraints {
		if _, _, err := ext.Affine(con.Expr); err != nil {
			return false
		}
	}
	return true
}

// DenseExpr is a concrete affine expression backed by dense coefficients,
// usable when no external modeling layer provides the flattening.
// The expression value is A·x + B. A nil A means a constant expression
// over zero columns with len(B) rows.
type DenseExpr struct {
	A *mat.Dense
	B []float64
}

// Rows implements Expr.
func (e *DenseExpr) Rows() int {
	if e.A == nil {
		return len(e.B)
	}
	r, _ := e.A.Dims()
	return r
}

// DenseExtractor flattens DenseExpr values and rejects any other expression
// as non-affine.
type DenseExtractor struct{}

// Affine implements CoeffExtractor.
func (DenseExtractor) Affine(e Expr) (*Matrix, []float64, error) {
	de, ok := e.(*DenseExpr)
	if !ok {
		return nil, nil, fmt.Errorf("expression %T is not affine", e)
	}
	rows, cols := len(de.B), 0
	if de.A != nil {
		rows, cols = de.A.Dims()
	}
	if len(de.B) != rows {
		return nil, nil, fmt.Errorf("offset length %d does not match %d rows", len(de.B), rows)
	}
	m := NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := de.A.At(i, j); v != 0 {
				m.Set(i, j, v)
			}
		}
	}
	b := append([]float64(nil), de.B...)
	return m, b, nil
}
