// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ad implements scalar reverse-mode automatic differentiation on a
// Wengert tape.
//
// Every arithmetic operation on a [Var] appends a node to its [Tape] with
// the local partial derivatives. [Tape.Gradient] sweeps the tape backwards
// from an output. Only operations that actually execute are recorded, so
// differentiating through a staged loop yields the derivative of the steps
// that ran, not of the bound.
//
// A Tape is not safe for concurrent use.
package ad

import "math"

// Tape records operations for the reverse sweep.
type Tape struct {
	nodes []node
}

// node is one recorded operation with up to two inputs.
type node struct {
	parents  [2]int
	partials [2]float64
	arity    int
}

// Var is a scalar value recorded on a tape.
type Var struct {
	tape  *Tape
	index int
	value float64
}

// NewTape returns an empty tape.
func NewTape() *Tape { return &Tape{} }

// Var records an independent variable.
func (t *Tape) Var(v float64) Var {
	t.nodes = append(t.nodes, node{})
	return Var{tape: t, index: len(t.nodes) - 1, value: v}
}

// Len returns the number of recorded nodes.
func (t *Tape) Len() int { return len(t.nodes) }

func (t *Tape) unary(value float64, x Var, dx float64) Var {
	t.nodes = append(t.nodes, node{parents: [2]int{x.index}, partials: [2]float64{dx}, arity: 1})
	return Var{tape: t, index: len(t.nodes) - 1, value: value}
}

func (t *Tape) binary(value float64, x Var, dx float64, y Var, dy float64) Var {
	t.nodes = append(t.nodes, node{parents: [2]int{x.index, y.index}, partials: [2]float64{dx, dy}, arity: 2})
	return Var{tape: t, index: len(t.nodes) - 1, value: value}
}

// Value returns the primal value.
func (x Var) Value() float64 { return x.value }

// Tape returns the tape x is recorded on.
func (x Var) Tape() *Tape { return x.tape }

func sameTape(x, y Var) *Tape {
	if x.tape == nil || x.tape != y.tape {
		panic("ad: variables from different tapes")
	}
	return x.tape
}

func onTape(x Var) *Tape {
	if x.tape == nil {
		panic("ad: variable not on a tape")
	}
	return x.tape
}

// Add returns x + y.
func Add(x, y Var) Var {
	return sameTape(x, y).binary(x.value+y.value, x, 1, y, 1)
}

// Sub returns x - y.
func Sub(x, y Var) Var {
	return sameTape(x, y).binary(x.value-y.value, x, 1, y, -1)
}

// Mul returns x * y.
func Mul(x, y Var) Var {
	return sameTape(x, y).binary(x.value*y.value, x, y.value, y, x.value)
}

// Div returns x / y.
func Div(x, y Var) Var {
	return sameTape(x, y).binary(x.value/y.value, x, 1/y.value, y, -x.value/(y.value*y.value))
}

// Scale returns c * x.
func Scale(x Var, c float64) Var {
	return onTape(x).unary(c*x.value, x, c)
}

// Shift returns x + c.
func Shift(x Var, c float64) Var {
	return onTape(x).unary(x.value+c, x, 1)
}

// Sin returns sin(x).
func Sin(x Var) Var {
	return onTape(x).unary(math.Sin(x.value), x, math.Cos(x.value))
}

// Exp returns e**x.
func Exp(x Var) Var {
	e := math.Exp(x.value)
	return onTape(x).unary(e, x, e)
}

// Gradient returns d out / d w for each w in wrt.
func (t *Tape) Gradient(out Var, wrt ...Var) []float64 {
	if out.tape != t {
		panic("ad: output not on this tape")
	}
	adj := make([]float64, out.index+1)
	adj[out.index] = 1
	for i := out.index; i >= 0; i-- {
		if adj[i] == 0 {
			continue
		}
		n := t.nodes[i]
		for j := range n.arity {
			adj[n.parents[j]] += n.partials[j] * adj[i]
		}
	}
	grads := make([]float64, len(wrt))
	for i, w := range wrt {
		if w.tape != t {
			panic("ad: variable not on this tape")
		}
		if w.index <= out.index {
			grads[i] = adj[w.index]
		}
	}
	return grads
}
