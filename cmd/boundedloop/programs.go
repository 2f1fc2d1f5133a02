// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"code.hybscloud.com/loop"
	"code.hybscloud.com/loop/stage"
)

// report is the printable result of one bounded loop.
type report struct {
	Program string  `json:"program" yaml:"program"`
	Init    float64 `json:"init" yaml:"init"`
	Value   float64 `json:"value" yaml:"value"`
	Steps   int     `json:"steps" yaml:"steps"`
	Error   string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// program stages a demo loop from a numeric initial value.
type program struct {
	name        string
	description string
	build       func(init float64, maxSteps int, opts ...loop.Option) (stage.Expr[report], error)
}

var programs = map[string]program{
	"collatz": {
		name:        "collatz",
		description: "Collatz trajectory of a positive integer until it reaches 1",
		build:       buildCollatz,
	},
	"sqrt": {
		name:        "sqrt",
		description: "Newton iteration for the square root of a non-negative number",
		build:       buildSqrt,
	},
	"halve": {
		name:        "halve",
		description: "Halve a number until it drops below 1",
		build:       buildHalve,
	},
}

func lookupProgram(name string) (program, error) {
	p, ok := programs[strings.ToLower(name)]
	if !ok {
		return program{}, fmt.Errorf("unknown program %q (available: %s)", name, strings.Join(programNames(), ", "))
	}
	return p, nil
}

func programNames() []string {
	names := make([]string, 0, len(programs))
	for name := range programs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type collatzCarry struct {
	n     int64
	steps int
}

// errCollatzOverflow reports a trajectory leaving the int64 range.
var errCollatzOverflow = errors.New("collatz: 3n+1 overflows int64")

// collatzStep applies one Collatz step, failing instead of wrapping around.
func collatzStep(c collatzCarry) stage.Expr[collatzCarry] {
	if c.n%2 == 0 {
		return stage.Return(collatzCarry{n: c.n / 2, steps: c.steps + 1})
	}
	if c.n > (math.MaxInt64-1)/3 {
		return stage.Fail[collatzCarry](fmt.Errorf("%w at n=%d", errCollatzOverflow, c.n))
	}
	return stage.Return(collatzCarry{n: 3*c.n + 1, steps: c.steps + 1})
}

func buildCollatz(init float64, maxSteps int, opts ...loop.Option) (stage.Expr[report], error) {
	if init < 1 || init != math.Trunc(init) || init > 1<<53 {
		return stage.Expr[report]{}, fmt.Errorf("collatz: init must be a positive integer up to 2^53, got %v", init)
	}
	m, err := loop.WhileExpr(
		func(c collatzCarry) stage.Expr[bool] { return stage.Return(c.n != 1) },
		collatzStep,
		stage.Return(collatzCarry{n: int64(init)}), maxSteps, opts...,
	)
	if err != nil {
		return stage.Expr[report]{}, err
	}
	return stage.Map(m, func(c collatzCarry) report {
		return report{Program: "collatz", Init: init, Value: float64(c.n), Steps: c.steps}
	}), nil
}

type newtonCarry struct {
	x     float64
	steps int
}

func buildSqrt(init float64, maxSteps int, opts ...loop.Option) (stage.Expr[report], error) {
	if init < 0 || math.IsNaN(init) || math.IsInf(init, 0) {
		return stage.Expr[report]{}, fmt.Errorf("sqrt: init must be a finite non-negative number, got %v", init)
	}
	a := init
	tol := 1e-12 * math.Max(1, a)
	m, err := loop.While(
		func(c newtonCarry) bool { return math.Abs(c.x*c.x-a) > tol },
		func(c newtonCarry) newtonCarry {
			return newtonCarry{x: (c.x + a/c.x) / 2, steps: c.steps + 1}
		},
		newtonCarry{x: math.Max(a, 1)}, maxSteps, opts...,
	)
	if err != nil {
		return stage.Expr[report]{}, err
	}
	return stage.Map(m, func(c newtonCarry) report {
		return report{Program: "sqrt", Init: init, Value: c.x, Steps: c.steps}
	}), nil
}

func buildHalve(init float64, maxSteps int, opts ...loop.Option) (stage.Expr[report], error) {
	if math.IsNaN(init) || math.IsInf(init, 0) {
		return stage.Expr[report]{}, fmt.Errorf("halve: init must be finite, got %v", init)
	}
	m, err := loop.While(
		func(c newtonCarry) bool { return c.x >= 1 },
		func(c newtonCarry) newtonCarry { return newtonCarry{x: c.x / 2, steps: c.steps + 1} },
		newtonCarry{x: init}, maxSteps, opts...,
	)
	if err != nil {
		return stage.Expr[report]{}, err
	}
	return stage.Map(m, func(c newtonCarry) report {
		return report{Program: "halve", Init: init, Value: c.x, Steps: c.steps}
	}), nil
}
