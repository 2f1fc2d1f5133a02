// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package loop

import "code.hybscloud.com/loop/stage"

// augmented is the loop carry paired with the termination latch.
// done only ever goes from false to true. Never visible to cond or body.
type augmented[T any] struct {
	val  T
	done bool
}

// scanStep is one Scan step: the next state and an empty aux output.
type scanStep[T any] = stage.Pair[augmented[T], struct{}]

// augment pairs the initial carry with an unset latch.
func augment[T any](init stage.Expr[T]) stage.Expr[augmented[T]] {
	return stage.Map(init, activeState[T])
}

func activeState[T any](v T) augmented[T] { return augmented[T]{val: v} }

func emit[T any](s augmented[T]) scanStep[T] { return scanStep[T]{Fst: s} }

// transition returns the one-step state machine driven by Scan.
//
//	done                  -> (val, true)        cond and body not evaluated
//	!done && cond(val)    -> (body(val), false)
//	!done && !cond(val)   -> (val, true)        body not evaluated
func transition[T any](cond func(T) stage.Expr[bool], body func(T) stage.Expr[T], b Branching) func(augmented[T], int) stage.Expr[scanStep[T]] {
	return func(s augmented[T], _ int) stage.Expr[scanStep[T]] {
		next := branch(b, stage.Return(s.done),
			func() stage.Expr[augmented[T]] { return stage.Return(s) },
			func() stage.Expr[augmented[T]] {
				return branch(b, cond(s.val),
					func() stage.Expr[augmented[T]] { return stage.Map(body(s.val), activeState[T]) },
					func() stage.Expr[augmented[T]] { return stage.Return(augmented[T]{val: s.val, done: true}) },
				)
			},
		)
		return stage.Map(next, emit[T])
	}
}

// branch dispatches to the exclusive conditional, or to the eager select
// when b is Select.
func branch[A any](b Branching, pred stage.Expr[bool], onTrue, onFalse func() stage.Expr[A]) stage.Expr[A] {
	if b == Select {
		return stage.Select(pred, onTrue(), onFalse())
	}
	return stage.Cond(pred, onTrue, onFalse)
}

// guard returns the final carry, poisoned with a *BoundExceededError when
// the latch never set.
func guard[T any](maxSteps int) func(stage.Pair[augmented[T], []struct{}]) stage.Expr[T] {
	return func(out stage.Pair[augmented[T], []struct{}]) stage.Expr[T] {
		final := out.Fst
		return stage.ErrorIf(final.val, !final.done, &BoundExceededError{MaxSteps: maxSteps})
	}
}

// WhileExpr stages a bounded while loop whose condition and body are
// themselves staged computations.
//
// The result is the carry at the first step where cond reports false. If
// cond still holds after maxSteps applications of body, the result is the
// carry after the last step and realizing it reports a *BoundExceededError.
//
// A negative maxSteps returns a *ConfigError before anything is staged.
// When maxSteps is 0, init is returned unchanged. Nothing is evaluated at
// construction: cond and body only run when the result is realized, and
// after cond first reports false neither of them runs again (unless
// [WithBranching] selects [Select]). Failures staged by cond or body
// propagate unchanged.
func WhileExpr[T any](cond func(T) stage.Expr[bool], body func(T) stage.Expr[T], init stage.Expr[T], maxSteps int, opts ...Option) (stage.Expr[T], error) {
	if maxSteps < 0 {
		return stage.Expr[T]{}, &ConfigError{Value: maxSteps}
	}
	o := newOptions(opts)
	if maxSteps == 0 {
		return init, nil
	}
	final := stage.Scan(transition(cond, body, o.branching), augment(init), maxSteps)
	return stage.Bind(final, guard[T](maxSteps)), nil
}

// While stages a bounded while loop over plain functions. It emulates
//
//	val := init
//	for i := 0; cond(val) && i < maxSteps; i++ {
//		val = body(val)
//	}
//
// as exactly maxSteps staged steps with a termination latch, and flags the
// result when cond never became false. See [WhileExpr].
func While[T any](cond func(T) bool, body func(T) T, init T, maxSteps int, opts ...Option) (stage.Expr[T], error) {
	return WhileExpr(
		func(v T) stage.Expr[bool] { return stage.Return(cond(v)) },
		func(v T) stage.Expr[T] { return stage.Return(body(v)) },
		stage.Return(init), maxSteps, opts...,
	)
}

// Run stages and realizes a bounded while loop in one call.
//
// On a configuration error it returns the zero value. When the bound is
// exceeded it returns the carry after the last step together with a
// *BoundExceededError.
func Run[T any](cond func(T) bool, body func(T) T, init T, maxSteps int, opts ...Option) (T, error) {
	m, err := While(cond, body, init, maxSteps, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return stage.Realize(m)
}
