// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stage

import "errors"

// Failure effects.
// Throw aborts evaluation. Assert poisons the value flowing through it:
// evaluation continues with the value unchanged and the failure is reported
// once the computation is realized.

// FailureContext accumulates failures observed during one realization.
type FailureContext struct {
	Errs    []error
	Aborted bool
}

// Err returns the recorded failure, or nil. A single failure is returned
// as-is so that callers can compare it by identity.
func (c *FailureContext) Err() error {
	switch len(c.Errs) {
	case 0:
		return nil
	case 1:
		return c.Errs[0]
	}
	return errors.Join(c.Errs...)
}

// Throw is the effect operation that aborts evaluation with Err.
type Throw struct{ Err error }

func (Throw) OpResult() Resumed { panic("phantom") }

// Failure returns the error carried by the operation.
func (o Throw) Failure() error { return o.Err }

// DispatchFailure records the error and stops evaluation.
func (o Throw) DispatchFailure(ctx *FailureContext) (Resumed, bool) {
	ctx.Errs = append(ctx.Errs, o.Err)
	ctx.Aborted = true
	return nil, false
}

// Assert is the deferred assertion operation staged by [ErrorIf].
type Assert struct{ Err error }

func (Assert) OpResult() struct{} { panic("phantom") }

// Failure returns the error carried by the operation.
func (o Assert) Failure() error { return o.Err }

// DispatchFailure records the error and resumes.
func (o Assert) DispatchFailure(ctx *FailureContext) (Resumed, bool) {
	ctx.Errs = append(ctx.Errs, o.Err)
	return struct{}{}, true
}

// Fail stages a computation that aborts with err when evaluated.
func Fail[A any](err error) Expr[A] {
	// Built directly: Throw.OpResult is Resumed, so Perform would yield Expr[Resumed].
	return Suspend[A](&EffectFrame[Erased]{
		Operation: Throw{Err: err},
		Resume:    identityResume,
		Next:      ReturnFrame{},
	})
}

// ErrorIf is the deferred assertion primitive. If pred is false it returns
// v unchanged. Otherwise it returns a computation that evaluates to v but
// carries err: realizing it reports err alongside the value.
//
// The check is staged, never resolved eagerly. A computation that is
// never evaluated never reports.
func ErrorIf[A any](v A, pred bool, err error) Expr[A] {
	if !pred {
		return Return(v)
	}
	return Then(Perform(Assert{Err: err}), Return(v))
}

// failureHandler implements Handler for Throw and Assert.
type failureHandler[A any] struct {
	ctx *FailureContext
}

// Dispatch implements Handler via structural interface assertion.
func (h *failureHandler[A]) Dispatch(op Operation) (Resumed, bool) {
	if fop, ok := op.(interface {
		DispatchFailure(ctx *FailureContext) (Resumed, bool)
	}); ok {
		v, resume := fop.DispatchFailure(h.ctx)
		if !resume {
			return Left[error, A](h.ctx.Err()), false
		}
		return v, true
	}
	unhandledEffect("Realize")
	return nil, false
}

// rightOf lifts a completed value into Either.
func rightOf[A any](a A) Either[error, A] { return Right[error](a) }

// realize evaluates m and returns its value together with every failure
// observed along the way.
func realize[A any](m Expr[A]) (Either[error, A], *FailureContext) {
	var ctx FailureContext
	h := &failureHandler[A]{ctx: &ctx}
	return Handle(Map(m, rightOf[A]), h), &ctx
}

// Realize evaluates m.
//
// On success it returns (value, nil). When the computation passed through a
// failed [ErrorIf], the value is the one that flowed through it and the error
// is the assertion's. When it was aborted by [Fail], the value is zero.
func Realize[A any](m Expr[A]) (A, error) {
	result, ctx := realize(m)
	v, _ := result.GetRight()
	return v, ctx.Err()
}

// RealizeEither evaluates m and returns Left on any failure.
func RealizeEither[A any](m Expr[A]) Either[error, A] {
	result, ctx := realize(m)
	if err := ctx.Err(); err != nil {
		return Left[error, A](err)
	}
	return result
}

// MustRealize evaluates m and panics with the failure, if any.
func MustRealize[A any](m Expr[A]) A {
	v, err := Realize(m)
	if err != nil {
		panic(err)
	}
	return v
}
