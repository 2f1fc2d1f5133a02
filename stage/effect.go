// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stage

// Operation is a request a staged computation makes of its evaluator.
type Operation any

// Resumed is the evaluator's answer to an Operation.
type Resumed any

// Op ties an operation type to the type of its answer, so that [Perform]
// can infer the result type from the operation alone:
//
//	type Ask[A any] struct{ stage.Phantom[A] }
//
//	x := stage.Perform(Ask[int]{}) // Expr[int]
type Op[O Op[O, A], A any] interface {
	OpResult() A
}

// Phantom supplies the OpResult marker when embedded in an operation type.
type Phantom[A any] struct{}

// OpResult is never called.
func (Phantom[A]) OpResult() A { panic("phantom") }

// Handler answers operations during [Handle]. Dispatch returns the answer
// and true to resume, or a final result and false to stop evaluation.
type Handler[H Handler[H, R], R any] interface {
	Dispatch(op Operation) (Resumed, bool)
}

type handlerFunc[R any] struct {
	dispatch func(op Operation) (Resumed, bool)
}

func (h *handlerFunc[R]) Dispatch(op Operation) (Resumed, bool) { return h.dispatch(op) }

// HandleFunc adapts a function to a [Handler] with result type R:
//
//	v := stage.Handle(m, stage.HandleFunc[int](func(op stage.Operation) (stage.Resumed, bool) {
//		if _, ok := op.(Ask[int]); ok {
//			return 42, true
//		}
//		panic("unexpected operation")
//	}))
func HandleFunc[R any](dispatch func(op Operation) (Resumed, bool)) *handlerFunc[R] {
	return &handlerFunc[R]{dispatch: dispatch}
}

func identityResume(v Erased) Erased { return v }

// Perform stages op. When realized, the computation pauses at op and
// continues with the evaluator's answer as its value.
func Perform[O Op[O, A], A any](op O) Expr[A] {
	return Suspend[A](&EffectFrame[Erased]{Operation: op, Resume: identityResume, Next: ReturnFrame{}})
}

//go:noinline
func unhandledEffect(evaluator string) {
	panic("stage: unhandled effect in " + evaluator)
}
