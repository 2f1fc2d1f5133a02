// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stage

import "sync/atomic"

// Suspension is a computation paused on an operation, for callers that
// answer operations themselves instead of installing a [Handler].
//
// A Suspension continues at most once: a second Resume panics and a second
// TryResume reports false. Discard gives it up without continuing.
type Suspension[A any] struct {
	used atomic.Uintptr
	ef   *EffectFrame[Erased]
	rest Frame
}

// Op is the operation the computation is waiting on.
func (s *Suspension[A]) Op() Operation { return s.ef.Operation }

// Resume answers Op with v and runs to the next operation or to the end.
func (s *Suspension[A]) Resume(v Resumed) (A, *Suspension[A]) {
	if !s.claim() {
		panic("stage: suspension resumed twice")
	}
	return s.advance(v)
}

// TryResume is Resume that reports false instead of panicking when s was
// already resumed or discarded.
func (s *Suspension[A]) TryResume(v Resumed) (A, *Suspension[A], bool) {
	if !s.claim() {
		var zero A
		return zero, nil, false
	}
	a, next := s.advance(v)
	return a, next, true
}

// Discard abandons s.
func (s *Suspension[A]) Discard() { s.used.Store(1) }

func (s *Suspension[A]) claim() bool { return s.used.Add(1) == 1 }

func (s *Suspension[A]) advance(v Resumed) (A, *Suspension[A]) {
	return settle[A](evalFrames[stepProcessor[A], Erased](s.ef.Resume(v), s.rest, stepProcessor[A]{}))
}

// Step runs m up to its first operation. It returns the result and a nil
// Suspension when m completes without performing any.
//
// An overflow or other failure staged by [ErrorIf] pauses as an [Assert];
// resuming it with struct{}{} carries on with the unchanged value:
//
//	v, susp := stage.Step(m)
//	for susp != nil {
//		if a, ok := susp.Op().(stage.Assert); ok {
//			log.Print(a.Err)
//		}
//		v, susp = susp.Resume(struct{}{})
//	}
func Step[A any](m Expr[A]) (A, *Suspension[A]) {
	return settle[A](evalFrames[stepProcessor[A], Erased](Erased(m.Value), m.Frame, stepProcessor[A]{}))
}

// stepProcessor stops at the first effect frame and hands it out as a
// Suspension.
type stepProcessor[A any] struct{}

func (stepProcessor[A]) processEffect(f *EffectFrame[Erased], rest Frame) (Erased, Frame, Erased, bool) {
	return nil, nil, &Suspension[A]{ef: f, rest: rest}, false
}

func (stepProcessor[A]) processReturn(current Erased) Erased { return current }

// settle splits an evaluation result into a value or a Suspension.
func settle[A any](result Erased) (A, *Suspension[A]) {
	var zero A
	switch r := result.(type) {
	case *Suspension[A]:
		return zero, r
	case nil:
		return zero, nil
	}
	return result.(A), nil
}
