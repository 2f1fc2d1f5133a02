// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stage

// pureEval is the handler behind RunPure: every operation is a bug, except
// staged failures, which panic with their error.
type pureEval[R any] struct{}

func (pureEval[R]) Dispatch(op Operation) (Resumed, bool) {
	if f, ok := op.(interface{ Failure() error }); ok {
		panic(f.Failure())
	}
	panic("stage: unhandled effect frame in pure computation - use Realize")
}

// frameProcessor is what differs between evaluators: how an effect frame
// is answered and how the final value is returned.
type frameProcessor[P frameProcessor[P, R], R any] interface {
	processEffect(f *EffectFrame[Erased], rest Frame) (Erased, Frame, R, bool)
	processReturn(current Erased) R
}

// unwinder is implemented by custom frames that reduce themselves.
// Scan is built on it.
type unwinder interface {
	Unwind(current Erased) (Erased, Frame)
}

// evalFrames runs a frame chain in a loop, so neither long Bind chains nor
// long Scans grow the Go stack. handlerProcessor answers effects through a
// Handler (Handle, RunPure, Realize); stepProcessor stops at the first one
// (Step).
func evalFrames[P frameProcessor[P, R], R any](current Erased, frame Frame, p P) R {
	for {
		var rest Frame = ReturnFrame{}
		if cf, ok := frame.(*chainedFrame); ok {
			// Flatten left-nested chains so that head is never a chain.
			for {
				nested, ok := cf.first.(*chainedFrame)
				if !ok {
					break
				}
				cf = &chainedFrame{first: nested.first, rest: ChainFrames(nested.rest, cf.rest)}
			}
			frame, rest = cf.first, cf.rest
		}

		switch f := frame.(type) {
		case nil, ReturnFrame:
			if _, done := rest.(ReturnFrame); done {
				return p.processReturn(current)
			}
			frame = rest
		case *BindFrame[Erased, Erased]:
			next := f.F(current)
			current = Erased(next.Value)
			frame = ChainFrames(ChainFrames(next.Frame, f.Next), rest)
		case *MapFrame[Erased, Erased]:
			current = f.F(current)
			frame = ChainFrames(f.Next, rest)
		case *EffectFrame[Erased]:
			newCurrent, newFrame, result, ok := p.processEffect(f, ChainFrames(f.Next, rest))
			if !ok {
				return result
			}
			current = newCurrent
			frame = newFrame
		case unwinder:
			var next Frame
			current, next = f.Unwind(current)
			frame = ChainFrames(next, rest)
		default:
			panic("stage: unknown frame type")
		}
	}
}

// handlerProcessor drives evalFrames with a Handler.
type handlerProcessor[H Handler[H, R], R any] struct{ h H }

func (p handlerProcessor[H, R]) processEffect(f *EffectFrame[Erased], rest Frame) (Erased, Frame, R, bool) {
	answer, resume := p.h.Dispatch(f.Operation)
	if resume {
		var zero R
		return f.Resume(answer), rest, zero, true
	}
	return nil, nil, answer.(R), false
}

func (p handlerProcessor[H, R]) processReturn(current Erased) R {
	if current == nil {
		var zero R
		return zero
	}
	return current.(R)
}

// Handle realizes m, answering each operation it performs with h.
// When h declines to resume, its answer becomes the result.
func Handle[H Handler[H, R], R any](m Expr[R], h H) R {
	return evalFrames(Erased(m.Value), m.Frame, handlerProcessor[H, R]{h: h})
}

// RunPure evaluates a pure staged computation to completion.
//
// Panics if the computation reaches an [EffectFrame]. A failure staged by
// [Fail] or [ErrorIf] panics with its error value, so even a pure
// evaluation never silently drops it.
func RunPure[A any](m Expr[A]) A {
	return evalFrames(Erased(m.Value), m.Frame, handlerProcessor[pureEval[A], A]{h: pureEval[A]{}})
}

// ChainFrames runs first, then second. A ReturnFrame (or nil) on either
// side is dropped.
func ChainFrames(first, second Frame) Frame {
	switch first.(type) {
	case nil, ReturnFrame:
		if second == nil {
			return ReturnFrame{}
		}
		return second
	}
	switch second.(type) {
	case nil, ReturnFrame:
		return first
	}
	return &chainedFrame{first: first, rest: second}
}

// chainedFrame is a frame sequence; evalFrames flattens it as it goes.
type chainedFrame struct {
	first Frame
	rest  Frame
}

func (*chainedFrame) frame() {}

// completed reports whether m holds its final value without evaluation.
func completed[A any](m Expr[A]) bool {
	switch m.Frame.(type) {
	case nil, ReturnFrame:
		return true
	}
	return false
}

// Bind stages f to run on the result of m.
func Bind[A, B any](m Expr[A], f func(A) Expr[B]) Expr[B] {
	if completed(m) {
		return f(m.Value)
	}
	return Suspend[B](ChainFrames(m.Frame, &BindFrame[Erased, Erased]{
		F: func(a Erased) Expr[Erased] {
			next := f(a.(A))
			return Expr[Erased]{Value: next.Value, Frame: next.Frame}
		},
		Next: ReturnFrame{},
	}))
}

// Map stages a pure transformation of m's result.
func Map[A, B any](m Expr[A], f func(A) B) Expr[B] {
	if completed(m) {
		return Return(f(m.Value))
	}
	return Suspend[B](ChainFrames(m.Frame, &MapFrame[Erased, Erased]{
		F:    func(a Erased) Erased { return f(a.(A)) },
		Next: ReturnFrame{},
	}))
}

// Then stages n after m, discarding m's result.
func Then[A, B any](m Expr[A], n Expr[B]) Expr[B] {
	if completed(m) {
		return n
	}
	return Bind(m, func(A) Expr[B] { return n })
}
