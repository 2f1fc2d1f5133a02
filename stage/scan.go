// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stage

// Scan is the fixed-length iteration primitive.
//
// It stages exactly length sequential applications of f, threading the
// carry from one step to the next. f receives the carry and the step index
// and returns the next carry paired with an auxiliary per-step output; the
// result holds the final carry and the auxiliary outputs in step order.
//
// The step count is fixed here, at construction time. Evaluation is
// iterative: a long scan does not grow the Go stack. Panics if length is
// negative.
func Scan[S, Y any](f func(carry S, i int) Expr[Pair[S, Y]], init Expr[S], length int) Expr[Pair[S, []Y]] {
	if length < 0 {
		panic("stage: negative scan length")
	}
	if length == 0 {
		return Map(init, func(s S) Pair[S, []Y] { return Pair[S, []Y]{Fst: s} })
	}
	// The seed enters through a BindFrame result, the one place the
	// evaluator takes a value from an unfinished Expr.
	seed := func(s S) Expr[Erased] {
		return Expr[Erased]{Value: Pair[S, []Y]{Fst: s}, Frame: &scanFrame[S, Y]{f: f, length: length}}
	}
	if completed(init) {
		s := init.Value
		return Suspend[Pair[S, []Y]](&BindFrame[Erased, Erased]{
			F:    func(Erased) Expr[Erased] { return seed(s) },
			Next: ReturnFrame{},
		})
	}
	return Suspend[Pair[S, []Y]](ChainFrames(init.Frame, &BindFrame[Erased, Erased]{
		F: func(a Erased) Expr[Erased] {
			s, _ := a.(S)
			return seed(s)
		},
		Next: ReturnFrame{},
	}))
}

// scanFrame is one pending step of a staged Scan. Each Unwind stages one
// application of f followed by the frame for the next index; the frame
// itself is never mutated, so a staged Scan may be evaluated repeatedly.
type scanFrame[S, Y any] struct {
	f      func(S, int) Expr[Pair[S, Y]]
	index  int
	length int
}

func (*scanFrame[S, Y]) frame() {}

// Unwind implements the custom-frame reduction used by evalFrames.
func (s *scanFrame[S, Y]) Unwind(current Erased) (Erased, Frame) {
	acc := current.(Pair[S, []Y])
	var rest Frame = ReturnFrame{}
	if s.index+1 < s.length {
		rest = &scanFrame[S, Y]{f: s.f, index: s.index + 1, length: s.length}
	}
	step := s.f(acc.Fst, s.index)
	if completed(step) {
		return accumulate(acc, step.Value), rest
	}
	collect := &MapFrame[Erased, Erased]{
		F: func(v Erased) Erased {
			return accumulate(acc, v.(Pair[S, Y]))
		},
		Next: ReturnFrame{},
	}
	return Erased(step.Value), ChainFrames(ChainFrames(step.Frame, collect), rest)
}

func accumulate[S, Y any](acc Pair[S, []Y], out Pair[S, Y]) Pair[S, []Y] {
	return Pair[S, []Y]{Fst: out.Fst, Snd: append(acc.Snd, out.Snd)}
}
