// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stage

// Erased is a carry with its static type forgotten. Frames are built over
// Erased so that one evaluator can run carries of any type; each frame
// restores the concrete type with an assertion.
type Erased = any

// Frame is one pending piece of a staged computation. The evaluator
// switches on the concrete frame type.
type Frame interface {
	frame()
}

// ReturnFrame ends a frame chain: the current value is the result.
type ReturnFrame struct{}

func (ReturnFrame) frame() {}

// BindFrame applies F to the current value and evaluates the returned
// computation before continuing with Next.
type BindFrame[A, B any] struct {
	F    func(A) Expr[B]
	Next Frame
}

func (*BindFrame[A, B]) frame() {}

// MapFrame replaces the current value with F of it, then continues with Next.
type MapFrame[A, B any] struct {
	F    func(A) B
	Next Frame
}

func (*MapFrame[A, B]) frame() {}

// EffectFrame is a computation waiting on Operation. A handler answers the
// operation, Resume turns the answer into the current value, and
// evaluation continues with Next.
type EffectFrame[A any] struct {
	Operation Operation
	Resume    func(A) Erased
	Next      Frame
}

func (*EffectFrame[A]) frame() {}

// Expr is a staged computation producing an A.
//
// Building an Expr runs nothing; the frames only execute when the Expr is
// realized. An Expr whose Frame is a ReturnFrame (or nil) is already
// complete and Value is its result. Otherwise Value is only the input of a
// raw first frame: [Bind], [Map] and [Suspend] do not carry it, so staged
// combinators must not depend on it. Exprs are immutable values and may
// be realized any number of times, including concurrently.
type Expr[A any] struct {
	Value A
	Frame Frame
}

// Return stages a constant.
func Return[A any](a A) Expr[A] {
	return Expr[A]{Value: a, Frame: ReturnFrame{}}
}

// Suspend stages a computation that starts at frame.
func Suspend[A any](frame Frame) Expr[A] {
	return Expr[A]{Frame: frame}
}

// Pair is a two-field product, used for Scan's (carry, output) results.
type Pair[A, B any] struct {
	Fst A
	Snd B
}
