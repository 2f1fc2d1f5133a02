// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stage

// Either holds exactly one of a failure (Left) or a realized value (Right).
// The zero value is Left with a zero E.
type Either[E, A any] struct {
	left  E
	right A
	ok    bool
}

// Left wraps a failure.
func Left[E, A any](e E) Either[E, A] { return Either[E, A]{left: e} }

// Right wraps a realized value.
func Right[E, A any](a A) Either[E, A] { return Either[E, A]{right: a, ok: true} }

func (e Either[E, A]) IsRight() bool { return e.ok }

func (e Either[E, A]) IsLeft() bool { return !e.ok }

// GetRight returns the value, or false when e is Left.
func (e Either[E, A]) GetRight() (a A, ok bool) {
	if e.ok {
		a = e.right
	}
	return a, e.ok
}

// GetLeft returns the failure, or false when e is Right.
func (e Either[E, A]) GetLeft() (l E, ok bool) {
	if !e.ok {
		l = e.left
	}
	return l, !e.ok
}
