// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stage

// Cond is the exclusive conditional-branch primitive.
// Once pred is evaluated, exactly one of onTrue and onFalse is invoked and
// staged; the other branch is never built nor evaluated.
func Cond[A any](pred Expr[bool], onTrue, onFalse func() Expr[A]) Expr[A] {
	return Bind(pred, func(p bool) Expr[A] {
		if p {
			return onTrue()
		}
		return onFalse()
	})
}

// Select is the eager two-way select. Both branches are evaluated, in order
// onTrue then onFalse, and the one chosen by pred is returned. Use it only
// where exclusive branching is unavailable: the losing branch's work and any
// failure it stages are not discarded.
func Select[A any](pred Expr[bool], onTrue, onFalse Expr[A]) Expr[A] {
	return Bind(pred, func(p bool) Expr[A] {
		return Bind(onTrue, func(t A) Expr[A] {
			return Map(onFalse, func(f A) A {
				if p {
					return t
				}
				return f
			})
		})
	})
}
