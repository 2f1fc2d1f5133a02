// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stage_test

import (
	"testing"

	"code.hybscloud.com/loop/stage"
)

func TestEitherAccessors(t *testing.T) {
	r := stage.Right[string](42)
	if !r.IsRight() || r.IsLeft() {
		t.Fatal("Right reports Left")
	}
	if v, ok := r.GetRight(); !ok || v != 42 {
		t.Fatalf("GetRight = (%d, %v), want (42, true)", v, ok)
	}
	if _, ok := r.GetLeft(); ok {
		t.Fatal("GetLeft on Right succeeded")
	}

	l := stage.Left[string, int]("bad")
	if !l.IsLeft() || l.IsRight() {
		t.Fatal("Left reports Right")
	}
	if e, ok := l.GetLeft(); !ok || e != "bad" {
		t.Fatalf("GetLeft = (%q, %v), want (bad, true)", e, ok)
	}
	if v, ok := l.GetRight(); ok || v != 0 {
		t.Fatalf("GetRight on Left = (%d, %v)", v, ok)
	}
}
