// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ad_test

import (
	"math"
	"testing"

	"code.hybscloud.com/loop/ad"
)

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Abs(b))
}

func TestArithmeticDerivatives(t *testing.T) {
	tape := ad.NewTape()
	x := tape.Var(3)
	y := tape.Var(4)

	tests := []struct {
		name   string
		out    ad.Var
		value  float64
		dx, dy float64
	}{
		{"add", ad.Add(x, y), 7, 1, 1},
		{"sub", ad.Sub(x, y), -1, 1, -1},
		{"mul", ad.Mul(x, y), 12, 4, 3},
		{"div", ad.Div(x, y), 0.75, 0.25, -3.0 / 16},
		{"scale", ad.Scale(x, 5), 15, 5, 0},
		{"shift", ad.Shift(y, 2), 6, 0, 1},
		{"square", ad.Mul(x, x), 9, 6, 0},
	}
	for _, tt := range tests {
		if !near(tt.out.Value(), tt.value) {
			t.Fatalf("%s: value = %v, want %v", tt.name, tt.out.Value(), tt.value)
		}
		g := tape.Gradient(tt.out, x, y)
		if !near(g[0], tt.dx) || !near(g[1], tt.dy) {
			t.Fatalf("%s: gradient = %v, want [%v %v]", tt.name, g, tt.dx, tt.dy)
		}
	}
}

func TestTranscendentalMatchesFiniteDifference(t *testing.T) {
	f := func(v ad.Var) ad.Var {
		return ad.Mul(ad.Sin(v), ad.Exp(ad.Scale(v, 0.5)))
	}
	plain := func(v float64) float64 { return math.Sin(v) * math.Exp(v/2) }

	for _, x0 := range []float64{-1.3, 0, 0.4, 2.2} {
		tape := ad.NewTape()
		x := tape.Var(x0)
		out := f(x)
		got := tape.Gradient(out, x)[0]
		const h = 1e-6
		want := (plain(x0+h) - plain(x0-h)) / (2 * h)
		if math.Abs(got-want) > 1e-5 {
			t.Fatalf("x=%v: gradient = %v, finite difference = %v", x0, got, want)
		}
	}
}

func TestGradientOfUnrelatedVariable(t *testing.T) {
	tape := ad.NewTape()
	x := tape.Var(1)
	out := ad.Shift(x, 1)
	later := tape.Var(2)
	g := tape.Gradient(out, later, x)
	if g[0] != 0 || g[1] != 1 {
		t.Fatalf("gradient = %v, want [0 1]", g)
	}
}

func TestTapeRecordsExecutedOpsOnly(t *testing.T) {
	tape := ad.NewTape()
	x := tape.Var(1)
	if tape.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tape.Len())
	}
	y := ad.Add(x, x)
	_ = ad.Mul(y, x)
	if tape.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tape.Len())
	}
	if y.Tape() != tape {
		t.Fatal("Var not attached to its tape")
	}
}

func expectPanic(t *testing.T, want string, f func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != want {
			t.Fatalf("recovered %v, want %q", r, want)
		}
	}()
	f()
}

func TestTapeMisusePanics(t *testing.T) {
	a, b := ad.NewTape(), ad.NewTape()
	x, y := a.Var(1), b.Var(2)

	expectPanic(t, "ad: variables from different tapes", func() { ad.Add(x, y) })
	expectPanic(t, "ad: variable not on a tape", func() { ad.Sin(ad.Var{}) })
	expectPanic(t, "ad: output not on this tape", func() { a.Gradient(y, x) })
	expectPanic(t, "ad: variable not on this tape", func() { a.Gradient(x, y) })
}

func BenchmarkGradient(b *testing.B) {
	for b.Loop() {
		tape := ad.NewTape()
		x := tape.Var(1.01)
		v := x
		for range 64 {
			v = ad.Mul(v, x)
		}
		_ = tape.Gradient(v, x)
	}
}
