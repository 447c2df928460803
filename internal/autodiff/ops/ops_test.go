package ops

import (
	"math"
	"testing"
)

func floatsClose(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			return false
		}
	}
	return true
}

func TestBackward(t *testing.T) {
	tests := []struct {
		name   string
		op     Operation
		ct     float64
		want   []float64
		inputs []int
	}{
		{"add", NewAddOp(0, 1, 2), 3, []float64{3, 3}, []int{0, 1}},
		{"sub", NewSubOp(0, 1, 2), 3, []float64{3, -3}, []int{0, 1}},
		{"mul", NewMulOp(0, 1, 2, 5, 2), 1, []float64{5, 2}, []int{0, 1}},
		{"mul scaled", NewMulOp(0, 1, 2, 5, 2), -0.5, []float64{-2.5, -1}, []int{0, 1}},
		{"div", NewDivOp(0, 1, 3, 2, 2), 1, []float64{0.5, -0.75}, []int{0, 1}},
		{"neg", NewScaleOp("neg", 0, -1, 1), 2, []float64{-2}, []int{0}},
		{"mulconst", NewScaleOp("mulconst", 0, 4, 1), 0.5, []float64{2}, []int{0}},
		{"addconst", NewShiftOp(0, 1), 7, []float64{7}, []int{0}},
		{"constdiv", NewRecipOp(0, 3, 2, 1), 1, []float64{-0.75}, []int{0}},
		{"select then", NewSelectOp(0, 1, 0, 2), 4, []float64{4, 0}, []int{0, 1}},
		{"select else", NewSelectOp(0, 1, 1, 2), 4, []float64{0, 4}, []int{0, 1}},
		{"branch", NewBranchOp(0, 1, 1), 9, []float64{9}, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.op.Backward(tt.ct)
			if !floatsClose(got, tt.want) {
				t.Errorf("Backward(%v) = %v, want %v", tt.ct, got, tt.want)
			}
			if in := tt.op.Inputs(); len(in) != len(tt.inputs) {
				t.Errorf("Inputs() = %v, want %v", in, tt.inputs)
			}
		})
	}
}

func TestOpaqueOp_DelegatesToPullback(t *testing.T) {
	calls := 0
	op := NewOpaqueOp("sqrt(float64)", []int{4}, func(ct float64) []float64 {
		calls++
		return []float64{ct / 6}
	}, 5)

	if op.Name() != "sqrt(float64)" {
		t.Errorf("Name() = %q", op.Name())
	}
	if got := op.Backward(3); !floatsClose(got, []float64{0.5}) {
		t.Errorf("Backward(3) = %v, want [0.5]", got)
	}
	if calls != 1 {
		t.Errorf("pullback called %d times, want 1", calls)
	}
	if op.Output() != 5 {
		t.Errorf("Output() = %d, want 5", op.Output())
	}
}

func TestHookOp_CanReplaceCotangent(t *testing.T) {
	var seen float64
	op := NewHookOp(0, func(ct *float64) {
		seen = *ct
		*ct = 1
	}, 1)

	got := op.Backward(42)
	if seen != 42 {
		t.Errorf("hook saw %v, want 42", seen)
	}
	if !floatsClose(got, []float64{1}) {
		t.Errorf("Backward = %v, want [1]", got)
	}
}

func TestTagged(t *testing.T) {
	var ops []Operation = []Operation{
		NewSelectOp(0, 1, 1, 2),
		NewBranchOp(0, 0, 1),
		NewAddOp(0, 1, 2),
	}
	wantTags := []int{1, 0, -1}

	for i, op := range ops {
		tagged, ok := op.(Tagged)
		switch {
		case wantTags[i] < 0 && ok:
			t.Errorf("%s should not be tagged", op.Name())
		case wantTags[i] >= 0 && !ok:
			t.Errorf("%s should be tagged", op.Name())
		case ok && tagged.Branch() != wantTags[i]:
			t.Errorf("%s Branch() = %d, want %d", op.Name(), tagged.Branch(), wantTags[i])
		}
	}
}
