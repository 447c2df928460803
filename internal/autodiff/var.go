package autodiff

import (
	"strconv"

	"github.com/born-ml/gradtape/internal/autodiff/ops"
)

// Var is a scalar differentiable value.
//
// A Var pairs a float64 primal with an optional node on a Tape. Vars with
// a node are traced: operations on them are recorded and gradients flow
// back to them. Vars without one are constants; the zero Var is the
// constant 0. Arithmetic mixes the two freely and records an operation
// only when at least one operand is traced and its tape is recording.
//
// Var is a small value type; copy it freely.
type Var struct {
	tape *Tape
	ref  int // node id + 1; 0 for constants
	val  float64
}

// Const returns an untraced value.
func Const(x float64) Var {
	return Var{val: x}
}

// Value returns the primal value.
func (v Var) Value() float64 { return v.val }

// IsConstant reports whether v is untraced.
func (v Var) IsConstant() bool { return v.ref == 0 }

// Tape returns the tape v is bound to, or nil.
func (v Var) Tape() *Tape { return v.tape }

// Node returns v's node id on its tape, or ops.Constant.
func (v Var) Node() int { return v.ref - 1 }

// Detach returns v's primal as a constant with no tape.
func (v Var) Detach() Var { return Var{val: v.val} }

func (v Var) String() string {
	return strconv.FormatFloat(v.val, 'g', -1, 64)
}

// join picks the tape shared by two operands and reports whether the
// result must be recorded.
func join(a, b Var) (*Tape, bool) {
	t := a.tape
	switch {
	case a.tape == b.tape:
	case a.tape == nil:
		t = b.tape
	case b.tape == nil:
	case a.ref != 0 && b.ref != 0:
		abort(ErrForeignVar)
	case b.ref != 0:
		t = b.tape
	}
	return t, t != nil && t.recording && (a.ref != 0 || b.ref != 0)
}

func (t *Tape) emit(op ops.Operation, val float64) Var {
	t.Record(op)
	return Var{tape: t, ref: op.Output() + 1, val: val}
}

// Add returns v + w.
func (v Var) Add(w Var) Var {
	val := v.val + w.val
	t, traced := join(v, w)
	if !traced {
		return Var{tape: t, val: val}
	}
	return t.emit(ops.NewAddOp(v.Node(), w.Node(), t.nextID()), val)
}

// Sub returns v - w.
func (v Var) Sub(w Var) Var {
	val := v.val - w.val
	t, traced := join(v, w)
	if !traced {
		return Var{tape: t, val: val}
	}
	return t.emit(ops.NewSubOp(v.Node(), w.Node(), t.nextID()), val)
}

// Mul returns v * w.
func (v Var) Mul(w Var) Var {
	val := v.val * w.val
	t, traced := join(v, w)
	if !traced {
		return Var{tape: t, val: val}
	}
	return t.emit(ops.NewMulOp(v.Node(), w.Node(), v.val, w.val, t.nextID()), val)
}

// Div returns v / w.
func (v Var) Div(w Var) Var {
	val := v.val / w.val
	t, traced := join(v, w)
	if !traced {
		return Var{tape: t, val: val}
	}
	return t.emit(ops.NewDivOp(v.Node(), w.Node(), v.val, w.val, t.nextID()), val)
}

// Square returns v * v.
func (v Var) Square() Var {
	return v.Mul(v)
}

func (v Var) traced() bool {
	return v.ref != 0 && v.tape.recording
}

func (v Var) scale(name string, k, val float64) Var {
	if !v.traced() {
		return Var{tape: v.tape, val: val}
	}
	return v.tape.emit(ops.NewScaleOp(name, v.Node(), k, v.tape.nextID()), val)
}

// Neg returns -v.
func (v Var) Neg() Var {
	return v.scale("neg", -1, -v.val)
}

// MulConst returns v * c.
func (v Var) MulConst(c float64) Var {
	return v.scale("mulconst", c, v.val*c)
}

// DivConst returns v / c.
func (v Var) DivConst(c float64) Var {
	return v.scale("divconst", 1/c, v.val/c)
}

// AddConst returns v + c.
func (v Var) AddConst(c float64) Var {
	val := v.val + c
	if !v.traced() {
		return Var{tape: v.tape, val: val}
	}
	return v.tape.emit(ops.NewShiftOp(v.Node(), v.tape.nextID()), val)
}

// SubConst returns v - c.
func (v Var) SubConst(c float64) Var {
	return v.AddConst(-c)
}

// ConstSub returns c - x.
func ConstSub(c float64, x Var) Var {
	return x.scale("constsub", -1, c-x.val)
}

// ConstDiv returns c / x.
func ConstDiv(c float64, x Var) Var {
	val := c / x.val
	if !x.traced() {
		return Var{tape: x.tape, val: val}
	}
	return x.tape.emit(ops.NewRecipOp(x.Node(), c, x.val, x.tape.nextID()), val)
}

// WithDerivative returns v unchanged. When gradients flow back through the
// result, hook receives the incoming cotangent and may replace it.
func (v Var) WithDerivative(hook func(cotangent *float64)) Var {
	if !v.traced() {
		return v
	}
	return v.tape.emit(ops.NewHookOp(v.Node(), hook, v.tape.nextID()), v.val)
}

// Sum returns the sum of vs, or the constant 0 for no arguments.
func Sum(vs ...Var) Var {
	var acc Var
	for i, v := range vs {
		if i == 0 {
			acc = v
			continue
		}
		acc = acc.Add(v)
	}
	return acc
}
