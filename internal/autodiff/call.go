package autodiff

import (
	"github.com/born-ml/gradtape/internal/autodiff/ops"
	"github.com/born-ml/gradtape/internal/registry"
)

// Call applies the opaque operation registered under name with one
// argument per Var.
//
// The VJP is looked up in the registry of the tape any argument belongs
// to. When every argument is a tapeless constant, the registry of the
// running evaluation is used (see Enter), or registry.Default outside one.
// A missing registration aborts the evaluation with *MissingDerivativeError
// instead of treating the operation as a constant.
func Call(name string, args ...Var) Var {
	t, traced := joinAll(args)

	var reg *registry.Registry
	if t != nil {
		reg = t.registry
	} else {
		reg = constantRegistry()
	}
	key := registry.Key{Name: name, Arity: len(args)}
	vjp, ok := reg.Lookup(key)
	if !ok {
		abort(&MissingDerivativeError{Op: key.String()})
	}

	primals := make([]float64, len(args))
	for i, a := range args {
		primals[i] = a.val
	}
	value, pullback := vjp(primals)
	if !traced {
		return Var{tape: t, val: value}
	}
	return Apply(value, func(inputs []int, output int) ops.Operation {
		return ops.NewOpaqueOp(key.String(), inputs, pullback, output)
	}, args...)
}

func joinAll(args []Var) (*Tape, bool) {
	if len(args) == 0 {
		return nil, false
	}
	acc := args[0]
	t, traced := acc.tape, acc.traced()
	for _, a := range args[1:] {
		var tr bool
		t, tr = join(acc, a)
		traced = traced || tr
		if a.ref != 0 || acc.ref == 0 {
			acc = a
		}
	}
	return t, traced
}

// Apply records a custom operation over args and returns its result.
//
// build receives the node of every argument (ops.Constant for untraced
// ones) and the node the operation must produce. It is only called when at
// least one argument is traced on a recording tape; otherwise Apply returns
// val as a constant.
func Apply(val float64, build func(inputs []int, output int) ops.Operation, args ...Var) Var {
	t, traced := joinAll(args)
	if !traced {
		return Var{tape: t, val: val}
	}
	inputs := make([]int, len(args))
	for i, a := range args {
		inputs[i] = a.Node()
	}
	return t.emit(build(inputs, t.nextID()), val)
}
