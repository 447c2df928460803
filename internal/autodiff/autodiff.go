// Package autodiff implements reverse-mode automatic differentiation over
// scalar float64 programs.
//
// A Tape records every arithmetic operation performed on traced values
// (Var) during the forward pass. Backward then walks the recorded
// operations in exact reverse order, composing their pullbacks and
// accumulating cotangents into every value that fanned out.
//
// Architecture:
//   - Var: a primal float64 plus an optional node on a Tape
//   - Tape: append-only trace of operations, reusable for many backward passes
//   - ops.Operation: each operation implements its own backward pass
//   - Call: opaque operations whose derivatives come from a registry.Registry
//
// Usage:
//
//	tape := autodiff.NewTape(autodiff.Config{})
//	tape.StartRecording()
//	x := tape.Leaf(2)
//	y := x.Mul(x).AddConst(1) // y = x² + 1
//
//	adj, _ := tape.Backward(autodiff.Seed{Var: y, Cotangent: 1})
//	fmt.Println(adj.Of(x)) // dy/dx = 2x = 4
//
// Failures inside differentiable code (a missing derivative, a trace
// limit) abort the evaluation; callers convert them to errors with
// Recover.
package autodiff
