// Package ops defines the trace entries recorded during a forward pass.
//
// Each operation records the node ids of its inputs and output together
// with the primal values its pullback needs, and implements the backward
// pass for one output cotangent:
//   - AddOp: d(a+b)/da = 1, d(a+b)/db = 1
//   - SubOp: d(a-b)/da = 1, d(a-b)/db = -1
//   - MulOp: d(a*b)/da = b, d(a*b)/db = a
//   - DivOp: d(a/b)/da = 1/b, d(a/b)/db = -a/b²
//   - ScaleOp, ShiftOp, RecipOp: unary forms with a constant operand
//   - OpaqueOp: pullback supplied by the derivative registry
//   - SelectOp, BranchOp: control flow, tagged with the branch taken
//   - HookOp: identity that exposes the cotangent to a callback
//
// A node id of -1 marks a constant operand. Its gradient is computed like
// any other and dropped by the tape.
package ops

// Constant is the node id of an operand that is not traced.
const Constant = -1

// Operation represents one entry of the trace.
type Operation interface {
	// Name identifies the operation (e.g. "mul", "sqrt(float64)").
	Name() string

	// Backward maps the output cotangent to one cotangent per input.
	//
	// Example for AddOp:
	//   inputs: [a, b]
	//   cotangent: dL/d(a+b)
	//   returns: [dL/d(a+b), dL/d(a+b)]
	Backward(cotangent float64) []float64

	// Inputs returns the node ids this operation read.
	Inputs() []int

	// Output returns the node id this operation produced.
	Output() int
}

// Tagged is implemented by operations that record which branch of a
// conditional was taken during the forward pass.
type Tagged interface {
	Operation

	// Branch returns the branch tag: 0 for the first (then) branch,
	// 1 for the second (else) branch.
	Branch() int
}
