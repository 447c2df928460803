package ops

// MulOp represents multiplication: output = a * b.
//
// Backward pass:
//   - d(a*b)/da = b, so grad_a = cotangent * b
//   - d(a*b)/db = a, so grad_b = cotangent * a
//
// The primal values of a and b are captured at record time.
type MulOp struct {
	inputs []int // [a, b]
	a, b   float64
	output int
}

// NewMulOp creates a new MulOp.
func NewMulOp(a, b int, aVal, bVal float64, output int) *MulOp {
	return &MulOp{inputs: []int{a, b}, a: aVal, b: bVal, output: output}
}

// Name returns "mul".
func (op *MulOp) Name() string { return "mul" }

// Backward computes input gradients for multiplication.
func (op *MulOp) Backward(cotangent float64) []float64 {
	return []float64{cotangent * op.b, cotangent * op.a}
}

// Inputs returns [a, b].
func (op *MulOp) Inputs() []int { return op.inputs }

// Output returns the node id of a * b.
func (op *MulOp) Output() int { return op.output }
