package ops

// AddOp represents addition: output = a + b.
//
// Backward pass:
//   - grad_a = cotangent
//   - grad_b = cotangent
type AddOp struct {
	inputs []int // [a, b]
	output int
}

// NewAddOp creates a new AddOp.
func NewAddOp(a, b, output int) *AddOp {
	return &AddOp{inputs: []int{a, b}, output: output}
}

// Name returns "add".
func (op *AddOp) Name() string { return "add" }

// Backward computes input gradients for addition.
func (op *AddOp) Backward(cotangent float64) []float64 {
	return []float64{cotangent, cotangent}
}

// Inputs returns [a, b].
func (op *AddOp) Inputs() []int { return op.inputs }

// Output returns the node id of a + b.
func (op *AddOp) Output() int { return op.output }

// SubOp represents subtraction: output = a - b.
//
// Backward pass:
//   - grad_a = cotangent
//   - grad_b = -cotangent
type SubOp struct {
	inputs []int // [a, b]
	output int
}

// NewSubOp creates a new SubOp.
func NewSubOp(a, b, output int) *SubOp {
	return &SubOp{inputs: []int{a, b}, output: output}
}

// Name returns "sub".
func (op *SubOp) Name() string { return "sub" }

// Backward computes input gradients for subtraction.
func (op *SubOp) Backward(cotangent float64) []float64 {
	return []float64{cotangent, -cotangent}
}

// Inputs returns [a, b].
func (op *SubOp) Inputs() []int { return op.inputs }

// Output returns the node id of a - b.
func (op *SubOp) Output() int { return op.output }
