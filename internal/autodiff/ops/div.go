package ops

// DivOp represents division: output = a / b.
//
// Backward pass:
//   - d(a/b)/da = 1/b, so grad_a = cotangent / b
//   - d(a/b)/db = -a/b², so grad_b = -cotangent * a / b²
//
// Division by zero follows IEEE-754 in both passes; it is not an error.
type DivOp struct {
	inputs []int // [a, b]
	a, b   float64
	output int
}

// NewDivOp creates a new DivOp.
func NewDivOp(a, b int, aVal, bVal float64, output int) *DivOp {
	return &DivOp{inputs: []int{a, b}, a: aVal, b: bVal, output: output}
}

// Name returns "div".
func (op *DivOp) Name() string { return "div" }

// Backward computes input gradients for division.
func (op *DivOp) Backward(cotangent float64) []float64 {
	gradA := cotangent / op.b
	gradB := -cotangent * op.a / (op.b * op.b)
	return []float64{gradA, gradB}
}

// Inputs returns [a, b].
func (op *DivOp) Inputs() []int { return op.inputs }

// Output returns the node id of a / b.
func (op *DivOp) Output() int { return op.output }
