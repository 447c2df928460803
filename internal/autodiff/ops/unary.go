package ops

// ScaleOp represents multiplication by a constant: output = k * x (+ c).
// Negation, x*c, x/c and c-x all record a ScaleOp.
//
// Backward pass: grad_x = cotangent * k.
type ScaleOp struct {
	name   string
	input  int
	k      float64
	output int
}

// NewScaleOp creates a new ScaleOp. name distinguishes the surface
// operation ("neg", "mulconst", ...).
func NewScaleOp(name string, input int, k float64, output int) *ScaleOp {
	return &ScaleOp{name: name, input: input, k: k, output: output}
}

// Name returns the surface operation name.
func (op *ScaleOp) Name() string { return op.name }

// Backward computes the input gradient.
func (op *ScaleOp) Backward(cotangent float64) []float64 {
	return []float64{cotangent * op.k}
}

// Inputs returns [x].
func (op *ScaleOp) Inputs() []int { return []int{op.input} }

// Output returns the node id of the result.
func (op *ScaleOp) Output() int { return op.output }

// ShiftOp represents addition of a constant: output = x + c.
//
// Backward pass: grad_x = cotangent.
type ShiftOp struct {
	input  int
	output int
}

// NewShiftOp creates a new ShiftOp.
func NewShiftOp(input, output int) *ShiftOp {
	return &ShiftOp{input: input, output: output}
}

// Name returns "addconst".
func (op *ShiftOp) Name() string { return "addconst" }

// Backward computes the input gradient.
func (op *ShiftOp) Backward(cotangent float64) []float64 {
	return []float64{cotangent}
}

// Inputs returns [x].
func (op *ShiftOp) Inputs() []int { return []int{op.input} }

// Output returns the node id of x + c.
func (op *ShiftOp) Output() int { return op.output }

// RecipOp represents a constant divided by a traced value: output = c / x.
//
// Backward pass:
//   - d(c/x)/dx = -c/x², so grad_x = -cotangent * c / x²
type RecipOp struct {
	input  int
	c, x   float64
	output int
}

// NewRecipOp creates a new RecipOp.
func NewRecipOp(input int, c, x float64, output int) *RecipOp {
	return &RecipOp{input: input, c: c, x: x, output: output}
}

// Name returns "constdiv".
func (op *RecipOp) Name() string { return "constdiv" }

// Backward computes the input gradient.
func (op *RecipOp) Backward(cotangent float64) []float64 {
	return []float64{-cotangent * op.c / (op.x * op.x)}
}

// Inputs returns [x].
func (op *RecipOp) Inputs() []int { return []int{op.input} }

// Output returns the node id of c / x.
func (op *RecipOp) Output() int { return op.output }
