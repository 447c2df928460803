package ops

import "github.com/born-ml/gradtape/internal/registry"

// OpaqueOp is an operation whose pullback came from the derivative
// registry. The engine never looks inside it.
type OpaqueOp struct {
	name     string
	inputs   []int
	pullback registry.Pullback
	output   int
}

// NewOpaqueOp creates a new OpaqueOp from a registered VJP's pullback.
func NewOpaqueOp(name string, inputs []int, pullback registry.Pullback, output int) *OpaqueOp {
	return &OpaqueOp{name: name, inputs: inputs, pullback: pullback, output: output}
}

// Name returns the registry key of the operation.
func (op *OpaqueOp) Name() string { return op.name }

// Backward delegates to the registered pullback.
func (op *OpaqueOp) Backward(cotangent float64) []float64 {
	return op.pullback(cotangent)
}

// Inputs returns the argument node ids.
func (op *OpaqueOp) Inputs() []int { return op.inputs }

// Output returns the node id of the result.
func (op *OpaqueOp) Output() int { return op.output }
