package ops

// SelectOp represents a two-way selection between values that were both
// computed: output = a if the condition held, else b.
//
// Backward pass dispatches on the recorded tag:
//
//	tag 0: grad_a = cotangent, grad_b = 0
//	tag 1: grad_a = 0,         grad_b = cotangent
//
// The condition itself has no gradient.
type SelectOp struct {
	inputs []int // [a, b]
	tag    int
	output int
}

// NewSelectOp creates a new SelectOp. tag is 0 when a was selected.
func NewSelectOp(a, b, tag, output int) *SelectOp {
	return &SelectOp{inputs: []int{a, b}, tag: tag, output: output}
}

// Name returns "select".
func (op *SelectOp) Name() string { return "select" }

// Backward routes the cotangent to the selected operand only.
func (op *SelectOp) Backward(cotangent float64) []float64 {
	if op.tag == 0 {
		return []float64{cotangent, 0}
	}
	return []float64{0, cotangent}
}

// Inputs returns [a, b].
func (op *SelectOp) Inputs() []int { return op.inputs }

// Output returns the node id of the selected value.
func (op *SelectOp) Output() int { return op.output }

// Branch returns the recorded tag.
func (op *SelectOp) Branch() int { return op.tag }

// BranchOp marks the result of a conditional where only the taken branch
// was evaluated. Its pullback is the identity: the untaken branch recorded
// nothing, so it contributes no gradient path.
type BranchOp struct {
	input  int
	tag    int
	output int
}

// NewBranchOp creates a new BranchOp.
func NewBranchOp(input, tag, output int) *BranchOp {
	return &BranchOp{input: input, tag: tag, output: output}
}

// Name returns "branch".
func (op *BranchOp) Name() string { return "branch" }

// Backward passes the cotangent through.
func (op *BranchOp) Backward(cotangent float64) []float64 {
	return []float64{cotangent}
}

// Inputs returns [branch result].
func (op *BranchOp) Inputs() []int { return []int{op.input} }

// Output returns the node id of the conditional's result.
func (op *BranchOp) Output() int { return op.output }

// Branch returns the recorded tag.
func (op *BranchOp) Branch() int { return op.tag }

// HookOp is an identity whose pullback hands the incoming cotangent to a
// callback, which may inspect or replace it before it flows further back.
type HookOp struct {
	input  int
	hook   func(cotangent *float64)
	output int
}

// NewHookOp creates a new HookOp.
func NewHookOp(input int, hook func(cotangent *float64), output int) *HookOp {
	return &HookOp{input: input, hook: hook, output: output}
}

// Name returns "hook".
func (op *HookOp) Name() string { return "hook" }

// Backward runs the hook and passes the (possibly modified) cotangent on.
func (op *HookOp) Backward(cotangent float64) []float64 {
	op.hook(&cotangent)
	return []float64{cotangent}
}

// Inputs returns [x].
func (op *HookOp) Inputs() []int { return []int{op.input} }

// Output returns the node id of the result.
func (op *HookOp) Output() int { return op.output }
