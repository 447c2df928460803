package autodiff

import (
	"fmt"

	"github.com/born-ml/gradtape/internal/autodiff/ops"
	"github.com/born-ml/gradtape/internal/registry"
)

// Config controls a Tape.
type Config struct {
	Registry   *registry.Registry // Derivatives for opaque operations (default: registry.Default)
	MaxEntries int                // Upper bound on recorded entries; 0 means unbounded
	Capacity   int                // Initial entry capacity
}

// Tape records operations during the forward pass and computes gradients
// during the backward pass using reverse-mode automatic differentiation.
//
// Every traced value is a node. Leaves are created with Leaf; every other
// node is the output of exactly one recorded operation, and an operation's
// inputs always precede its output, so the trace is a DAG by construction.
//
// Usage:
//
//	tape := NewTape(Config{})
//	tape.StartRecording()
//	x := tape.Leaf(3)
//	y := x.Mul(x)
//	adj, _ := tape.Backward(Seed{Var: y, Cotangent: 1})
//	adj.Of(x) // 6
//
// A Tape belongs to one evaluation and is not safe for concurrent use.
type Tape struct {
	operations []ops.Operation // Recorded operations (in execution order)
	nodes      int             // Number of node ids handed out
	recording  bool
	registry   *registry.Registry
	maxEntries int
}

// NewTape creates a new tape.
func NewTape(cfg Config) *Tape {
	if cfg.Registry == nil {
		cfg.Registry = registry.Default
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = 64 // Pre-allocate for common case
	}
	return &Tape{
		operations: make([]ops.Operation, 0, cfg.Capacity),
		registry:   cfg.Registry,
		maxEntries: cfg.MaxEntries,
	}
}

// StartRecording enables operation recording.
func (t *Tape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *Tape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *Tape) IsRecording() bool {
	return t.recording
}

// Registry returns the registry used to resolve opaque operations.
func (t *Tape) Registry() *registry.Registry {
	return t.registry
}

// Leaf creates an input value bound to this tape. While recording, the leaf
// gets a node id and gradients can flow to it; otherwise it is a constant
// that still resolves opaque operations through the tape's registry.
func (t *Tape) Leaf(x float64) Var {
	if !t.recording {
		return Var{tape: t, val: x}
	}
	id := t.nodes
	t.nodes++
	return Var{tape: t, ref: id + 1, val: x}
}

// Const creates an untraced value bound to this tape.
func (t *Tape) Const(x float64) Var {
	return Var{tape: t, val: x}
}

// nextID returns the node id the next recorded operation must produce.
func (t *Tape) nextID() int {
	return t.nodes
}

// Record adds an operation to the tape. Only records if the tape is
// currently recording.
//
// The operation's output must be the next node id and every input must be
// an existing node or ops.Constant; anything else would close a cycle and
// aborts with ErrCycle. Exceeding Config.MaxEntries aborts with
// ErrTraceLimit. Both aborts surface through Recover.
func (t *Tape) Record(op ops.Operation) {
	if !t.recording {
		return
	}
	out := op.Output()
	if out != t.nodes {
		abort(fmt.Errorf("%w: %s writes node %d, next node is %d", ErrCycle, op.Name(), out, t.nodes))
	}
	for _, in := range op.Inputs() {
		if in < ops.Constant || in >= out {
			abort(fmt.Errorf("%w: %s reads node %d to produce node %d", ErrCycle, op.Name(), in, out))
		}
	}
	if t.maxEntries > 0 && len(t.operations) >= t.maxEntries {
		abort(fmt.Errorf("%w: %d entries", ErrTraceLimit, t.maxEntries))
	}
	t.operations = append(t.operations, op)
	t.nodes++
}

// Clear resets the tape, removing all recorded operations and nodes.
// Recording state is preserved. Vars created before Clear must not be used
// afterwards.
func (t *Tape) Clear() {
	t.operations = t.operations[:0]
	t.nodes = 0
}

// NumOps returns the number of recorded operations.
func (t *Tape) NumOps() int {
	return len(t.operations)
}

// NumNodes returns the number of traced values (leaves and op outputs).
func (t *Tape) NumNodes() int {
	return t.nodes
}

// Entries returns the recorded operations in creation order.
// The slice must not be modified.
func (t *Tape) Entries() []ops.Operation {
	return t.operations
}

// Seed assigns an output cotangent to a traced value.
type Seed struct {
	Var       Var
	Cotangent float64
}

// Adjoints holds the accumulated cotangent of every node after a backward pass.
type Adjoints struct {
	tape   *Tape
	values []float64
}

// Of returns the cotangent accumulated for v. Constants and values
// recorded after the backward pass have none and report 0.
func (a Adjoints) Of(v Var) float64 {
	if v.ref == 0 || v.tape != a.tape || v.ref > len(a.values) {
		return 0
	}
	return a.values[v.ref-1]
}

// Backward computes cotangents for every node by walking the tape in reverse.
//
// Algorithm:
//  1. Seed the output cotangents (1 for a scalar loss)
//  2. Walk operations in exact reverse of creation order
//  3. For each operation that received a cotangent, run its pullback
//  4. Accumulate into each input: a value consumed twice gets the sum of
//     both contributions, never the last one
//
// Reverse creation order guarantees that every consumer of a node has
// contributed before the node's own pullback runs. Backward does not
// modify the trace and may be called any number of times.
func (t *Tape) Backward(seeds ...Seed) (Adjoints, error) {
	adj := make([]float64, t.nodes)
	reached := make([]bool, t.nodes)

	for _, s := range seeds {
		if s.Var.ref == 0 {
			continue // constant output: no gradient path
		}
		if s.Var.tape != t {
			return Adjoints{}, ErrForeignVar
		}
		id := s.Var.ref - 1
		adj[id] += s.Cotangent
		reached[id] = true
	}

	// Stop recording during backward pass so hooks cannot extend the trace
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		out := op.Output()
		if !reached[out] {
			continue
		}
		inputGrads := op.Backward(adj[out])
		if err := t.accumulateGrads(op, inputGrads, adj, reached); err != nil {
			return Adjoints{}, err
		}
	}

	return Adjoints{tape: t, values: adj}, nil
}

// accumulateGrads adds each input gradient into the input's running cotangent.
// Every input needs exactly one gradient.
func (t *Tape) accumulateGrads(op ops.Operation, inputGrads []float64, adj []float64, reached []bool) error {
	inputs := op.Inputs()
	if len(inputGrads) != len(inputs) {
		return fmt.Errorf("%w: %s has %d inputs, got %d", ErrCotangentCount, op.Name(), len(inputs), len(inputGrads))
	}
	for j, in := range inputs {
		if in == ops.Constant {
			continue
		}
		adj[in] += inputGrads[j]
		reached[in] = true
	}
	return nil
}
