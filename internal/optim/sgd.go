package optim

import (
	"github.com/born-ml/gradtape/internal/differentiable"
	"github.com/born-ml/gradtape/internal/tangent"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD[P any] struct {
	lr       float64
	momentum float64
	velocity tangent.Vector // nil until the first step with momentum
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD[P any](config SGDConfig) *SGD[P] {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD[P]{
		lr:       config.LR,
		momentum: config.Momentum,
	}
}

// Step performs a single optimization step.
func (s *SGD[P]) Step(p *P, grad tangent.Vector) error {
	if s.momentum == 0 {
		return differentiable.Move(p, grad.Scale(-s.lr))
	}

	if s.velocity == nil {
		s.velocity = grad.Zero()
	}
	v, err := s.velocity.Scale(s.momentum).Add(grad)
	if err != nil {
		return err
	}
	if err := differentiable.Move(p, v.Scale(-s.lr)); err != nil {
		return err
	}
	s.velocity = v
	return nil
}

// GetLR returns the current learning rate.
func (s *SGD[P]) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD[P]) SetLR(lr float64) {
	s.lr = lr
}

// StateDict returns the velocity buffer, or an empty state without momentum.
func (s *SGD[P]) StateDict() State {
	st := State{}
	if s.velocity != nil {
		st["velocity"] = s.velocity.Leaves()
	}
	return st
}

// LoadStateDict restores the velocity buffer for parameters shaped like p.
func (s *SGD[P]) LoadStateDict(p P, st State) error {
	if s.momentum == 0 {
		return nil
	}
	zero, err := differentiable.ZeroOf(p)
	if err != nil {
		return err
	}
	s.velocity, err = st.restore("velocity", zero)
	return err
}
