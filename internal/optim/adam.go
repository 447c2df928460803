package optim

import (
	"math"

	"github.com/born-ml/gradtape/internal/differentiable"
	"github.com/born-ml/gradtape/internal/tangent"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam[P any] struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int            // Timestep for bias correction
	m     tangent.Vector // First moment estimates
	v     tangent.Vector // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer with default hyperparameters if not
// specified.
func NewAdam[P any](config AdamConfig) *Adam[P] {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam[P]{
		lr:    config.LR,
		beta1: config.Betas[0],
		beta2: config.Betas[1],
		eps:   config.Eps,
	}
}

// Step performs a single optimization step using Adam algorithm.
func (a *Adam[P]) Step(p *P, grad tangent.Vector) error {
	prevM, prevV := a.m, a.v
	if prevM == nil {
		prevM, prevV = grad.Zero(), grad.Zero()
	}

	m, err := tangent.Map2(prevM, grad, func(m, g float64) float64 {
		return a.beta1*m + (1-a.beta1)*g
	})
	if err != nil {
		return err
	}
	v, err := tangent.Map2(prevV, grad, func(v, g float64) float64 {
		return a.beta2*v + (1-a.beta2)*g*g
	})
	if err != nil {
		return err
	}

	t := a.t + 1
	biasCorrection1 := 1 - math.Pow(a.beta1, float64(t))
	biasCorrection2 := 1 - math.Pow(a.beta2, float64(t))

	step, err := tangent.Map2(m, v, func(m, v float64) float64 {
		mHat := m / biasCorrection1
		vHat := v / biasCorrection2
		return -a.lr * mHat / (math.Sqrt(vHat) + a.eps)
	})
	if err != nil {
		return err
	}
	if err := differentiable.Move(p, step); err != nil {
		return err
	}

	a.m, a.v, a.t = m, v, t
	return nil
}

// GetLR returns the current learning rate.
func (a *Adam[P]) GetLR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam[P]) SetLR(lr float64) {
	a.lr = lr
}

// GetTimestep returns the current timestep.
func (a *Adam[P]) GetTimestep() int {
	return a.t
}

// StateDict returns the moment buffers and timestep.
func (a *Adam[P]) StateDict() State {
	st := State{"t": {float64(a.t)}}
	if a.m != nil {
		st["m"] = a.m.Leaves()
		st["v"] = a.v.Leaves()
	}
	return st
}

// LoadStateDict restores the moment buffers for parameters shaped like p.
func (a *Adam[P]) LoadStateDict(p P, st State) error {
	zero, err := differentiable.ZeroOf(p)
	if err != nil {
		return err
	}
	if a.m, err = st.restore("m", zero); err != nil {
		return err
	}
	if a.v, err = st.restore("v", zero); err != nil {
		return err
	}
	if (a.m == nil) != (a.v == nil) {
		a.m, a.v = nil, nil
	}
	a.t = 0
	if t, ok := st["t"]; ok && len(t) == 1 {
		a.t = int(t[0])
	}
	return nil
}
