// Package perceptron trains a two-input perceptron to mimic an AND gate.
package perceptron

import (
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/differentiable"
	"github.com/born-ml/gradtape/internal/dmath"
	"github.com/born-ml/gradtape/internal/grad"
	"github.com/born-ml/gradtape/internal/optim"
	"github.com/born-ml/gradtape/internal/tangent"
)

// LeakSlope scales negative pre-activations.
const LeakSlope = 0.1

// Perceptron is a single neuron with two weighted inputs and a leaky
// activation.
type Perceptron struct {
	Weight1 autodiff.Var
	Weight2 autodiff.Var
	Bias    autodiff.Var
	Name    string `ad:"-"`
}

// New creates a perceptron with the given weights.
func New(w1, w2, bias float64) Perceptron {
	return Perceptron{
		Weight1: autodiff.Const(w1),
		Weight2: autodiff.Const(w2),
		Bias:    autodiff.Const(bias),
	}
}

// Random creates a perceptron with weights drawn from [-1, 1) and zero bias.
func Random(rng *rand.Rand) Perceptron {
	return New(rng.Float64()*2-1, rng.Float64()*2-1, 0)
}

// Forward returns the activation for inputs x1 and x2. Pre-activations of
// exactly zero take the identity branch.
func (p Perceptron) Forward(x1, x2 float64) autodiff.Var {
	output := p.Weight1.MulConst(x1).Add(p.Weight2.MulConst(x2)).Add(p.Bias)
	return dmath.LeakyReLU(output, LeakSlope)
}

// Sample is one row of a truth table.
type Sample struct {
	X1, X2, Y float64
}

// AndGate is the truth table of logical AND.
var AndGate = []Sample{
	{X1: 0, X2: 0, Y: 0},
	{X1: 0, X2: 1, Y: 0},
	{X1: 1, X2: 0, Y: 0},
	{X1: 1, X2: 1, Y: 1},
}

// LossOver returns the half squared error of p over data.
func LossOver(data []Sample) func(Perceptron) autodiff.Var {
	return func(p Perceptron) autodiff.Var {
		var loss autodiff.Var
		for _, s := range data {
			err := p.Forward(s.X1, s.X2).Neg().AddConst(s.Y)
			loss = loss.Add(err.Square().DivConst(2))
		}
		return loss
	}
}

// Loss is the half squared error over AndGate.
func Loss(p Perceptron) autodiff.Var {
	return LossOver(AndGate)(p)
}

// Trainer runs gradient descent on a perceptron.
type Trainer struct {
	Data   []Sample       // Training data (default: AndGate)
	Logger zerolog.Logger // Per-step loss at debug level
	Opts   []grad.Option  // Evaluation options
}

func (tr Trainer) loss() func(Perceptron) autodiff.Var {
	if tr.Data == nil {
		return Loss
	}
	return LossOver(tr.Data)
}

// Train performs steps of plain gradient descent with learning rate lr.
// Each step pulls the cotangent -lr back through the loss and moves p by
// the result. It returns the loss observed before every step.
func (tr Trainer) Train(p *Perceptron, steps int, lr float64) ([]float64, error) {
	lossFn := tr.loss()
	losses := make([]float64, 0, steps)
	for step := range steps {
		loss, pullback, err := grad.ValueAndPullback(lossFn, *p, tr.Opts...)
		if err != nil {
			return losses, err
		}
		delta, err := pullback(tangent.Scalar(-lr))
		if err != nil {
			return losses, err
		}
		if err := differentiable.Move(p, delta); err != nil {
			return losses, err
		}
		losses = append(losses, loss.Value())
		tr.Logger.Debug().Int("step", step).Float64("loss", loss.Value()).Msg("train step")
	}
	return losses, nil
}

// TrainWith performs steps using opt for the parameter updates.
func (tr Trainer) TrainWith(p *Perceptron, steps int, opt optim.Optimizer[Perceptron]) ([]float64, error) {
	lossFn := tr.loss()
	losses := make([]float64, 0, steps)
	for step := range steps {
		loss, g, err := grad.ValueAndGradient(lossFn, *p, tr.Opts...)
		if err != nil {
			return losses, err
		}
		if err := opt.Step(p, g); err != nil {
			return losses, err
		}
		losses = append(losses, loss)
		tr.Logger.Debug().Int("step", step).Float64("loss", loss).Float64("lr", opt.GetLR()).Msg("train step")
	}
	return losses, nil
}
