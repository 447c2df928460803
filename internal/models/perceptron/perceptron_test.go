package perceptron

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradtape/internal/grad"
	"github.com/born-ml/gradtape/internal/optim"
)

func TestForward_LeakyBranch(t *testing.T) {
	p := New(1, 1, -1.5)

	assert.InDelta(t, 0.5, p.Forward(1, 1).Value(), 1e-12)
	assert.InDelta(t, -0.15, p.Forward(0, 0).Value(), 1e-12)
	assert.InDelta(t, 0, p.Forward(1, 0.5).Value(), 1e-12, "boundary takes identity branch")
}

func TestLoss_Gradient(t *testing.T) {
	p := New(0.5, -0.3, 0)

	// Predictions: (0,0)=0, (0,1)=-0.03, (1,0)=0.5, (1,1)=0.2
	value, g, err := grad.ValueAndGradient(Loss, p)
	require.NoError(t, err)
	assert.InDelta(t, (0+0.0009+0.25+0.64)/2, value, 1e-12)

	// dL/dw1 = sum -(y-pred)*dpred/dw1 over rows with x1 = 1
	//        = 0.5 - 0.8
	// dL/dw2 = -0.03*0.1 (leaky row) - 0.8
	// dL/db  = 0 - 0.03*0.1 + 0.5 - 0.8
	assert.InDeltaSlice(t, []float64{-0.3, -0.803, -0.303}, g.Leaves(), 1e-12)
}

// TestTrain_AndGate runs the 100-step training loop with the cotangent
// -0.1 pulled back through the loss.
func TestTrain_AndGate(t *testing.T) {
	p := New(0.5, -0.3, 0)
	p.Name = "and"

	losses, err := Trainer{}.Train(&p, 100, 0.1)
	require.NoError(t, err)
	require.Len(t, losses, 100)

	final := Loss(p).Value()
	assert.Less(t, final, 0.05)
	assert.Less(t, final, losses[0])
	assert.Greater(t, p.Forward(1, 1).Value(), 0.5)
	assert.Less(t, p.Forward(0, 0).Value(), 0.5)
	assert.Equal(t, "and", p.Name)
	assert.True(t, p.Weight1.IsConstant(), "trained parameters are detached")
}

func TestTrain_RandomInit(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 5 {
		p := Random(rng)
		assert.GreaterOrEqual(t, p.Weight1.Value(), -1.0)
		assert.Less(t, p.Weight1.Value(), 1.0)
		assert.Zero(t, p.Bias.Value())

		losses, err := Trainer{}.Train(&p, 300, 0.1)
		require.NoError(t, err)
		assert.Less(t, Loss(p).Value(), losses[0]+1e-12)
	}
}

func TestTrainWith_MatchesTrain(t *testing.T) {
	a, b := New(0.5, -0.3, 0), New(0.5, -0.3, 0)

	la, err := Trainer{}.Train(&a, 20, 0.1)
	require.NoError(t, err)
	lb, err := Trainer{}.TrainWith(&b, 20, optim.NewSGD[Perceptron](optim.SGDConfig{LR: 0.1}))
	require.NoError(t, err)

	assert.InDeltaSlice(t, la, lb, 1e-12)
	assert.InDelta(t, a.Bias.Value(), b.Bias.Value(), 1e-12)
}

func TestTrainer_CustomData(t *testing.T) {
	or := []Sample{{0, 0, 0}, {0, 1, 1}, {1, 0, 1}, {1, 1, 1}}
	p := New(0.1, 0.1, 0)

	_, err := Trainer{Data: or}.Train(&p, 200, 0.1)
	require.NoError(t, err)
	assert.Greater(t, p.Forward(0, 1).Value(), 0.5)
	assert.Greater(t, p.Forward(1, 0).Value(), 0.5)
	assert.Less(t, p.Forward(0, 0).Value(), 0.5)
}
