package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradtape/internal/checkpoint"
	"github.com/born-ml/gradtape/internal/config"
	"github.com/born-ml/gradtape/internal/models/perceptron"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "gradtape "+version+"\n", out)
}

func TestOps(t *testing.T) {
	out, _, err := run(t, "ops")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines, "sin(float64)")
	assert.Contains(t, lines, "pow(float64, float64)")
}

func TestTrain(t *testing.T) {
	out, _, err := run(t, "train", "--steps", "100", "--lr", "0.1")
	require.NoError(t, err)
	assert.Contains(t, out, "1 AND 1 ->")
	assert.Contains(t, out, "loss: 0.01")
}

func TestTrain_ResumesFromCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "and.gtck")

	_, logs, err := run(t, "train", "--steps", "40", "--checkpoint", path, "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, logs, "no checkpoint, starting fresh")

	_, logs, err = run(t, "train", "--steps", "60", "--checkpoint", path, "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, logs, `"step":40`)

	var resumed perceptron.Perceptron
	cp, err := checkpoint.LoadFile(path, &resumed)
	require.NoError(t, err)
	assert.Equal(t, 100, cp.Meta.Step)
	assert.Equal(t, "sgd", cp.Meta.Optimizer)

	direct := perceptron.New(0.5, -0.3, 0)
	_, err = perceptron.Trainer{}.Train(&direct, 100, 0.1)
	require.NoError(t, err)
	assert.InDelta(t, direct.Weight1.Value(), resumed.Weight1.Value(), 1e-12)
	assert.InDelta(t, direct.Bias.Value(), resumed.Bias.Value(), 1e-12)
	assert.InDelta(t, perceptron.Loss(direct).Value(), cp.Meta.Loss, 1e-12)
}

func TestTrain_InvalidOptimizer(t *testing.T) {
	_, _, err := run(t, "train", "--optimizer", "lbfgs")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSimulate(t *testing.T) {
	out, _, err := run(t, "simulate", "--starting-temp", "33.3,0")
	require.NoError(t, err)
	assert.Contains(t, out, "prediction 37.979742")
	assert.Contains(t, out, "loss 10.634975")
	assert.Contains(t, out, "startingTemp")
	assert.Contains(t, out, "0.872514")
	assert.Contains(t, out, "starting temp 0")
}

func TestBench(t *testing.T) {
	out, _, err := run(t, "bench", "--suite", "simple,fuzzed", "--trials", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "one operation")
	assert.Contains(t, out, "fuzzed ternary 2")
	assert.NotContains(t, out, "building simulation")

	_, _, err = run(t, "bench", "--suite", "nope")
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gradtape.yaml")
	require.NoError(t, os.WriteFile(path, []byte("training:\n  steps: 5\n  optimizer: adam\n  learning_rate: 0.05\n"), 0o600))

	_, logs, err := run(t, "--config", path, "--log-format", "json", "train")
	require.NoError(t, err)
	assert.Contains(t, logs, `"steps":5`)
	assert.Contains(t, logs, `"optimizer":"adam"`)
}
