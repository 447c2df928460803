package main

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/born-ml/gradtape/internal/checkpoint"
	"github.com/born-ml/gradtape/internal/models/perceptron"
	"github.com/born-ml/gradtape/internal/optim"
)

type trainFlags struct {
	steps      int
	lr         float64
	optimizer  string
	momentum   float64
	checkpoint string
	seed       uint64
}

func newTrainCmd(a *app) *cobra.Command {
	var f trainFlags
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a perceptron on the AND truth table",
		Long: `Train a two-input perceptron on the AND truth table.

With --checkpoint, training resumes from the file when it exists and the
trained parameters and optimizer state are written back to it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.applyTrainFlags(cmd, f)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.train(cmd, f.seed)
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&f.steps, "steps", 0, "training steps (default from config)")
	fl.Float64Var(&f.lr, "lr", 0, "learning rate (default from config)")
	fl.StringVar(&f.optimizer, "optimizer", "", "optimizer: sgd or adam (default from config)")
	fl.Float64Var(&f.momentum, "momentum", 0, "SGD momentum")
	fl.StringVar(&f.checkpoint, "checkpoint", "", "checkpoint file to resume from and save to")
	fl.Uint64Var(&f.seed, "seed", 0, "random initialization seed; 0 uses fixed initial weights")
	return cmd
}

func (a *app) applyTrainFlags(cmd *cobra.Command, f trainFlags) {
	fl := cmd.Flags()
	tc := &a.cfg.Training
	if fl.Changed("steps") {
		tc.Steps = f.steps
	}
	if fl.Changed("lr") {
		tc.LearningRate = f.lr
	}
	if fl.Changed("optimizer") {
		tc.Optimizer = f.optimizer
	}
	if fl.Changed("momentum") {
		tc.Momentum = f.momentum
	}
	if fl.Changed("checkpoint") {
		tc.Checkpoint = f.checkpoint
	}
}

func (a *app) train(cmd *cobra.Command, seed uint64) error {
	tc := a.cfg.Training

	p := perceptron.New(0.5, -0.3, 0)
	if seed != 0 {
		p = perceptron.Random(rand.New(rand.NewPCG(seed, seed)))
	}
	p.Name = "and"

	opt, err := optim.New[perceptron.Perceptron](tc.Optimizer, tc.LearningRate, tc.Momentum)
	if err != nil {
		return err
	}

	startStep := 0
	if tc.Checkpoint != "" {
		cp, err := checkpoint.LoadFile(tc.Checkpoint, &p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			a.logger.Info().Str("path", tc.Checkpoint).Msg("no checkpoint, starting fresh")
		case err != nil:
			return fmt.Errorf("resume: %w", err)
		default:
			startStep = cp.Meta.Step
			if st, ok := opt.(optim.Stateful[perceptron.Perceptron]); ok && len(cp.Optimizer) > 0 && cp.Meta.Optimizer == tc.Optimizer {
				if err := st.LoadStateDict(p, cp.Optimizer); err != nil {
					return fmt.Errorf("resume optimizer: %w", err)
				}
			}
			a.logger.Info().Str("path", tc.Checkpoint).Int("step", startStep).Float64("loss", cp.Meta.Loss).Msg("resumed")
		}
	}

	trainer := perceptron.Trainer{Logger: a.logger, Opts: a.engine().Options()}
	losses, err := trainer.TrainWith(&p, tc.Steps, opt)
	if err != nil {
		return err
	}
	final := perceptron.Loss(p).Value()
	a.logger.Info().
		Int("steps", len(losses)).
		Str("optimizer", tc.Optimizer).
		Float64("loss", final).
		Msg("training finished")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "weights: w1=%.6f w2=%.6f b=%.6f\n", p.Weight1.Value(), p.Weight2.Value(), p.Bias.Value())
	fmt.Fprintf(out, "loss: %.6f\n", final)
	for _, s := range perceptron.AndGate {
		fmt.Fprintf(out, "  %g AND %g -> %.4f (want %g)\n", s.X1, s.X2, p.Forward(s.X1, s.X2).Value(), s.Y)
	}

	if tc.Checkpoint == "" {
		return nil
	}
	opts := checkpoint.Options{Meta: checkpoint.Meta{
		Step:      startStep + len(losses),
		Loss:      final,
		Optimizer: tc.Optimizer,
		Labels:    map[string]string{"model": p.Name},
	}}
	if st, ok := opt.(optim.Stateful[perceptron.Perceptron]); ok {
		opts.Optimizer = st.StateDict()
	}
	if err := checkpoint.SaveFile(tc.Checkpoint, p, opts); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	a.logger.Info().Str("path", tc.Checkpoint).Msg("checkpoint saved")
	return nil
}
