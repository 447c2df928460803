package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/born-ml/gradtape/internal/differentiable"
	"github.com/born-ml/gradtape/internal/grad"
	"github.com/born-ml/gradtape/internal/models/building"
)

func newSimulateCmd(a *app) *cobra.Command {
	var (
		temps     []float64
		respectTo []string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the building heating simulation and report its gradient",
		Long: `Run the radiant-floor simulation from each starting slab temperature and
report the loss against the measured temperature together with its gradient
with respect to every simulation parameter.

Several --starting-temp values are evaluated concurrently.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inputs := make([]building.SimParams, len(temps))
			for i, t := range temps {
				inputs[i] = building.DefaultParams(t)
			}

			var opts []grad.Option
			if len(respectTo) > 0 {
				opts = append(opts, grad.WithRespectTo(respectTo...))
			}
			engine := a.engine()
			results, err := grad.Batch(cmd.Context(), engine, building.FullPipe, inputs, opts...)
			if err != nil {
				return err
			}
			preds, err := grad.EvaluateBatch(engine, building.Simulate, inputs)
			if err != nil {
				return err
			}

			paths, err := differentiable.PathsOf(inputs[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for i, r := range results {
				fmt.Fprintf(tw, "starting temp %g\tprediction %.6f\tloss %.6f\n", temps[i], preds[i].Value(), r.Value)
				for j, g := range r.Gradient.Leaves() {
					fmt.Fprintf(tw, "  %s\t%.6g\t\n", paths[j], g)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64SliceVar(&temps, "starting-temp", []float64{33.3}, "starting slab temperatures in °C")
	cmd.Flags().StringSliceVar(&respectTo, "respect-to", nil, "differentiate only with respect to these parameter paths")
	return cmd
}
