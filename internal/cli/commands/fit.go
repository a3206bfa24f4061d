package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/housereg/dataset"
	"github.com/YuminosukeSato/housereg/internal/cli/config"
	"github.com/YuminosukeSato/housereg/report"
)

// NewFitCommand creates the fit command.
func NewFitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit the model and report theta, MSE, R² and a sample prediction",
		Long: `Load the CSV dataset, standardize the features, prepend a bias column and
solve the normal equation. Prints the coefficient vector, the training-set MSE
and R², and the predicted price of the sample given by --predict.

Output adapts to environment:
  - Terminal: table output
  - Piped/Scripted: Markdown format

Use --output to override: auto, text, markdown, json`,
		Example: `  # Fit the bundled sample and predict [1800, 3, 10, 1]
  housereg fit

  # Use the SVD solver and save a predicted-vs-actual plot
  housereg fit --data housing.csv --solver svd --plot fit.png

  # Machine-readable output
  housereg fit -o json --predict 2400,4,5,2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFit(cmd)
		},
	}

	cmd.Flags().String("data", config.DefaultDataPath, "Path to the CSV dataset")
	cmd.Flags().String("solver", config.DefaultSolver, "Least-squares solver (qr|svd|inverse)")
	cmd.Flags().String("predict", config.DefaultSample, "Comma-separated features to predict (empty to skip)")
	cmd.Flags().String("plot", "", "Save a predicted-vs-actual plot to this file (.png, .svg, .pdf)")
	cmd.Flags().Float64("condition-threshold", 0, "Reject design matrices with a larger condition number (0 uses the default 1e12)")

	_ = cmd.RegisterFlagCompletionFunc("solver", completeSolvers)

	return cmd
}

func runFit(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	var sample []float64
	if strings.TrimSpace(cfg.Sample) != "" {
		var err error
		if sample, err = dataset.ParseFeatures(cfg.Sample); err != nil {
			return err
		}
	}

	t, err := train(cfg)
	if err != nil {
		return err
	}

	res, err := t.result(cfg, sample)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	return renderAll(ctx, cfg, t, res, func() error {
		return report.Render(w, res, cfg.OutputFormat())
	})
}
