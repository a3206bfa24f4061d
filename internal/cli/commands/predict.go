package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/housereg/dataset"
	"github.com/YuminosukeSato/housereg/internal/cli/config"
	"github.com/YuminosukeSato/housereg/pkg/errors"
	"github.com/YuminosukeSato/housereg/report"
)

// NewPredictCommand creates the predict command.
func NewPredictCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [features]",
		Short: "Fit the model and print only the predicted price",
		Long: `Fit the model on the dataset and print the predicted price of one sample.
The sample is given as comma-separated feature values in dataset column order;
without an argument the configured sample is used.`,
		Example: `  housereg predict 1800,3,10,1
  housereg predict --data housing.csv --solver svd 2400,4,5,2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd, args)
		},
	}

	cmd.Flags().String("data", config.DefaultDataPath, "Path to the CSV dataset")
	cmd.Flags().String("solver", config.DefaultSolver, "Least-squares solver (qr|svd|inverse)")

	_ = cmd.RegisterFlagCompletionFunc("solver", completeSolvers)

	return cmd
}

func runPredict(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	raw := cfg.Sample
	if len(args) == 1 {
		raw = args[0]
	}
	if strings.TrimSpace(raw) == "" {
		return errors.NewValueError("predict", "no sample given")
	}
	sample, err := dataset.ParseFeatures(raw)
	if err != nil {
		return err
	}

	t, err := train(cfg)
	if err != nil {
		return err
	}

	price, err := t.Model.PredictRow(sample)
	if err != nil {
		return err
	}

	return report.RenderPrediction(cmd.OutOrStdout(), &report.Prediction{Features: sample, Price: price}, cfg.OutputFormat())
}
