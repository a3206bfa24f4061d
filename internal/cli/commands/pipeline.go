package commands

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housereg/dataset"
	"github.com/YuminosukeSato/housereg/internal/cli/config"
	"github.com/YuminosukeSato/housereg/linear"
	"github.com/YuminosukeSato/housereg/metrics"
	"github.com/YuminosukeSato/housereg/pkg/log"
	"github.com/YuminosukeSato/housereg/report"
)

// training holds the outcome of loading and fitting one dataset.
type training struct {
	Dataset *dataset.Dataset
	Model   *linear.LinearRegression
	YPred   *mat.VecDense
	Metrics metrics.Report
}

// train loads the dataset named by cfg, fits the model and evaluates it on
// the training set.
func train(cfg *config.Config) (*training, error) {
	ds, err := dataset.LoadCSV(cfg.DataPath)
	if err != nil {
		return nil, err
	}

	lr := linear.NewLinearRegression(
		linear.WithSolver(cfg.SolverName()),
		linear.WithConditionThreshold(cfg.ConditionThreshold),
	)
	if err := lr.Fit(ds.X, ds.Y); err != nil {
		return nil, err
	}

	yPred, err := lr.Predict(ds.X)
	if err != nil {
		return nil, err
	}

	rep, err := metrics.Evaluate(ds.Y, yPred)
	if err != nil {
		return nil, err
	}

	log.GetLoggerWithName("cli").Info("training set evaluated",
		log.OperationKey, log.OperationScore,
		log.EstimatorIDKey, lr.ID(),
		log.MSEKey, rep.MSE,
		log.R2ScoreKey, rep.R2,
	)

	return &training{Dataset: ds, Model: lr, YPred: yPred, Metrics: rep}, nil
}

// result assembles the report for a fitted model, predicting sample when it
// is non-nil.
func (t *training) result(cfg *config.Config, sample []float64) (*report.Result, error) {
	rows, features := t.Dataset.Dims()
	res := &report.Result{
		Dataset:      filepath.Base(cfg.DataPath),
		Solver:       string(t.Model.Solver()),
		EstimatorID:  t.Model.ID(),
		Samples:      rows,
		Features:     features,
		Condition:    t.Model.Condition,
		Coefficients: report.Coefficients(t.Dataset.FeatureNames(), t.Model.Theta()),
		Metrics:      t.Metrics,
	}

	if sample != nil {
		price, err := t.Model.PredictRow(sample)
		if err != nil {
			return nil, err
		}
		res.Prediction = &report.Prediction{Features: sample, Price: price}
	}
	return res, nil
}

// renderAll writes the report to the command output and, when a plot path is
// configured, saves the fit plot concurrently.
func renderAll(ctx context.Context, cfg *config.Config, t *training, res *report.Result, render func() error) error {
	g, _ := errgroup.WithContext(ctx)
	g.Go(render)
	if cfg.PlotPath != "" {
		actual := mat.Col(nil, 0, t.Dataset.Y)
		predicted := mat.Col(nil, 0, t.YPred)
		g.Go(func() error {
			if err := report.PlotFit(cfg.PlotPath, res.Dataset, actual, predicted); err != nil {
				return err
			}
			log.GetLoggerWithName("cli").Info("fit plot saved", log.PathKey, cfg.PlotPath)
			return nil
		})
	}
	return g.Wait()
}
