// Package housereg fits a closed-form linear regression to a small housing
// dataset and predicts the price of a new house.
//
// The pipeline is deliberately short: load a CSV file, standardize every
// feature column (z-score with the population standard deviation), prepend a
// bias column and solve the normal equation with a QR factorization of the
// design matrix. The fitted model reports its training MSE and R² and predicts
// single rows with the same normalization statistics.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/housereg/dataset"
//	    "github.com/YuminosukeSato/housereg/linear"
//	    "github.com/YuminosukeSato/housereg/report"
//	)
//
//	func main() {
//	    ds, err := dataset.LoadCSV("data/housing.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    model := linear.NewLinearRegression()
//	    if err := model.Fit(ds.X, ds.Y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    price, err := model.PredictRow([]float64{1800, 3, 10, 1})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(report.FormatCurrency(price))
//	}
//
// # Packages
//
//   - dataset: CSV loading into gonum matrices
//   - preprocessing: StandardScaler, Normalize and AddBias
//   - linear: normal-equation solvers (QR, SVD, Inverse) and LinearRegression
//   - metrics: MSE, RMSE, MAE, MAPE, R² and the aggregated Report
//   - report: text / markdown / JSON rendering and the fit plot
//   - core/model: estimator state and the Regressor interfaces
//   - core/parallel: row-parallel helpers used above a size threshold
//   - pkg/errors: the error taxonomy built on cockroachdb/errors
//   - pkg/log: the zerolog-backed structured logger
//
// The housereg command (cmd/housereg) wraps the same pipeline:
//
//	housereg fit --data data/housing.csv --predict 1800,3,10,1
//	housereg predict 1800,3,10,1
package housereg
