package report

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// PlotFit は実測値と予測値の散布図を、y = x の参照線とともに保存する
// 画像形式はファイルの拡張子（.png, .svg, .pdf など）で決まる
func PlotFit(path, title string, actual, predicted []float64) error {
	if len(actual) == 0 {
		return errors.NewValueError("report.PlotFit", "no points to plot")
	}
	if len(predicted) != len(actual) {
		return errors.NewDimensionError("report.PlotFit", len(actual), len(predicted), 0)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"
	p.Add(plotter.NewGrid())

	lo, hi := math.Inf(1), math.Inf(-1)
	pts := make(plotter.XYs, len(actual))
	for i := range actual {
		pts[i].X = actual[i]
		pts[i].Y = predicted[i]
		lo = math.Min(lo, math.Min(actual[i], predicted[i]))
		hi = math.Max(hi, math.Max(actual[i], predicted[i]))
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "report.PlotFit")
	}
	s.Color = color.RGBA{B: 255, A: 255, R: 50, G: 50}
	s.Shape = draw.CircleGlyph{}

	identity, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "report.PlotFit")
	}
	identity.Color = color.RGBA{R: 255, A: 255}
	identity.LineStyle.Width = vg.Points(1.5)
	identity.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(s, identity)
	p.Legend.Add("samples", s)
	p.Legend.Add("y = x", identity)
	p.Legend.Top = true
	p.Legend.Left = true

	// 描画バックエンドのpanicもエラーとして返す
	return errors.SafeExecute("report.PlotFit", func() error {
		if err := p.Save(5*vg.Inch, 5*vg.Inch, path); err != nil {
			return errors.Wrapf(err, "report.PlotFit: save %s", path)
		}
		return nil
	})
}
