package compare

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/clfbench/clfbench/pkg/errors"
)

// SaveBarChart renders one results column as a bar chart, one bar per
// candidate in run order, and writes it to path. The image format is
// inferred from the file extension (png, svg, pdf, ...).
func (r *Results) SaveBarChart(column, path string) error {
	values, err := r.Column(column)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = column + " by candidate"
	p.Y.Label.Text = column

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(30))
	if err != nil {
		return errors.Wrap(err, "compare: bar chart")
	}
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalX(r.candidates...)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "compare: save chart to '%s'", path)
	}
	return nil
}
