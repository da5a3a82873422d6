package report

import (
	"fmt"
	"os"
	"time"

	"gold-spread-tracker/internal/config"
	"gold-spread-tracker/internal/market"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"
)

// Renderer is the Presenter's chart collaborator; injected so the data
// transforms stay testable without drawing anything.
type Renderer interface {
	Render(t *market.Table) error
}

// NopRenderer is wired when plotting is suppressed.
type NopRenderer struct{}

func (NopRenderer) Render(*market.Table) error { return nil }

// ChartRenderer writes a PNG with one line per spread column, a dashed zero
// reference line, a legend, and labeled axes.
type ChartRenderer struct {
	cfg     config.ChartConfig
	aliases []string
	log     *zap.Logger
}

func NewChartRenderer(cfg config.ChartConfig, aliases []string, log *zap.Logger) *ChartRenderer {
	return &ChartRenderer{cfg: cfg, aliases: aliases, log: log}
}

func (r *ChartRenderer) Render(t *market.Table) error {
	if t.Len() < 2 {
		return fmt.Errorf("need at least 2 rows to plot, got %d", t.Len())
	}
	series := make([]chart.Series, 0, 4)
	for i, name := range market.SpreadColumns(r.aliases) {
		col, ok := t.Column(name)
		if !ok {
			return fmt.Errorf("missing spread column %s", name)
		}
		series = append(series, chart.TimeSeries{
			Name:    name,
			XValues: t.Index,
			YValues: col,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 1.5,
			},
		})
	}
	series = append(series, chart.TimeSeries{
		Name:    "zero",
		XValues: []time.Time{t.Index[0], t.Index[t.Len()-1]},
		YValues: []float64{0, 0},
		Style: chart.Style{
			StrokeColor:     drawing.ColorBlack.WithAlpha(128),
			StrokeDashArray: []float64{5.0, 5.0},
		},
	})

	graph := chart.Chart{
		Title:  "Bitget Gold Perpetual Spreads",
		Width:  r.cfg.Width,
		Height: r.cfg.Height,
		XAxis:  chart.XAxis{Name: "Time (UTC)"},
		YAxis:  chart.YAxis{Name: "Price Difference (USDT)"},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(r.cfg.Output)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := graph.Render(chart.PNG, file); err != nil {
		return err
	}
	r.log.Info("chart written", zap.String("path", r.cfg.Output))
	return nil
}
