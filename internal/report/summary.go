package report

import (
	"gold-spread-tracker/internal/market"

	"go.uber.org/zap"
)

// Summary logs the aligned row count, covered time range, and the latest
// row's values so a run is useful even with the chart suppressed.
func Summary(log *zap.Logger, t *market.Table) {
	if t.Len() == 0 {
		return
	}
	last := t.Len() - 1
	fields := []zap.Field{
		zap.Int("rows", t.Len()),
		zap.Time("from", t.Index[0]),
		zap.Time("to", t.Index[last]),
	}
	for _, name := range t.Columns() {
		col, _ := t.Column(name)
		fields = append(fields, zap.Float64(name, col[last]))
	}
	log.Info("aligned spread table built", fields...)
}
