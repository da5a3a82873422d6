package app

import (
	"context"

	"gold-spread-tracker/internal/alerts"
	"gold-spread-tracker/internal/bitget"
	"gold-spread-tracker/internal/config"
	"gold-spread-tracker/internal/market"
	"gold-spread-tracker/internal/metrics"
	"gold-spread-tracker/internal/report"

	"go.uber.org/zap"
)

// Alerter is the optional notification collaborator.
type Alerter interface {
	Send(ctx context.Context, message string) error
}

// App owns the collaborators of one pipeline run. Everything else is passed
// forward as plain values; there is no shared mutable state.
type App struct {
	cfg      *config.Config
	log      *zap.Logger
	exchange market.Exchange
	symbols  market.SymbolTable
	metrics  *metrics.Metrics
	renderer report.Renderer
	alerter  Alerter
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	client, err := bitget.New(bitget.Config{
		BaseURL:         cfg.REST.BaseURL,
		Timeout:         cfg.REST.Timeout,
		ProxyURL:        cfg.REST.ProxyURL,
		ProductType:     cfg.Exchange.ProductType,
		FetchCurrencies: cfg.Exchange.FetchCurrencies,
	}, log)
	if err != nil {
		return nil, err
	}
	symbols := market.SymbolsFromConfig(cfg.Symbols)

	var renderer report.Renderer = report.NopRenderer{}
	if cfg.Chart.EnabledValue() {
		renderer = report.NewChartRenderer(cfg.Chart, symbols.Aliases(), log)
	}
	return &App{
		cfg:      cfg,
		log:      log,
		exchange: client,
		symbols:  symbols,
		metrics:  metrics.NewNoop(),
		renderer: renderer,
		alerter:  alerts.NewTelegram(cfg.Telegram, log),
	}, nil
}

// SetMetrics swaps in a non-noop metrics sink. Must be called before Run.
func (a *App) SetMetrics(m *metrics.Metrics) {
	if m != nil {
		a.metrics = m
	}
}

// Run executes the pipeline, strictly in order: load markets, validate the
// symbol table, fetch each close series, inner-join, derive spreads, present.
// The first failure aborts the rest.
func (a *App) Run(ctx context.Context) error {
	fetch := a.cfg.Fetch
	a.log.Info("pipeline starting",
		zap.String("timeframe", fetch.Timeframe),
		zap.Int("limit", fetch.Limit),
		zap.Strings("aliases", a.symbols.Aliases()),
	)

	if err := market.LoadMarkets(ctx, a.exchange, a.log, a.metrics, fetch.Retries, fetch.RetryDelay); err != nil {
		return err
	}
	if err := market.ValidateSymbols(a.exchange, a.symbols); err != nil {
		return err
	}

	series := make([]market.Series, 0, len(a.symbols))
	for _, sym := range a.symbols {
		s, err := market.FetchCloseSeries(ctx, a.exchange, a.log, a.metrics, sym, fetch.Timeframe, fetch.Limit, fetch.Retries, fetch.RetryDelay)
		if err != nil {
			return err
		}
		series = append(series, s)
	}

	table, err := market.BuildAligned(series)
	if err != nil {
		return err
	}
	if err := market.AddSpreads(table); err != nil {
		return err
	}
	a.metrics.RowsAligned.Add(float64(table.Len()))

	report.Summary(a.log, table)

	if msg := alerts.FormatLatest(table, a.symbols.Aliases()); msg != "" {
		if err := a.alerter.Send(ctx, msg); err != nil {
			a.log.Warn("alert send failed", zap.Error(err))
		}
	}

	return a.renderer.Render(table)
}
