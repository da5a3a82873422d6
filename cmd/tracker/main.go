package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gold-spread-tracker/internal/app"
	"gold-spread-tracker/internal/config"
	"gold-spread-tracker/internal/logging"
	"gold-spread-tracker/internal/metrics"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	timeframe := flag.String("timeframe", "", "OHLCV timeframe, e.g. 1m/5m/1h/4h/1d")
	limit := flag.Int("limit", 0, "number of OHLCV candles to fetch")
	timeout := flag.Duration("timeout", 0, "exchange request timeout")
	retries := flag.Int("retries", 0, "attempts for transient API failures")
	retryDelay := flag.Duration("retry-delay", -1, "wait between retry attempts")
	proxy := flag.String("proxy", "", "HTTP(S) proxy URL, empty disables proxying")
	chartOut := flag.String("chart-out", "", "chart PNG output path")
	noPlot := flag.Bool("no-plot", false, "do not render the spread chart")
	flag.Parse()

	if err := config.LoadEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, *timeframe, *limit, *timeout, *retries, *retryDelay, *chartOut, *noPlot)
	// The proxy flag outranks both BITGET_PROXY and the config file, and an
	// explicit -proxy "" disables proxying entirely.
	if flagWasSet("proxy") {
		cfg.REST.ProxyURL = *proxy
	}
	if !config.ValidTimeframe(cfg.Fetch.Timeframe) {
		fmt.Fprintf(os.Stderr, "unsupported timeframe %q\n", cfg.Fetch.Timeframe)
		os.Exit(1)
	}

	log := logging.New(cfg.Log)
	defer func() { _ = log.Sync() }()
	log.Info("tracker starting",
		zap.String("timeframe", cfg.Fetch.Timeframe),
		zap.Int("limit", cfg.Fetch.Limit),
	)

	application, err := app.New(cfg, log)
	if err != nil {
		log.Error("failed to initialize", zap.Error(err))
		os.Exit(1)
	}

	if cfg.Metrics.Enabled {
		prom := metrics.NewPrometheus()
		application.SetMetrics(prom.Metrics)
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, prom.Handler())
		server := &http.Server{Addr: cfg.Metrics.Address, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		log.Error("run failed", zap.Error(err))
		stop()
		_ = log.Sync()
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, timeframe string, limit int, timeout time.Duration, retries int, retryDelay time.Duration, chartOut string, noPlot bool) {
	if timeframe != "" {
		cfg.Fetch.Timeframe = timeframe
	}
	if limit > 0 {
		cfg.Fetch.Limit = limit
	}
	if timeout > 0 {
		cfg.REST.Timeout = timeout
	}
	if retries > 0 {
		cfg.Fetch.Retries = retries
	}
	if retryDelay >= 0 {
		cfg.Fetch.RetryDelay = retryDelay
	}
	if chartOut != "" {
		cfg.Chart.Output = chartOut
	}
	if noPlot {
		disabled := false
		cfg.Chart.Enabled = &disabled
	}
}

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
