// Command symbols lists the instrument ids the exchange actually recognizes
// for the configured aliases, for pinning down the exact contract names
// before pointing the tracker at them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"gold-spread-tracker/internal/bitget"
	"gold-spread-tracker/internal/config"
	"gold-spread-tracker/internal/logging"
	"gold-spread-tracker/internal/market"
	"gold-spread-tracker/internal/metrics"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	filter := flag.String("filter", "", "comma-separated substrings to match (default: configured aliases)")
	all := flag.Bool("all", false, "print every loaded market instead of filtering")
	flag.Parse()

	if err := config.LoadEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log)

	client, err := bitget.New(bitget.Config{
		BaseURL:         cfg.REST.BaseURL,
		Timeout:         cfg.REST.Timeout,
		ProxyURL:        cfg.REST.ProxyURL,
		ProductType:     cfg.Exchange.ProductType,
		FetchCurrencies: cfg.Exchange.FetchCurrencies,
	}, log)
	if err != nil {
		log.Error("failed to build client", zap.Error(err))
		os.Exit(1)
	}

	ctx := context.Background()
	if err := market.LoadMarkets(ctx, client, log, metrics.NewNoop(), cfg.Fetch.Retries, cfg.Fetch.RetryDelay); err != nil {
		log.Error("market load failed", zap.Error(err))
		os.Exit(1)
	}

	needles := market.SymbolsFromConfig(cfg.Symbols).Aliases()
	if *filter != "" {
		needles = strings.Split(*filter, ",")
	}
	for _, symbol := range client.Markets() {
		if *all || matches(symbol, needles) {
			fmt.Println(symbol)
		}
	}
}

func matches(symbol string, needles []string) bool {
	upper := strings.ToUpper(symbol)
	for _, needle := range needles {
		needle = strings.ToUpper(strings.TrimSpace(needle))
		if needle != "" && strings.Contains(upper, needle) {
			return true
		}
	}
	return false
}
