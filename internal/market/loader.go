package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gold-spread-tracker/internal/bitget"
	"gold-spread-tracker/internal/config"
	"gold-spread-tracker/internal/metrics"
	"gold-spread-tracker/internal/retry"

	"go.uber.org/zap"
)

// Symbol pairs a short alias with the exchange-recognized instrument id.
type Symbol struct {
	Alias string
	ID    string
}

// SymbolTable is the fixed, ordered set of instruments the pipeline tracks.
// The order drives column order and spread pairs.
type SymbolTable []Symbol

func SymbolsFromConfig(cfg []config.SymbolConfig) SymbolTable {
	table := make(SymbolTable, 0, len(cfg))
	for _, sym := range cfg {
		table = append(table, Symbol{Alias: sym.Alias, ID: sym.ID})
	}
	return table
}

func (t SymbolTable) Aliases() []string {
	out := make([]string, 0, len(t))
	for _, sym := range t {
		out = append(out, sym.Alias)
	}
	return out
}

// Exchange is the client collaborator the pipeline talks to.
type Exchange interface {
	LoadMarkets(ctx context.Context, reload bool) error
	HasMarket(symbol string) bool
	FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]bitget.Candle, error)
}

// MissingSymbolsError names the required instrument ids absent from the
// loaded market set. It is a configuration error, never retried.
type MissingSymbolsError struct {
	Symbols []string
}

func (e *MissingSymbolsError) Error() string {
	return fmt.Sprintf("symbols not available on the swap market: %s", strings.Join(e.Symbols, ", "))
}

// LoadMarkets forces a full metadata reload through the retry executor.
func LoadMarkets(ctx context.Context, ex Exchange, log *zap.Logger, m *metrics.Metrics, attempts int, delay time.Duration) error {
	_, err := retry.Do(ctx, log, m, "load_markets", attempts, delay, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, ex.LoadMarkets(ctx, true)
	})
	return err
}

// ValidateSymbols checks every instrument id in the table against the loaded
// market set and fails immediately when any are absent.
func ValidateSymbols(ex Exchange, table SymbolTable) error {
	var missing []string
	for _, sym := range table {
		if !ex.HasMarket(sym.ID) {
			missing = append(missing, sym.ID)
		}
	}
	if len(missing) > 0 {
		return &MissingSymbolsError{Symbols: missing}
	}
	return nil
}
