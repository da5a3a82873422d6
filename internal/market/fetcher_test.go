package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"gold-spread-tracker/internal/bitget"
	"gold-spread-tracker/internal/metrics"
	"gold-spread-tracker/internal/retry"

	"go.uber.org/zap"
)

func candleAt(sec int64, close float64) bitget.Candle {
	return bitget.Candle{Start: time.Unix(sec, 0).UTC(), Close: close, Open: close, High: close, Low: close}
}

func TestFetchCloseSeriesExtractsCloses(t *testing.T) {
	ex := &fakeExchange{
		candles: map[string][]bitget.Candle{
			"XAUUSDT": {candleAt(1, 10.5), candleAt(2, 11.5), candleAt(3, 12.5)},
		},
	}
	s, err := FetchCloseSeries(context.Background(), ex, zap.NewNop(), metrics.NewNoop(), Symbol{Alias: "XAU", ID: "XAUUSDT"}, "1h", 3, 3, 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if s.Alias != "XAU" {
		t.Fatalf("expected alias XAU, got %q", s.Alias)
	}
	if len(s.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(s.Points))
	}
	if s.Points[1].Price != 11.5 || s.Points[1].Time.Unix() != 2 {
		t.Fatalf("unexpected point: %+v", s.Points[1])
	}
}

func TestFetchCloseSeriesEmptyResponseIsTerminal(t *testing.T) {
	ex := &fakeExchange{candles: map[string][]bitget.Candle{}}
	_, err := FetchCloseSeries(context.Background(), ex, zap.NewNop(), metrics.NewNoop(), Symbol{Alias: "XAU", ID: "XAUUSDT"}, "1h", 3, 3, 0)
	if !errors.Is(err, ErrNoCandles) {
		t.Fatalf("expected ErrNoCandles, got %v", err)
	}
	if ex.fetchCalls != 1 {
		t.Fatalf("empty response must not be retried, got %d calls", ex.fetchCalls)
	}
}

func TestFetchCloseSeriesRetriesTransient(t *testing.T) {
	ex := &fakeExchange{
		candles: map[string][]bitget.Candle{
			"XAUUSDT": {candleAt(1, 10)},
		},
		fetchErrs: map[string][]error{
			"XAUUSDT": {retry.Transient(errors.New("rate limited"))},
		},
	}
	s, err := FetchCloseSeries(context.Background(), ex, zap.NewNop(), metrics.NewNoop(), Symbol{Alias: "XAU", ID: "XAUUSDT"}, "1h", 1, 2, 0)
	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if ex.fetchCalls != 2 {
		t.Fatalf("expected 2 fetch calls, got %d", ex.fetchCalls)
	}
	if len(s.Points) != 1 || s.Points[0].Price != 10 {
		t.Fatalf("unexpected series: %+v", s)
	}
}

func TestFetchCloseSeriesExhaustionNamesSymbol(t *testing.T) {
	ex := &fakeExchange{
		fetchErrs: map[string][]error{
			"XAUTUSDT": {
				retry.Transient(errors.New("down")),
				retry.Transient(errors.New("down")),
			},
		},
	}
	_, err := FetchCloseSeries(context.Background(), ex, zap.NewNop(), metrics.NewNoop(), Symbol{Alias: "XAUT", ID: "XAUTUSDT"}, "1h", 1, 2, 0)
	var exhausted *retry.ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if exhausted.Label != "fetch_ohlcv(XAUTUSDT)" {
		t.Fatalf("unexpected label %q", exhausted.Label)
	}
}
