package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gold-spread-tracker/internal/bitget"
	"gold-spread-tracker/internal/metrics"
	"gold-spread-tracker/internal/retry"

	"go.uber.org/zap"
)

// ErrNoCandles marks an exchange that answered successfully with zero
// candles. Terminal for that symbol: the retries were already spent inside
// the fetch.
var ErrNoCandles = errors.New("no OHLCV data returned")

// FetchCloseSeries pulls up to limit candles for one instrument through the
// retry executor and extracts the closing-price series in the exchange's
// chronological order.
func FetchCloseSeries(ctx context.Context, ex Exchange, log *zap.Logger, m *metrics.Metrics, sym Symbol, timeframe string, limit, attempts int, delay time.Duration) (Series, error) {
	label := fmt.Sprintf("fetch_ohlcv(%s)", sym.ID)
	candles, err := retry.Do(ctx, log, m, label, attempts, delay, func(ctx context.Context) ([]bitget.Candle, error) {
		return ex.FetchOHLCV(ctx, sym.ID, timeframe, limit)
	})
	if err != nil {
		return Series{}, err
	}
	if len(candles) == 0 {
		return Series{}, fmt.Errorf("%w for %s", ErrNoCandles, sym.ID)
	}
	m.CandlesFetched.Add(float64(len(candles)))
	points := make([]Point, 0, len(candles))
	for _, candle := range candles {
		points = append(points, Point{Time: candle.Start.UTC(), Price: candle.Close})
	}
	log.Debug("close series fetched",
		zap.String("alias", sym.Alias),
		zap.String("symbol", sym.ID),
		zap.Int("candles", len(points)),
	)
	return Series{Alias: sym.Alias, Points: points}, nil
}
