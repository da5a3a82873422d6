package bitget

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Candle is one OHLCV bucket as returned by the candle endpoint. Start is a
// UTC instant converted from the exchange's millisecond timestamp.
type Candle struct {
	Start  time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// APIError is an error reported inside a well-formed exchange response
// envelope (code != "00000").
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("exchange error %s: %s", e.Code, e.Message)
}

const successCode = "00000"

// envelope wraps every v2 REST response.
type envelope struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

func (e envelope) code() string    { return e.Code }
func (e envelope) message() string { return e.Msg }

// granularity translates a timeframe such as "1h" into the token the candle
// endpoint expects: minutes stay lowercase, hours/days/weeks are uppercased.
func granularity(timeframe string) (string, error) {
	tf := strings.TrimSpace(timeframe)
	if tf == "" {
		return "", fmt.Errorf("timeframe is required")
	}
	unit := tf[len(tf)-1]
	switch unit {
	case 'm':
		return tf, nil
	case 'h', 'd', 'w':
		return tf[:len(tf)-1] + strings.ToUpper(string(unit)), nil
	default:
		return "", fmt.Errorf("unsupported timeframe %q", timeframe)
	}
}

// parseCandle decodes one wire row: [ms, open, high, low, close, baseVol, ...].
// Fields arrive as strings; trailing extras are ignored.
func parseCandle(row []string) (Candle, error) {
	if len(row) < 6 {
		return Candle{}, fmt.Errorf("candle row has %d fields, want at least 6", len(row))
	}
	ms, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return Candle{}, fmt.Errorf("candle timestamp %q: %w", row[0], err)
	}
	values := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return Candle{}, fmt.Errorf("candle field %d %q: %w", i+1, row[i+1], err)
		}
		values[i] = v
	}
	return Candle{
		Start:  time.UnixMilli(ms).UTC(),
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: values[4],
	}, nil
}
