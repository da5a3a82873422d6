package bitget

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"gold-spread-tracker/internal/retry"

	"go.uber.org/zap"
)

// Config enumerates the recognized client options. An empty ProxyURL disables
// proxying. FetchCurrencies toggles the optional coin-metadata call during
// LoadMarkets; it is off by default because that endpoint is flaky through
// restricted networks.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	ProxyURL        string
	ProductType     string
	FetchCurrencies bool
}

// Client talks to the Bitget v2 REST API for one product category. It is the
// pipeline's single long-lived resource: read-only after LoadMarkets.
type Client struct {
	baseURL     string
	productType string
	fetchCoins  bool
	http        *http.Client
	log         *zap.Logger

	markets map[string]struct{}
}

func New(cfg Config, log *zap.Logger) (*Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("proxy url %q: %w", cfg.ProxyURL, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		productType: cfg.ProductType,
		fetchCoins:  cfg.FetchCurrencies,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		log: log,
	}, nil
}

// LoadMarkets fetches the contract list for the configured product type and
// populates the market set. reload=true discards any previously loaded set.
func (c *Client) LoadMarkets(ctx context.Context, reload bool) error {
	if c.markets != nil && !reload {
		return nil
	}
	var resp struct {
		envelope
		Data []struct {
			Symbol string `json:"symbol"`
		} `json:"data"`
	}
	query := url.Values{"productType": {c.productType}}
	if err := c.get(ctx, "/api/v2/mix/market/contracts", query, &resp); err != nil {
		return err
	}
	markets := make(map[string]struct{}, len(resp.Data))
	for _, contract := range resp.Data {
		if contract.Symbol != "" {
			markets[contract.Symbol] = struct{}{}
		}
	}
	c.markets = markets
	c.log.Debug("markets loaded",
		zap.String("product_type", c.productType),
		zap.Int("count", len(markets)),
	)
	if c.fetchCoins {
		return c.loadCoins(ctx)
	}
	return nil
}

// loadCoins pulls spot coin metadata. The pipeline never consumes it; it only
// exists because the collaborator exposes the toggle.
func (c *Client) loadCoins(ctx context.Context) error {
	var resp struct {
		envelope
		Data []struct {
			Coin string `json:"coin"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/api/v2/spot/public/coins", nil, &resp); err != nil {
		return err
	}
	c.log.Debug("currencies loaded", zap.Int("count", len(resp.Data)))
	return nil
}

// HasMarket reports whether symbol is in the loaded market set.
func (c *Client) HasMarket(symbol string) bool {
	_, ok := c.markets[symbol]
	return ok
}

// Markets returns the loaded market identifiers, sorted.
func (c *Client) Markets() []string {
	out := make([]string, 0, len(c.markets))
	for symbol := range c.markets {
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}

// FetchOHLCV returns up to limit most recent candles for symbol at the given
// timeframe, in the exchange's chronological order.
func (c *Client) FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error) {
	gran, err := granularity(timeframe)
	if err != nil {
		return nil, err
	}
	var resp struct {
		envelope
		Data [][]string `json:"data"`
	}
	query := url.Values{
		"symbol":      {symbol},
		"productType": {c.productType},
		"granularity": {gran},
		"limit":       {strconv.Itoa(limit)},
	}
	if err := c.get(ctx, "/api/v2/mix/market/candles", query, &resp); err != nil {
		return nil, err
	}
	candles := make([]Candle, 0, len(resp.Data))
	for _, row := range resp.Data {
		candle, err := parseCandle(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", symbol, err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

// apiResponse is satisfied by any response struct embedding envelope.
type apiResponse interface {
	code() string
	message() string
}

// get performs one request and decodes the response envelope. Transport
// failures, non-2xx statuses, and exchange error codes are tagged transient;
// a malformed 2xx body is not.
func (c *Client) get(ctx context.Context, path string, query url.Values, out apiResponse) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return retry.Transient(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return retry.Transient(fmt.Errorf("http %d: %s", resp.StatusCode, string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if code := out.code(); code != successCode {
		return retry.Transient(&APIError{Code: code, Message: out.message()})
	}
	return nil
}
