// Package marketdata pulls candles from the Binance public kline REST and websocket APIs.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"solotrader-go/internal/config"
	"solotrader-go/internal/metrics"
	"solotrader-go/internal/signal"
)

// ProviderBinance labels candles ingested from Binance.
const ProviderBinance = "binance"

// History fetches the trailing kline window over REST.
type History struct {
	BaseURL  string
	Symbol   string
	Interval string
	Limit    int
	Http     *http.Client
	log      zerolog.Logger
}

// NewHistory builds a REST client from market-data config.
func NewHistory(cfg config.MarketData, log zerolog.Logger) *History {
	return &History{
		BaseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		Symbol:   strings.ToUpper(cfg.Symbol),
		Interval: cfg.Interval,
		Limit:    cfg.Limit,
		Http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// Recent returns up to Limit candles, oldest first.
func (h *History) Recent(ctx context.Context) ([]signal.Candle, error) {
	q := url.Values{}
	q.Set("symbol", h.Symbol)
	q.Set("interval", h.Interval)
	if h.Limit > 0 {
		q.Set("limit", strconv.Itoa(h.Limit))
	}
	endpoint := h.BaseURL + "/api/v3/klines?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := h.Http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch klines: status %d", resp.StatusCode)
	}

	var rows [][]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}
	candles := make([]signal.Candle, 0, len(rows))
	for _, row := range rows {
		c, err := parseKlineRow(row)
		if err != nil {
			h.log.Warn().Err(err).Msg("skipping malformed kline")
			continue
		}
		candles = append(candles, c)
	}
	metrics.CandlesTotal.WithLabelValues(ProviderBinance).Add(float64(len(candles)))
	h.log.Debug().Str("symbol", h.Symbol).Int("points", len(candles)).Msg("fetched klines")
	return candles, nil
}

// parseKlineRow reads [openTime, open, high, low, close, volume, ...].
func parseKlineRow(row []json.RawMessage) (signal.Candle, error) {
	if len(row) < 6 {
		return signal.Candle{}, fmt.Errorf("kline row has %d fields", len(row))
	}
	var fields [6]signal.Amount
	for i := range fields {
		if err := json.Unmarshal(row[i], &fields[i]); err != nil {
			return signal.Candle{}, err
		}
	}
	return signal.Candle{
		Timestamp: int64(fields[0]),
		Open:      float64(fields[1]),
		High:      float64(fields[2]),
		Low:       float64(fields[3]),
		Close:     float64(fields[4]),
		Volume:    float64(fields[5]),
	}, nil
}
