package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"solotrader-go/internal/config"
	"solotrader-go/internal/metrics"
	"solotrader-go/internal/signal"
)

type klineEvent struct {
	Symbol string `json:"s"`
	Kline  struct {
		OpenTime int64         `json:"t"`
		Open     signal.Amount `json:"o"`
		High     signal.Amount `json:"h"`
		Low      signal.Amount `json:"l"`
		Close    signal.Amount `json:"c"`
		Volume   signal.Amount `json:"v"`
		Closed   bool          `json:"x"`
	} `json:"k"`
}

// Stream follows one symbol's kline websocket and emits each candle once it closes.
type Stream struct {
	URL        string
	Symbol     string
	Interval   string
	MinBackoff time.Duration
	MaxBackoff time.Duration
	log        zerolog.Logger
}

// NewStream targets <stream_url>/<symbol>@kline_<interval>.
func NewStream(cfg config.MarketData, log zerolog.Logger) *Stream {
	return &Stream{
		URL:        strings.TrimSuffix(cfg.StreamURL, "/"),
		Symbol:     strings.ToLower(cfg.Symbol),
		Interval:   cfg.Interval,
		MinBackoff: time.Second,
		MaxBackoff: 30 * time.Second,
		log:        log,
	}
}

// Endpoint is the full websocket URL for the configured symbol and interval.
func (s *Stream) Endpoint() string {
	return fmt.Sprintf("%s/%s@kline_%s", s.URL, s.Symbol, s.Interval)
}

// Run pushes closed candles onto out, reconnecting with backoff until ctx is canceled.
func (s *Stream) Run(ctx context.Context, out chan<- signal.Candle) error {
	backoff := s.MinBackoff

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		delivered, err := s.consume(ctx, out)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// A connection that produced candles was healthy; start the schedule over.
		if delivered > 0 {
			backoff = s.MinBackoff
		}
		s.log.Warn().Err(err).Dur("backoff", backoff).Int("delivered", delivered).Msg("kline stream disconnected, retrying")
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff = time.Duration(math.Min(float64(s.MaxBackoff), float64(backoff)*1.8))
	}
}

// consume reads one connection until it fails and reports how many candles it emitted.
func (s *Stream) consume(ctx context.Context, out chan<- signal.Candle) (int, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.Endpoint(), nil)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	s.log.Info().Str("provider", ProviderBinance).Str("symbol", s.Symbol).Str("interval", s.Interval).Msg("connected kline stream")

	conn.SetReadLimit(1 << 20)
	// Closing the socket unblocks ReadMessage when ctx ends.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	delivered := 0
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return delivered, ctx.Err()
			}
			return delivered, err
		}

		var ev klineEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			s.log.Warn().Err(err).Msg("failed to decode kline message")
			continue
		}
		if !ev.Kline.Closed {
			continue
		}
		candle := signal.Candle{
			Timestamp: ev.Kline.OpenTime,
			Open:      float64(ev.Kline.Open),
			High:      float64(ev.Kline.High),
			Low:       float64(ev.Kline.Low),
			Close:     float64(ev.Kline.Close),
			Volume:    float64(ev.Kline.Volume),
		}
		select {
		case out <- candle:
			delivered++
			metrics.CandlesTotal.WithLabelValues(ProviderBinance).Inc()
		case <-ctx.Done():
			return delivered, ctx.Err()
		}
	}
}
