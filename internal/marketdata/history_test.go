package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"solotrader-go/internal/config"
)

func TestHistoryRecent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/klines" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("symbol") != "XRPUSDT" || q.Get("interval") != "1m" || q.Get("limit") != "2" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[
			[1700000000000,"0.50","0.52","0.49","0.51","1000.5",1700000059999,"0",10,"0","0","0"],
			[1700000060000,"0.51","0.53","0.50","0.52","900",1700000119999,"0",8,"0","0","0"],
			[1700000120000]
		]`))
	}))
	defer server.Close()

	cfg := config.MarketData{BaseURL: server.URL + "/", Symbol: "xrpusdt", Interval: "1m", Limit: 2}
	h := NewHistory(cfg, zerolog.Nop())
	candles, err := h.Recent(context.Background())
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("expected malformed row skipped, got %d candles", len(candles))
	}
	first := candles[0]
	if first.Timestamp != 1700000000000 || first.Open != 0.50 || first.High != 0.52 || first.Low != 0.49 || first.Close != 0.51 || first.Volume != 1000.5 {
		t.Fatalf("unexpected candle %+v", first)
	}
	if candles[1].Close != 0.52 {
		t.Fatalf("unexpected second candle %+v", candles[1])
	}
}

func TestHistoryStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
	}))
	defer server.Close()

	h := NewHistory(config.MarketData{BaseURL: server.URL, Symbol: "NOPE", Interval: "1m"}, zerolog.Nop())
	if _, err := h.Recent(context.Background()); err == nil {
		t.Fatalf("expected error for bad status")
	}
}
