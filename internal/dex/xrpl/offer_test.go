package xrpl

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"solotrader-go/internal/signal"
)

var testIssuers = map[string]string{"SOLO": "rsoLo2S1kiGeCcn6hCUXVrCpGMWLrRrLZz"}

func TestBuildOfferSellXRPForSOLO(t *testing.T) {
	offer, err := BuildOffer("rTrader", signal.Sell, "XRP", "SOLO", 10, 0.5, testIssuers)
	if err != nil {
		t.Fatalf("BuildOffer returned error: %v", err)
	}
	if offer.TakerGets.Issued != nil || offer.TakerGets.Drops != "10000000" {
		t.Fatalf("expected TakerGets 10000000 drops, got %+v", offer.TakerGets)
	}
	pays := offer.TakerPays.Issued
	if pays == nil {
		t.Fatalf("expected issued TakerPays")
	}
	if pays.Currency != "SOLO" || pays.Issuer != testIssuers["SOLO"] || pays.Value != "5.0" {
		t.Fatalf("unexpected TakerPays: %+v", pays)
	}
	if offer.Fee != "12" || offer.Flags != FlagLimitQuality {
		t.Fatalf("unexpected fee/flags: %s %d", offer.Fee, offer.Flags)
	}
	if offer.Sequence != nil || offer.LastLedgerSequence != nil {
		t.Fatalf("sequence fields must be left to the submission layer")
	}
}

func TestBuildOfferBuy(t *testing.T) {
	offer, err := BuildOffer("rTrader", signal.Buy, "XRP", "SOLO", 3, 0.1, testIssuers)
	if err != nil {
		t.Fatalf("BuildOffer returned error: %v", err)
	}
	if offer.TakerGets.Issued == nil || offer.TakerGets.Issued.Value != "0.3" {
		t.Fatalf("expected TakerGets 0.3 SOLO, got %+v", offer.TakerGets.Issued)
	}
	if offer.TakerPays.Drops != "3000000" {
		t.Fatalf("expected TakerPays 3000000 drops, got %s", offer.TakerPays.Drops)
	}
}

func TestBuildOfferTruncatesDrops(t *testing.T) {
	offer, err := BuildOffer("rTrader", signal.Sell, "XRP", "SOLO", 1.2345678, 1, testIssuers)
	if err != nil {
		t.Fatalf("BuildOffer returned error: %v", err)
	}
	if offer.TakerGets.Drops != "1234567" {
		t.Fatalf("expected truncated drops 1234567, got %s", offer.TakerGets.Drops)
	}
}

func TestBuildOfferUnknownCurrency(t *testing.T) {
	_, err := BuildOffer("rTrader", signal.Sell, "XRP", "FOO", 10, 0.5, testIssuers)
	if !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestBuildOfferInvalidAmount(t *testing.T) {
	cases := [][2]float64{{0, 0.5}, {10, 0}, {math.NaN(), 0.5}, {math.Inf(1), 0.5}, {10, math.Inf(1)}, {10, math.NaN()}}
	for _, c := range cases {
		if _, err := BuildOffer("rTrader", signal.Sell, "XRP", "SOLO", c[0], c[1], testIssuers); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %v price %v: expected ErrInvalidAmount, got %v", c[0], c[1], err)
		}
	}
}

func TestOfferJSONShape(t *testing.T) {
	offer, err := BuildOffer("rTrader", signal.Sell, "XRP", "SOLO", 10, 0.5, testIssuers)
	if err != nil {
		t.Fatalf("BuildOffer returned error: %v", err)
	}
	raw, err := json.Marshal(offer)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, `"TakerGets":"10000000"`) {
		t.Fatalf("expected drops string, got %s", out)
	}
	if !strings.Contains(out, `"TakerPays":{"currency":"SOLO"`) {
		t.Fatalf("expected issued object, got %s", out)
	}
	if strings.Contains(out, "Sequence") {
		t.Fatalf("sequence must be omitted, got %s", out)
	}
}
