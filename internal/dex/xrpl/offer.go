package xrpl

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"solotrader-go/internal/signal"
)

const (
	// NativeCurrency is the ledger's own asset, expressed in drops.
	NativeCurrency = "XRP"
	dropsPerXRP    = 1_000_000
	// MinFeeDrops is the fixed network fee attached to every offer.
	MinFeeDrops = "12"
	// FlagLimitQuality is tfLimitQuality.
	FlagLimitQuality uint32 = 0x00040000
)

var (
	ErrUnknownCurrency = errors.New("unknown currency issuer")
	ErrInvalidAmount   = errors.New("amount and price must be positive")
)

// IssuedAmount is a non-native ledger amount.
type IssuedAmount struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
	Value    string `json:"value"`
}

// Amount is either a drops string (XRP) or an issued amount.
type Amount struct {
	Drops  string
	Issued *IssuedAmount
}

// MarshalJSON renders XRP as a bare string and issued currencies as objects.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Issued != nil {
		return json.Marshal(a.Issued)
	}
	return json.Marshal(a.Drops)
}

// OfferCreate is the unsigned DEX offer. Sequence and LastLedgerSequence stay empty;
// the submission layer fills them.
type OfferCreate struct {
	TransactionType    string  `json:"TransactionType"`
	Account            string  `json:"Account"`
	TakerGets          Amount  `json:"TakerGets"`
	TakerPays          Amount  `json:"TakerPays"`
	Fee                string  `json:"Fee"`
	Flags              uint32  `json:"Flags"`
	Sequence           *uint32 `json:"Sequence,omitempty"`
	LastLedgerSequence *uint32 `json:"LastLedgerSequence,omitempty"`
}

// BuildOffer constructs the taker-gets/taker-pays legs for a limit order.
// A sell gives base and receives quote; a buy gives quote and receives base.
// It never touches the network.
func BuildOffer(account string, side signal.Action, base, quote string, amount, price float64, issuers map[string]string) (OfferCreate, error) {
	if !finitePositive(amount) || !finitePositive(price) {
		return OfferCreate{}, ErrInvalidAmount
	}
	qty := decimal.NewFromFloat(amount)
	notional := qty.Mul(decimal.NewFromFloat(price))

	var (
		getsCur, paysCur string
		getsVal, paysVal decimal.Decimal
	)
	switch side {
	case signal.Sell:
		getsCur, getsVal, paysCur, paysVal = base, qty, quote, notional
	case signal.Buy:
		getsCur, getsVal, paysCur, paysVal = quote, notional, base, qty
	default:
		return OfferCreate{}, fmt.Errorf("unknown side %q", side)
	}

	gets, err := formatAmount(getsCur, getsVal, issuers)
	if err != nil {
		return OfferCreate{}, err
	}
	pays, err := formatAmount(paysCur, paysVal, issuers)
	if err != nil {
		return OfferCreate{}, err
	}
	return OfferCreate{
		TransactionType: "OfferCreate",
		Account:         account,
		TakerGets:       gets,
		TakerPays:       pays,
		Fee:             MinFeeDrops,
		Flags:           FlagLimitQuality,
	}, nil
}

func formatAmount(currency string, value decimal.Decimal, issuers map[string]string) (Amount, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == NativeCurrency {
		drops := value.Mul(decimal.NewFromInt(dropsPerXRP)).Truncate(0).IntPart()
		return Amount{Drops: strconv.FormatInt(drops, 10)}, nil
	}
	issuer := issuers[currency]
	if issuer == "" {
		return Amount{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	return Amount{Issued: &IssuedAmount{Currency: currency, Issuer: issuer, Value: formatValue(value)}}, nil
}

// formatValue always carries a decimal point so whole values read "5.0".
func formatValue(v decimal.Decimal) string {
	s := v.String()
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func finitePositive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }
