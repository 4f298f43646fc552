// Package xrpl places offers on the XRP Ledger DEX, pricing market orders from Sologenic order books.
package xrpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"solotrader-go/internal/config"
	"solotrader-go/internal/signal"
)

// Submitter signs and submits prepared transactions. Implementations own key material.
type Submitter interface {
	Submit(ctx context.Context, tx OfferCreate) (signal.TradeResponse, error)
	AccountInfo(ctx context.Context, account string) (map[string]any, error)
}

// Token is Sologenic token metadata.
type Token struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
	Value    string `json:"value"`
	Name     string `json:"name"`
	Logo     string `json:"logo"`
}

// Client is the DEX executor for one base/quote pair.
type Client struct {
	Base      string
	Account   string
	Pair      [2]string
	Issuers   map[string]string
	Submitter Submitter
	Http      *http.Client
	log       zerolog.Logger
	now       func() time.Time
}

// NewClient wires the REST data source and submission layer from DEX config.
func NewClient(cfg config.Dex, account string, sub Submitter, log zerolog.Logger) *Client {
	issuers := make(map[string]string, len(cfg.Issuers))
	for cur, iss := range cfg.Issuers {
		issuers[strings.ToUpper(cur)] = iss
	}
	return &Client{
		Base:      strings.TrimSuffix(cfg.SologenicBase, "/"),
		Account:   account,
		Pair:      [2]string{strings.ToUpper(cfg.BaseCurrency), strings.ToUpper(cfg.QuoteCurrency)},
		Issuers:   issuers,
		Submitter: sub,
		Http:      &http.Client{Timeout: cfg.RequestTimeout()},
		log:       log,
		now:       time.Now,
	}
}

// PairName renders the configured pair as BASE/QUOTE.
func (c *Client) PairName() string { return c.Pair[0] + "/" + c.Pair[1] }

// GetOrderBook always performs a fresh read.
func (c *Client) GetOrderBook(ctx context.Context, base, quote string) (OrderBook, error) {
	endpoint := fmt.Sprintf("%s/orderbook/%s/%s", c.Base, url.PathEscape(base), url.PathEscape(quote))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return OrderBook{}, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.Http.Do(req)
	if err != nil {
		return OrderBook{}, fmt.Errorf("fetch orderbook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return OrderBook{}, fmt.Errorf("fetch orderbook: status %d", resp.StatusCode)
	}
	var payload orderBookPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return OrderBook{}, fmt.Errorf("decode orderbook: %w", err)
	}
	return payload.book(c.now()), nil
}

// GetTokenInfo returns nil without error when the token is unknown to Sologenic.
func (c *Client) GetTokenInfo(ctx context.Context, currency string) (*Token, error) {
	endpoint := fmt.Sprintf("%s/tokens/%s", c.Base, url.PathEscape(currency))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.Http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	var tok Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return &tok, nil
}

// Quote reads a fresh book for the configured pair and returns the price a market order
// on side would take: best ask for a buy, best bid for a sell.
func (c *Client) Quote(ctx context.Context, side signal.Action) (float64, error) {
	book, err := c.GetOrderBook(ctx, c.Pair[0], c.Pair[1])
	if err != nil {
		return 0, err
	}
	price, err := book.BestPrice(side)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", side, c.PairName(), err)
	}
	return price, nil
}

// PlaceMarketOrder prices the configured pair from the live book and places a limit order there.
func (c *Client) PlaceMarketOrder(ctx context.Context, side signal.Action, amount float64) (signal.TradeResponse, error) {
	price, err := c.Quote(ctx, side)
	if err != nil {
		return nil, err
	}
	return c.PlaceLimitOrder(ctx, side, c.Pair[0], c.Pair[1], amount, price)
}

// PlaceLimitOrder builds the offer and submits it once. Construction errors never reach the network.
func (c *Client) PlaceLimitOrder(ctx context.Context, side signal.Action, base, quote string, amount, price float64) (signal.TradeResponse, error) {
	if c.Submitter == nil {
		return nil, errors.New("no submitter configured")
	}
	offer, err := BuildOffer(c.Account, side, base, quote, amount, price, c.Issuers)
	if err != nil {
		return nil, err
	}
	resp, err := c.Submitter.Submit(ctx, offer)
	if err != nil {
		return nil, fmt.Errorf("submit offer: %w", err)
	}
	pair := base + "/" + quote
	c.log.Info().
		Str("side", string(side)).
		Str("pair", pair).
		Float64("amount", amount).
		Float64("price", price).
		Msg("offer submitted")
	return signal.TradeResponse{
		"mode":      "live",
		"pair":      pair,
		"side":      string(side),
		"amount":    amount,
		"price":     price,
		"timestamp": c.now().UnixMilli(),
		"result":    resp,
	}, nil
}

// AccountInfo is a read-only validated-ledger snapshot of the trading account.
func (c *Client) AccountInfo(ctx context.Context) (map[string]any, error) {
	if c.Submitter == nil {
		return nil, errors.New("no submitter configured")
	}
	return c.Submitter.AccountInfo(ctx, c.Account)
}
