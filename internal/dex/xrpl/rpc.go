package xrpl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"solotrader-go/internal/signal"
)

// ErrRejected wraps engine results the ledger did not accept.
var ErrRejected = errors.New("transaction rejected")

// RPCSubmitter talks rippled JSON-RPC. Submit uses sign-and-submit mode, so the node must
// be trusted with the seed (a local or admin node).
type RPCSubmitter struct {
	URL  string
	Seed string
	Http *http.Client
}

// NewRPCSubmitter builds a submitter with a bounded HTTP client.
func NewRPCSubmitter(url, seed string, timeout time.Duration) *RPCSubmitter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RPCSubmitter{URL: url, Seed: seed, Http: &http.Client{Timeout: timeout}}
}

type rpcRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

type rpcResponse struct {
	Result map[string]any `json:"result"`
}

// Submit signs tx with the seed on the node and submits it. No retry.
func (r *RPCSubmitter) Submit(ctx context.Context, tx OfferCreate) (signal.TradeResponse, error) {
	result, err := r.call(ctx, "submit", map[string]any{
		"tx_json": tx,
		"secret":  r.Seed,
	})
	if err != nil {
		return nil, err
	}
	engine, _ := result["engine_result"].(string)
	if !strings.HasPrefix(engine, "tes") && !strings.HasPrefix(engine, "ter") {
		msg, _ := result["engine_result_message"].(string)
		return nil, fmt.Errorf("%w: %s %s", ErrRejected, engine, msg)
	}
	return signal.TradeResponse(result), nil
}

// AccountInfo reads the validated ledger's view of account.
func (r *RPCSubmitter) AccountInfo(ctx context.Context, account string) (map[string]any, error) {
	return r.call(ctx, "account_info", map[string]any{
		"account":      account,
		"ledger_index": "validated",
	})
}

func (r *RPCSubmitter) call(ctx context.Context, method string, params map[string]any) (map[string]any, error) {
	body, err := json.Marshal(rpcRequest{Method: method, Params: []any{params}})
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.Http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d", method, resp.StatusCode)
	}
	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", method, err)
	}
	if out.Result == nil {
		return nil, fmt.Errorf("%s: empty result", method)
	}
	if status, _ := out.Result["status"].(string); status == "error" {
		msg, _ := out.Result["error_message"].(string)
		if msg == "" {
			msg, _ = out.Result["error"].(string)
		}
		return nil, fmt.Errorf("%s: %s", method, msg)
	}
	return out.Result, nil
}
