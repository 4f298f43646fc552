// Package server exposes the websocket session endpoint, health check, and metrics.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"solotrader-go/internal/broadcast"
	"solotrader-go/internal/config"
	"solotrader-go/internal/execution"
	"solotrader-go/internal/metrics"
	"solotrader-go/internal/signal"
	"solotrader-go/internal/strategy"
)

// Server wires the shared hub and router to every connection.
type Server struct {
	cfg         config.Server
	strategy    strategy.Strategy
	router      *execution.Router
	hub         *broadcast.Hub
	tradeAmount float64
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// New builds a server. Strategies are stateless, so one instance serves every session.
func New(cfg config.Server, strat strategy.Strategy, router *execution.Router, hub *broadcast.Hub, tradeAmount float64, log zerolog.Logger) *Server {
	s := &Server{cfg: cfg, strategy: strat, router: router, hub: hub, tradeAmount: tradeAmount, log: log}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func (s *Server) newSession(log zerolog.Logger) *Session {
	return NewSession(s.strategy, s.router, s.hub, s.tradeAmount, log)
}

// Handler routes /ws, /health and /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		s.serveConn(context.WithoutCancel(r.Context()), conn)
	})
	return mux
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// ListenAndServe runs until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("session server listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Feed drives a server-owned session from a candle channel, so every observer sees the
// stream without a client pushing prices. Auto-trading follows autoTrading.
func (s *Server) Feed(ctx context.Context, candles <-chan signal.Candle, autoTrading bool) error {
	session := s.newSession(s.log.With().Str("session", "feed").Logger())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c, ok := <-candles:
			if !ok {
				return nil
			}
			session.HandlePrice(ctx, c, autoTrading)
		}
	}
}
