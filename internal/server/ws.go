package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"solotrader-go/internal/broadcast"
	"solotrader-go/internal/signal"
)

const (
	msgPriceUpdate = "price_update"
	msgManualTrade = "manual_trade"
)

// inbound covers both client message shapes.
type inbound struct {
	Type        string         `json:"type"`
	Candle      *signal.Candle `json:"candle"`
	AutoTrading bool           `json:"auto_trading"`
	Action      string         `json:"action"`
	Amount      signal.Amount  `json:"amount"`
}

// wsObserver serializes writes to one websocket connection.
type wsObserver struct {
	id           string
	conn         *websocket.Conn
	writeTimeout time.Duration
	mu           sync.Mutex
}

func (o *wsObserver) ID() string { return o.id }

func (o *wsObserver) Send(ctx context.Context, ev broadcast.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%w: %v", broadcast.ErrEncode, err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	deadline := time.Now().Add(o.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := o.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return o.conn.WriteMessage(websocket.TextMessage, data)
}

// serveConn reads messages from one client until it disconnects, processing each to completion.
func (s *Server) serveConn(ctx context.Context, conn *websocket.Conn) {
	obs := &wsObserver{id: broadcast.NewID(), conn: conn, writeTimeout: s.cfg.WriteTimeout()}
	log := s.log.With().Str("observer", obs.id).Logger()
	s.hub.Add(obs)
	defer func() {
		s.hub.Remove(obs.id)
		conn.Close()
		log.Info().Msg("client disconnected")
	}()
	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("client connected")

	conn.SetReadLimit(s.cfg.ReadLimitBytes)
	session := s.newSession(log)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Msg("read failed")
			}
			return
		}
		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Msg("malformed message")
			continue
		}
		switch msg.Type {
		case msgPriceUpdate:
			if msg.Candle == nil {
				log.Warn().Msg("price_update without candle")
				continue
			}
			session.HandlePrice(ctx, *msg.Candle, msg.AutoTrading)
		case msgManualTrade:
			action, err := signal.ParseAction(msg.Action)
			if err != nil {
				log.Warn().Err(err).Msg("invalid manual trade")
				continue
			}
			_ = session.HandleManual(ctx, action, float64(msg.Amount))
		default:
			log.Warn().Str("type", msg.Type).Msg("unknown message type")
		}
	}
}
