// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-dine/models"
)

const (
	outboxSize   = 8
	writeTimeout = 5 * time.Second
)

// ClientMessage is a frame sent by a live client. Only "ping" is
// understood; the channel is otherwise server to client.
type ClientMessage struct {
	Type string `json:"type"`
}

// ServerMessage is a non-snapshot frame.
type ServerMessage struct {
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
}

// Options configures Serve.
type Options struct {
	// OriginPatterns is passed to websocket.Accept. Empty means same-origin
	// only.
	OriginPatterns []string
	Logger         *zap.Logger
}

// LoadFunc reads the current snapshot of a session.
type LoadFunc func(ctx context.Context) (models.Snapshot, error)

// Serve upgrades the request and streams snapshots for sessionID until the
// client goes away or the hub shuts down. The client is subscribed before
// load runs, so a commit landing in between is still delivered.
func Serve(w http.ResponseWriter, r *http.Request, h *Hub, sessionID string, load LoadFunc, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: opts.OriginPatterns,
	})
	if err != nil {
		logger.Debug("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	out := make(chan models.Snapshot, outboxSize)
	clientID := uuid.NewString()
	if !h.Subscribe(sessionID, clientID, out, nil) {
		conn.Close(websocket.StatusGoingAway, "shutting down")
		return
	}
	defer h.Unsubscribe(sessionID, clientID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	initial, err := load(ctx)
	if err != nil {
		logger.Debug("live snapshot load failed", zap.String("session_id", sessionID), zap.Error(err))
		conn.Close(websocket.StatusInternalError, "snapshot unavailable")
		return
	}
	h.Deliver(sessionID, clientID, initial)

	// Writer goroutine
	go func() {
		defer cancel()
		for snap := range out {
			if err := writeJSON(ctx, conn, snap); err != nil {
				return
			}
		}
		// Outbox closed: the hub dropped us
		conn.Close(websocket.StatusTryAgainLater, "dropped")
	}()

	// Reader loop
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				logger.Debug("live connection closed", zap.String("session_id", sessionID), zap.Error(err))
			}
			return
		}

		var cm ClientMessage
		if err := json.Unmarshal(data, &cm); err != nil {
			_ = writeJSON(ctx, conn, ServerMessage{Type: "error", Error: "bad json"})
			continue
		}
		switch cm.Type {
		case "ping":
			_ = writeJSON(ctx, conn, ServerMessage{Type: "pong"})
		default:
			_ = writeJSON(ctx, conn, ServerMessage{Type: "error", Error: "unknown type"})
		}
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}
