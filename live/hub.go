// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"

	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-dine/models"
)

// Msg is anything the hub loop accepts.
type Msg interface{ isHubMsg() }

// Subscribe registers a client for one session. Initial, when set, is
// delivered before any published snapshot.
type Subscribe struct {
	SessionID string
	ClientID  string
	Outbox    chan models.Snapshot
	Initial   *models.Snapshot
}

// Unsubscribe removes a client. The hub closes its outbox.
type Unsubscribe struct {
	SessionID string
	ClientID  string
}

// Publish fans a snapshot out to every subscriber of its session.
type Publish struct {
	Snapshot models.Snapshot
}

// Deliver sends a snapshot to one subscriber only.
type Deliver struct {
	SessionID string
	ClientID  string
	Snapshot  models.Snapshot
}

// GetStats reports subscriber counts. Used by tests.
type GetStats struct {
	Reply chan Stats
}

// Shutdown closes every outbox and stops the loop.
type Shutdown struct{}

func (Subscribe) isHubMsg()   {}
func (Unsubscribe) isHubMsg() {}
func (Publish) isHubMsg()     {}
func (Deliver) isHubMsg()     {}
func (GetStats) isHubMsg()    {}
func (Shutdown) isHubMsg()    {}

// Stats is a point-in-time view of the hub.
type Stats struct {
	Sessions int
	Clients  map[string]int
}

type client struct {
	outbox  chan models.Snapshot
	version int64 // last version delivered
}

// Gauge receives the live connection count. prometheus.Gauge satisfies it.
type Gauge interface {
	Inc()
	Dec()
}

// Hub owns every live subscription. All state lives in the loop
// goroutine; other goroutines talk to it through the inbox.
type Hub struct {
	inbox  chan Msg
	rooms  map[string]map[string]*client
	gauge  Gauge
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub starts a hub that stops when parent is cancelled. gauge may be nil.
func NewHub(parent context.Context, logger *zap.Logger, gauge Gauge) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan Msg, 64),
		rooms:  make(map[string]map[string]*client),
		gauge:  gauge,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go h.loop()
	return h
}

// Inbox exposes the hub inbox so tests or the websocket layer can send
// messages.
func (h *Hub) Inbox() chan<- Msg { return h.inbox }

// Done is closed once the loop has exited.
func (h *Hub) Done() <-chan struct{} { return h.done }

// send delivers m unless the hub has stopped.
func (h *Hub) send(m Msg) bool {
	if h.ctx.Err() != nil {
		return false
	}
	select {
	case h.inbox <- m:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// Publish queues snap for fan-out. It never blocks past hub shutdown.
func (h *Hub) Publish(snap models.Snapshot) {
	h.send(Publish{Snapshot: snap})
}

// Subscribe registers outbox for sessionID.
func (h *Hub) Subscribe(sessionID, clientID string, outbox chan models.Snapshot, initial *models.Snapshot) bool {
	return h.send(Subscribe{SessionID: sessionID, ClientID: clientID, Outbox: outbox, Initial: initial})
}

// Deliver queues snap for a single client. Versions the client already
// passed are skipped.
func (h *Hub) Deliver(sessionID, clientID string, snap models.Snapshot) {
	h.send(Deliver{SessionID: sessionID, ClientID: clientID, Snapshot: snap})
}

// Unsubscribe removes a client registered with Subscribe.
func (h *Hub) Unsubscribe(sessionID, clientID string) {
	h.send(Unsubscribe{SessionID: sessionID, ClientID: clientID})
}

// Stats asks the loop for subscriber counts.
func (h *Hub) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	if !h.send(GetStats{Reply: reply}) {
		return Stats{}, context.Canceled
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

// Close stops the loop and waits for it to exit.
func (h *Hub) Close() {
	h.send(Shutdown{})
	h.cancel()
	<-h.done
}

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Subscribe:
				h.subscribe(msg)

			case Unsubscribe:
				h.drop(msg.SessionID, msg.ClientID)

			case Publish:
				h.broadcast(msg.Snapshot)

			case Deliver:
				if c, ok := h.rooms[msg.SessionID][msg.ClientID]; ok {
					h.deliver(msg.SessionID, msg.ClientID, c, msg.Snapshot)
				}

			case GetStats:
				s := Stats{Sessions: len(h.rooms), Clients: make(map[string]int, len(h.rooms))}
				for id, room := range h.rooms {
					s.Clients[id] = len(room)
				}
				msg.Reply <- s

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) subscribe(msg Subscribe) {
	room := h.rooms[msg.SessionID]
	if room == nil {
		room = make(map[string]*client)
		h.rooms[msg.SessionID] = room
	}
	if old, ok := room[msg.ClientID]; ok {
		close(old.outbox)
		h.dec()
	}

	c := &client{outbox: msg.Outbox}
	room[msg.ClientID] = c
	h.inc()

	if msg.Initial != nil {
		h.deliver(msg.SessionID, msg.ClientID, c, *msg.Initial)
	}
}

func (h *Hub) broadcast(snap models.Snapshot) {
	room := h.rooms[snap.Session.ID]
	for id, c := range room {
		h.deliver(snap.Session.ID, id, c, snap)
	}
}

// deliver sends snap to one client. Stale versions are skipped so a
// client never sees state move backwards. A full outbox drops the client.
func (h *Hub) deliver(sessionID, clientID string, c *client, snap models.Snapshot) {
	if snap.Version <= c.version {
		return
	}
	select {
	case c.outbox <- snap:
		c.version = snap.Version
	default:
		h.logger.Debug("dropping slow live client",
			zap.String("session_id", sessionID),
			zap.String("client_id", clientID))
		h.drop(sessionID, clientID)
	}
}

func (h *Hub) drop(sessionID, clientID string) {
	room := h.rooms[sessionID]
	c, ok := room[clientID]
	if !ok {
		return
	}
	close(c.outbox)
	delete(room, clientID)
	if len(room) == 0 {
		delete(h.rooms, sessionID)
	}
	h.dec()
}

func (h *Hub) shutdown() {
	for sessionID, room := range h.rooms {
		for clientID := range room {
			h.drop(sessionID, clientID)
		}
	}
	h.cancel()
}

func (h *Hub) inc() {
	if h.gauge != nil {
		h.gauge.Inc()
	}
}

func (h *Hub) dec() {
	if h.gauge != nil {
		h.gauge.Dec()
	}
}
