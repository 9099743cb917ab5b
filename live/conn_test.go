// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-dine/models"
)

func readFrame(t *testing.T, ctx context.Context, conn *websocket.Conn, v any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func fixed(snap models.Snapshot) LoadFunc {
	return func(context.Context) (models.Snapshot, error) { return snap, nil }
}

func TestServe_StreamsSnapshots(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, nil, nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Serve(w, r, h, "s1", fixed(snapshot("s1", 1, "waiting")), Options{})
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	var first models.Snapshot
	readFrame(t, ctx, conn, &first)
	assert.Equal(t, "snapshot", first.Type)
	assert.Equal(t, int64(1), first.Version)

	// Wait until the subscription is registered before publishing
	require.Eventually(t, func() bool {
		s, err := h.Stats(ctx)
		return err == nil && s.Clients["s1"] == 1
	}, time.Second, 10*time.Millisecond)

	h.Publish(snapshot("s1", 2, "matching"))
	var next models.Snapshot
	readFrame(t, ctx, conn, &next)
	assert.Equal(t, int64(2), next.Version)

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"type":"ping"}`)))
	var pong ServerMessage
	readFrame(t, ctx, conn, &pong)
	assert.Equal(t, "pong", pong.Type)

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`not json`)))
	var bad ServerMessage
	readFrame(t, ctx, conn, &bad)
	assert.Equal(t, "error", bad.Type)
}

func TestServe_DisconnectUnsubscribes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, nil, nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Serve(w, r, h, "s1", fixed(snapshot("s1", 1, "waiting")), Options{})
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)

	var first models.Snapshot
	readFrame(t, ctx, conn, &first)
	conn.Close(websocket.StatusNormalClosure, "done")

	require.Eventually(t, func() bool {
		s, err := h.Stats(ctx)
		return err == nil && s.Clients["s1"] == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServe_CommitDuringLoadIsDelivered(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, nil, nil)

	// The read returns v1 but v2 commits and publishes before it completes
	load := func(context.Context) (models.Snapshot, error) {
		h.Publish(snapshot("s1", 2, "voting"))
		return snapshot("s1", 1, "matching"), nil
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Serve(w, r, h, "s1", load, Options{})
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	var first models.Snapshot
	readFrame(t, ctx, conn, &first)
	assert.Equal(t, int64(2), first.Version)
	assert.Equal(t, "voting", first.Session.Phase)

	h.Publish(snapshot("s1", 3, "completed"))
	var next models.Snapshot
	readFrame(t, ctx, conn, &next)
	assert.Equal(t, int64(3), next.Version)
}

func TestServe_LoadFailureClosesConnection(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, nil, nil)

	load := func(context.Context) (models.Snapshot, error) {
		return models.Snapshot{}, errors.New("store down")
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Serve(w, r, h, "s1", load, Options{})
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	rctx, rcancel := context.WithTimeout(ctx, 2*time.Second)
	defer rcancel()
	_, _, err = conn.Read(rctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusInternalError, websocket.CloseStatus(err))

	require.Eventually(t, func() bool {
		s, err := h.Stats(ctx)
		return err == nil && s.Clients["s1"] == 0
	}, 2*time.Second, 10*time.Millisecond)
}
