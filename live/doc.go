// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package live pushes session snapshots to connected clients over websockets.

# Hub

Hub is a single goroutine that owns every subscription. Callers talk to it
through its inbox:

	h := live.NewHub(ctx, logger, metrics.LiveSubscribers)
	h.Publish(snapshot)

Each subscriber remembers the last version it was sent, and older or equal
versions are skipped, so a client never sees a session move backwards.
A subscriber whose outbox is full is dropped and its outbox closed.

# Connections

Serve upgrades an HTTP request, registers the connection with the hub,
and runs a writer goroutine plus a reader loop. The snapshot is loaded
only after the subscription exists and reaches the client through the
hub, so no commit is missed in between. Clients may send {"type":"ping"}
and receive {"type":"pong"}.
*/
package live
