// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package lobby runs the group dining flow on top of the session aggregate.

Each mutating operation (CreateSession, JoinSession, StartMatching, Swipe,
Vote) is a single store.Sessions.Update call, so the read-modify-write on
one session is atomic and sessions never contend with each other. After
a commit the new snapshot is published to live subscribers.

Reads (GetSession, Candidates, VoteStatus, Results, Snapshot) load the
latest committed state and never write.

Errors use the session.Error taxonomy. store.ErrNotFound surfaces as
session.KindNotFound; store.ErrConflict is returned unchanged.
*/
package lobby
