// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session holds the group decision aggregate and every rule that
governs it.

A Session moves strictly forward through four phases:

	waiting -> matching -> voting -> completed

The host starts matching once at least two participants have joined.
Everything after that is derived: the swipe that first produces a restaurant
every participant swiped right on moves the session to voting, and the vote
that leaves every participant having voted on every consensus restaurant
completes the session when a winner exists.

# Ledgers

Swipes and votes are kept in a Ledger keyed by (user, restaurant). A later
decision replaces the earlier one, so consensus and tallies always reflect
each participant's latest choice.

# Consensus

Consensus is recomputed from the swipe ledger on every swipe. It is frozen
into ConsensusRestaurantIDs at the moment the session enters voting, and the
set is non-empty exactly when the phase is voting or later.

# Tally

Each consensus restaurant scores yes minus no. Results are ordered by score,
then yes votes, then restaurant id. The winner is the top result only when
its score is zero or higher.

# Errors

Every rejected operation returns an *Error carrying a Kind. Checks run
before any mutation, so a rejected call leaves the session untouched.
Callers compare with errors.Is against the Err sentinels or use KindOf.

# Purity

Functions here take the current time as an argument and perform no I/O.
Persistence and concurrency control live in the store package.
*/
package session
