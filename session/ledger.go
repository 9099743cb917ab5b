// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import "encoding/json"

// Key identifies a ledger entry.
type Key struct {
	UserID       string
	RestaurantID string
}

// Entry is a decision stored in a Ledger.
type Entry[E any] interface {
	LedgerKey() Key
	sameDecision(E) bool
}

// Ledger holds at most one entry per (user, restaurant). Writes are last
// write wins; iteration follows first-insertion order so derived results
// are reproducible.
type Ledger[E Entry[E]] struct {
	entries []E
	index   map[Key]int
}

// Upsert stores e, replacing any entry with the same key. It reports
// whether the ledger changed. Re-submitting an identical decision leaves
// the stored entry, including its timestamp, untouched.
func (l *Ledger[E]) Upsert(e E) bool {
	if i, ok := l.index[e.LedgerKey()]; ok && l.entries[i].sameDecision(e) {
		return false
	}
	l.put(e)
	return true
}

// Get returns the entry stored under k.
func (l Ledger[E]) Get(k Key) (E, bool) {
	i, ok := l.index[k]
	if !ok {
		var zero E
		return zero, false
	}
	return l.entries[i], true
}

// Len returns the number of entries.
func (l Ledger[E]) Len() int {
	return len(l.entries)
}

// All returns a copy of every entry in insertion order.
func (l Ledger[E]) All() []E {
	out := make([]E, len(l.entries))
	copy(out, l.entries)
	return out
}

// ByUser returns the entries written by userID.
func (l Ledger[E]) ByUser(userID string) []E {
	var out []E
	for _, e := range l.entries {
		if e.LedgerKey().UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// ByRestaurant returns the entries for restaurantID.
func (l Ledger[E]) ByRestaurant(restaurantID string) []E {
	var out []E
	for _, e := range l.entries {
		if e.LedgerKey().RestaurantID == restaurantID {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns an independent copy.
func (l Ledger[E]) Clone() Ledger[E] {
	if l.entries == nil {
		return Ledger[E]{}
	}
	c := Ledger[E]{entries: l.All()}
	if l.index != nil {
		c.index = make(map[Key]int, len(l.index))
		for k, v := range l.index {
			c.index[k] = v
		}
	}
	return c
}

// MarshalJSON encodes the ledger as an array of entries.
func (l Ledger[E]) MarshalJSON() ([]byte, error) {
	if l.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.entries)
}

// UnmarshalJSON decodes an array of entries. Duplicate keys collapse to
// the last one in the array.
func (l *Ledger[E]) UnmarshalJSON(data []byte) error {
	var entries []E
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*l = Ledger[E]{}
	for _, e := range entries {
		l.put(e)
	}
	return nil
}

func (l *Ledger[E]) put(e E) {
	k := e.LedgerKey()
	if l.index == nil {
		l.index = make(map[Key]int)
	}
	if i, ok := l.index[k]; ok {
		l.entries[i] = e
		return
	}
	l.index[k] = len(l.entries)
	l.entries = append(l.entries, e)
}
