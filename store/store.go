// Package store implements the in-memory key→document map: an ordered
// Store of Entry values, each carrying the document's current value and
// the watcher commands registered against that key.
package store

import (
	"sort"

	"github.com/freeeve/jsondb/command"
	"github.com/freeeve/jsondb/dberr"
	"github.com/freeeve/jsondb/jsonval"
)

// WatcherFirer re-evaluates a watcher command after the key it watches
// has been written. It is implemented by the engine, which alone knows
// how to evaluate a Cmd; Store only needs to know when to ask it to.
// Watcher failures are logged by the firer and swallowed — Store itself
// never inspects the error.
type WatcherFirer interface {
	FireWatcher(c command.Cmd) error
}

// Entry is one store slot: the shared, immutable current value and the
// ordered list of watcher commands attached to it.
type Entry struct {
	Value    *jsonval.Json
	Watchers []command.Cmd
}

// Store is the key→Entry map. It is not safe for concurrent use on its
// own; the engine serializes all access behind a single exclusive lock
// that also covers the journal and the watcher stack, so Store itself
// stays lock-free and single-threaded.
type Store struct {
	entries map[string]*Entry
	firer   WatcherFirer
}

// New creates an empty Store. SetFirer must be called before any Set
// with watchers registered, which engine.Open does as part of wiring
// the DB together.
func New() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// SetFirer installs the callback Store uses to re-evaluate watchers.
func (s *Store) SetFirer(f WatcherFirer) { s.firer = f }

// Get returns the current value at key, or (nil, false) if absent.
func (s *Store) Get(key string) (*jsonval.Json, bool) {
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.Value, true
}

// Set installs val at key, returning the previous value (or nil if the
// key was absent). After the new value is visible, every watcher
// registered on key fires in registration order; watcher errors are
// logged by the firer and never returned here, so a failing watcher
// cannot roll back this Set.
func (s *Store) Set(key string, val *jsonval.Json) *jsonval.Json {
	e, existed := s.entries[key]
	var prev *jsonval.Json
	if existed {
		prev = e.Value
		e.Value = val
	} else {
		e = &Entry{Value: val}
		s.entries[key] = e
	}
	watchers := e.Watchers
	for _, w := range watchers {
		if s.firer != nil {
			_ = s.firer.FireWatcher(w)
		}
	}
	return prev
}

// Load installs val at key without consulting or firing the key's
// watcher list. It exists only for populating the Store from log replay
// at startup, before SetFirer or any watch has had a chance to run.
func (s *Store) Load(key string, val *jsonval.Json) {
	s.entries[key] = &Entry{Value: val}
}

// Rm removes key entirely, returning its prior value and discarding its
// watcher list.
func (s *Store) Rm(key string) *jsonval.Json {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	delete(s.entries, key)
	return e.Value
}

// AddWatcher appends c to key's watcher list. It returns dberr.BadKey if
// key does not currently have an entry.
func (s *Store) AddWatcher(key string, c command.Cmd) error {
	e, ok := s.entries[key]
	if !ok {
		return dberr.New(dberr.BadKey)
	}
	e.Watchers = append(e.Watchers, c)
	return nil
}

// Keys returns every key currently present, lexicographically ordered.
// Ordering affects only iteration used by future features.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
