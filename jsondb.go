// Package jsondb is the facade a front end imports: Open a database at a
// log path, Exec JSON programs against it, Close it on shutdown. It
// re-exports the types a caller needs to inspect a parsed program or an
// error kind without reaching into the engine, command, jsonval and dberr
// packages this module is built from.
package jsondb

import (
	"github.com/freeeve/jsondb/command"
	"github.com/freeeve/jsondb/dberr"
	"github.com/freeeve/jsondb/engine"
	"github.com/freeeve/jsondb/jsonval"
)

// DB is an open database: the store, the on-disk log, and the exclusive
// lock serializing access to both.
type DB = engine.DB

// Options configures Open.
type Options = engine.Options

// DefaultOptions returns Options with LogPath resolved under the
// caller's XDG data directory, a 32-deep watcher recursion limit, and
// Warn-level logging.
func DefaultOptions() Options { return engine.DefaultOptions() }

// Open replays the log at opts.LogPath (creating it if absent) and
// returns a DB ready for Exec.
func Open(opts Options) (*DB, error) { return engine.Open(opts) }

// Cmd is the parsed command tree a program evaluates to.
type Cmd = command.Cmd

// Json is the value type every program operates on and every Exec call
// returns.
type Json = jsonval.Json

// ErrKind tags the error responses Exec can return.
type ErrKind = dberr.Kind

const (
	ErrBadType    = dberr.BadType
	ErrBadKey     = dberr.BadKey
	ErrBadFrom    = dberr.BadFrom
	ErrCorruptLog = dberr.CorruptLog
	ErrIOError    = dberr.IOError
	ErrParseError = dberr.ParseError
	ErrWatchCycle = dberr.WatchCycle
)
