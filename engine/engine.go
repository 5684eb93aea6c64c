// Package engine wires the store, the on-disk log, and the query
// pipeline behind a single exclusive lock and implements the recursive
// Cmd evaluator: evaluation is a method on the store-owning type, not a
// free function.
package engine

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log/v2"

	"github.com/adrg/xdg"

	"github.com/freeeve/jsondb/command"
	"github.com/freeeve/jsondb/dberr"
	"github.com/freeeve/jsondb/journal"
	"github.com/freeeve/jsondb/jsonval"
	"github.com/freeeve/jsondb/parser"
	"github.com/freeeve/jsondb/query"
	"github.com/freeeve/jsondb/store"
)

// Options configures Open: a plain struct of knobs with a
// DefaultOptions sentinel, filled in by a front end rather than parsed
// from flags or the environment here.
type Options struct {
	// LogPath is where the append-only log lives. Empty resolves to the
	// caller's XDG data directory.
	LogPath string
	// MaxWatchDepth bounds watcher re-entrancy before FireWatcher returns
	// watch-cycle. Zero means the default of 32.
	MaxWatchDepth int
	// Level sets the structured logger's minimum level.
	Level log.Level
}

// DefaultOptions resolves LogPath under the user's XDG data directory,
// the same resolution aretext uses for its own config path.
func DefaultOptions() Options {
	path, err := xdg.DataFile("jsondb/db.log")
	if err != nil {
		path = "jsondb.log"
	}
	return Options{
		LogPath:       path,
		MaxWatchDepth: 32,
		Level:         log.WarnLevel,
	}
}

// DB is the evaluator: it owns the store, the log, and a single
// exclusive mutex. Exec holds mu for the duration of one request,
// including any watcher recursion that request triggers, so re-entrancy
// needs only the depth counter below rather than a reentrant lock.
type DB struct {
	mu       sync.Mutex
	store    *store.Store
	log      *journal.Log
	logger   *log.Logger
	maxDepth int
	depth    int
}

// Open replays the on-disk log at opts.LogPath, creating it if absent,
// and returns a DB ready to Exec requests against.
func Open(opts Options) (*DB, error) {
	if opts.LogPath == "" {
		opts = DefaultOptions()
	}
	l, replayed, err := journal.Open(opts.LogPath)
	if err != nil {
		return nil, err
	}
	st := store.New()
	for k, v := range replayed {
		st.Load(k, v)
	}

	logger := log.New(os.Stderr)
	logger.SetLevel(opts.Level)

	maxDepth := opts.MaxWatchDepth
	if maxDepth <= 0 {
		maxDepth = 32
	}

	db := &DB{store: st, log: l, logger: logger, maxDepth: maxDepth}
	st.SetFirer(db)
	return db, nil
}

// Close releases the underlying log file handle.
func (db *DB) Close() error {
	return db.log.Close()
}

// Exec decodes raw as one JSON program, parses and evaluates it, and
// encodes the result back to JSON, holding the exclusive lock for the
// whole request.
func (db *DB) Exec(raw []byte) ([]byte, error) {
	v, err := jsonval.Decode(raw)
	if err != nil {
		return nil, dberr.Wrap(dberr.ParseError, err)
	}
	cmd := parser.Parse(v)

	db.mu.Lock()
	result, err := db.eval(cmd)
	db.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return jsonval.Encode(result)
}

// Eval evaluates an already-parsed Cmd, satisfying query.Evaluator. It
// assumes the caller already holds mu, which is always true here: it is
// only reached from inside eval's own Sql case, or from a front end that
// has its own reason to hold the lock.
func (db *DB) Eval(c command.Cmd) (*jsonval.Json, error) {
	return db.eval(c)
}

// FireWatcher re-evaluates a watcher command, satisfying
// store.WatcherFirer. It is always called from inside Set's call to
// store.Set, so mu is already held by this goroutine; only the depth
// counter guards against runaway watcher recursion. Failures are logged
// and returned to Store, which discards them — logged but never
// surfaced to the triggering set.
func (db *DB) FireWatcher(c command.Cmd) error {
	if db.depth >= db.maxDepth {
		err := dberr.New(dberr.WatchCycle)
		db.logger.Warn("watcher exceeded max recursion depth", "depth", db.depth)
		return err
	}
	db.depth++
	_, err := db.eval(c)
	db.depth--
	if err != nil {
		db.logger.Warn("watcher evaluation failed", "err", err)
	}
	return err
}

func (db *DB) eval(c command.Cmd) (*jsonval.Json, error) {
	switch n := c.(type) {
	case *command.Val:
		return n.Value, nil
	case *command.Get:
		return db.evalGet(n.Path)
	case *command.Set:
		return db.evalSet(n.Key, n.Arg)
	case *command.Rm:
		return orNull(db.store.Rm(n.Key)), nil
	case *command.Add:
		return db.binary(n.Lhs, n.Rhs, jsonval.Add)
	case *command.Sub:
		return db.binary(n.Lhs, n.Rhs, jsonval.Sub)
	case *command.Mul:
		return db.binary(n.Lhs, n.Rhs, jsonval.Mul)
	case *command.Div:
		return db.binary(n.Lhs, n.Rhs, jsonval.Div)
	case *command.Eq:
		return db.binary(n.Lhs, n.Rhs, jsonval.Eq)
	case *command.Neq:
		return db.binary(n.Lhs, n.Rhs, jsonval.Neq)
	case *command.Lt:
		return db.binary(n.Lhs, n.Rhs, jsonval.Lt)
	case *command.Le:
		return db.binary(n.Lhs, n.Rhs, jsonval.Le)
	case *command.Gt:
		return db.binary(n.Lhs, n.Rhs, jsonval.Gt)
	case *command.Ge:
		return db.binary(n.Lhs, n.Rhs, jsonval.Ge)
	case *command.Avg:
		return db.unary(n.Arg, jsonval.Avg)
	case *command.Sum:
		return db.unary(n.Arg, jsonval.Sum)
	case *command.Sums:
		return db.unary(n.Arg, jsonval.Sums)
	case *command.First:
		return db.unary(n.Arg, jsonval.First)
	case *command.Last:
		return db.unary(n.Arg, jsonval.Last)
	case *command.Len:
		return db.unary(n.Arg, jsonval.Len)
	case *command.Max:
		return db.unary(n.Arg, jsonval.Max)
	case *command.Min:
		return db.unary(n.Arg, jsonval.Min)
	case *command.Unique:
		return db.unary(n.Arg, jsonval.Unique)
	case *command.Type:
		return db.unary(n.Arg, typeOf)
	case *command.Key:
		v, err := db.eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return jsonval.Get(v, n.Name), nil
	case *command.If:
		return db.evalIf(n)
	case *command.Eval:
		return db.evalMacro(n.Raw)
	case *command.Stmt:
		return db.evalStmt(n.Cmds)
	case *command.Watch:
		if err := db.store.AddWatcher(n.Key, n.Arg); err != nil {
			return nil, err
		}
		return jsonval.Null, nil
	case *command.Sql:
		return query.Run(db, n.Query)
	default:
		return jsonval.Null, nil
	}
}

func (db *DB) evalGet(path string) (*jsonval.Json, error) {
	head, tail, hasTail := strings.Cut(path, ".")
	v, ok := db.store.Get(head)
	if !ok {
		return jsonval.Null, nil
	}
	if !hasTail {
		// A shared reference into the store: safe to hand back directly
		// because Json is immutable and Store.Set never mutates an
		// existing value in place.
		return v, nil
	}
	return jsonval.Gets(v, tail), nil
}

func (db *DB) evalSet(key string, arg command.Cmd) (*jsonval.Json, error) {
	v, err := db.eval(arg)
	if err != nil {
		return nil, err
	}
	if err := db.log.Append(key, v); err != nil {
		return nil, err
	}
	return orNull(db.store.Set(key, v)), nil
}

func (db *DB) evalIf(n *command.If) (*jsonval.Json, error) {
	p, err := db.eval(n.Pred)
	if err != nil {
		return nil, err
	}
	b, ok := p.AsBool()
	if !ok {
		return nil, dberr.New(dberr.BadType)
	}
	if b {
		return db.eval(n.Then)
	}
	return db.eval(n.Else)
}

// evalMacro implements the two-stage macro: parse and evaluate raw
// once, then parse and evaluate the result again, so a stored program
// can compute the next program it runs.
func (db *DB) evalMacro(raw *jsonval.Json) (*jsonval.Json, error) {
	stage1, err := db.eval(parser.Parse(raw))
	if err != nil {
		return nil, err
	}
	return db.eval(parser.Parse(stage1))
}

func (db *DB) evalStmt(cmds []command.Cmd) (*jsonval.Json, error) {
	out := make([]*jsonval.Json, len(cmds))
	for i, c := range cmds {
		v, err := db.eval(c)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return jsonval.Array(out...), nil
}

func (db *DB) binary(lhs, rhs command.Cmd, op func(a, b *jsonval.Json) *jsonval.Json) (*jsonval.Json, error) {
	a, err := db.eval(lhs)
	if err != nil {
		return nil, err
	}
	b, err := db.eval(rhs)
	if err != nil {
		return nil, err
	}
	return op(a, b), nil
}

func (db *DB) unary(arg command.Cmd, op func(*jsonval.Json) *jsonval.Json) (*jsonval.Json, error) {
	v, err := db.eval(arg)
	if err != nil {
		return nil, err
	}
	return op(v), nil
}

func typeOf(v *jsonval.Json) *jsonval.Json { return jsonval.String(v.Kind().String()) }

func orNull(v *jsonval.Json) *jsonval.Json {
	if v == nil {
		return jsonval.Null
	}
	return v
}
