// Package journal implements the on-disk append-only log: one
// JSON-encoded [key, value] pair per line, no rewrite, no compaction.
// The append-then-sync, replay-from-start-on-open shape follows the
// Sia renter/contractor journal's design, adapted from its
// JSON-patch-per-line format to flat key/value records.
package journal

import (
	"bufio"
	"os"

	"github.com/pkg/errors"

	"github.com/freeeve/jsondb/dberr"
	"github.com/freeeve/jsondb/jsonval"
)

// Log is an append-only, newline-delimited JSON record file.
type Log struct {
	f *os.File
}

// Open opens (creating if necessary) the log at path and replays every
// record into a fresh map, last-write-wins by file order. On a malformed
// line, replay stops and returns CorruptLog carrying the 1-indexed line
// number; no records past that point are applied.
func Open(path string) (*Log, map[string]*jsonval.Json, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, nil, dberr.Wrap(dberr.IOError, errors.Wrapf(err, "open journal %s", path))
	}
	store := make(map[string]*jsonval.Json)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		key, val, err := decodeRecord(raw)
		if err != nil {
			f.Close()
			return nil, nil, dberr.AtLine(dberr.CorruptLog, line, errors.Wrapf(err, "journal %s", path))
		}
		store[key] = val
	}
	if err := scanner.Err(); err != nil {
		f.Close()
		return nil, nil, dberr.Wrap(dberr.IOError, errors.Wrapf(err, "read journal %s", path))
	}
	if _, err := f.Seek(0, os.SEEK_END); err != nil {
		f.Close()
		return nil, nil, dberr.Wrap(dberr.IOError, errors.Wrapf(err, "seek journal %s", path))
	}
	return &Log{f: f}, store, nil
}

// Append writes one [key, value] record, syncing before it returns so a
// crash after Append cannot lose the write: every key in the in-memory
// store must correspond to an appended record written before the
// in-memory insertion completed.
func (l *Log) Append(key string, val *jsonval.Json) error {
	raw, err := encodeRecord(key, val)
	if err != nil {
		return dberr.Wrap(dberr.IOError, err)
	}
	raw = append(raw, '\n')
	if _, err := l.f.Write(raw); err != nil {
		return dberr.Wrap(dberr.IOError, errors.Wrap(err, "append journal"))
	}
	if err := l.f.Sync(); err != nil {
		return dberr.Wrap(dberr.IOError, errors.Wrap(err, "sync journal"))
	}
	return nil
}

func (l *Log) Close() error {
	return l.f.Close()
}

func decodeRecord(raw []byte) (string, *jsonval.Json, error) {
	v, err := jsonval.Decode(raw)
	if err != nil {
		return "", nil, err
	}
	arr, ok := v.AsArray()
	if !ok || len(arr) != 2 {
		return "", nil, errors.New("record is not a [key, value] pair")
	}
	key, ok := arr[0].AsString()
	if !ok {
		return "", nil, errors.New("record key is not a string")
	}
	return key, arr[1], nil
}

func encodeRecord(key string, val *jsonval.Json) ([]byte, error) {
	return jsonval.Encode(jsonval.Array(jsonval.String(key), val))
}
