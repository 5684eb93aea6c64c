package jsonval

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// EncodeOptions controls Encoder output: a struct of rendering knobs
// plus a package-level DefaultEncodeOptions sentinel.
type EncodeOptions struct {
	// Indent, when non-empty, pretty-prints with one Indent repetition
	// per nesting level, a newline before each element, and a newline
	// before the closing bracket of a non-empty container.
	// Empty means compact single-line output.
	Indent string
}

// DefaultEncodeOptions renders compact, single-line JSON, the shape every
// wire response and journal record uses.
var DefaultEncodeOptions = EncodeOptions{}

// Encoder renders a Json tree to text using a bytes.Buffer-based
// builder.
type Encoder struct {
	buf  bytes.Buffer
	opts EncodeOptions
}

// NewEncoder returns an Encoder configured with opts.
func NewEncoder(opts EncodeOptions) *Encoder {
	return &Encoder{opts: opts}
}

// String returns everything written to the Encoder so far.
func (e *Encoder) String() string { return e.buf.String() }

// Encode appends v's rendering to the Encoder's buffer.
func (e *Encoder) Encode(v *Json) { e.encode(v, 0) }

// Encode renders v to its canonical JSON bytes using DefaultEncodeOptions.
func Encode(v *Json) ([]byte, error) {
	e := NewEncoder(DefaultEncodeOptions)
	e.Encode(v)
	return []byte(e.String()), nil
}

// EncodeIndent renders v using opts, for pretty-printed debug output.
func EncodeIndent(v *Json, opts EncodeOptions) string {
	e := NewEncoder(opts)
	e.Encode(v)
	return e.String()
}

func (e *Encoder) newline(depth int) {
	if e.opts.Indent == "" {
		return
	}
	e.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.buf.WriteString(e.opts.Indent)
	}
}

func (e *Encoder) encode(v *Json, depth int) {
	switch v.Kind() {
	case KindNull:
		e.buf.WriteString("null")
	case KindBool:
		b, _ := v.AsBool()
		if b {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case KindInt:
		i, _ := v.AsInt()
		e.buf.WriteString(strconv.FormatInt(i, 10))
	case KindFloat:
		f, _ := v.AsFloat()
		s := strconv.FormatFloat(f, 'g', -1, 64)
		// Keep the Float tag visible so decoding gives a Float back.
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}
		e.buf.WriteString(s)
	case KindString:
		s, _ := v.AsString()
		e.encodeString(s)
	case KindArray:
		arr, _ := v.AsArray()
		e.buf.WriteByte('[')
		for i, el := range arr {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.newline(depth + 1)
			e.encode(el, depth+1)
		}
		if len(arr) > 0 {
			e.newline(depth)
		}
		e.buf.WriteByte(']')
	case KindObject:
		obj, _ := v.AsObject()
		e.buf.WriteByte('{')
		for i, k := range obj.Keys() {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.newline(depth + 1)
			e.encodeString(k)
			e.buf.WriteByte(':')
			if e.opts.Indent != "" {
				e.buf.WriteByte(' ')
			}
			val, _ := obj.Get(k)
			e.encode(val, depth+1)
		}
		if obj.Len() > 0 {
			e.newline(depth)
		}
		e.buf.WriteByte('}')
	}
}

func (e *Encoder) encodeString(s string) {
	e.buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			e.buf.WriteString(`\"`)
		case '\\':
			e.buf.WriteString(`\\`)
		case '\n':
			e.buf.WriteString(`\n`)
		case '\t':
			e.buf.WriteString(`\t`)
		case '\r':
			e.buf.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&e.buf, `\u%04x`, r)
			} else {
				e.buf.WriteRune(r)
			}
		}
	}
	e.buf.WriteByte('"')
}
