package jsonval

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Decode parses a JSON-encoded byte slice into a Json tree, preserving
// object key insertion order and the int/float distinction that a plain
// `map[string]interface{}` unmarshal would erase. It streams through
// goccy/go-json's Token() interface rather than unmarshaling into `any`,
// the way a hand-rolled recursive-descent JSON parser would walk its own
// token stream.
func Decode(data []byte) (*Json, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (*Json, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (*Json, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case json.Delim('{'):
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("jsonval: object key is not a string: %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return ObjectVal(obj), nil
		case json.Delim('['):
			var elems []*Json
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				elems = append(elems, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return Array(elems...), nil
		default:
			return nil, fmt.Errorf("jsonval: unexpected delimiter %v", t)
		}
	case nil:
		return Null, nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return decodeNumber(t)
	case string:
		return String(t), nil
	default:
		return nil, fmt.Errorf("jsonval: unexpected token %T", tok)
	}
}

func decodeNumber(n json.Number) (*Json, error) {
	if i, err := n.Int64(); err == nil {
		return Int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, err
	}
	return Float(f), nil
}
