package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Field is one column/value pair of a payload.
type Field struct {
	Column string
	Value  any
}

// Payload is the set of fields a client wants written, in the order the
// client sent them. The order decides both the column list and the order in
// which values are bound.
type Payload []Field

// Columns returns the payload keys in order.
func (p Payload) Columns() []string {
	cols := make([]string, len(p))
	for i, f := range p {
		cols[i] = f.Column
	}
	return cols
}

// Get returns the value for column.
func (p Payload) Get(column string) (any, bool) {
	for _, f := range p {
		if f.Column == column {
			return f.Value, true
		}
	}
	return nil, false
}

// set replaces the value of an existing key in place, or appends it.
func (p Payload) set(column string, v any) Payload {
	for i := range p {
		if p[i].Column == column {
			p[i].Value = v
			return p
		}
	}
	return append(p, Field{Column: column, Value: v})
}

// DecodePayload reads a JSON object from r keeping key order. An empty body
// gives an empty payload. Strings, numbers, booleans and null are passed on
// as they are; nested objects and arrays are passed as their JSON text.
func DecodePayload(r io.Reader) (Payload, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	p := Payload{}
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected an object", ErrInvalidPayload)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected a key", ErrInvalidPayload)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		v, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, key, err)
		}
		p = p.set(key, v)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrInvalidPayload)
	}
	return p, nil
}

func decodeValue(raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("empty value")
	}

	switch raw[0] {
	case 'n':
		return nil, nil
	case 't', 'f':
		var b bool
		err := json.Unmarshal(raw, &b)
		return b, err
	case '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, err
		}
		return buf.String(), nil
	default:
		return numberValue(json.Number(raw))
	}
}

// numberValue keeps integers exact. Integers too large for int64 are passed
// as text so the store can parse them into wide numeric columns.
func numberValue(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	if !strings.ContainsAny(string(n), ".eE") {
		if _, err := strconv.ParseFloat(string(n), 64); err != nil {
			return nil, err
		}
		return string(n), nil
	}
	return n.Float64()
}
