package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	atlaserrors "github.com/daveygoode/atlas/internal/errors"
)

// ImportantNotesKey is the extended-context key that is also appended to
// the short-memory Critical Notes section.
const ImportantNotesKey = "important_notes"

// Value is either a single string or an ordered list of strings.
type Value struct {
	Text   string
	List   []string
	IsList bool
}

// Text returns a scalar Value.
func Text(s string) Value {
	return Value{Text: s}
}

// List returns a list Value.
func List(items ...string) Value {
	if items == nil {
		items = []string{}
	}
	return Value{List: items, IsList: true}
}

// String renders the value inline, joining list items with ", ".
func (v Value) String() string {
	if v.IsList {
		return strings.Join(v.List, ", ")
	}
	return v.Text
}

// Entry is one extended-context key.
type Entry struct {
	Key   string
	Value Value
}

// Extended is caller-supplied key/value context. Keys keep the order they
// were given in, which is also the order they render in.
type Extended []Entry

// Get returns the value stored under key.
func (e Extended) Get(key string) (Value, bool) {
	for _, entry := range e {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return Value{}, false
}

// Set replaces key in place or appends it.
func (e Extended) Set(key string, v Value) Extended {
	for i := range e {
		if e[i].Key == key {
			e[i].Value = v
			return e
		}
	}
	return append(e, Entry{Key: key, Value: v})
}

// ParseExtended decodes the --extended argument. The input must be a JSON
// object; blank input means no extended context.
func ParseExtended(raw string) (Extended, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if !strings.HasPrefix(raw, "{") {
		return nil, atlaserrors.ExtendedContextInvalid(fmt.Errorf("expected a JSON object"))
	}
	var ext Extended
	if err := json.Unmarshal([]byte(raw), &ext); err != nil {
		return nil, atlaserrors.ExtendedContextInvalid(err)
	}
	return ext, nil
}

// MarshalJSON writes the entries as an object in key order.
func (e Extended) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeJSON(&buf, entry.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')

		var v any = entry.Value.Text
		if entry.Value.IsList {
			list := entry.Value.List
			if list == nil {
				list = []string{}
			}
			v = list
		}
		if err := encodeJSON(&buf, v); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping key order. Strings and arrays map
// onto Value directly; any other JSON value is kept as its compact text.
func (e *Extended) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*e = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("extended context must be a JSON object")
	}

	out := Extended{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		v, err := decodeValue(raw)
		if err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		out = out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*e = out
	return nil
}

func decodeValue(raw json.RawMessage) (Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Value{}, fmt.Errorf("empty value")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Value{}, err
		}
		return Text(s), nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Value{}, err
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			s, err := scalarText(item)
			if err != nil {
				return Value{}, err
			}
			list = append(list, s)
		}
		return List(list...), nil
	default:
		s, err := scalarText(trimmed)
		if err != nil {
			return Value{}, err
		}
		return Text(s), nil
	}
}

// scalarText returns a JSON string's contents, or the compact JSON text of
// anything else.
func scalarText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		err := json.Unmarshal(trimmed, &s)
		return s, err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// encodeJSON appends v to buf without HTML escaping or a trailing newline.
func encodeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}
