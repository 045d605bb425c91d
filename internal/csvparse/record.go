package csvparse

import (
	"bytes"
	"encoding/json"
	"iter"
	"slices"
	"strings"
)

// Value is one field of a Record: either a text leaf or a nested group.
// The zero Value is an empty text leaf.
type Value struct {
	text  string
	group *Record
}

// TextValue returns a leaf holding s.
func TextValue(s string) Value {
	return Value{text: s}
}

// IsGroup reports whether v is a nested group.
func (v Value) IsGroup() bool {
	return v.group != nil
}

// Text returns the leaf text, or "" for a group.
func (v Value) Text() string {
	return v.text
}

// Record returns the nested group, or nil for a leaf.
func (v Value) Record() *Record {
	return v.group
}

// MarshalJSON encodes a leaf as a JSON string and a group as an object.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.group != nil {
		return v.group.MarshalJSON()
	}
	return json.Marshal(v.text)
}

// Record is an insertion-ordered mapping from field name to Value.
// Records are built by the parser and are read-only afterwards.
type Record struct {
	keys   []string
	fields map[string]Value
}

func newRecord() *Record {
	return &Record{fields: make(map[string]Value)}
}

// Len returns the number of top-level keys.
func (r *Record) Len() int {
	return len(r.keys)
}

// Keys returns the top-level keys in insertion order.
func (r *Record) Keys() []string {
	return slices.Clone(r.keys)
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Lookup follows path through nested groups.
//
//	rec.Lookup("user", "name") // value of header "user.name"
func (r *Record) Lookup(path ...string) (Value, bool) {
	if len(path) == 0 {
		return Value{}, false
	}

	cur := r
	for i, key := range path {
		v, ok := cur.fields[key]
		if !ok {
			return Value{}, false
		}
		if i == len(path)-1 {
			return v, true
		}
		if !v.IsGroup() {
			return Value{}, false
		}
		cur = v.group
	}
	return Value{}, false
}

// All iterates over the top-level fields in insertion order.
func (r *Record) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range r.keys {
			if !yield(k, r.fields[k]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the record as a JSON object with keys in
// insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := r.fields[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) set(key string, v Value) {
	r.keys = append(r.keys, key)
	r.fields[key] = v
}

// assign stores value under key, expanding a dotted key into nested
// groups. A leaf may not collide with anything, and a group may only
// merge with another group.
func (r *Record) assign(key, value string) error {
	if parent, rest, ok := splitDotted(key); ok {
		existing, found := r.fields[parent]
		if found && !existing.IsGroup() {
			return &DuplicateFieldError{Field: parent}
		}
		if !found {
			existing = Value{group: newRecord()}
			r.set(parent, existing)
		}
		return existing.group.assign(rest, value)
	}

	if _, found := r.fields[key]; found {
		return &DuplicateFieldError{Field: key}
	}
	r.set(key, TextValue(value))
	return nil
}

// splitDotted splits key at its first dot. Both sides must be
// non-empty, so ".a" and "a." stay leaves while "a..b" nests ".b"
// under "a".
func splitDotted(key string) (parent, rest string, ok bool) {
	i := strings.IndexByte(key, '.')
	if i <= 0 || i == len(key)-1 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}

// MapRow builds a record by zipping header with fields. Pairs are taken
// up to the shorter of the two, so missing trailing fields leave their
// keys absent and surplus fields are dropped.
func MapRow(header, fields []string) (*Record, error) {
	rec := newRecord()
	n := min(len(header), len(fields))
	for i := 0; i < n; i++ {
		if err := rec.assign(header[i], fields[i]); err != nil {
			return nil, err
		}
	}
	return rec, nil
}
