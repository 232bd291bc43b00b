package gdm

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// Map is a map that keeps its entries in insertion order. ValueEncoder
// produces it for every map; NewValueDecoder accepts it next to
// map[string]any.
type Map []Entry

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value any
}

// Get returns the value stored under key.
func (m Map) Get(key string) (any, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// NewValueDecoder returns a Decoder over an in-memory document made of Go
// values: nil, bool, signed and unsigned integers of any width, float32,
// float64, string, []byte, []any, map[string]any and Map. Entries of a
// map[string]any are visited in key order.
func NewValueDecoder(v any) Decoder { return &valueDecoder{v: v} }

type valueDecoder struct{ v any }

func valueKind(v any) (Kind, error) {
	switch v.(type) {
	case nil:
		return KindNull, nil
	case bool:
		return KindBool, nil
	case int, int8, int16, int32, int64:
		return KindInt, nil
	case uint, uint8, uint16, uint32, uint64:
		return KindUint, nil
	case float32, float64:
		return KindFloat, nil
	case string:
		return KindString, nil
	case []byte:
		return KindBytes, nil
	case []any:
		return KindSeq, nil
	case Map, map[string]any:
		return KindMap, nil
	}
	return KindInvalid, errors.Newf("gdm: unsupported document value of type %T", v)
}

func (d *valueDecoder) Kind() (Kind, error) { return valueKind(d.v) }

func (d *valueDecoder) mismatch(want Kind) error {
	got, err := valueKind(d.v)
	if err != nil {
		return err
	}
	return &KindError{Want: want, Got: got}
}

func (d *valueDecoder) DecodeNull() error {
	if d.v != nil {
		return d.mismatch(KindNull)
	}
	return nil
}

func (d *valueDecoder) DecodeBool() (bool, error) {
	b, ok := d.v.(bool)
	if !ok {
		return false, d.mismatch(KindBool)
	}
	return b, nil
}

func (d *valueDecoder) DecodeInt() (int64, error) {
	switch n := d.v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	}
	return 0, d.mismatch(KindInt)
}

func (d *valueDecoder) DecodeUint() (uint64, error) {
	switch n := d.v.(type) {
	case uint:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint64:
		return n, nil
	}
	return 0, d.mismatch(KindUint)
}

func (d *valueDecoder) DecodeFloat() (float64, error) {
	switch f := d.v.(type) {
	case float32:
		return float64(f), nil
	case float64:
		return f, nil
	}
	return 0, d.mismatch(KindFloat)
}

func (d *valueDecoder) DecodeString() (string, error) {
	s, ok := d.v.(string)
	if !ok {
		return "", d.mismatch(KindString)
	}
	return s, nil
}

func (d *valueDecoder) DecodeBytes() ([]byte, error) {
	b, ok := d.v.([]byte)
	if !ok {
		return nil, d.mismatch(KindBytes)
	}
	return b, nil
}

func (d *valueDecoder) DecodeSeq() (SeqDecoder, error) {
	items, ok := d.v.([]any)
	if !ok {
		return nil, d.mismatch(KindSeq)
	}
	return &valueSeq{items: items}, nil
}

func (d *valueDecoder) DecodeMap() (MapDecoder, error) {
	switch m := d.v.(type) {
	case Map:
		return &valueMap{entries: m, pos: -1}, nil
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make(Map, len(keys))
		for i, k := range keys {
			entries[i] = Entry{Key: k, Value: m[k]}
		}
		return &valueMap{entries: entries, pos: -1}, nil
	}
	return nil, d.mismatch(KindMap)
}

func (d *valueDecoder) Skip() error { return nil }

type valueSeq struct {
	items []any
	pos   int
}

func (s *valueSeq) Next() (Decoder, bool, error) {
	if s.pos >= len(s.items) {
		return nil, false, nil
	}
	d := &valueDecoder{v: s.items[s.pos]}
	s.pos++
	return d, true, nil
}

func (s *valueSeq) Len() int { return len(s.items) }

type valueMap struct {
	entries Map
	pos     int
}

func (m *valueMap) NextKey() (Decoder, bool, error) {
	if m.pos+1 >= len(m.entries) {
		return nil, false, nil
	}
	m.pos++
	return &valueDecoder{v: m.entries[m.pos].Key}, true, nil
}

func (m *valueMap) Value() (Decoder, error) {
	if m.pos < 0 || m.pos >= len(m.entries) {
		return nil, errors.AssertionFailedf("gdm: Value called without a current key")
	}
	return &valueDecoder{v: m.entries[m.pos].Value}, nil
}

func (m *valueMap) Len() int { return len(m.entries) }

// ValueEncoder is an Encoder that builds an in-memory document. Maps are
// produced as Map, sequences as []any, integers as int64/uint64 and floats as
// float32/float64. The zero value is ready to use.
type ValueEncoder struct {
	stack []*valueFrame
	root  any
	done  bool
}

type valueFrame struct {
	isMap   bool
	seq     []any
	m       Map
	key     string
	haveKey bool
}

var _ Encoder = (*ValueEncoder)(nil)

// Value returns the finished document.
func (e *ValueEncoder) Value() (any, error) {
	if !e.done || len(e.stack) > 0 {
		return nil, errors.New("gdm: document is incomplete")
	}
	return e.root, nil
}

func (e *ValueEncoder) put(v any) error {
	if len(e.stack) == 0 {
		if e.done {
			return errors.New("gdm: document already has a root value")
		}
		e.root, e.done = v, true
		return nil
	}
	top := e.stack[len(e.stack)-1]
	if !top.isMap {
		top.seq = append(top.seq, v)
		return nil
	}
	if !top.haveKey {
		return errors.New("gdm: map value written without a key")
	}
	top.m = append(top.m, Entry{Key: top.key, Value: v})
	top.haveKey = false
	return nil
}

func (e *ValueEncoder) EncodeNull() error             { return e.put(nil) }
func (e *ValueEncoder) EncodeBool(v bool) error       { return e.put(v) }
func (e *ValueEncoder) EncodeInt(v int64) error       { return e.put(v) }
func (e *ValueEncoder) EncodeUint(v uint64) error     { return e.put(v) }
func (e *ValueEncoder) EncodeFloat32(v float32) error { return e.put(v) }
func (e *ValueEncoder) EncodeFloat64(v float64) error { return e.put(v) }
func (e *ValueEncoder) EncodeString(v string) error   { return e.put(v) }
func (e *ValueEncoder) EncodeBytes(v []byte) error {
	return e.put(append([]byte(nil), v...))
}

func (e *ValueEncoder) BeginSeq(n int) error {
	if n < 0 {
		n = 0
	}
	e.stack = append(e.stack, &valueFrame{seq: make([]any, 0, n)})
	return nil
}

func (e *ValueEncoder) EndSeq() error {
	top, err := e.pop(false)
	if err != nil {
		return err
	}
	return e.put(top.seq)
}

func (e *ValueEncoder) BeginMap(n int) error {
	if n < 0 {
		n = 0
	}
	e.stack = append(e.stack, &valueFrame{isMap: true, m: make(Map, 0, n)})
	return nil
}

func (e *ValueEncoder) EncodeKey(k string) error {
	if len(e.stack) == 0 || !e.stack[len(e.stack)-1].isMap {
		return errors.New("gdm: key written outside of a map")
	}
	top := e.stack[len(e.stack)-1]
	if top.haveKey {
		return errors.Newf("gdm: key %q written twice without a value", top.key)
	}
	top.key, top.haveKey = k, true
	return nil
}

func (e *ValueEncoder) EndMap() error {
	top, err := e.pop(true)
	if err != nil {
		return err
	}
	if top.haveKey {
		return errors.Newf("gdm: key %q has no value", top.key)
	}
	return e.put(top.m)
}

func (e *ValueEncoder) pop(isMap bool) (*valueFrame, error) {
	if len(e.stack) == 0 || e.stack[len(e.stack)-1].isMap != isMap {
		return nil, errors.New("gdm: unbalanced end of sequence or map")
	}
	top := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return top, nil
}
