// Package json reads and writes JSON documents in the generic data model.
//
// The decoder walks the input lazily with jsonparser: nested values are kept
// as byte slices and only parsed when visited. Object entries are reported in
// document order, duplicates included. The encoder writes compact JSON through
// a jsoniter stream.
package json

import (
	"bytes"
	"io"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/unkn0wn-root/valserde/gdm"
)

// Decoder is a gdm.Decoder over one JSON value.
type Decoder struct {
	raw []byte // for strings, the contents without quotes
	vt  jsonparser.ValueType
}

var _ gdm.Decoder = (*Decoder)(nil)

// NewDecoder returns a Decoder over the JSON document in data. Only
// whitespace may follow the top-level value.
func NewDecoder(data []byte) (*Decoder, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	raw, vt, end, err := jsonparser.Get(data)
	if err != nil {
		return nil, errors.Wrap(err, "json: parse document")
	}
	if rest := bytes.TrimSpace(data[end:]); len(rest) > 0 {
		return nil, errors.Newf("json: unexpected data after top-level value at offset %d", end)
	}
	return &Decoder{raw: raw, vt: vt}, nil
}

// validate runs a strict syntax pass over the first value in data.
// jsonparser alone accepts trailing commas and leading zeros.
func validate(data []byte) error {
	cfg := jsoniter.ConfigCompatibleWithStandardLibrary
	iter := cfg.BorrowIterator(data)
	defer cfg.ReturnIterator(iter)
	iter.Skip()
	// A number running up to the end of input leaves io.EOF behind.
	if iter.Error != nil && iter.Error != io.EOF {
		return errors.Wrap(iter.Error, "json: syntax")
	}
	return nil
}

func (d *Decoder) Kind() (gdm.Kind, error) {
	switch d.vt {
	case jsonparser.Null:
		return gdm.KindNull, nil
	case jsonparser.Boolean:
		return gdm.KindBool, nil
	case jsonparser.String:
		return gdm.KindString, nil
	case jsonparser.Array:
		return gdm.KindSeq, nil
	case jsonparser.Object:
		return gdm.KindMap, nil
	case jsonparser.Number:
		return numberKind(d.raw), nil
	}
	return gdm.KindInvalid, errors.Newf("json: malformed value %q", d.raw)
}

// numberKind classifies a JSON number. Integers that fit 64 bits are
// reported as KindInt (negative) or KindUint; everything else is a float.
// "-0" is a float too, so the sign of a negative zero survives.
func numberKind(raw []byte) gdm.Kind {
	if bytes.ContainsAny(raw, ".eE") || string(raw) == "-0" {
		return gdm.KindFloat
	}
	if len(raw) > 0 && raw[0] == '-' {
		if _, err := jsonparser.ParseInt(raw); err == nil {
			return gdm.KindInt
		}
		return gdm.KindFloat
	}
	if _, err := strconv.ParseUint(string(raw), 10, 64); err == nil {
		return gdm.KindUint
	}
	return gdm.KindFloat
}

func (d *Decoder) want(k gdm.Kind) error {
	got, err := d.Kind()
	if err != nil {
		return err
	}
	if got != k {
		return &gdm.KindError{Want: k, Got: got}
	}
	return nil
}

func (d *Decoder) DecodeNull() error { return d.want(gdm.KindNull) }

func (d *Decoder) DecodeBool() (bool, error) {
	if err := d.want(gdm.KindBool); err != nil {
		return false, err
	}
	b, err := jsonparser.ParseBoolean(d.raw)
	return b, errors.Wrap(err, "json: bool")
}

func (d *Decoder) DecodeInt() (int64, error) {
	if err := d.want(gdm.KindInt); err != nil {
		return 0, err
	}
	n, err := jsonparser.ParseInt(d.raw)
	return n, errors.Wrap(err, "json: integer")
}

func (d *Decoder) DecodeUint() (uint64, error) {
	if err := d.want(gdm.KindUint); err != nil {
		return 0, err
	}
	// jsonparser has no unsigned parser.
	n, err := strconv.ParseUint(string(d.raw), 10, 64)
	return n, errors.Wrap(err, "json: unsigned integer")
}

func (d *Decoder) DecodeFloat() (float64, error) {
	if err := d.want(gdm.KindFloat); err != nil {
		return 0, err
	}
	f, err := jsonparser.ParseFloat(d.raw)
	return f, errors.Wrap(err, "json: float")
}

func (d *Decoder) DecodeString() (string, error) {
	if err := d.want(gdm.KindString); err != nil {
		return "", err
	}
	s, err := jsonparser.ParseString(d.raw)
	return s, errors.Wrap(err, "json: string")
}

// DecodeBytes always fails: JSON has no byte strings.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	if err := d.want(gdm.KindBytes); err != nil {
		return nil, err
	}
	return nil, errors.AssertionFailedf("json: unreachable byte string")
}

func (d *Decoder) DecodeSeq() (gdm.SeqDecoder, error) {
	if err := d.want(gdm.KindSeq); err != nil {
		return nil, err
	}
	var elems []*Decoder
	var cbErr error
	_, err := jsonparser.ArrayEach(d.raw, func(value []byte, vt jsonparser.ValueType, _ int, err error) {
		if err != nil {
			if cbErr == nil {
				cbErr = err
			}
			return
		}
		elems = append(elems, &Decoder{raw: value, vt: vt})
	})
	if err == nil {
		err = cbErr
	}
	if err != nil {
		return nil, errors.Wrap(err, "json: array")
	}
	return &seq{elems: elems}, nil
}

func (d *Decoder) DecodeMap() (gdm.MapDecoder, error) {
	if err := d.want(gdm.KindMap); err != nil {
		return nil, err
	}
	var entries []entry
	err := jsonparser.ObjectEach(d.raw, func(key, value []byte, vt jsonparser.ValueType, _ int) error {
		entries = append(entries, entry{key: string(key), val: &Decoder{raw: value, vt: vt}})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "json: object")
	}
	return &object{entries: entries, pos: -1}, nil
}

// Skip is a no-op: the value was already delimited when its parent was read.
func (d *Decoder) Skip() error { return nil }

type seq struct {
	elems []*Decoder
	pos   int
}

func (s *seq) Next() (gdm.Decoder, bool, error) {
	if s.pos >= len(s.elems) {
		return nil, false, nil
	}
	s.pos++
	return s.elems[s.pos-1], true, nil
}

func (s *seq) Len() int { return len(s.elems) }

type entry struct {
	key string
	val *Decoder
}

type object struct {
	entries []entry
	pos     int
}

func (o *object) NextKey() (gdm.Decoder, bool, error) {
	if o.pos+1 >= len(o.entries) {
		return nil, false, nil
	}
	o.pos++
	return gdm.NewValueDecoder(o.entries[o.pos].key), true, nil
}

func (o *object) Value() (gdm.Decoder, error) {
	if o.pos < 0 {
		return nil, errors.AssertionFailedf("json: Value called before NextKey")
	}
	return o.entries[o.pos].val, nil
}

func (o *object) Len() int { return len(o.entries) }
