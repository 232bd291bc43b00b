// Package msgpack reads and writes MessagePack documents in the generic data
// model. Both directions stream: nothing is buffered beyond what
// vmihailenco/msgpack itself buffers.
package msgpack

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/unkn0wn-root/valserde/gdm"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// Decoder is a gdm.Decoder reading from a MessagePack stream. Sequence
// elements and map entries are read from the same stream, so each one must be
// consumed before moving on.
type Decoder struct {
	dec *msgpack.Decoder
}

var _ gdm.Decoder = (*Decoder)(nil)

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: msgpack.NewDecoder(r)}
}

func (d *Decoder) Kind() (gdm.Kind, error) {
	c, err := d.dec.PeekCode()
	if err != nil {
		return gdm.KindInvalid, errors.Wrap(err, "msgpack: peek")
	}
	return codeKind(c)
}

func codeKind(c byte) (gdm.Kind, error) {
	switch {
	case msgpcode.IsFixedNum(c):
		if int8(c) < 0 {
			return gdm.KindInt, nil
		}
		return gdm.KindUint, nil
	case c == msgpcode.Nil:
		return gdm.KindNull, nil
	case c == msgpcode.False || c == msgpcode.True:
		return gdm.KindBool, nil
	case c == msgpcode.Float || c == msgpcode.Double:
		return gdm.KindFloat, nil
	case c == msgpcode.Uint8 || c == msgpcode.Uint16 || c == msgpcode.Uint32 || c == msgpcode.Uint64:
		return gdm.KindUint, nil
	case c == msgpcode.Int8 || c == msgpcode.Int16 || c == msgpcode.Int32 || c == msgpcode.Int64:
		return gdm.KindInt, nil
	case msgpcode.IsString(c):
		return gdm.KindString, nil
	case msgpcode.IsBin(c):
		return gdm.KindBytes, nil
	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		return gdm.KindSeq, nil
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		return gdm.KindMap, nil
	}
	return gdm.KindInvalid, errors.Newf("msgpack: unsupported type code 0x%02x", c)
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

func (d *Decoder) DecodeNull() error {
	if err := d.want(gdm.KindNull); err != nil {
		return err
	}
	return errors.Wrap(d.dec.DecodeNil(), "msgpack: nil")
}

func (d *Decoder) DecodeBool() (bool, error) {
	if err := d.want(gdm.KindBool); err != nil {
		return false, err
	}
	b, err := d.dec.DecodeBool()
	return b, errors.Wrap(err, "msgpack: bool")
}

func (d *Decoder) DecodeInt() (int64, error) {
	if err := d.want(gdm.KindInt); err != nil {
		return 0, err
	}
	n, err := d.dec.DecodeInt64()
	return n, errors.Wrap(err, "msgpack: int")
}

func (d *Decoder) DecodeUint() (uint64, error) {
	if err := d.want(gdm.KindUint); err != nil {
		return 0, err
	}
	n, err := d.dec.DecodeUint64()
	return n, errors.Wrap(err, "msgpack: uint")
}

func (d *Decoder) DecodeFloat() (float64, error) {
	if err := d.want(gdm.KindFloat); err != nil {
		return 0, err
	}
	f, err := d.dec.DecodeFloat64()
	return f, errors.Wrap(err, "msgpack: float")
}

func (d *Decoder) DecodeString() (string, error) {
	if err := d.want(gdm.KindString); err != nil {
		return "", err
	}
	s, err := d.dec.DecodeString()
	return s, errors.Wrap(err, "msgpack: string")
}

func (d *Decoder) DecodeBytes() ([]byte, error) {
	if err := d.want(gdm.KindBytes); err != nil {
		return nil, err
	}
	b, err := d.dec.DecodeBytes()
	return b, errors.Wrap(err, "msgpack: bin")
}

func (d *Decoder) DecodeSeq() (gdm.SeqDecoder, error) {
	if err := d.want(gdm.KindSeq); err != nil {
		return nil, err
	}
	n, err := d.dec.DecodeArrayLen()
	if err != nil {
		return nil, errors.Wrap(err, "msgpack: array header")
	}
	return &seq{d: d, n: n, left: n}, nil
}

func (d *Decoder) DecodeMap() (gdm.MapDecoder, error) {
	if err := d.want(gdm.KindMap); err != nil {
		return nil, err
	}
	n, err := d.dec.DecodeMapLen()
	if err != nil {
		return nil, errors.Wrap(err, "msgpack: map header")
	}
	return &object{d: d, n: n, left: n}, nil
}

func (d *Decoder) Skip() error {
	return errors.Wrap(d.dec.Skip(), "msgpack: skip")
}

type seq struct {
	d       *Decoder
	n, left int
}

func (s *seq) Next() (gdm.Decoder, bool, error) {
	if s.left <= 0 {
		return nil, false, nil
	}
	s.left--
	return s.d, true, nil
}

func (s *seq) Len() int { return s.n }

type object struct {
	d       *Decoder
	n, left int
	inEntry bool
}

func (o *object) NextKey() (gdm.Decoder, bool, error) {
	if o.left <= 0 {
		return nil, false, nil
	}
	o.left--
	o.inEntry = true
	return o.d, true, nil
}

func (o *object) Value() (gdm.Decoder, error) {
	if !o.inEntry {
		return nil, errors.AssertionFailedf("msgpack: Value called before NextKey")
	}
	o.inEntry = false
	return o.d, nil
}

func (o *object) Len() int { return o.n }

// Encoder is a gdm.Encoder writing MessagePack to a stream. Integers are
// written in their most compact form.
type Encoder struct {
	enc *msgpack.Encoder
}

var _ gdm.Encoder = (*Encoder)(nil)

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: msgpack.NewEncoder(w)}
}

func (e *Encoder) EncodeNull() error             { return e.enc.EncodeNil() }
func (e *Encoder) EncodeBool(v bool) error       { return e.enc.EncodeBool(v) }
func (e *Encoder) EncodeInt(v int64) error       { return e.enc.EncodeInt(v) }
func (e *Encoder) EncodeUint(v uint64) error     { return e.enc.EncodeUint(v) }
func (e *Encoder) EncodeFloat32(v float32) error { return e.enc.EncodeFloat32(v) }
func (e *Encoder) EncodeFloat64(v float64) error { return e.enc.EncodeFloat64(v) }
func (e *Encoder) EncodeString(v string) error   { return e.enc.EncodeString(v) }
func (e *Encoder) BeginSeq(n int) error          { return e.enc.EncodeArrayLen(n) }
func (e *Encoder) EndSeq() error                 { return nil }
func (e *Encoder) BeginMap(n int) error          { return e.enc.EncodeMapLen(n) }
func (e *Encoder) EncodeKey(k string) error      { return e.enc.EncodeString(k) }
func (e *Encoder) EndMap() error                 { return nil }

// EncodeBytes writes bin. A nil slice is written as an empty bin rather than
// nil.
func (e *Encoder) EncodeBytes(v []byte) error {
	if v == nil {
		v = []byte{}
	}
	return e.enc.EncodeBytes(v)
}
