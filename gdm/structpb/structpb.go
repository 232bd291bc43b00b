// Package structpb maps the generic data model onto google.protobuf.Value.
//
// A protobuf Value only has double numbers. On decode, integral numbers
// within ±2^53 are reported as integers and everything else as floats. On
// encode, integers outside that range are written as decimal strings, which
// valserde decodes back into integers.
package structpb

import (
	"encoding/base64"
	"math"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/unkn0wn-root/valserde/gdm"
	"google.golang.org/protobuf/types/known/structpb"
)

// maxExact is the largest magnitude a double holds without losing integer
// precision.
const maxExact = 1 << 53

// NewDecoder returns a Decoder over v. A nil v reads as null.
func NewDecoder(v *structpb.Value) gdm.Decoder { return &decoder{v: v} }

type decoder struct{ v *structpb.Value }

func (d *decoder) Kind() (gdm.Kind, error) {
	switch k := d.v.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return gdm.KindNull, nil
	case *structpb.Value_BoolValue:
		return gdm.KindBool, nil
	case *structpb.Value_NumberValue:
		return numberKind(k.NumberValue), nil
	case *structpb.Value_StringValue:
		return gdm.KindString, nil
	case *structpb.Value_ListValue:
		return gdm.KindSeq, nil
	case *structpb.Value_StructValue:
		return gdm.KindMap, nil
	}
	return gdm.KindInvalid, errors.Newf("structpb: unsupported kind %T", d.v.GetKind())
}

func numberKind(f float64) gdm.Kind {
	if f != math.Trunc(f) || math.Abs(f) > maxExact || (f == 0 && math.Signbit(f)) {
		return gdm.KindFloat
	}
	if f < 0 {
		return gdm.KindInt
	}
	return gdm.KindUint
}

func (d *decoder) want(k gdm.Kind) error {
	got, err := d.Kind()
	if err != nil {
		return err
	}
	if got != k {
		return &gdm.KindError{Want: k, Got: got}
	}
	return nil
}

func (d *decoder) DecodeNull() error { return d.want(gdm.KindNull) }

func (d *decoder) DecodeBool() (bool, error) {
	if err := d.want(gdm.KindBool); err != nil {
		return false, err
	}
	return d.v.GetBoolValue(), nil
}

func (d *decoder) DecodeInt() (int64, error) {
	if err := d.want(gdm.KindInt); err != nil {
		return 0, err
	}
	return int64(d.v.GetNumberValue()), nil
}

func (d *decoder) DecodeUint() (uint64, error) {
	if err := d.want(gdm.KindUint); err != nil {
		return 0, err
	}
	return uint64(d.v.GetNumberValue()), nil
}

func (d *decoder) DecodeFloat() (float64, error) {
	if err := d.want(gdm.KindFloat); err != nil {
		return 0, err
	}
	return d.v.GetNumberValue(), nil
}

func (d *decoder) DecodeString() (string, error) {
	if err := d.want(gdm.KindString); err != nil {
		return "", err
	}
	return d.v.GetStringValue(), nil
}

// DecodeBytes always fails: protobuf Values have no byte strings.
func (d *decoder) DecodeBytes() ([]byte, error) {
	if err := d.want(gdm.KindBytes); err != nil {
		return nil, err
	}
	return nil, errors.AssertionFailedf("structpb: unreachable byte string")
}

func (d *decoder) DecodeSeq() (gdm.SeqDecoder, error) {
	if err := d.want(gdm.KindSeq); err != nil {
		return nil, err
	}
	return &seq{items: d.v.GetListValue().GetValues()}, nil
}

// DecodeMap visits struct fields in key order; protobuf maps carry no order.
func (d *decoder) DecodeMap() (gdm.MapDecoder, error) {
	if err := d.want(gdm.KindMap); err != nil {
		return nil, err
	}
	fields := d.v.GetStructValue().GetFields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &object{keys: keys, fields: fields, pos: -1}, nil
}

func (d *decoder) Skip() error { return nil }

type seq struct {
	items []*structpb.Value
	pos   int
}

func (s *seq) Next() (gdm.Decoder, bool, error) {
	if s.pos >= len(s.items) {
		return nil, false, nil
	}
	s.pos++
	return &decoder{v: s.items[s.pos-1]}, true, nil
}

func (s *seq) Len() int { return len(s.items) }

type object struct {
	keys   []string
	fields map[string]*structpb.Value
	pos    int
}

func (o *object) NextKey() (gdm.Decoder, bool, error) {
	if o.pos+1 >= len(o.keys) {
		return nil, false, nil
	}
	o.pos++
	return gdm.NewValueDecoder(o.keys[o.pos]), true, nil
}

func (o *object) Value() (gdm.Decoder, error) {
	if o.pos < 0 {
		return nil, errors.AssertionFailedf("structpb: Value called before NextKey")
	}
	return &decoder{v: o.fields[o.keys[o.pos]]}, nil
}

func (o *object) Len() int { return len(o.keys) }

// Encoder collects a document and converts it with Value.
type Encoder struct {
	gdm.ValueEncoder
}

func NewEncoder() *Encoder { return &Encoder{} }

// Value returns the finished document as a protobuf Value.
func (e *Encoder) Value() (*structpb.Value, error) {
	v, err := e.ValueEncoder.Value()
	if err != nil {
		return nil, err
	}
	return toProto(v)
}

func toProto(v any) (*structpb.Value, error) {
	switch v := v.(type) {
	case nil:
		return structpb.NewNullValue(), nil
	case bool:
		return structpb.NewBoolValue(v), nil
	case int64:
		if v > maxExact || v < -maxExact {
			return structpb.NewStringValue(strconv.FormatInt(v, 10)), nil
		}
		return structpb.NewNumberValue(float64(v)), nil
	case uint64:
		if v > maxExact {
			return structpb.NewStringValue(strconv.FormatUint(v, 10)), nil
		}
		return structpb.NewNumberValue(float64(v)), nil
	case float32:
		return structpb.NewNumberValue(float64(v)), nil
	case float64:
		return structpb.NewNumberValue(v), nil
	case string:
		return structpb.NewStringValue(v), nil
	case []byte:
		return structpb.NewStringValue(base64.StdEncoding.EncodeToString(v)), nil
	case []any:
		items := make([]*structpb.Value, len(v))
		for i, e := range v {
			pv, err := toProto(e)
			if err != nil {
				return nil, err
			}
			items[i] = pv
		}
		return structpb.NewListValue(&structpb.ListValue{Values: items}), nil
	case gdm.Map:
		fields := make(map[string]*structpb.Value, len(v))
		for _, e := range v {
			pv, err := toProto(e.Value)
			if err != nil {
				return nil, err
			}
			fields[e.Key] = pv
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil
	}
	return nil, errors.AssertionFailedf("structpb: unexpected document value %T", v)
}
