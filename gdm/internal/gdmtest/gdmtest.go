// Package gdmtest holds helpers shared by the format tests.
package gdmtest

import (
	"github.com/cockroachdb/errors"
	"github.com/unkn0wn-root/valserde/gdm"
)

// Walk reads the whole document under d into plain Go values: nil, bool,
// int64, uint64, float64, string, []byte, []any and gdm.Map.
func Walk(d gdm.Decoder) (any, error) {
	k, err := d.Kind()
	if err != nil {
		return nil, err
	}
	switch k {
	case gdm.KindNull:
		return nil, d.DecodeNull()
	case gdm.KindBool:
		return d.DecodeBool()
	case gdm.KindInt:
		return d.DecodeInt()
	case gdm.KindUint:
		return d.DecodeUint()
	case gdm.KindFloat:
		return d.DecodeFloat()
	case gdm.KindString:
		return d.DecodeString()
	case gdm.KindBytes:
		return d.DecodeBytes()
	case gdm.KindSeq:
		s, err := d.DecodeSeq()
		if err != nil {
			return nil, err
		}
		out := []any{}
		for {
			ed, ok, err := s.Next()
			if err != nil {
				return nil, err
			}
			if !ok {
				return out, nil
			}
			v, err := Walk(ed)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	case gdm.KindMap:
		m, err := d.DecodeMap()
		if err != nil {
			return nil, err
		}
		out := gdm.Map{}
		for {
			kd, ok, err := m.NextKey()
			if err != nil {
				return nil, err
			}
			if !ok {
				return out, nil
			}
			key, err := kd.DecodeString()
			if err != nil {
				return nil, err
			}
			vd, err := m.Value()
			if err != nil {
				return nil, err
			}
			v, err := Walk(vd)
			if err != nil {
				return nil, err
			}
			out = append(out, gdm.Entry{Key: key, Value: v})
		}
	}
	return nil, errors.Newf("gdmtest: unexpected kind %s", k)
}

// Write pushes a document made of the values Walk returns into e.
func Write(e gdm.Encoder, v any) error {
	switch v := v.(type) {
	case nil:
		return e.EncodeNull()
	case bool:
		return e.EncodeBool(v)
	case int64:
		return e.EncodeInt(v)
	case uint64:
		return e.EncodeUint(v)
	case float64:
		return e.EncodeFloat64(v)
	case string:
		return e.EncodeString(v)
	case []byte:
		return e.EncodeBytes(v)
	case []any:
		if err := e.BeginSeq(len(v)); err != nil {
			return err
		}
		for _, x := range v {
			if err := Write(e, x); err != nil {
				return err
			}
		}
		return e.EndSeq()
	case gdm.Map:
		if err := e.BeginMap(len(v)); err != nil {
			return err
		}
		for _, ent := range v {
			if err := e.EncodeKey(ent.Key); err != nil {
				return err
			}
			if err := Write(e, ent.Value); err != nil {
				return err
			}
		}
		return e.EndMap()
	}
	return errors.Newf("gdmtest: unsupported value %T", v)
}
