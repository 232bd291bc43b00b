package valserde

import (
	"strconv"

	"github.com/unkn0wn-root/valserde/gdm"
	"github.com/unkn0wn-root/valserde/types"
)

// A sum with a payload (variant case, result arm, outer some of a nested
// option) is framed as a map holding exactly one entry: tag -> payload. A
// tag without a payload type carries null.

const oneEntry = "exactly one entry"

// sumFrame decodes a single-entry map. lookup resolves the tag to its
// payload type (the zero Type when the tag takes no payload); build turns
// the tag and decoded payload into the final value. unknown is the error
// kind reported for a tag lookup rejects.
//
// The second-entry check runs before an unknown tag is reported, so a map
// with two entries is always an arity error.
func (s *decodeState) sumFrame(
	t types.Type,
	d gdm.Decoder,
	unknown error,
	lookup func(tag string) (types.Type, bool),
	build func(tag string, payload types.Value) (types.Value, error),
) (types.Value, error) {
	m, err := d.DecodeMap()
	if err != nil {
		return types.Value{}, s.format(err)
	}
	kd, ok, err := m.NextKey()
	if err != nil {
		return types.Value{}, s.format(err)
	}
	if !ok {
		return types.Value{}, s.fail(ErrArity, oneEntry, "0 entries")
	}
	tag, err := s.key(kd)
	if err != nil {
		return types.Value{}, err
	}
	pt, known := lookup(tag)
	vd, err := m.Value()
	if err != nil {
		return types.Value{}, s.format(err)
	}

	var payload types.Value
	if known {
		s.path = append(s.path, "."+tag)
		if pt.IsValid() {
			payload, err = s.value(pt, vd)
		} else {
			err = s.unit(vd)
		}
		if err != nil {
			return types.Value{}, err
		}
		s.path = s.path[:len(s.path)-1]
	} else if err := vd.Skip(); err != nil {
		return types.Value{}, s.format(err)
	}

	if _, more, err := m.NextKey(); err != nil {
		return types.Value{}, s.format(err)
	} else if more {
		n := m.Len()
		if n < 2 {
			n = 2
		}
		return types.Value{}, s.fail(ErrArity, oneEntry, strconv.Itoa(n)+" entries")
	}
	if !known {
		return types.Value{}, s.failName(unknown, tag, t.String())
	}
	v, err := build(tag, payload)
	return s.construct(t, v, err)
}

// unit consumes the null standing in for an absent payload.
func (s *decodeState) unit(d gdm.Decoder) error {
	k, err := s.probe(d)
	if err != nil {
		return err
	}
	if k != gdm.KindNull {
		return s.fail(ErrShapeMismatch, "null", k.String())
	}
	if err := d.DecodeNull(); err != nil {
		return s.format(err)
	}
	return nil
}

// sumFrame writes the single-entry map for tag. A missing payload is written
// as null.
func (s *encodeState) sumFrame(tag string, payload types.Value, ok bool) error {
	if err := s.emit(s.e.BeginMap(1)); err != nil {
		return err
	}
	if err := s.emit(s.e.EncodeKey(tag)); err != nil {
		return err
	}
	s.path = append(s.path, "."+tag)
	var err error
	if ok {
		err = s.value(payload)
	} else {
		err = s.emit(s.e.EncodeNull())
	}
	if err != nil {
		return err
	}
	s.path = s.path[:len(s.path)-1]
	return s.emit(s.e.EndMap())
}
