package valserde

import (
	"math"
	"strconv"

	"github.com/unkn0wn-root/valserde/gdm"
	"github.com/unkn0wn-root/valserde/types"
)

// Encode writes v to e using default Options.
func Encode(e gdm.Encoder, v types.Value) error {
	return Options{}.Encode(e, v)
}

// Encode writes v to e. The document shape follows from v's own type.
func (o Options) Encode(e gdm.Encoder, v types.Value) error {
	s := &encodeState{e: e, maxDepth: o.MaxDepth}
	return s.value(v)
}

type encodeState struct {
	e        gdm.Encoder
	maxDepth int
	depth    int
	path     path
}

func (s *encodeState) fail(kind error, expected, actual string) *Error {
	return &Error{Op: "encode", Kind: kind, Path: s.path.String(), Expected: expected, Actual: actual}
}

// emit wraps an error reported by the encoder backend.
func (s *encodeState) emit(err error) error {
	if err == nil {
		return nil
	}
	e := s.fail(ErrFormat, "", "")
	e.Err = err
	return e
}

func (s *encodeState) value(v types.Value) error {
	if s.maxDepth > 0 && s.depth >= s.maxDepth {
		return s.fail(ErrDepthExceeded, "at most "+strconv.Itoa(s.maxDepth)+" levels", "")
	}
	s.depth++
	defer func() { s.depth-- }()

	switch k := v.Kind(); {
	case k == types.KindBool:
		return s.emit(s.e.EncodeBool(v.Bool()))
	case k.IsSigned():
		return s.emit(s.e.EncodeInt(v.Int()))
	case k.IsUnsigned():
		return s.emit(s.e.EncodeUint(v.Uint()))
	case k == types.KindFloat32:
		f := v.Float32()
		if name, ok := nonFinite(float64(f)); ok {
			return s.emit(s.e.EncodeString(name))
		}
		return s.emit(s.e.EncodeFloat32(f))
	case k == types.KindFloat64:
		f := v.Float64()
		if name, ok := nonFinite(f); ok {
			return s.emit(s.e.EncodeString(name))
		}
		return s.emit(s.e.EncodeFloat64(f))
	case k == types.KindChar:
		return s.emit(s.e.EncodeString(string(v.Char())))
	case k == types.KindString:
		return s.emit(s.e.EncodeString(v.Str()))
	case k == types.KindEnum:
		return s.emit(s.e.EncodeString(v.Case()))
	case k == types.KindList || k == types.KindTuple:
		return s.seq(v.Elems())
	case k == types.KindFlags:
		names := v.Flags()
		if err := s.emit(s.e.BeginSeq(len(names))); err != nil {
			return err
		}
		for _, n := range names {
			if err := s.emit(s.e.EncodeString(n)); err != nil {
				return err
			}
		}
		return s.emit(s.e.EndSeq())
	case k == types.KindRecord:
		return s.record(v)
	case k == types.KindVariant:
		p, ok := v.Payload()
		return s.sumFrame(v.Case(), p, ok)
	case k == types.KindOption:
		inner, ok := v.Some()
		switch {
		case !ok:
			return s.emit(s.e.EncodeNull())
		case inner.Kind() == types.KindOption:
			return s.sumFrame(someKey, inner, true)
		}
		return s.value(inner)
	case k == types.KindResult:
		p, ok := v.Payload()
		tag := resultKey
		if v.IsErr() {
			tag = errorKey
		}
		return s.sumFrame(tag, p, ok)
	case k == types.KindResource:
		return s.fail(ErrUnsupportedValue, "", v.Type().String())
	}
	return s.fail(ErrUnsupportedValue, "", "invalid value")
}

func nonFinite(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return nanString, true
	case math.IsInf(f, 1):
		return posInfString, true
	case math.IsInf(f, -1):
		return negInfString, true
	}
	return "", false
}

func (s *encodeState) seq(elems []types.Value) error {
	if err := s.emit(s.e.BeginSeq(len(elems))); err != nil {
		return err
	}
	for i, e := range elems {
		s.path = append(s.path, "["+strconv.Itoa(i)+"]")
		if err := s.value(e); err != nil {
			return err
		}
		s.path = s.path[:len(s.path)-1]
	}
	return s.emit(s.e.EndSeq())
}

// absent reports whether a record field holds a none option; such fields are
// left out of the map.
func absent(v types.Value) bool {
	if v.Kind() != types.KindOption {
		return false
	}
	_, ok := v.Some()
	return !ok
}

func (s *encodeState) record(v types.Value) error {
	fields := v.Fields()
	n := 0
	for _, f := range fields {
		if !absent(f.Value) {
			n++
		}
	}
	if err := s.emit(s.e.BeginMap(n)); err != nil {
		return err
	}
	for _, f := range fields {
		if absent(f.Value) {
			continue
		}
		if err := s.emit(s.e.EncodeKey(f.Name)); err != nil {
			return err
		}
		s.path = append(s.path, "."+f.Name)
		if err := s.value(f.Value); err != nil {
			return err
		}
		s.path = s.path[:len(s.path)-1]
	}
	return s.emit(s.e.EndMap())
}
