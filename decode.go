package valserde

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/unkn0wn-root/valserde/gdm"
	"github.com/unkn0wn-root/valserde/types"
)

// Decode reads one value of type t from d using default Options.
func Decode(t types.Type, d gdm.Decoder) (types.Value, error) {
	return Options{}.Decode(t, d)
}

// Decode reads one value of type t from d.
func (o Options) Decode(t types.Type, d gdm.Decoder) (types.Value, error) {
	s := &decodeState{maxDepth: o.MaxDepth}
	return s.value(t, d)
}

type decodeState struct {
	maxDepth int
	depth    int
	path     path
}

// sizeHint caps preallocation so a hostile length prefix cannot force a huge
// allocation before any element is read.
func sizeHint(n int) int {
	const maxHint = 1024
	switch {
	case n < 0:
		return 0
	case n > maxHint:
		return maxHint
	}
	return n
}

func (s *decodeState) fail(kind error, expected, actual string) *Error {
	return &Error{Op: "decode", Kind: kind, Path: s.path.String(), Expected: expected, Actual: actual}
}

func (s *decodeState) failName(kind error, name, expected string) *Error {
	e := s.fail(kind, expected, "")
	e.Name = name
	return e
}

func (s *decodeState) format(err error) error {
	e := s.fail(ErrFormat, "", "")
	e.Err = err
	return e
}

func (s *decodeState) mismatch(t types.Type, got gdm.Kind) error {
	return s.fail(ErrShapeMismatch, t.String(), got.String())
}

// construct wraps an error returned by a types.Type constructor.
func (s *decodeState) construct(t types.Type, v types.Value, err error) (types.Value, error) {
	if err != nil {
		e := s.fail(ErrHostConstruction, t.String(), "")
		e.Err = err
		return types.Value{}, e
	}
	return v, nil
}

// probe reports the kind of the next token without consuming it. Every place
// that has to look before it reads goes through here.
func (s *decodeState) probe(d gdm.Decoder) (gdm.Kind, error) {
	k, err := d.Kind()
	if err != nil {
		return gdm.KindInvalid, s.format(err)
	}
	return k, nil
}

func (s *decodeState) expect(t types.Type, d gdm.Decoder, want gdm.Kind) error {
	k, err := s.probe(d)
	if err != nil {
		return err
	}
	if k != want {
		return s.mismatch(t, k)
	}
	return nil
}

func (s *decodeState) value(t types.Type, d gdm.Decoder) (types.Value, error) {
	if s.maxDepth > 0 && s.depth >= s.maxDepth {
		return types.Value{}, s.fail(ErrDepthExceeded, "at most "+strconv.Itoa(s.maxDepth)+" levels", "")
	}
	s.depth++
	defer func() { s.depth-- }()

	switch t.Kind() {
	case types.KindBool:
		return s.boolean(t, d)
	case types.KindChar, types.KindString, types.KindEnum:
		return s.str(t, d)
	case types.KindList:
		return s.list(t, d)
	case types.KindFlags:
		return s.flags(t, d)
	case types.KindTuple:
		return s.tuple(t, d)
	case types.KindRecord:
		return s.record(t, d)
	case types.KindVariant:
		return s.variant(t, d)
	case types.KindResult:
		return s.result(t, d)
	case types.KindOption:
		if t.Elem().Kind() == types.KindOption {
			return s.nestedOption(t, d)
		}
		return s.option(t, d)
	case types.KindResource:
		return types.Value{}, s.fail(ErrUnsupportedValue, "", t.String())
	case types.KindInvalid:
		return types.Value{}, errors.AssertionFailedf("valserde: decode with invalid type")
	}
	return s.number(t, d)
}

func (s *decodeState) boolean(t types.Type, d gdm.Decoder) (types.Value, error) {
	if err := s.expect(t, d, gdm.KindBool); err != nil {
		return types.Value{}, err
	}
	b, err := d.DecodeBool()
	if err != nil {
		return types.Value{}, s.format(err)
	}
	return types.BoolValue(b), nil
}

func (s *decodeState) str(t types.Type, d gdm.Decoder) (types.Value, error) {
	if err := s.expect(t, d, gdm.KindString); err != nil {
		return types.Value{}, err
	}
	str, err := d.DecodeString()
	if err != nil {
		return types.Value{}, s.format(err)
	}
	if !utf8.ValidString(str) {
		kind := ErrInvalidValue
		if t.Kind() == types.KindChar {
			kind = ErrInvalidChar
		}
		return types.Value{}, s.fail(kind, "valid UTF-8", strconv.Quote(str))
	}
	switch t.Kind() {
	case types.KindChar:
		if utf8.RuneCountInString(str) != 1 {
			return types.Value{}, s.fail(ErrInvalidChar, "a single character", strconv.Quote(str))
		}
		r, _ := utf8.DecodeRuneInString(str)
		return types.CharValue(r), nil
	case types.KindEnum:
		v, err := t.NewEnum(str)
		return s.construct(t, v, err)
	}
	return types.StringValue(str), nil
}

// number handles the integer and float kinds. Their token kind is not known
// up front: formats differ in how they tag numbers, and any of them may carry
// the value as a string.
func (s *decodeState) number(t types.Type, d gdm.Decoder) (types.Value, error) {
	k, err := s.probe(d)
	if err != nil {
		return types.Value{}, err
	}
	if t.Kind().IsFloat() {
		return s.float(t, d, k)
	}
	switch k {
	case gdm.KindInt:
		n, err := d.DecodeInt()
		if err != nil {
			return types.Value{}, s.format(err)
		}
		return s.fromInt(t, n)
	case gdm.KindUint:
		n, err := d.DecodeUint()
		if err != nil {
			return types.Value{}, s.format(err)
		}
		return s.fromUint(t, n)
	case gdm.KindString:
		str, err := d.DecodeString()
		if err != nil {
			return types.Value{}, s.format(err)
		}
		if t.Kind().IsUnsigned() {
			n, err := strconv.ParseUint(str, 10, 64)
			if err != nil {
				return types.Value{}, s.numError(t, str, err)
			}
			return s.fromUint(t, n)
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return types.Value{}, s.numError(t, str, err)
		}
		return s.fromInt(t, n)
	}
	return types.Value{}, s.mismatch(t, k)
}

func (s *decodeState) numError(t types.Type, str string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return s.fail(ErrRange, t.String(), strconv.Quote(str))
	}
	return s.fail(ErrInvalidValue, t.String(), strconv.Quote(str))
}

func (s *decodeState) fromInt(t types.Type, n int64) (types.Value, error) {
	fits := func(lo, hi int64) bool { return n >= lo && n <= hi }
	switch t.Kind() {
	case types.KindS8:
		if fits(math.MinInt8, math.MaxInt8) {
			return types.S8Value(int8(n)), nil
		}
	case types.KindS16:
		if fits(math.MinInt16, math.MaxInt16) {
			return types.S16Value(int16(n)), nil
		}
	case types.KindS32:
		if fits(math.MinInt32, math.MaxInt32) {
			return types.S32Value(int32(n)), nil
		}
	case types.KindS64:
		return types.S64Value(n), nil
	default:
		if n >= 0 {
			return s.fromUint(t, uint64(n))
		}
	}
	return types.Value{}, s.fail(ErrRange, t.String(), strconv.FormatInt(n, 10))
}

func (s *decodeState) fromUint(t types.Type, n uint64) (types.Value, error) {
	switch t.Kind() {
	case types.KindU8:
		if n <= math.MaxUint8 {
			return types.U8Value(uint8(n)), nil
		}
	case types.KindU16:
		if n <= math.MaxUint16 {
			return types.U16Value(uint16(n)), nil
		}
	case types.KindU32:
		if n <= math.MaxUint32 {
			return types.U32Value(uint32(n)), nil
		}
	case types.KindU64:
		return types.U64Value(n), nil
	default:
		if n <= math.MaxInt64 {
			return s.fromInt(t, int64(n))
		}
	}
	return types.Value{}, s.fail(ErrRange, t.String(), strconv.FormatUint(n, 10))
}

// Reserved strings for the non-finite floats.
const (
	nanString    = "NaN"
	posInfString = "Infinity"
	negInfString = "-Infinity"
)

func (s *decodeState) float(t types.Type, d gdm.Decoder, k gdm.Kind) (types.Value, error) {
	var f float64
	switch k {
	case gdm.KindFloat:
		v, err := d.DecodeFloat()
		if err != nil {
			return types.Value{}, s.format(err)
		}
		f = v
	case gdm.KindInt:
		v, err := d.DecodeInt()
		if err != nil {
			return types.Value{}, s.format(err)
		}
		f = float64(v)
	case gdm.KindUint:
		v, err := d.DecodeUint()
		if err != nil {
			return types.Value{}, s.format(err)
		}
		f = float64(v)
	case gdm.KindString:
		str, err := d.DecodeString()
		if err != nil {
			return types.Value{}, s.format(err)
		}
		switch str {
		case nanString:
			f = math.NaN()
		case posInfString:
			f = math.Inf(1)
		case negInfString:
			f = math.Inf(-1)
		default:
			return types.Value{}, s.fail(ErrInvalidValue, `a number, "NaN", "Infinity" or "-Infinity"`, strconv.Quote(str))
		}
	default:
		return types.Value{}, s.mismatch(t, k)
	}
	if t.Kind() == types.KindFloat32 {
		return types.Float32Value(float32(f)), nil
	}
	return types.Float64Value(f), nil
}

func (s *decodeState) list(t types.Type, d gdm.Decoder) (types.Value, error) {
	k, err := s.probe(d)
	if err != nil {
		return types.Value{}, err
	}
	elem := t.Elem()
	if k == gdm.KindBytes && elem.Kind() == types.KindU8 {
		b, err := d.DecodeBytes()
		if err != nil {
			return types.Value{}, s.format(err)
		}
		elems := make([]types.Value, len(b))
		for i, c := range b {
			elems[i] = types.U8Value(c)
		}
		v, err := t.NewList(elems)
		return s.construct(t, v, err)
	}
	if k != gdm.KindSeq {
		return types.Value{}, s.mismatch(t, k)
	}
	seq, err := d.DecodeSeq()
	if err != nil {
		return types.Value{}, s.format(err)
	}
	elems := make([]types.Value, 0, sizeHint(seq.Len()))
	for i := 0; ; i++ {
		ed, ok, err := seq.Next()
		if err != nil {
			return types.Value{}, s.format(err)
		}
		if !ok {
			break
		}
		s.path = append(s.path, "["+strconv.Itoa(i)+"]")
		v, err := s.value(elem, ed)
		if err != nil {
			return types.Value{}, err
		}
		s.path = s.path[:len(s.path)-1]
		elems = append(elems, v)
	}
	v, err := t.NewList(elems)
	return s.construct(t, v, err)
}

func (s *decodeState) tuple(t types.Type, d gdm.Decoder) (types.Value, error) {
	if err := s.expect(t, d, gdm.KindSeq); err != nil {
		return types.Value{}, err
	}
	seq, err := d.DecodeSeq()
	if err != nil {
		return types.Value{}, s.format(err)
	}
	ets := t.Types()
	want := strconv.Itoa(len(ets)) + " elements"
	elems := make([]types.Value, len(ets))
	for i, et := range ets {
		ed, ok, err := seq.Next()
		if err != nil {
			return types.Value{}, s.format(err)
		}
		if !ok {
			return types.Value{}, s.fail(ErrArity, want, strconv.Itoa(i)+" elements")
		}
		s.path = append(s.path, "["+strconv.Itoa(i)+"]")
		v, err := s.value(et, ed)
		if err != nil {
			return types.Value{}, err
		}
		s.path = s.path[:len(s.path)-1]
		elems[i] = v
	}
	// One extra probe is enough to tell that the sequence is too long.
	if _, ok, err := seq.Next(); err != nil {
		return types.Value{}, s.format(err)
	} else if ok {
		return types.Value{}, s.fail(ErrArity, want, "more than "+want)
	}
	v, err := t.NewTuple(elems)
	return s.construct(t, v, err)
}

func (s *decodeState) flags(t types.Type, d gdm.Decoder) (types.Value, error) {
	if err := s.expect(t, d, gdm.KindSeq); err != nil {
		return types.Value{}, err
	}
	seq, err := d.DecodeSeq()
	if err != nil {
		return types.Value{}, s.format(err)
	}
	names := make([]string, 0, sizeHint(seq.Len()))
	for i := 0; ; i++ {
		ed, ok, err := seq.Next()
		if err != nil {
			return types.Value{}, s.format(err)
		}
		if !ok {
			break
		}
		s.path = append(s.path, "["+strconv.Itoa(i)+"]")
		if err := s.expect(types.String(), ed, gdm.KindString); err != nil {
			return types.Value{}, err
		}
		name, err := ed.DecodeString()
		if err != nil {
			return types.Value{}, s.format(err)
		}
		s.path = s.path[:len(s.path)-1]
		names = append(names, name)
	}
	v, err := t.NewFlags(names)
	return s.construct(t, v, err)
}

// key reads a map key, which must be a string.
func (s *decodeState) key(kd gdm.Decoder) (string, error) {
	k, err := s.probe(kd)
	if err != nil {
		return "", err
	}
	if k != gdm.KindString {
		return "", s.fail(ErrShapeMismatch, "string key", k.String())
	}
	name, err := kd.DecodeString()
	if err != nil {
		return "", s.format(err)
	}
	return name, nil
}

func (s *decodeState) record(t types.Type, d gdm.Decoder) (types.Value, error) {
	if err := s.expect(t, d, gdm.KindMap); err != nil {
		return types.Value{}, err
	}
	m, err := d.DecodeMap()
	if err != nil {
		return types.Value{}, s.format(err)
	}
	fields := t.Fields()
	vals := make([]types.Value, len(fields))
	for {
		kd, ok, err := m.NextKey()
		if err != nil {
			return types.Value{}, s.format(err)
		}
		if !ok {
			break
		}
		name, err := s.key(kd)
		if err != nil {
			return types.Value{}, err
		}
		i := fieldIndex(fields, name)
		if i < 0 {
			return types.Value{}, s.failName(ErrUnknownField, name, "")
		}
		if vals[i].IsValid() {
			return types.Value{}, s.failName(ErrDuplicateField, name, "")
		}
		vd, err := m.Value()
		if err != nil {
			return types.Value{}, s.format(err)
		}
		s.path = append(s.path, "."+name)
		v, err := s.value(fields[i].Type, vd)
		if err != nil {
			return types.Value{}, err
		}
		s.path = s.path[:len(s.path)-1]
		vals[i] = v
	}
	out := make([]types.FieldValue, len(fields))
	for i, f := range fields {
		v := vals[i]
		if !v.IsValid() {
			if f.Type.Kind() != types.KindOption {
				return types.Value{}, s.failName(ErrMissingField, f.Name, f.Type.String())
			}
			none, err := f.Type.NewNone()
			if v, err = s.construct(f.Type, none, err); err != nil {
				return types.Value{}, err
			}
		}
		out[i] = types.FieldValue{Name: f.Name, Value: v}
	}
	v, err := t.NewRecord(out)
	return s.construct(t, v, err)
}

func fieldIndex(fields []types.Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (s *decodeState) variant(t types.Type, d gdm.Decoder) (types.Value, error) {
	if err := s.expect(t, d, gdm.KindMap); err != nil {
		return types.Value{}, err
	}
	return s.sumFrame(t, d, ErrUnknownCase,
		func(name string) (types.Type, bool) {
			c, ok := t.Case(name)
			return c.Type, ok
		},
		func(name string, payload types.Value) (types.Value, error) {
			return t.NewVariant(name, payload)
		})
}

// Keys of the result and nested option frames.
const (
	resultKey = "result"
	errorKey  = "error"
	someKey   = "value"
)

func (s *decodeState) result(t types.Type, d gdm.Decoder) (types.Value, error) {
	if err := s.expect(t, d, gdm.KindMap); err != nil {
		return types.Value{}, err
	}
	return s.sumFrame(t, d, ErrUnknownCase,
		func(name string) (types.Type, bool) {
			switch name {
			case resultKey:
				return t.Ok(), true
			case errorKey:
				return t.Err(), true
			}
			return types.Type{}, false
		},
		func(name string, payload types.Value) (types.Value, error) {
			if name == errorKey {
				return t.NewErr(payload)
			}
			return t.NewOk(payload)
		})
}

func (s *decodeState) option(t types.Type, d gdm.Decoder) (types.Value, error) {
	k, err := s.probe(d)
	if err != nil {
		return types.Value{}, err
	}
	if k == gdm.KindNull {
		if err := d.DecodeNull(); err != nil {
			return types.Value{}, s.format(err)
		}
		v, err := t.NewNone()
		return s.construct(t, v, err)
	}
	inner, err := s.value(t.Elem(), d)
	if err != nil {
		return types.Value{}, err
	}
	v, err := t.NewSome(inner)
	return s.construct(t, v, err)
}

// nestedOption decodes option<option<T>>, where null alone cannot tell the
// two levels apart: the outer some is framed as {"value": inner}.
func (s *decodeState) nestedOption(t types.Type, d gdm.Decoder) (types.Value, error) {
	k, err := s.probe(d)
	if err != nil {
		return types.Value{}, err
	}
	switch k {
	case gdm.KindNull:
		if err := d.DecodeNull(); err != nil {
			return types.Value{}, s.format(err)
		}
		v, err := t.NewNone()
		return s.construct(t, v, err)
	case gdm.KindMap:
		return s.sumFrame(t, d, ErrUnknownField,
			func(name string) (types.Type, bool) { return t.Elem(), name == someKey },
			func(_ string, payload types.Value) (types.Value, error) { return t.NewSome(payload) })
	}
	return types.Value{}, s.fail(ErrShapeMismatch, `null or {"value": ...}`, k.String())
}
