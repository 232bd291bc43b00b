package types

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// Errors returned by the NewXxx constructors. They are wrapped with the
// offending name or position; test with errors.Is.
var (
	ErrTypeMismatch   = errors.New("types: type mismatch")
	ErrUnknownField   = errors.New("types: unknown field")
	ErrDuplicateField = errors.New("types: duplicate field")
	ErrMissingField   = errors.New("types: missing field")
	ErrUnknownCase    = errors.New("types: unknown case")
	ErrUnknownFlag    = errors.New("types: unknown flag")
	ErrArity          = errors.New("types: wrong number of elements")
)

func (t Type) expect(k Kind) error {
	if t.kind != k {
		return errors.Wrapf(ErrTypeMismatch, "constructing %s value from %s type", k, t)
	}
	return nil
}

func checkType(want Type, v Value, what string) error {
	if !want.Equal(v.typ) {
		return errors.Wrapf(ErrTypeMismatch, "%s: want %s, got %s", what, want, v.typ)
	}
	return nil
}

// NewList builds a list of t's element type.
func (t Type) NewList(elems []Value) (Value, error) {
	if err := t.expect(KindList); err != nil {
		return Value{}, err
	}
	elem := t.Elem()
	for i, e := range elems {
		if err := checkType(elem, e, "list element "+strconv.Itoa(i)); err != nil {
			return Value{}, err
		}
	}
	return Value{typ: t, elems: append([]Value(nil), elems...)}, nil
}

// NewRecord builds a record. Fields may be given in any order; every declared
// field must be present exactly once.
func (t Type) NewRecord(fields []FieldValue) (Value, error) {
	if err := t.expect(KindRecord); err != nil {
		return Value{}, err
	}
	elems := make([]Value, len(t.fields))
	for _, fv := range fields {
		i := t.fieldIndex(fv.Name)
		if i < 0 {
			return Value{}, errors.Wrapf(ErrUnknownField, "field %q", fv.Name)
		}
		if elems[i].IsValid() {
			return Value{}, errors.Wrapf(ErrDuplicateField, "field %q", fv.Name)
		}
		if err := checkType(t.fields[i].Type, fv.Value, "field "+fv.Name); err != nil {
			return Value{}, err
		}
		elems[i] = fv.Value
	}
	for i, e := range elems {
		if !e.IsValid() {
			return Value{}, errors.Wrapf(ErrMissingField, "field %q", t.fields[i].Name)
		}
	}
	return Value{typ: t, elems: elems}, nil
}

func (t Type) fieldIndex(name string) int {
	for i, f := range t.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// NewTuple builds a tuple with exactly one value per element type.
func (t Type) NewTuple(elems []Value) (Value, error) {
	if err := t.expect(KindTuple); err != nil {
		return Value{}, err
	}
	if len(elems) != len(t.elems) {
		return Value{}, errors.Wrapf(ErrArity, "tuple of %d, got %d", len(t.elems), len(elems))
	}
	for i, e := range elems {
		if err := checkType(t.elems[i], e, "tuple element "+strconv.Itoa(i)); err != nil {
			return Value{}, err
		}
	}
	return Value{typ: t, elems: append([]Value(nil), elems...)}, nil
}

// NewVariant builds a variant of the named case. Pass the zero Value as
// payload for a case without one.
func (t Type) NewVariant(name string, payload Value) (Value, error) {
	if err := t.expect(KindVariant); err != nil {
		return Value{}, err
	}
	c, ok := t.Case(name)
	if !ok {
		return Value{}, errors.Wrapf(ErrUnknownCase, "variant case %q", name)
	}
	p, err := checkPayload(c.Type, payload, "case "+name)
	if err != nil {
		return Value{}, err
	}
	return Value{typ: t, str: name, some: p}, nil
}

func checkPayload(want Type, payload Value, what string) (*Value, error) {
	switch {
	case !want.IsValid() && !payload.IsValid():
		return nil, nil
	case !want.IsValid():
		return nil, errors.Wrapf(ErrTypeMismatch, "%s takes no payload, got %s", what, payload.typ)
	case !payload.IsValid():
		return nil, errors.Wrapf(ErrTypeMismatch, "%s requires a %s payload", what, want)
	}
	if err := checkType(want, payload, what); err != nil {
		return nil, err
	}
	return &payload, nil
}

// NewEnum builds an enum value of the named case.
func (t Type) NewEnum(name string) (Value, error) {
	if err := t.expect(KindEnum); err != nil {
		return Value{}, err
	}
	if t.indexOfName(name) < 0 {
		return Value{}, errors.Wrapf(ErrUnknownCase, "enum case %q", name)
	}
	return Value{typ: t, str: name}, nil
}

// NewNone builds an absent option.
func (t Type) NewNone() (Value, error) {
	if err := t.expect(KindOption); err != nil {
		return Value{}, err
	}
	return Value{typ: t}, nil
}

// NewSome builds a present option wrapping v.
func (t Type) NewSome(v Value) (Value, error) {
	if err := t.expect(KindOption); err != nil {
		return Value{}, err
	}
	if err := checkType(t.Elem(), v, "option payload"); err != nil {
		return Value{}, err
	}
	return Value{typ: t, some: &v}, nil
}

// NewOk builds the ok arm of a result. Pass the zero Value when the arm has
// no payload.
func (t Type) NewOk(payload Value) (Value, error) {
	if err := t.expect(KindResult); err != nil {
		return Value{}, err
	}
	p, err := checkPayload(t.Ok(), payload, "ok arm")
	if err != nil {
		return Value{}, err
	}
	return Value{typ: t, some: p}, nil
}

// NewErr builds the error arm of a result. Pass the zero Value when the arm
// has no payload.
func (t Type) NewErr(payload Value) (Value, error) {
	if err := t.expect(KindResult); err != nil {
		return Value{}, err
	}
	p, err := checkPayload(t.Err(), payload, "error arm")
	if err != nil {
		return Value{}, err
	}
	return Value{typ: t, some: p, isErr: true}, nil
}

// NewFlags builds a flags value with the given names set. Names may repeat
// and come in any order; the value keeps them in declaration order.
func (t Type) NewFlags(names []string) (Value, error) {
	if err := t.expect(KindFlags); err != nil {
		return Value{}, err
	}
	set := make([]bool, len(t.names))
	for _, n := range names {
		i := t.indexOfName(n)
		if i < 0 {
			return Value{}, errors.Wrapf(ErrUnknownFlag, "flag %q", n)
		}
		set[i] = true
	}
	var active []string
	for i, on := range set {
		if on {
			active = append(active, t.names[i])
		}
	}
	return Value{typ: t, flags: active}, nil
}

// NewResource wraps an opaque host handle. Handles must be comparable for
// Value.Equal to work.
func (t Type) NewResource(handle any) (Value, error) {
	if err := t.expect(KindResource); err != nil {
		return Value{}, err
	}
	return Value{typ: t, handle: handle}, nil
}
