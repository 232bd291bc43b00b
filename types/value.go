package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldValue is a named record field value.
type FieldValue struct {
	Name  string
	Value Value
}

// Value is a Dynamic Value: data of exactly one Type. The zero Value is
// invalid and stands for "no payload".
//
// Primitive values are built with the XxxValue functions; compound values are
// built through the NewXxx methods on Type, which validate the value against
// the type. Values are immutable; slices returned by accessors must not be
// modified.
type Value struct {
	typ Type

	num    uint64 // bool, integers (two's complement), float bits, char
	str    string // string, enum/variant case name
	elems  []Value
	some   *Value // option, variant and result payload
	isErr  bool
	flags  []string
	handle any
}

func BoolValue(b bool) Value {
	var n uint64
	if b {
		n = 1
	}
	return Value{typ: Bool(), num: n}
}

func S8Value(v int8) Value    { return Value{typ: S8(), num: uint64(int64(v))} }
func U8Value(v uint8) Value   { return Value{typ: U8(), num: uint64(v)} }
func S16Value(v int16) Value  { return Value{typ: S16(), num: uint64(int64(v))} }
func U16Value(v uint16) Value { return Value{typ: U16(), num: uint64(v)} }
func S32Value(v int32) Value  { return Value{typ: S32(), num: uint64(int64(v))} }
func U32Value(v uint32) Value { return Value{typ: U32(), num: uint64(v)} }
func S64Value(v int64) Value  { return Value{typ: S64(), num: uint64(v)} }
func U64Value(v uint64) Value { return Value{typ: U64(), num: v} }

func Float32Value(v float32) Value {
	return Value{typ: Float32(), num: uint64(math.Float32bits(v))}
}

func Float64Value(v float64) Value {
	return Value{typ: Float64(), num: math.Float64bits(v)}
}

func CharValue(r rune) Value     { return Value{typ: Char(), num: uint64(r)} }
func StringValue(s string) Value { return Value{typ: String(), str: s} }

func (v Value) Type() Type { return v.typ }
func (v Value) Kind() Kind { return v.typ.kind }

// IsValid reports whether v holds a value, as opposed to the zero Value.
func (v Value) IsValid() bool { return v.typ.kind != KindInvalid }

func (v Value) mustBe(kinds ...Kind) {
	for _, k := range kinds {
		if v.typ.kind == k {
			return
		}
	}
	panic(fmt.Sprintf("types: call on %s value, want %v", v.typ.kind, kinds))
}

func (v Value) Bool() bool {
	v.mustBe(KindBool)
	return v.num != 0
}

// Int returns the value of a signed integer.
func (v Value) Int() int64 {
	v.mustBe(KindS8, KindS16, KindS32, KindS64)
	return int64(v.num)
}

// Uint returns the value of an unsigned integer.
func (v Value) Uint() uint64 {
	v.mustBe(KindU8, KindU16, KindU32, KindU64)
	return v.num
}

func (v Value) Float32() float32 {
	v.mustBe(KindFloat32)
	return math.Float32frombits(uint32(v.num))
}

func (v Value) Float64() float64 {
	v.mustBe(KindFloat64)
	return math.Float64frombits(v.num)
}

func (v Value) Char() rune {
	v.mustBe(KindChar)
	return rune(v.num)
}

// Str returns the contents of a string value.
func (v Value) Str() string {
	v.mustBe(KindString)
	return v.str
}

// Len returns the number of elements of a list or tuple.
func (v Value) Len() int {
	v.mustBe(KindList, KindTuple)
	return len(v.elems)
}

// Index returns the i'th element of a list or tuple.
func (v Value) Index(i int) Value {
	v.mustBe(KindList, KindTuple)
	return v.elems[i]
}

// Elems returns the elements of a list or tuple.
func (v Value) Elems() []Value {
	v.mustBe(KindList, KindTuple)
	return v.elems
}

// Fields returns the record fields in declaration order.
func (v Value) Fields() []FieldValue {
	v.mustBe(KindRecord)
	out := make([]FieldValue, len(v.elems))
	for i, f := range v.typ.fields {
		out[i] = FieldValue{Name: f.Name, Value: v.elems[i]}
	}
	return out
}

// Field returns the value of the named record field.
func (v Value) Field(name string) (Value, bool) {
	v.mustBe(KindRecord)
	for i, f := range v.typ.fields {
		if f.Name == name {
			return v.elems[i], true
		}
	}
	return Value{}, false
}

// Case returns the active case name of a variant or enum.
func (v Value) Case() string {
	v.mustBe(KindVariant, KindEnum)
	return v.str
}

// Payload returns the payload of a variant or result, if any.
func (v Value) Payload() (Value, bool) {
	v.mustBe(KindVariant, KindResult)
	if v.some == nil {
		return Value{}, false
	}
	return *v.some, true
}

// Some returns the inner value of an option; ok is false for none.
func (v Value) Some() (Value, bool) {
	v.mustBe(KindOption)
	if v.some == nil {
		return Value{}, false
	}
	return *v.some, true
}

// IsErr reports whether a result holds its error arm.
func (v Value) IsErr() bool {
	v.mustBe(KindResult)
	return v.isErr
}

// Flags returns the active flag names in declaration order.
func (v Value) Flags() []string {
	v.mustBe(KindFlags)
	return v.flags
}

// Handle returns the opaque handle of a resource.
func (v Value) Handle() any {
	v.mustBe(KindResource)
	return v.handle
}

// Equal reports whether v and u have the same type and contents. Floats are
// compared by bit pattern, so a NaN equals an identical NaN.
func (v Value) Equal(u Value) bool {
	if !v.typ.Equal(u.typ) {
		return false
	}
	switch v.typ.kind {
	case KindString, KindEnum:
		return v.str == u.str
	case KindList, KindTuple, KindRecord:
		if len(v.elems) != len(u.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(u.elems[i]) {
				return false
			}
		}
		return true
	case KindVariant:
		return v.str == u.str && payloadEqual(v.some, u.some)
	case KindOption:
		return payloadEqual(v.some, u.some)
	case KindResult:
		return v.isErr == u.isErr && payloadEqual(v.some, u.some)
	case KindFlags:
		if len(v.flags) != len(u.flags) {
			return false
		}
		for i := range v.flags {
			if v.flags[i] != u.flags[i] {
				return false
			}
		}
		return true
	case KindResource:
		return v.handle == u.handle
	case KindInvalid:
		return true
	}
	return v.num == u.num
}

func payloadEqual(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// String renders v for diagnostics, e.g. `some({a: 1, b: "x"})`.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch k := v.typ.kind; {
	case k == KindBool:
		b.WriteString(strconv.FormatBool(v.num != 0))
	case k.IsSigned():
		b.WriteString(strconv.FormatInt(int64(v.num), 10))
	case k.IsUnsigned():
		b.WriteString(strconv.FormatUint(v.num, 10))
	case k == KindFloat32:
		b.WriteString(strconv.FormatFloat(float64(v.Float32()), 'g', -1, 32))
	case k == KindFloat64:
		b.WriteString(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case k == KindChar:
		b.WriteString(strconv.QuoteRune(rune(v.num)))
	case k == KindString:
		b.WriteString(strconv.Quote(v.str))
	case k == KindList || k == KindTuple:
		lb, rb := byte('['), byte(']')
		if k == KindTuple {
			lb, rb = '(', ')'
		}
		b.WriteByte(lb)
		for i, e := range v.elems {
			if i > 0 {
				b.WriteString(", ")
			}
			e.write(b)
		}
		b.WriteByte(rb)
	case k == KindRecord:
		b.WriteByte('{')
		for i, f := range v.typ.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			v.elems[i].write(b)
		}
		b.WriteByte('}')
	case k == KindVariant:
		b.WriteString(v.str)
		if v.some != nil {
			b.WriteByte('(')
			v.some.write(b)
			b.WriteByte(')')
		}
	case k == KindEnum:
		b.WriteString(v.str)
	case k == KindOption:
		if v.some == nil {
			b.WriteString("none")
			return
		}
		b.WriteString("some(")
		v.some.write(b)
		b.WriteByte(')')
	case k == KindResult:
		if v.isErr {
			b.WriteString("err")
		} else {
			b.WriteString("ok")
		}
		if v.some != nil {
			b.WriteByte('(')
			v.some.write(b)
			b.WriteByte(')')
		}
	case k == KindFlags:
		b.WriteString("flags{")
		b.WriteString(strings.Join(v.flags, ", "))
		b.WriteByte('}')
	case k == KindResource:
		fmt.Fprintf(b, "resource %s(%v)", v.typ.ResourceName(), v.handle)
	default:
		b.WriteString("<invalid>")
	}
}
