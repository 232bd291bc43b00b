// Package types is the reference host model for valserde: Type Descriptors
// describing the shape of a value, and Dynamic Values carrying data of exactly
// one such shape.
//
// Types are immutable and safe to share. The zero Type means "no type" and is
// used wherever a payload is optional (variant cases, result arms).
package types

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Kind identifies the shape of a Type. The set of kinds is closed.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindS8
	KindU8
	KindS16
	KindU16
	KindS32
	KindU32
	KindS64
	KindU64
	KindFloat32
	KindFloat64
	KindChar
	KindString
	KindList
	KindRecord
	KindTuple
	KindVariant
	KindEnum
	KindOption
	KindResult
	KindFlags
	KindResource
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindBool:     "bool",
	KindS8:       "s8",
	KindU8:       "u8",
	KindS16:      "s16",
	KindU16:      "u16",
	KindS32:      "s32",
	KindU32:      "u32",
	KindS64:      "s64",
	KindU64:      "u64",
	KindFloat32:  "float32",
	KindFloat64:  "float64",
	KindChar:     "char",
	KindString:   "string",
	KindList:     "list",
	KindRecord:   "record",
	KindTuple:    "tuple",
	KindVariant:  "variant",
	KindEnum:     "enum",
	KindOption:   "option",
	KindResult:   "result",
	KindFlags:    "flags",
	KindResource: "resource",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsSigned reports whether k is a signed integer kind.
func (k Kind) IsSigned() bool {
	switch k {
	case KindS8, KindS16, KindS32, KindS64:
		return true
	}
	return false
}

// IsUnsigned reports whether k is an unsigned integer kind.
func (k Kind) IsUnsigned() bool {
	switch k {
	case KindU8, KindU16, KindU32, KindU64:
		return true
	}
	return false
}

// IsInteger reports whether k is any integer kind.
func (k Kind) IsInteger() bool { return k.IsSigned() || k.IsUnsigned() }

// IsFloat reports whether k is float32 or float64.
func (k Kind) IsFloat() bool { return k == KindFloat32 || k == KindFloat64 }

// Field is a named record field.
type Field struct {
	Name string
	Type Type
}

// Case is a variant case. A zero Type means the case has no payload.
type Case struct {
	Name string
	Type Type
}

// HasPayload reports whether the case carries a value.
func (c Case) HasPayload() bool { return c.Type.kind != KindInvalid }

// NoPayload is the zero Type, used for payload-less variant cases and result arms.
var NoPayload = Type{}

// Type is a Type Descriptor. Build one with the constructor functions of this
// package; the zero value is NoPayload.
type Type struct {
	kind Kind

	// list, option: elem[0]; result: ok, err
	elem   *Type
	ok     *Type
	err    *Type
	fields []Field
	elems  []Type
	cases  []Case
	names  []string // enum cases, flag names, resource name
}

func prim(k Kind) Type { return Type{kind: k} }

func Bool() Type    { return prim(KindBool) }
func S8() Type      { return prim(KindS8) }
func U8() Type      { return prim(KindU8) }
func S16() Type     { return prim(KindS16) }
func U16() Type     { return prim(KindU16) }
func S32() Type     { return prim(KindS32) }
func U32() Type     { return prim(KindU32) }
func S64() Type     { return prim(KindS64) }
func U64() Type     { return prim(KindU64) }
func Float32() Type { return prim(KindFloat32) }
func Float64() Type { return prim(KindFloat64) }
func Char() Type    { return prim(KindChar) }
func String() Type  { return prim(KindString) }

// List describes a homogeneous sequence of elem.
func List(elem Type) Type { return Type{kind: KindList, elem: &elem} }

// Record describes a struct-like value with fields in declaration order.
func Record(fields ...Field) Type {
	return Type{kind: KindRecord, fields: append([]Field(nil), fields...)}
}

// Tuple describes a fixed-arity positional value.
func Tuple(elems ...Type) Type {
	return Type{kind: KindTuple, elems: append([]Type(nil), elems...)}
}

// Variant describes a tagged union whose cases may carry a payload.
func Variant(cases ...Case) Type {
	return Type{kind: KindVariant, cases: append([]Case(nil), cases...)}
}

// Enum describes a tagged union of payload-less cases.
func Enum(names ...string) Type {
	return Type{kind: KindEnum, names: append([]string(nil), names...)}
}

// Option describes a value that may be absent.
func Option(inner Type) Type { return Type{kind: KindOption, elem: &inner} }

// Result describes an ok/error pair. Pass NoPayload for an arm without a value.
func Result(ok, err Type) Type {
	t := Type{kind: KindResult}
	if ok.kind != KindInvalid {
		t.ok = &ok
	}
	if err.kind != KindInvalid {
		t.err = &err
	}
	return t
}

// Flags describes a set of named bits, in declaration order.
func Flags(names ...string) Type {
	return Type{kind: KindFlags, names: append([]string(nil), names...)}
}

// Resource describes an opaque host handle.
func Resource(name string) Type { return Type{kind: KindResource, names: []string{name}} }

func (t Type) Kind() Kind { return t.kind }

// IsValid reports whether t is a real type rather than NoPayload.
func (t Type) IsValid() bool { return t.kind != KindInvalid }

// Elem returns the element type of a list or the inner type of an option.
func (t Type) Elem() Type {
	if t.elem == nil {
		return NoPayload
	}
	return *t.elem
}

// Fields returns the record fields in declaration order.
func (t Type) Fields() []Field { return t.fields }

// Types returns the tuple element types.
func (t Type) Types() []Type { return t.elems }

// Cases returns the variant cases.
func (t Type) Cases() []Case { return t.cases }

// Names returns the enum case names or the flag names.
func (t Type) Names() []string {
	if t.kind == KindResource {
		return nil
	}
	return t.names
}

// Case looks up a variant case by name.
func (t Type) Case(name string) (Case, bool) {
	for _, c := range t.cases {
		if c.Name == name {
			return c, true
		}
	}
	return Case{}, false
}

// Field looks up a record field by name.
func (t Type) Field(name string) (Field, bool) {
	for _, f := range t.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Ok returns the payload type of the ok arm, or NoPayload.
func (t Type) Ok() Type {
	if t.ok == nil {
		return NoPayload
	}
	return *t.ok
}

// Err returns the payload type of the error arm, or NoPayload.
func (t Type) Err() Type {
	if t.err == nil {
		return NoPayload
	}
	return *t.err
}

// ResourceName returns the name a resource type was declared with.
func (t Type) ResourceName() string {
	if t.kind != KindResource || len(t.names) == 0 {
		return ""
	}
	return t.names[0]
}

func (t Type) indexOfName(name string) int {
	for i, n := range t.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Equal reports whether t and u describe the same shape.
func (t Type) Equal(u Type) bool {
	if t.kind != u.kind {
		return false
	}
	switch t.kind {
	case KindList, KindOption:
		return t.Elem().Equal(u.Elem())
	case KindRecord:
		if len(t.fields) != len(u.fields) {
			return false
		}
		for i := range t.fields {
			if t.fields[i].Name != u.fields[i].Name || !t.fields[i].Type.Equal(u.fields[i].Type) {
				return false
			}
		}
	case KindTuple:
		if len(t.elems) != len(u.elems) {
			return false
		}
		for i := range t.elems {
			if !t.elems[i].Equal(u.elems[i]) {
				return false
			}
		}
	case KindVariant:
		if len(t.cases) != len(u.cases) {
			return false
		}
		for i := range t.cases {
			if t.cases[i].Name != u.cases[i].Name || !t.cases[i].Type.Equal(u.cases[i].Type) {
				return false
			}
		}
	case KindEnum, KindFlags, KindResource:
		if len(t.names) != len(u.names) {
			return false
		}
		for i := range t.names {
			if t.names[i] != u.names[i] {
				return false
			}
		}
	case KindResult:
		return t.Ok().Equal(u.Ok()) && t.Err().Equal(u.Err())
	}
	return true
}

// String renders t in WIT-like syntax, e.g. "list<option<u8>>" or
// "record { a: s32, b: string }".
func (t Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t Type) write(b *strings.Builder) {
	switch t.kind {
	case KindList, KindOption:
		b.WriteString(t.kind.String())
		b.WriteByte('<')
		t.Elem().write(b)
		b.WriteByte('>')
	case KindRecord:
		b.WriteString("record {")
		for i, f := range t.fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte(' ')
			b.WriteString(f.Name)
			b.WriteString(": ")
			f.Type.write(b)
		}
		b.WriteString(" }")
	case KindTuple:
		b.WriteString("tuple<")
		for i, e := range t.elems {
			if i > 0 {
				b.WriteString(", ")
			}
			e.write(b)
		}
		b.WriteByte('>')
	case KindVariant:
		b.WriteString("variant {")
		for i, c := range t.cases {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte(' ')
			b.WriteString(c.Name)
			if c.HasPayload() {
				b.WriteByte('(')
				c.Type.write(b)
				b.WriteByte(')')
			}
		}
		b.WriteString(" }")
	case KindEnum, KindFlags:
		b.WriteString(t.kind.String())
		b.WriteString(" {")
		for i, n := range t.names {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte(' ')
			b.WriteString(n)
		}
		b.WriteString(" }")
	case KindResult:
		b.WriteString("result")
		if t.ok == nil && t.err == nil {
			return
		}
		b.WriteByte('<')
		if t.ok != nil {
			t.ok.write(b)
		} else {
			b.WriteByte('_')
		}
		if t.err != nil {
			b.WriteString(", ")
			t.err.write(b)
		}
		b.WriteByte('>')
	case KindResource:
		b.WriteString("resource ")
		b.WriteString(t.ResourceName())
	default:
		b.WriteString(t.kind.String())
	}
}

// AppendCanonical appends a binary encoding of t to b. Names are length
// prefixed and every list of members is counted, so two types encode alike
// only if they are Equal.
func (t Type) AppendCanonical(b []byte) []byte {
	b = append(b, byte(t.kind))
	switch t.kind {
	case KindList, KindOption:
		b = t.Elem().AppendCanonical(b)
	case KindRecord:
		b = binary.AppendUvarint(b, uint64(len(t.fields)))
		for _, f := range t.fields {
			b = appendName(b, f.Name)
			b = f.Type.AppendCanonical(b)
		}
	case KindTuple:
		b = binary.AppendUvarint(b, uint64(len(t.elems)))
		for _, e := range t.elems {
			b = e.AppendCanonical(b)
		}
	case KindVariant:
		b = binary.AppendUvarint(b, uint64(len(t.cases)))
		for _, c := range t.cases {
			b = appendName(b, c.Name)
			b = c.Type.AppendCanonical(b)
		}
	case KindEnum, KindFlags, KindResource:
		b = binary.AppendUvarint(b, uint64(len(t.names)))
		for _, n := range t.names {
			b = appendName(b, n)
		}
	case KindResult:
		b = arm(t.ok).AppendCanonical(b)
		b = arm(t.err).AppendCanonical(b)
	}
	return b
}

func appendName(b []byte, name string) []byte {
	b = binary.AppendUvarint(b, uint64(len(name)))
	return append(b, name...)
}

// arm maps an absent result arm to NoPayload.
func arm(p *Type) Type {
	if p == nil {
		return NoPayload
	}
	return *p
}
