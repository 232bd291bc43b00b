// Package gdm defines the generic data model that valserde reads and writes:
// the abstract substrate shared by JSON, CBOR, MessagePack and similar formats.
//
// Documents are consumed through a pull-based Decoder, which lets the caller
// probe the kind of the next value before committing to a read, and produced
// through a push-based Encoder. Concrete formats live in sub-packages; this
// package also provides an in-memory implementation over plain Go values.
package gdm

import "fmt"

// Kind is the kind of a token in the generic data model.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInt  // signed integer
	KindUint // unsigned integer
	KindFloat
	KindString
	KindBytes
	KindSeq
	KindMap
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindNull:    "null",
	KindBool:    "bool",
	KindInt:     "integer",
	KindUint:    "unsigned integer",
	KindFloat:   "float",
	KindString:  "string",
	KindBytes:   "byte string",
	KindSeq:     "sequence",
	KindMap:     "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Decoder reads a single value of a document.
//
// Kind probes the value without consuming it. Exactly one of the DecodeXxx
// methods (or Skip) then consumes it; calling a method that does not match
// the probed kind is an error.
type Decoder interface {
	Kind() (Kind, error)

	DecodeNull() error
	DecodeBool() (bool, error)
	DecodeInt() (int64, error)
	DecodeUint() (uint64, error)
	DecodeFloat() (float64, error)
	DecodeString() (string, error)
	DecodeBytes() ([]byte, error)
	DecodeSeq() (SeqDecoder, error)
	DecodeMap() (MapDecoder, error)

	// Skip consumes the value whatever its kind.
	Skip() error
}

// SeqDecoder iterates the elements of a sequence.
type SeqDecoder interface {
	// Next returns a Decoder positioned on the next element, or ok=false once
	// the sequence is exhausted. The element must be consumed before Next is
	// called again.
	Next() (elem Decoder, ok bool, err error)
	// Len returns the number of elements, or -1 if unknown.
	Len() int
}

// MapDecoder iterates the entries of a map in document order.
type MapDecoder interface {
	// NextKey returns a Decoder positioned on the next key, or ok=false once
	// the map is exhausted. The key must be consumed before calling Value.
	NextKey() (key Decoder, ok bool, err error)
	// Value returns a Decoder positioned on the value of the current entry.
	Value() (Decoder, error)
	// Len returns the number of entries, or -1 if unknown.
	Len() int
}

// Encoder writes a document.
//
// Sequences and maps are bracketed by BeginXxx/EndXxx and their lengths are
// known up front. Inside a map every entry is an EncodeKey call followed by
// exactly one value.
type Encoder interface {
	EncodeNull() error
	EncodeBool(v bool) error
	EncodeInt(v int64) error
	EncodeUint(v uint64) error
	EncodeFloat32(v float32) error
	EncodeFloat64(v float64) error
	EncodeString(v string) error
	EncodeBytes(v []byte) error

	BeginSeq(n int) error
	EndSeq() error

	BeginMap(n int) error
	EncodeKey(k string) error
	EndMap() error
}

// KindError is returned by decoders when a read does not match the kind of
// the value under the cursor.
type KindError struct {
	Want Kind
	Got  Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("gdm: cannot read %s as %s", e.Got, e.Want)
}
