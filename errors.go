package valserde

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Error kinds. Every *Error unwraps to exactly one of them; test with
// errors.Is.
var (
	// ErrShapeMismatch: the document token kind does not match the type.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrRange: a number does not fit the target integer type.
	ErrRange = errors.New("number out of range")
	// ErrInvalidChar: a char was not given as exactly one character.
	ErrInvalidChar = errors.New("not a single character")
	// ErrInvalidValue: the token has the right kind but unusable contents,
	// e.g. a malformed numeric string.
	ErrInvalidValue = errors.New("invalid value")
	ErrUnknownField = errors.New("unknown field")
	// ErrDuplicateField: a record field appeared twice in one map.
	ErrDuplicateField = errors.New("duplicate field")
	ErrMissingField   = errors.New("missing field")
	// ErrUnknownCase: a variant or result tag was not recognised.
	ErrUnknownCase = errors.New("unknown case")
	// ErrArity: a tuple had the wrong element count, or a sum-framed map did
	// not hold exactly one entry.
	ErrArity = errors.New("wrong number of elements")
	// ErrUnsupportedValue: the value has no external representation
	// (resources).
	ErrUnsupportedValue = errors.New("unsupported value")
	// ErrHostConstruction: the types package rejected a decoded value. The
	// host error is wrapped as the cause.
	ErrHostConstruction = errors.New("value construction failed")
	// ErrDepthExceeded: nesting went past Options.MaxDepth.
	ErrDepthExceeded = errors.New("nesting too deep")
	// ErrFormat: the underlying format reported an error (syntax, I/O).
	ErrFormat = errors.New("format error")
)

// Error describes a failed Decode or Encode.
type Error struct {
	Op       string // "decode" or "encode"
	Kind     error  // one of the Err* kinds above
	Path     string // location in the document, e.g. ".items[2].name"; empty at the root
	Name     string // offending field or case name, if any
	Expected string
	Actual   string
	Err      error // underlying cause, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("valserde: ")
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Name != "" {
		b.WriteString(" `")
		b.WriteString(e.Name)
		b.WriteByte('`')
	}
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	switch {
	case e.Expected != "" && e.Actual != "":
		b.WriteString(": expected ")
		b.WriteString(e.Expected)
		b.WriteString(", got ")
		b.WriteString(e.Actual)
	case e.Expected != "":
		b.WriteString(": expected ")
		b.WriteString(e.Expected)
	case e.Actual != "":
		b.WriteString(": got ")
		b.WriteString(e.Actual)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// path tracks the location of the value being processed.
type path []string

func (p path) String() string { return strings.Join(p, "") }
