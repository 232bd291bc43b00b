// Package cbor reads and writes CBOR documents in the generic data model.
//
// Documents go through the in-memory tree of package gdm: the decoder
// unmarshals into plain Go values first, the encoder builds the tree and
// marshals it at the end. Map keys must be text strings.
package cbor

import (
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/fxamacker/cbor/v2"
	"github.com/unkn0wn-root/valserde/gdm"
)

// Format holds the encoding and decoding modes. The zero value is not ready
// to use; construct with New or Must.
type Format struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// New builds a Format. With deterministic set, maps are written with sorted
// keys as in RFC 8949 Core Deterministic Encoding; otherwise the smaller
// preferred serialization is used and map order is unspecified.
func New(deterministic bool) (Format, error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	em, err := eo.EncMode()
	if err != nil {
		return Format{}, errors.Wrap(err, "cbor: encode mode")
	}
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		DupMapKey:      cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		return Format{}, errors.Wrap(err, "cbor: decode mode")
	}
	return Format{enc: em, dec: dm}, nil
}

// Must is like New but panics on error.
func Must(deterministic bool) Format {
	f, err := New(deterministic)
	if err != nil {
		panic(err)
	}
	return f
}

// NewDecoder parses data and returns a Decoder over it. Map entries are
// visited in key order, since CBOR maps are unordered once decoded.
func (f Format) NewDecoder(data []byte) (gdm.Decoder, error) {
	var v any
	if err := f.dec.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "cbor: unmarshal")
	}
	return gdm.NewValueDecoder(v), nil
}

// Encoder collects a document and marshals it with Bytes.
type Encoder struct {
	gdm.ValueEncoder
	enc cbor.EncMode
}

func (f Format) NewEncoder() *Encoder { return &Encoder{enc: f.enc} }

// Bytes marshals the finished document.
func (e *Encoder) Bytes() ([]byte, error) {
	v, err := e.Value()
	if err != nil {
		return nil, err
	}
	b, err := e.enc.Marshal(plain(v))
	if err != nil {
		return nil, errors.Wrap(err, "cbor: marshal")
	}
	return b, nil
}

// plain converts gdm.Map nodes into Go maps the cbor package can marshal.
func plain(v any) any {
	switch v := v.(type) {
	case gdm.Map:
		m := make(map[string]any, len(v))
		for _, e := range v {
			m[e.Key] = plain(e.Value)
		}
		return m
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = plain(e)
		}
		return out
	}
	return v
}
