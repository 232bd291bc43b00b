package json

import (
	"encoding/base64"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/unkn0wn-root/valserde/gdm"
)

// Encoder is a gdm.Encoder producing compact JSON. Map entries are written in
// the order they are encoded.
type Encoder struct {
	stream *jsoniter.Stream
	frames []frame
	done   bool
}

type frame struct {
	isMap bool
	n     int // values written so far
}

var _ gdm.Encoder = (*Encoder)(nil)

func NewEncoder() *Encoder {
	return &Encoder{stream: jsoniter.NewStream(jsoniter.ConfigDefault, nil, 512)}
}

// Bytes returns the finished document.
func (e *Encoder) Bytes() ([]byte, error) {
	if e.stream.Error != nil {
		return nil, errors.Wrap(e.stream.Error, "json: write")
	}
	if !e.done || len(e.frames) > 0 {
		return nil, errors.New("json: document is incomplete")
	}
	return append([]byte(nil), e.stream.Buffer()...), nil
}

// before is called ahead of every value.
func (e *Encoder) before() error {
	if len(e.frames) == 0 {
		if e.done {
			return errors.New("json: document already has a top-level value")
		}
		return nil
	}
	top := &e.frames[len(e.frames)-1]
	if top.isMap {
		if top.n%2 == 0 {
			return errors.New("json: map value written without a key")
		}
	} else if top.n > 0 {
		e.stream.WriteMore()
	}
	top.n++
	return nil
}

// after finishes a value and reports any stream error.
func (e *Encoder) after() error {
	if len(e.frames) == 0 {
		e.done = true
	}
	if e.stream.Error != nil {
		return errors.Wrap(e.stream.Error, "json: write")
	}
	return nil
}

func (e *Encoder) scalar(write func()) error {
	if err := e.before(); err != nil {
		return err
	}
	write()
	return e.after()
}

func (e *Encoder) EncodeNull() error         { return e.scalar(e.stream.WriteNil) }
func (e *Encoder) EncodeBool(v bool) error   { return e.scalar(func() { e.stream.WriteBool(v) }) }
func (e *Encoder) EncodeInt(v int64) error   { return e.scalar(func() { e.stream.WriteInt64(v) }) }
func (e *Encoder) EncodeUint(v uint64) error { return e.scalar(func() { e.stream.WriteUint64(v) }) }

func (e *Encoder) EncodeFloat32(v float32) error {
	return e.scalar(func() { e.stream.WriteFloat32(v) })
}

func (e *Encoder) EncodeFloat64(v float64) error {
	return e.scalar(func() { e.stream.WriteFloat64(v) })
}

func (e *Encoder) EncodeString(v string) error {
	return e.scalar(func() { e.stream.WriteString(v) })
}

// EncodeBytes writes standard base64, the usual JSON spelling of binary data.
func (e *Encoder) EncodeBytes(v []byte) error {
	return e.scalar(func() { e.stream.WriteString(base64.StdEncoding.EncodeToString(v)) })
}

func (e *Encoder) BeginSeq(int) error {
	if err := e.before(); err != nil {
		return err
	}
	e.stream.WriteArrayStart()
	e.frames = append(e.frames, frame{})
	return nil
}

func (e *Encoder) EndSeq() error {
	if err := e.pop(false); err != nil {
		return err
	}
	e.stream.WriteArrayEnd()
	return e.after()
}

func (e *Encoder) BeginMap(int) error {
	if err := e.before(); err != nil {
		return err
	}
	e.stream.WriteObjectStart()
	e.frames = append(e.frames, frame{isMap: true})
	return nil
}

func (e *Encoder) EncodeKey(k string) error {
	if len(e.frames) == 0 || !e.frames[len(e.frames)-1].isMap {
		return errors.New("json: key written outside of a map")
	}
	top := &e.frames[len(e.frames)-1]
	if top.n%2 == 1 {
		return errors.Newf("json: key %q written twice without a value", k)
	}
	if top.n > 0 {
		e.stream.WriteMore()
	}
	e.stream.WriteObjectField(k)
	top.n++
	return nil
}

func (e *Encoder) EndMap() error {
	if err := e.pop(true); err != nil {
		return err
	}
	e.stream.WriteObjectEnd()
	return e.after()
}

func (e *Encoder) pop(isMap bool) error {
	if len(e.frames) == 0 || e.frames[len(e.frames)-1].isMap != isMap {
		return errors.New("json: unbalanced end of array or object")
	}
	if top := e.frames[len(e.frames)-1]; isMap && top.n%2 == 1 {
		return errors.New("json: object key has no value")
	}
	e.frames = e.frames[:len(e.frames)-1]
	return nil
}
