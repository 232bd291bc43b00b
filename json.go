package valserde

import (
	"github.com/unkn0wn-root/valserde/gdm/json"
	"github.com/unkn0wn-root/valserde/types"
)

// FromJSON decodes a JSON document into a value of type t.
func FromJSON(t types.Type, data []byte) (types.Value, error) {
	return Options{}.FromJSON(t, data)
}

// ToJSON encodes v as compact JSON.
func ToJSON(v types.Value) ([]byte, error) {
	return Options{}.ToJSON(v)
}

func (o Options) FromJSON(t types.Type, data []byte) (types.Value, error) {
	d, err := json.NewDecoder(data)
	if err != nil {
		return types.Value{}, &Error{Op: "decode", Kind: ErrFormat, Err: err}
	}
	return o.Decode(t, d)
}

func (o Options) ToJSON(v types.Value) ([]byte, error) {
	e := json.NewEncoder()
	if err := o.Encode(e, v); err != nil {
		return nil, err
	}
	return e.Bytes()
}
