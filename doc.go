// Package valserde converts between Dynamic Values (package types) and the
// generic data model (package gdm) shared by JSON, CBOR, MessagePack and
// similar formats.
//
// Decoding is directed by a type: the same document decodes differently as
// s32, option<s32> or string. Encoding needs no type since every value
// carries its own.
//
// Conventions:
//
//	integers     native numbers; decoded from numeric strings too (range checked)
//	floats       native numbers; NaN and the infinities as "NaN", "Infinity", "-Infinity"
//	char, enum   strings
//	list, tuple  sequences
//	flags        sequence of the set flag names, declaration order
//	record       map; fields holding none are omitted (and default to none on decode)
//	variant      {"<case>": payload}, payload null when the case has none
//	option       null or the inner value; option<option<T>> uses {"value": inner}
//	result       {"result": payload} or {"error": payload}
//	resource     not representable
//
// Quick start:
//
//	t := types.Record(types.Field{Name: "id", Type: types.U64()})
//	v, err := valserde.FromJSON(t, []byte(`{"id": 7}`))
//	out, err := valserde.ToJSON(v) // {"id":7}
package valserde
