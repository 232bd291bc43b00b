// Package wire frames encoded values for storage.
//
// Frame: magic(4) | ver(1) | kind(1=value) | gen(u64 be) | type(u64 be) | vlen(u32 be) | payload(vlen)
//
// type is a fingerprint of the value's type, so that entries written under a
// different type are recognised and dropped instead of being misdecoded.
package wire

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

const (
	version   byte = 1
	kindValue byte = 1

	headerLen = 4 + 1 + 1 + 8 + 8 + 4
)

var (
	ErrCorrupt = errors.New("valserde: corrupt store entry")
	magic4     = [...]byte{'V', 'S', 'D', 'E'}
)

// Entry is a decoded frame. Payload aliases the framed bytes.
type Entry struct {
	Gen     uint64
	Type    uint64
	Payload []byte
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

func Encode(e Entry) []byte {
	buf := make([]byte, headerLen, headerLen+len(e.Payload))
	copy(buf, magic4[:])
	buf[4] = version
	buf[5] = kindValue
	binary.BigEndian.PutUint64(buf[6:14], e.Gen)
	binary.BigEndian.PutUint64(buf[14:22], e.Type)
	binary.BigEndian.PutUint32(buf[22:26], uint32(len(e.Payload)))
	return append(buf, e.Payload...)
}

// Decode parses a frame. The payload length must account for every byte
// after the header.
func Decode(b []byte) (Entry, error) {
	if len(b) < headerLen || !hasMagic(b) || b[4] != version || b[5] != kindValue {
		return Entry{}, ErrCorrupt
	}
	vlen := binary.BigEndian.Uint32(b[22:26])
	if uint64(vlen) != uint64(len(b)-headerLen) {
		return Entry{}, errors.Wrapf(ErrCorrupt, "payload length %d, frame holds %d", vlen, len(b)-headerLen)
	}
	return Entry{
		Gen:     binary.BigEndian.Uint64(b[6:14]),
		Type:    binary.BigEndian.Uint64(b[14:22]),
		Payload: b[headerLen:],
	}, nil
}
