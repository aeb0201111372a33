package wire

import (
	"encoding/binary"
)

var (
	littleEndian = binary.LittleEndian
	bigEndian    = binary.BigEndian
)

// ByteCursor is a forward-only reader over an immutable byte slice. Every
// read either consumes exactly the number of bytes it needs or, when fewer
// bytes remain, consumes nothing and reports false.
type ByteCursor struct {
	data []byte
}

// NewByteCursor returns a cursor positioned at the start of data. The slice
// is never modified by the cursor.
func NewByteCursor(data []byte) *ByteCursor {
	return &ByteCursor{data: data}
}

// Len returns the number of unread bytes.
func (c *ByteCursor) Len() int {
	return len(c.data)
}

// Remaining returns the unread bytes without consuming them.
func (c *ByteCursor) Remaining() []byte {
	return c.data
}

// ReadSlice consumes and returns the next n bytes. The returned slice aliases
// the underlying data.
func (c *ByteCursor) ReadSlice(n int) ([]byte, bool) {
	if n < 0 || len(c.data) < n {
		return nil, false
	}
	value := c.data[:n:n]
	c.data = c.data[n:]
	return value, true
}

// ReadFixed consumes the next len(dst) bytes and copies them into dst.
func (c *ByteCursor) ReadFixed(dst []byte) bool {
	src, ok := c.ReadSlice(len(dst))
	if !ok {
		return false
	}
	copy(dst, src)
	return true
}

// ReadUint8 consumes a single byte.
func (c *ByteCursor) ReadUint8() (uint8, bool) {
	buf, ok := c.ReadSlice(1)
	if !ok {
		return 0, false
	}
	return buf[0], true
}

// ReadUint16LE consumes two bytes in little endian order.
func (c *ByteCursor) ReadUint16LE() (uint16, bool) {
	buf, ok := c.ReadSlice(2)
	if !ok {
		return 0, false
	}
	return littleEndian.Uint16(buf), true
}

// ReadUint16BE consumes two bytes in big endian order.
func (c *ByteCursor) ReadUint16BE() (uint16, bool) {
	buf, ok := c.ReadSlice(2)
	if !ok {
		return 0, false
	}
	return bigEndian.Uint16(buf), true
}

// ReadUint32LE consumes four bytes in little endian order.
func (c *ByteCursor) ReadUint32LE() (uint32, bool) {
	buf, ok := c.ReadSlice(4)
	if !ok {
		return 0, false
	}
	return littleEndian.Uint32(buf), true
}

// ReadUint32BE consumes four bytes in big endian order.
func (c *ByteCursor) ReadUint32BE() (uint32, bool) {
	buf, ok := c.ReadSlice(4)
	if !ok {
		return 0, false
	}
	return bigEndian.Uint32(buf), true
}

// ReadUint64LE consumes eight bytes in little endian order.
func (c *ByteCursor) ReadUint64LE() (uint64, bool) {
	buf, ok := c.ReadSlice(8)
	if !ok {
		return 0, false
	}
	return littleEndian.Uint64(buf), true
}

// ReadUint64BE consumes eight bytes in big endian order.
func (c *ByteCursor) ReadUint64BE() (uint64, bool) {
	buf, ok := c.ReadSlice(8)
	if !ok {
		return 0, false
	}
	return bigEndian.Uint64(buf), true
}

// ReadInt32LE consumes a little endian signed 32-bit integer.
func (c *ByteCursor) ReadInt32LE() (int32, bool) {
	v, ok := c.ReadUint32LE()
	return int32(v), ok
}

// ReadInt64LE consumes a little endian signed 64-bit integer.
func (c *ByteCursor) ReadInt64LE() (int64, bool) {
	v, ok := c.ReadUint64LE()
	return int64(v), ok
}

// byteWriter accumulates an encoded payload. It mirrors ByteCursor on the
// encoding side so every message writes its fields the same way it reads them.
type byteWriter struct {
	buf []byte
}

func newByteWriter(capacity int) *byteWriter {
	return &byteWriter{buf: make([]byte, 0, capacity)}
}

func (w *byteWriter) bytes() []byte {
	return w.buf
}

func (w *byteWriter) writeBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *byteWriter) writeUint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *byteWriter) writeUint16BE(v uint16) {
	var b [2]byte
	bigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *byteWriter) writeUint32LE(v uint32) {
	var b [4]byte
	littleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *byteWriter) writeUint64LE(v uint64) {
	var b [8]byte
	littleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *byteWriter) writeUint64BE(v uint64) {
	var b [8]byte
	bigEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *byteWriter) writeBool(v bool) {
	if v {
		w.writeUint8(0x01)
		return
	}
	w.writeUint8(0x00)
}
