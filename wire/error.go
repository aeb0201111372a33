// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInsufficientBytes is returned when fewer bytes are available than
	// a field or structure requires. When reading from a stream it means
	// more bytes must be received before decoding can succeed.
	ErrInsufficientBytes = errors.New("insufficient amount of bytes provided during decoding")

	// ErrInvalidBytes is returned when the bytes are present but do not
	// form a valid value for the field being decoded.
	ErrInvalidBytes = errors.New("invalid bytes provided during decoding")

	// ErrChecksumMismatch is returned when the checksum declared in a
	// message header does not match the received payload.
	ErrChecksumMismatch = errors.New("payload checksum mismatch")

	// ErrPayloadTooLarge is returned when a message header declares a
	// payload larger than MaxMessagePayload.
	ErrPayloadTooLarge = errors.New("declared payload length exceeds the maximum")
)

func insufficientBytes(field string) error {
	return errors.Wrapf(ErrInsufficientBytes, "reading %s", field)
}

func invalidBytes(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidBytes, format, args...)
}

// UnknownCommandError describes a frame that belongs to a known network but
// carries a command tag this package does not implement. The frame has been
// fully buffered when this error is returned, so FrameSize bytes may be
// skipped to reach the next frame.
type UnknownCommandError struct {
	Net        BitcoinNet
	RawCommand [CommandSize]byte
	Length     uint32
}

// FrameSize is the number of bytes the unknown frame occupies on the wire.
func (e *UnknownCommandError) FrameSize() int {
	return MessageHeaderSize + int(e.Length)
}

// Error satisfies the error interface.
func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q with %d byte payload",
		printableCommand(e.RawCommand), e.Length)
}

// Unwrap lets errors.Is match an unknown command against ErrInvalidBytes.
func (e *UnknownCommandError) Unwrap() error {
	return ErrInvalidBytes
}
