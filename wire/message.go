// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

// MessageHeaderSize is the number of bytes in a message header.
// Network (magic) 4 bytes + command 12 bytes + payload length 4 bytes +
// checksum 4 bytes.
const MessageHeaderSize = 24

// MaxMessagePayload is the maximum bytes a message can be regardless of other
// individual limits imposed by messages themselves.
const MaxMessagePayload = 1024 * 1024 * 32 // 32MB

// Message is an interface that describes a message. Every message encodes
// its payload in network order and decodes it from a cursor, consuming only
// the bytes that belong to it.
type Message interface {
	Encode() []byte
	Decode(c *ByteCursor) error
	Command() Command
}

// MakeEmptyMessage creates a message of the appropriate concrete type based
// on the command.
func MakeEmptyMessage(command Command) (Message, error) {
	var msg Message
	switch command {
	case CmdVersion:
		msg = &MsgVersion{}

	case CmdVerAck:
		msg = &MsgVerAck{}

	case CmdPing:
		msg = &MsgPing{}

	case CmdPong:
		msg = &MsgPong{}

	default:
		return nil, invalidBytes("unhandled command [%s]", command)
	}
	return msg, nil
}

// MessageHeader defines the header structure for all protocol messages.
type MessageHeader struct {
	Net      BitcoinNet // 4 bytes
	Command  Command    // 12 bytes
	Length   uint32     // 4 bytes
	Checksum uint32     // 4 bytes
}

// Encode serializes the header into its fixed 24-byte wire form.
func (h *MessageHeader) Encode() []byte {
	w := newByteWriter(MessageHeaderSize)
	w.writeUint32LE(uint32(h.Net))
	tag := h.Command.Tag()
	w.writeBytes(tag[:])
	w.writeUint32LE(h.Length)
	w.writeUint32LE(h.Checksum)
	return w.bytes()
}

// Decode reads a message header from c into the receiver. An unknown network
// or command is reported as ErrInvalidBytes; no variant is ever guessed.
func (h *MessageHeader) Decode(c *ByteCursor) error {
	if c.Len() < MessageHeaderSize {
		return insufficientBytes("message header")
	}

	magic, _ := c.ReadUint32LE()
	net, err := ParseBitcoinNet(magic)
	if err != nil {
		return err
	}

	var tag [CommandSize]byte
	c.ReadFixed(tag[:])
	command, err := ParseCommand(tag)
	if err != nil {
		return err
	}

	length, _ := c.ReadUint32LE()
	checksum, _ := c.ReadUint32LE()

	*h = MessageHeader{
		Net:      net,
		Command:  command,
		Length:   length,
		Checksum: checksum,
	}
	return nil
}

// Checksum returns the first four bytes of the double SHA-256 of payload as a
// little endian uint32.
func Checksum(payload []byte) uint32 {
	return binary.LittleEndian.Uint32(chainhash.DoubleHashB(payload)[:4])
}

// Compose encodes msg and prefixes it with a header for network btcnet. The
// header length and checksum are always computed from the encoded payload.
func Compose(btcnet BitcoinNet, msg Message) []byte {
	payload := msg.Encode()
	header := MessageHeader{
		Net:      btcnet,
		Command:  msg.Command(),
		Length:   uint32(len(payload)),
		Checksum: Checksum(payload),
	}

	frame := make([]byte, 0, MessageHeaderSize+len(payload))
	frame = append(frame, header.Encode()...)
	frame = append(frame, payload...)
	return frame
}

// Frame is one decoded message together with its header.
type Frame struct {
	Header  MessageHeader
	Message Message
}

// ReadFrame decodes the frame at the start of data and returns it with the
// number of bytes it occupied.
//
// ErrInsufficientBytes means data holds only a prefix of a frame. A frame with
// a known network but an unknown command yields *UnknownCommandError once the
// whole frame is present so the caller can skip it. Every other failure
// (unknown network, oversized payload, checksum mismatch, malformed payload)
// means the stream can't be trusted.
func ReadFrame(data []byte) (*Frame, int, error) {
	c := NewByteCursor(data)
	raw, ok := c.ReadSlice(MessageHeaderSize)
	if !ok {
		return nil, 0, insufficientBytes("message header")
	}

	var header MessageHeader
	err := header.Decode(NewByteCursor(raw))
	if err != nil {
		return nil, 0, unknownCommandOr(raw, c.Len(), err)
	}

	if header.Length > MaxMessagePayload {
		return nil, 0, errors.Wrapf(ErrPayloadTooLarge, "message payload is %d bytes, "+
			"but the maximum is %d", header.Length, MaxMessagePayload)
	}
	payload, ok := c.ReadSlice(int(header.Length))
	if !ok {
		return nil, 0, insufficientBytes("message payload")
	}

	checksum := Checksum(payload)
	if checksum != header.Checksum {
		return nil, 0, errors.Wrapf(ErrChecksumMismatch, "%s header indicates checksum "+
			"%08x, but actual checksum is %08x", header.Command, header.Checksum, checksum)
	}

	msg, err := MakeEmptyMessage(header.Command)
	if err != nil {
		return nil, 0, err
	}
	// The payload is complete at this point, so a payload that is too short
	// for its message is malformed rather than incomplete.
	err = msg.Decode(NewByteCursor(payload))
	if err != nil {
		return nil, 0, invalidBytes("decoding %s payload: %s", header.Command, err)
	}

	return &Frame{Header: header, Message: msg}, MessageHeaderSize + len(payload), nil
}

// unknownCommandOr turns a header decode failure caused by an unknown command
// of a known network into an *UnknownCommandError, or ErrInsufficientBytes if
// the frame is still incomplete. Any other error is returned unchanged.
func unknownCommandOr(raw []byte, available int, err error) error {
	c := NewByteCursor(raw)
	magic, _ := c.ReadUint32LE()
	btcnet, netErr := ParseBitcoinNet(magic)
	if netErr != nil {
		return err
	}
	var tag [CommandSize]byte
	c.ReadFixed(tag[:])
	if _, cmdErr := ParseCommand(tag); cmdErr == nil {
		return err
	}
	length, _ := c.ReadUint32LE()
	if length > MaxMessagePayload {
		return errors.Wrapf(ErrPayloadTooLarge, "%q payload is %d bytes, but the maximum is %d",
			printableCommand(tag), length, MaxMessagePayload)
	}
	if available < int(length) {
		return insufficientBytes("unknown message payload")
	}
	return &UnknownCommandError{Net: btcnet, RawCommand: tag, Length: length}
}
