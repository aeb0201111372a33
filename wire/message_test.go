// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

// makeHeader is a convenience function to make a message header in the form
// of a byte slice. It is used to force errors when reading messages.
func makeHeader(btcnet uint32, command string, payloadLen uint32, checksum uint32) []byte {
	buf := make([]byte, MessageHeaderSize)
	littleEndian.PutUint32(buf, btcnet)
	copy(buf[4:], command)
	littleEndian.PutUint32(buf[16:], payloadLen)
	littleEndian.PutUint32(buf[20:], checksum)
	return buf
}

// TestMessageHeader tests the header encoding against a known mainnet version
// header.
func TestMessageHeader(t *testing.T) {
	encoded := []byte{
		0xf9, 0xbe, 0xb4, 0xd9, // MainNet
		'v', 'e', 'r', 's', 'i', 'o', 'n', 0x00, 0x00, 0x00, 0x00, 0x00, // "version"
		0x64, 0x00, 0x00, 0x00, // Payload length 100
		0x35, 0x8d, 0x49, 0x32, // Checksum
	}
	want := MessageHeader{
		Net:      MainNet,
		Command:  CmdVersion,
		Length:   100,
		Checksum: 0x32498d35,
	}

	var header MessageHeader
	err := header.Decode(NewByteCursor(encoded))
	if err != nil {
		t.Fatalf("Decode: error %v", err)
	}
	if !reflect.DeepEqual(header, want) {
		t.Errorf("Decode: got %s want %s", spew.Sdump(header), spew.Sdump(want))
	}
	if got := want.Encode(); !bytes.Equal(got, encoded) {
		t.Errorf("Encode: got %x, want %x", got, encoded)
	}

	for i := 0; i < MessageHeaderSize; i++ {
		err := header.Decode(NewByteCursor(encoded[:i]))
		if !errors.Is(err, ErrInsufficientBytes) {
			t.Errorf("Decode of %d byte prefix: got %v, want %v", i, err,
				ErrInsufficientBytes)
		}
	}
}

// TestMessageHeaderShortInput ensures a short header asks for more bytes
// before its network is looked at.
func TestMessageHeaderShortInput(t *testing.T) {
	unknown := makeHeader(0xffffffff, "version", 0, 0)
	for i := 0; i < MessageHeaderSize; i++ {
		var header MessageHeader
		err := header.Decode(NewByteCursor(unknown[:i]))
		if !errors.Is(err, ErrInsufficientBytes) {
			t.Errorf("Decode of %d byte prefix: got %v, want %v", i, err,
				ErrInsufficientBytes)
		}
	}
}

// TestMessageHeaderErrors ensures an unrecognized network or command never
// decodes to a default value.
func TestMessageHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"unknown network", makeHeader(0xffffffff, "version", 0, 0)},
		{"unknown command", makeHeader(uint32(MainNet), "sendheaders", 0, 0)},
		{"unpadded command", makeHeader(uint32(MainNet), "versionxxxxx", 0, 0)},
		{"trailing garbage", append(append(makeHeader(uint32(MainNet), "", 0, 0)[:4:4],
			'p', 'i', 'n', 'g', 0, 0, 0, 0, 0, 0, 0, 'x'), make([]byte, 8)...)},
	}

	for _, test := range tests {
		var header MessageHeader
		err := header.Decode(NewByteCursor(test.buf))
		if !errors.Is(err, ErrInvalidBytes) {
			t.Errorf("%s: got %v, want %v", test.name, err, ErrInvalidBytes)
		}
	}
}

// TestChecksum tests the double SHA-256 checksum.
func TestChecksum(t *testing.T) {
	if got := Checksum(nil); got != 0xe2e0f65d {
		t.Errorf("Checksum of empty payload: got %08x, want e2e0f65d", got)
	}
	if got := Checksum([]byte{}); got != 0xe2e0f65d {
		t.Errorf("Checksum of empty slice: got %08x, want e2e0f65d", got)
	}
}

// TestCompose tests framing of messages with no payload and with a payload.
func TestCompose(t *testing.T) {
	verack := Compose(MainNet, NewMsgVerAck())
	wantVerack := []byte{
		0xf9, 0xbe, 0xb4, 0xd9,
		'v', 'e', 'r', 'a', 'c', 'k', 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x5d, 0xf6, 0xe0, 0xe2,
	}
	if !bytes.Equal(verack, wantVerack) {
		t.Errorf("Compose verack: got %x, want %x", verack, wantVerack)
	}

	ping := Compose(TestNet3, &MsgPing{Nonce: 15})
	if len(ping) != MessageHeaderSize+8 {
		t.Fatalf("Compose ping: got %d bytes, want %d", len(ping), MessageHeaderSize+8)
	}
	var header MessageHeader
	err := header.Decode(NewByteCursor(ping))
	if err != nil {
		t.Fatalf("Decode ping header: error %v", err)
	}
	payload := ping[MessageHeaderSize:]
	if header.Net != TestNet3 || header.Command != CmdPing || header.Length != 8 {
		t.Errorf("Compose ping: wrong header %s", spew.Sdump(header))
	}
	if header.Checksum != Checksum(payload) {
		t.Errorf("Compose ping: got checksum %08x, want %08x", header.Checksum,
			Checksum(payload))
	}
	wantPayload := []byte{0x0f, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(payload, wantPayload) {
		t.Errorf("Compose ping payload: got %x, want %x", payload, wantPayload)
	}
}

// TestReadFrame tests that every composed message reads back unchanged and
// that frames are consumed one at a time from a stream buffer.
func TestReadFrame(t *testing.T) {
	version := versionEncodingMessage(ProtocolVersion)
	msgs := []Message{
		version,
		NewMsgVerAck(),
		&MsgPing{Nonce: 0x0123456789abcdef},
		&MsgPong{Nonce: 0xfedcba9876543210},
	}

	var stream []byte
	for _, msg := range msgs {
		stream = append(stream, Compose(SigNet, msg)...)
	}

	for i, want := range msgs {
		frame, n, err := ReadFrame(stream)
		if err != nil {
			t.Fatalf("ReadFrame #%d: error %v", i, err)
		}
		if frame.Header.Net != SigNet {
			t.Errorf("ReadFrame #%d: got network %s, want %s", i,
				frame.Header.Net, SigNet)
		}
		if frame.Header.Command != want.Command() {
			t.Errorf("ReadFrame #%d: got command %s, want %s", i,
				frame.Header.Command, want.Command())
		}
		if !reflect.DeepEqual(frame.Message, want) {
			t.Errorf("ReadFrame #%d: got %s want %s", i,
				spew.Sdump(frame.Message), spew.Sdump(want))
		}
		if n != MessageHeaderSize+len(want.Encode()) {
			t.Errorf("ReadFrame #%d: consumed %d bytes, want %d", i, n,
				MessageHeaderSize+len(want.Encode()))
		}
		stream = stream[n:]
	}
	if len(stream) != 0 {
		t.Errorf("ReadFrame: %d bytes left over", len(stream))
	}
}

// TestReadFramePartial ensures any prefix of a frame asks for more bytes.
func TestReadFramePartial(t *testing.T) {
	frame := Compose(MainNet, versionEncodingMessage(ProtocolVersion))
	for i := 0; i < len(frame); i++ {
		_, n, err := ReadFrame(frame[:i])
		if !errors.Is(err, ErrInsufficientBytes) {
			t.Errorf("ReadFrame of %d byte prefix: got %v, want %v", i, err,
				ErrInsufficientBytes)
		}
		if n != 0 {
			t.Errorf("ReadFrame of %d byte prefix: consumed %d bytes", i, n)
		}
	}
}

// TestReadFrameUnknownCommand ensures frames for unknown commands on a known
// network are reported with their size so they can be skipped.
func TestReadFrameUnknownCommand(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04}
	unknown := append(makeHeader(uint32(MainNet), "sendcmpct", uint32(len(payload)),
		Checksum(payload)), payload...)

	// Partially received unknown frames still ask for more bytes.
	_, _, err := ReadFrame(unknown[:len(unknown)-1])
	if !errors.Is(err, ErrInsufficientBytes) {
		t.Errorf("ReadFrame of partial unknown frame: got %v, want %v", err,
			ErrInsufficientBytes)
	}

	stream := append(unknown, Compose(MainNet, NewMsgVerAck())...)
	_, _, err = ReadFrame(stream)
	var unknownErr *UnknownCommandError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("ReadFrame: got %v, want *UnknownCommandError", err)
	}
	if !errors.Is(err, ErrInvalidBytes) {
		t.Errorf("ReadFrame: %v does not match %v", err, ErrInvalidBytes)
	}
	if unknownErr.Net != MainNet {
		t.Errorf("UnknownCommandError: got network %s, want %s", unknownErr.Net, MainNet)
	}
	if unknownErr.FrameSize() != len(unknown) {
		t.Errorf("FrameSize: got %d, want %d", unknownErr.FrameSize(), len(unknown))
	}

	frame, _, err := ReadFrame(stream[unknownErr.FrameSize():])
	if err != nil {
		t.Fatalf("ReadFrame after skip: error %v", err)
	}
	if frame.Header.Command != CmdVerAck {
		t.Errorf("ReadFrame after skip: got %s, want %s", frame.Header.Command, CmdVerAck)
	}
}

// TestReadFrameErrors performs negative tests against ReadFrame to confirm
// that untrustworthy frames are rejected.
func TestReadFrameErrors(t *testing.T) {
	ping := Compose(MainNet, &MsgPing{Nonce: 1})
	badChecksum := append([]byte{}, ping...)
	badChecksum[20] ^= 0xff

	shortPayload := []byte{0x01, 0x02, 0x03, 0x04}
	shortPing := append(makeHeader(uint32(MainNet), "ping", uint32(len(shortPayload)),
		Checksum(shortPayload)), shortPayload...)

	tests := []struct {
		name string
		buf  []byte
		want error
	}{
		{"unknown network", makeHeader(0xffffffff, "ping", 0, 0), ErrInvalidBytes},
		{"unknown network and command", makeHeader(0x01020304, "foo", 0, 0), ErrInvalidBytes},
		{"checksum mismatch", badChecksum, ErrChecksumMismatch},
		{"oversized payload", makeHeader(uint32(MainNet), "version",
			MaxMessagePayload+1, 0), ErrPayloadTooLarge},
		{"oversized unknown payload", makeHeader(uint32(MainNet), "block",
			MaxMessagePayload+1, 0), ErrPayloadTooLarge},
		{"malformed payload", shortPing, ErrInvalidBytes},
	}

	t.Logf("Running %d tests", len(tests))
	for _, test := range tests {
		_, _, err := ReadFrame(test.buf)
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got %v, want %v", test.name, err, test.want)
			continue
		}
		if errors.Is(err, ErrInsufficientBytes) {
			t.Errorf("%s: %v must not ask for more bytes", test.name, err)
		}
		var unknownErr *UnknownCommandError
		if errors.As(err, &unknownErr) {
			t.Errorf("%s: %v must not be skippable", test.name, err)
		}
	}
}

// TestMakeEmptyMessage ensures every command maps to its message type.
func TestMakeEmptyMessage(t *testing.T) {
	tests := []struct {
		command Command
		want    Message
	}{
		{CmdVersion, &MsgVersion{}},
		{CmdVerAck, &MsgVerAck{}},
		{CmdPing, &MsgPing{}},
		{CmdPong, &MsgPong{}},
	}

	for _, test := range tests {
		msg, err := MakeEmptyMessage(test.command)
		if err != nil {
			t.Errorf("MakeEmptyMessage(%s): error %v", test.command, err)
			continue
		}
		if !reflect.DeepEqual(msg, test.want) {
			t.Errorf("MakeEmptyMessage(%s): got %T, want %T", test.command, msg, test.want)
		}
	}

	_, err := MakeEmptyMessage(Command(200))
	if !errors.Is(err, ErrInvalidBytes) {
		t.Errorf("MakeEmptyMessage(200): got %v, want %v", err, ErrInvalidBytes)
	}
}
