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

// TestPing tests the MsgPing API.
func TestPing(t *testing.T) {
	msg, err := NewMsgPing()
	if err != nil {
		t.Fatalf("NewMsgPing: error generating nonce: %v", err)
	}

	// Ensure the command is expected value.
	if cmd := msg.Command(); cmd != CmdPing {
		t.Errorf("NewMsgPing: wrong command - got %v want %v",
			cmd, CmdPing)
	}

	other, err := NewMsgPing()
	if err != nil {
		t.Fatalf("NewMsgPing: error generating nonce: %v", err)
	}
	if msg.Nonce == other.Nonce {
		t.Errorf("NewMsgPing: two pings share nonce %d", msg.Nonce)
	}
}

// TestPingWire tests the MsgPing wire encode and decode.
func TestPingWire(t *testing.T) {
	tests := []struct {
		in  MsgPing
		buf []byte
	}{
		{
			MsgPing{Nonce: 15},
			[]byte{0x0f, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			MsgPing{Nonce: 123123},
			[]byte{0xf3, 0xe0, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		// Encode the message to wire format.
		got := test.in.Encode()
		if !bytes.Equal(got, test.buf) {
			t.Errorf("Encode #%d\n got: %s want: %s", i,
				spew.Sdump(got), spew.Sdump(test.buf))
			continue
		}

		// Decode the message from wire format.
		var msg MsgPing
		err := msg.Decode(NewByteCursor(test.buf))
		if err != nil {
			t.Errorf("Decode #%d error %v", i, err)
			continue
		}
		if !reflect.DeepEqual(msg, test.in) {
			t.Errorf("Decode #%d\n got: %s want: %s", i,
				spew.Sdump(msg), spew.Sdump(test.in))
			continue
		}
	}
}

// TestPingWireErrors performs negative tests against wire decode of MsgPing
// to confirm error paths work correctly.
func TestPingWireErrors(t *testing.T) {
	buf := []byte{0xf3, 0xe0, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00}
	for i := 0; i < len(buf); i++ {
		var msg MsgPing
		err := msg.Decode(NewByteCursor(buf[:i]))
		if !errors.Is(err, ErrInsufficientBytes) {
			t.Errorf("Decode of %d bytes: got %v, want %v", i, err,
				ErrInsufficientBytes)
		}
	}
}
