// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// MsgPong implements the Message interface and represents a pong message
// which is used primarily to confirm that a connection is still valid in
// response to a ping message (MsgPing).
type MsgPong struct {
	// Unique value associated with message that is used to identify
	// specific ping message.
	Nonce uint64
}

// Decode reads the little endian nonce. This is part of the Message interface
// implementation.
func (msg *MsgPong) Decode(c *ByteCursor) error {
	nonce, ok := c.ReadUint64LE()
	if !ok {
		return insufficientBytes("pong nonce")
	}
	msg.Nonce = nonce
	return nil
}

// Encode writes the nonce in little endian order. This is part of the Message
// interface implementation.
func (msg *MsgPong) Encode() []byte {
	w := newByteWriter(8)
	w.writeUint64LE(msg.Nonce)
	return w.bytes()
}

// Command returns the protocol command for the message. This is part
// of the Message interface implementation.
func (msg *MsgPong) Command() Command {
	return CmdPong
}

// NewMsgPong returns a new pong message that echoes the nonce of the ping it
// answers. A pong never generates a nonce of its own.
func NewMsgPong(nonce uint64) *MsgPong {
	return &MsgPong{
		Nonce: nonce,
	}
}
