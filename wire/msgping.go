// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/btcshake/btcshake/util/random"
)

// MsgPing implements the Message interface and represents a ping message.
//
// The ping message is sent to confirm that the connection is still valid. The
// peer answers with a pong message carrying the same nonce.
type MsgPing struct {
	// Unique value associated with message that is used to identify
	// specific ping message.
	Nonce uint64
}

// Decode reads the little endian nonce. This is part of the Message interface
// implementation.
func (msg *MsgPing) Decode(c *ByteCursor) error {
	nonce, ok := c.ReadUint64LE()
	if !ok {
		return insufficientBytes("ping nonce")
	}
	msg.Nonce = nonce
	return nil
}

// Encode writes the nonce in little endian order. This is part of the Message
// interface implementation.
func (msg *MsgPing) Encode() []byte {
	w := newByteWriter(8)
	w.writeUint64LE(msg.Nonce)
	return w.bytes()
}

// Command returns the protocol command for the message. This is part
// of the Message interface implementation.
func (msg *MsgPing) Command() Command {
	return CmdPing
}

// NewMsgPing returns a new ping message carrying a freshly generated random
// nonce.
func NewMsgPing() (*MsgPing, error) {
	nonce, err := random.Uint64()
	if err != nil {
		return nil, err
	}
	return &MsgPing{Nonce: nonce}, nil
}
