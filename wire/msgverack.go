// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// MsgVerAck defines a verack message which is used for a peer to
// acknowledge a version message (MsgVersion) after it has used the information
// to negotiate parameters. It implements the Message interface.
//
// This message has no payload.
type MsgVerAck struct{}

// Decode never fails and consumes nothing: a verack payload is empty, so any
// bytes after it belong to whatever follows. This is part of the Message
// interface implementation.
func (msg *MsgVerAck) Decode(c *ByteCursor) error {
	return nil
}

// Encode returns an empty payload. This is part of the Message interface
// implementation.
func (msg *MsgVerAck) Encode() []byte {
	return []byte{}
}

// Command returns the protocol command for the message. This is part
// of the Message interface implementation.
func (msg *MsgVerAck) Command() Command {
	return CmdVerAck
}

// NewMsgVerAck returns a new verack message that conforms to the
// Message interface.
func NewMsgVerAck() *MsgVerAck {
	return &MsgVerAck{}
}
