// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// MaxUserAgentLen is the maximum allowed length for the user agent field in a
// version message. The length prefix is a single byte.
const MaxUserAgentLen = 255

// minVersionPayload is the size of the fields every version message carries:
// version 4 bytes + services 8 bytes + timestamp 8 bytes + receiver address.
const minVersionPayload = 20 + NetAddressSize

// MsgVersion implements the Message interface and represents a version
// message. It is used for a peer to advertise itself as soon as an outbound
// connection is made. The remote peer then uses this information along with
// its own to negotiate. The remote peer must then respond with a version
// message of its own containing the negotiated values followed by a verack
// message.
//
// Which fields are present on the wire depends on ProtocolVersion. All fields
// always exist in memory; the ones a peer did not transmit hold zero values.
type MsgVersion struct {
	// Version of the protocol the node is using.
	ProtocolVersion int32

	// Bitfield which identifies the enabled services.
	Services ServiceFlag

	// Time the message was generated. This is encoded as an int64 on the wire.
	Timestamp time.Time

	// Address of the remote peer.
	AddrYou NetAddress

	// Address of the local peer. Only present from protocol version 106.
	AddrMe NetAddress

	// Unique value associated with message that is used to detect self
	// connections. Encoded in big endian, unlike the other integers.
	Nonce uint64

	// The user agent that generated message. This is encoded as a single
	// length byte followed by at most MaxUserAgentLen bytes of UTF-8.
	UserAgent string

	// Last block seen by the generator of the version message.
	LastBlock int32

	// Announce transactions to peer. Only present from BIP0037Version.
	Relay bool
}

// HasService returns whether the specified service is supported by the peer
// that generated the message.
func (msg *MsgVersion) HasService(service ServiceFlag) bool {
	return msg.Services.HasService(service)
}

// AddService adds service as a supported service by the peer generating the
// message.
func (msg *MsgVersion) AddService(service ServiceFlag) {
	msg.Services |= service
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgVersion) Command() Command {
	return CmdVersion
}

// Encode serializes the receiver, writing only the fields its protocol
// version carries. This is part of the Message interface implementation.
func (msg *MsgVersion) Encode() []byte {
	w := newByteWriter(msg.payloadLength())
	w.writeUint32LE(uint32(msg.ProtocolVersion))
	w.writeUint64LE(uint64(msg.Services))
	w.writeUint64LE(uint64(msg.Timestamp.Unix()))
	writeNetAddress(w, &msg.AddrYou)

	if msg.ProtocolVersion < ExtendedVersionFieldsVersion {
		return w.bytes()
	}

	writeNetAddress(w, &msg.AddrMe)
	w.writeUint64BE(msg.Nonce)
	userAgent := truncatedUserAgent(msg.UserAgent)
	w.writeUint8(uint8(len(userAgent)))
	w.writeBytes([]byte(userAgent))
	w.writeUint32LE(uint32(msg.LastBlock))

	if msg.ProtocolVersion < BIP0037Version {
		return w.bytes()
	}

	w.writeBool(msg.Relay)
	return w.bytes()
}

// Decode reads the protocol version first and then exactly the fields that
// version carries. This is part of the Message interface implementation.
func (msg *MsgVersion) Decode(c *ByteCursor) error {
	version, ok := c.ReadInt32LE()
	if !ok {
		return insufficientBytes("version protocol version")
	}
	services, ok := c.ReadUint64LE()
	if !ok {
		return insufficientBytes("version services")
	}
	timestamp, ok := c.ReadInt64LE()
	if !ok {
		return insufficientBytes("version timestamp")
	}
	var addrYou NetAddress
	err := addrYou.Decode(c)
	if err != nil {
		return errors.Wrap(err, "version receiver address")
	}

	*msg = MsgVersion{
		ProtocolVersion: version,
		Services:        ServiceFlag(services),
		Timestamp:       time.Unix(timestamp, 0),
		AddrYou:         addrYou,
		AddrMe:          *NewEmptyNetAddress(),
	}

	if version < ExtendedVersionFieldsVersion {
		return nil
	}

	err = msg.AddrMe.Decode(c)
	if err != nil {
		return errors.Wrap(err, "version sender address")
	}
	msg.Nonce, ok = c.ReadUint64BE()
	if !ok {
		return insufficientBytes("version nonce")
	}
	userAgentLen, ok := c.ReadUint8()
	if !ok {
		return insufficientBytes("version user agent length")
	}
	userAgent, ok := c.ReadSlice(int(userAgentLen))
	if !ok {
		return insufficientBytes(fmt.Sprintf("version user agent (%d bytes)", userAgentLen))
	}
	if !utf8.Valid(userAgent) {
		return invalidBytes("version user agent is not valid UTF-8")
	}
	msg.UserAgent = string(userAgent)
	msg.LastBlock, ok = c.ReadInt32LE()
	if !ok {
		return insufficientBytes("version start height")
	}

	if version < BIP0037Version {
		return nil
	}

	relay, ok := c.ReadUint8()
	if !ok {
		return insufficientBytes("version relay flag")
	}
	msg.Relay = relay != 0x00
	return nil
}

// payloadLength returns the exact number of bytes Encode produces.
func (msg *MsgVersion) payloadLength() int {
	length := minVersionPayload
	if msg.ProtocolVersion < ExtendedVersionFieldsVersion {
		return length
	}
	// Sender address + nonce 8 bytes + user agent length byte + user agent +
	// start height 4 bytes.
	length += NetAddressSize + 8 + 1 + len(truncatedUserAgent(msg.UserAgent)) + 4
	if msg.ProtocolVersion >= BIP0037Version {
		length++
	}
	return length
}

// truncatedUserAgent keeps the encoded user agent within the range a single
// length byte can describe. The cut never splits a UTF-8 sequence.
func truncatedUserAgent(userAgent string) string {
	if len(userAgent) <= MaxUserAgentLen {
		return userAgent
	}
	end := MaxUserAgentLen
	for end > 0 && !utf8.RuneStart(userAgent[end]) {
		end--
	}
	return userAgent[:end]
}

// NewMsgVersion returns a new version message that conforms to the Message
// interface using the passed parameters and defaults for the remaining
// fields.
func NewMsgVersion(me *NetAddress, you *NetAddress, nonce uint64,
	lastBlock int32) *MsgVersion {

	// Limit the timestamp to one second precision since the protocol
	// doesn't support better.
	return &MsgVersion{
		ProtocolVersion: ProtocolVersion,
		Services:        0,
		Timestamp:       time.Unix(time.Now().Unix(), 0),
		AddrYou:         *you,
		AddrMe:          *me,
		Nonce:           nonce,
		UserAgent:       "",
		LastBlock:       lastBlock,
		Relay:           false,
	}
}

// validateUserAgent checks userAgent length against MaxUserAgentLen
func validateUserAgent(userAgent string) error {
	if len(userAgent) > MaxUserAgentLen {
		return invalidBytes("user agent too long [len %v, max %v]",
			len(userAgent), MaxUserAgentLen)
	}
	return nil
}

// AddUserAgent adds a user agent to the user agent string for the version
// message. The version string is not defined to any strict format, although
// it is recommended to use the form "major.minor.revision" e.g. "2.6.41".
func (msg *MsgVersion) AddUserAgent(name string, version string,
	comments ...string) error {

	newUserAgent := fmt.Sprintf("%s:%s", name, version)
	if len(comments) != 0 {
		newUserAgent = fmt.Sprintf("%s(%s)", newUserAgent,
			strings.Join(comments, "; "))
	}
	if msg.UserAgent == "" {
		msg.UserAgent = "/"
	}
	newUserAgent = fmt.Sprintf("%s%s/", msg.UserAgent, newUserAgent)
	err := validateUserAgent(newUserAgent)
	if err != nil {
		return err
	}
	msg.UserAgent = newUserAgent
	return nil
}

// FormatUserAgent returns the BIP0014 user agent "/name:version(comments)/".
func FormatUserAgent(name string, version string, comments ...string) (string, error) {
	msg := MsgVersion{}
	err := msg.AddUserAgent(name, version, comments...)
	if err != nil {
		return "", err
	}
	return msg.UserAgent, nil
}
