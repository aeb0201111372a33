// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"net"
	"strconv"
)

// NetAddressSize is the encoded size of a NetAddress inside a version
// message: services 8 bytes + ip 16 bytes + port 2 bytes.
const NetAddressSize = 26

// NetAddress defines information about a peer on the network including the
// services it supports, its IP address, and port.
type NetAddress struct {
	// Bitfield which identifies the services supported by the address.
	Services ServiceFlag

	// IP address of the peer. Always 16 bytes long; IPv4 addresses are
	// kept in their IPv4-mapped IPv6 form.
	IP net.IP

	// Port the peer is using. This is encoded in big endian on the wire
	// which differs from most everything else.
	Port uint16
}

// HasService returns whether the specified service is supported by the address.
func (na *NetAddress) HasService(service ServiceFlag) bool {
	return na.Services.HasService(service)
}

// AddService adds service as a supported service by the peer generating the
// message.
func (na *NetAddress) AddService(service ServiceFlag) {
	na.Services |= service
}

// IsEmpty returns whether the address is the all-zero placeholder used when
// the sending node does not know or does not disclose its own address.
func (na *NetAddress) IsEmpty() bool {
	return na.Services == 0 && na.Port == 0 && (na.IP == nil || na.IP.Equal(net.IPv6zero))
}

// TCPAddress converts the NetAddress to *net.TCPAddr
func (na *NetAddress) TCPAddress() *net.TCPAddr {
	return &net.TCPAddr{
		IP:   na.IP,
		Port: int(na.Port),
	}
}

// String returns the address in host:port form.
func (na *NetAddress) String() string {
	return net.JoinHostPort(na.IP.String(), strconv.Itoa(int(na.Port)))
}

// NewNetAddressIPPort returns a new NetAddress using the provided IP, port, and
// supported services.
func NewNetAddressIPPort(ip net.IP, port uint16, services ServiceFlag) *NetAddress {
	normalized := make(net.IP, net.IPv6len)
	if ip16 := ip.To16(); ip16 != nil {
		copy(normalized, ip16)
	}
	return &NetAddress{
		Services: services,
		IP:       normalized,
		Port:     port,
	}
}

// NewNetAddress returns a new NetAddress using the provided TCP address and
// supported services.
func NewNetAddress(addr *net.TCPAddr, services ServiceFlag) *NetAddress {
	return NewNetAddressIPPort(addr.IP, uint16(addr.Port), services)
}

// NewEmptyNetAddress returns the all-zero placeholder address.
func NewEmptyNetAddress() *NetAddress {
	return NewNetAddressIPPort(nil, 0, 0)
}

// Encode serializes the address as services (LE) | ip (16 bytes) | port (BE).
func (na *NetAddress) Encode() []byte {
	w := newByteWriter(NetAddressSize)
	writeNetAddress(w, na)
	return w.bytes()
}

// Decode reads an encoded NetAddress from c into the receiver.
func (na *NetAddress) Decode(c *ByteCursor) error {
	// Check the whole structure up front so a short read never leaves the
	// cursor in the middle of an address.
	if c.Len() < NetAddressSize {
		return insufficientBytes(fmt.Sprintf("network address (%d of %d bytes)",
			c.Len(), NetAddressSize))
	}

	services, _ := c.ReadUint64LE()
	ip := make(net.IP, net.IPv6len)
	c.ReadFixed(ip)
	port, _ := c.ReadUint16BE()

	*na = NetAddress{
		Services: ServiceFlag(services),
		IP:       ip,
		Port:     port,
	}
	return nil
}

func writeNetAddress(w *byteWriter, na *NetAddress) {
	w.writeUint64LE(uint64(na.Services))

	// Ensure to always write 16 bytes even if the ip is nil.
	var ip [net.IPv6len]byte
	if na.IP != nil {
		copy(ip[:], na.IP.To16())
	}
	w.writeBytes(ip[:])
	w.writeUint16BE(na.Port)
}
