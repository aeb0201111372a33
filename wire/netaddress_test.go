// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"net"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

// TestNetAddress tests the NetAddress API.
func TestNetAddress(t *testing.T) {
	ip := net.ParseIP("127.0.0.1")
	port := 8333

	// Test NewNetAddress.
	na := NewNetAddress(&net.TCPAddr{IP: ip, Port: port}, 0)

	// Ensure we get the same ip, port, and services back out.
	if !na.IP.Equal(ip) {
		t.Errorf("NetNetAddress: wrong ip - got %v, want %v", na.IP, ip)
	}
	if len(na.IP) != net.IPv6len {
		t.Errorf("NetNetAddress: ip is %d bytes, want %d", len(na.IP), net.IPv6len)
	}
	if na.Port != uint16(port) {
		t.Errorf("NetNetAddress: wrong port - got %v, want %v", na.Port,
			port)
	}
	if na.Services != 0 {
		t.Errorf("NetNetAddress: wrong services - got %v, want %v",
			na.Services, 0)
	}
	if na.HasService(SFNodeNetwork) {
		t.Errorf("HasService: SFNodeNetwork service is set")
	}
	if na.String() != "127.0.0.1:8333" {
		t.Errorf("String: got %s, want 127.0.0.1:8333", na)
	}

	// Ensure adding the full service node flag works.
	na.AddService(SFNodeNetwork)
	if na.Services != SFNodeNetwork {
		t.Errorf("AddService: wrong services - got %v, want %v",
			na.Services, SFNodeNetwork)
	}
	if !na.HasService(SFNodeNetwork) {
		t.Errorf("HasService: SFNodeNetwork service not set")
	}

	tcpAddr := na.TCPAddress()
	if !tcpAddr.IP.Equal(ip) || tcpAddr.Port != port {
		t.Errorf("TCPAddress: got %v, want %v:%d", tcpAddr, ip, port)
	}

	empty := NewEmptyNetAddress()
	if !empty.IsEmpty() {
		t.Errorf("IsEmpty: %v is not empty", spew.Sdump(empty))
	}
	if na.IsEmpty() {
		t.Errorf("IsEmpty: %v is empty", na)
	}
}

// TestNetAddressWire tests the NetAddress wire encode and decode.
func TestNetAddressWire(t *testing.T) {
	tests := []struct {
		name string
		in   *NetAddress
		buf  []byte
	}{
		{
			name: "ipv4",
			in:   NewNetAddressIPPort(net.ParseIP("127.0.0.1"), 8333, SFNodeNetwork),
			buf: []byte{
				0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // SFNodeNetwork
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0xff, 0xff, 0x7f, 0x00, 0x00, 0x01, // IP 127.0.0.1
				0x20, 0x8d, // Port 8333 in big-endian
			},
		},
		{
			name: "ipv6",
			in: NewNetAddressIPPort(net.ParseIP("2001:db8::1"), 18333,
				SFNodeNetwork|SFNodeWitness),
			buf: []byte{
				0x09, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x20, 0x01, 0x0d, 0xb8, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
				0x47, 0x9d, // Port 18333 in big-endian
			},
		},
		{
			name: "empty",
			in:   NewEmptyNetAddress(),
			buf:  make([]byte, NetAddressSize),
		},
	}

	t.Logf("Running %d tests", len(tests))
	for _, test := range tests {
		// Encode to wire format.
		got := test.in.Encode()
		if !bytes.Equal(got, test.buf) {
			t.Errorf("Encode %s\n got: %s want: %s", test.name,
				spew.Sdump(got), spew.Sdump(test.buf))
			continue
		}

		// Decode the message from wire format.
		var na NetAddress
		err := na.Decode(NewByteCursor(test.buf))
		if err != nil {
			t.Errorf("Decode %s error %v", test.name, err)
			continue
		}
		if !reflect.DeepEqual(&na, test.in) {
			t.Errorf("Decode %s\n got: %s want: %s", test.name,
				spew.Sdump(na), spew.Sdump(test.in))
			continue
		}
	}

	// A nil IP encodes as sixteen zero bytes.
	nilIP := &NetAddress{Port: 1}
	if got := nilIP.Encode(); !bytes.Equal(got[8:24], make([]byte, 16)) {
		t.Errorf("Encode nil IP: got %x", got[8:24])
	}
}

// TestNetAddressDecodeErrors ensures a short buffer leaves the cursor intact.
func TestNetAddressDecodeErrors(t *testing.T) {
	buf := NewNetAddressIPPort(net.ParseIP("10.0.0.1"), 8333, SFNodeNetwork).Encode()
	for i := 0; i < len(buf); i++ {
		c := NewByteCursor(buf[:i])
		var na NetAddress
		err := na.Decode(c)
		if !errors.Is(err, ErrInsufficientBytes) {
			t.Errorf("Decode of %d bytes: got %v, want %v", i, err,
				ErrInsufficientBytes)
		}
		if c.Len() != i {
			t.Errorf("Decode of %d bytes: cursor moved to %d", i, c.Len())
		}
	}
}
