// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

// TestServiceFlagStringer tests the stringized output for service flag types.
func TestServiceFlagStringer(t *testing.T) {
	tests := []struct {
		in   ServiceFlag
		want string
	}{
		{0, "0x0"},
		{SFNodeNetwork, "SFNodeNetwork"},
		{SFNodeGetUTXO, "SFNodeGetUTXO"},
		{SFNodeBloom, "SFNodeBloom"},
		{SFNodeWitness, "SFNodeWitness"},
		{SFNodeXthin, "SFNodeXthin"},
		{SFNodeCF, "SFNodeCF"},
		{SFNodeNetworkLimited, "SFNodeNetworkLimited"},
		{0xffffffff, "SFNodeNetwork|SFNodeGetUTXO|SFNodeBloom|SFNodeWitness|SFNodeXthin|" +
			"SFNodeCF|SFNodeNetworkLimited|0xfffffba0"},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		result := test.in.String()
		if result != test.want {
			t.Errorf("String #%d\n got: %s want: %s", i, result,
				test.want)
			continue
		}
	}
}

// TestServiceFlagEnabled ensures only named bits are listed while unknown
// bits survive in the mask.
func TestServiceFlagEnabled(t *testing.T) {
	services := NewServiceFlag(SFNodeNetwork, SFNodeWitness)
	if services != 0x09 {
		t.Errorf("NewServiceFlag: got %#x, want 0x9", uint64(services))
	}
	want := []ServiceFlag{SFNodeNetwork, SFNodeWitness}
	if got := services.Enabled(); !reflect.DeepEqual(got, want) {
		t.Errorf("Enabled: got %v, want %v", got, want)
	}

	services = NewServiceFlag(SFNodeNetwork, SFNodeWitness, SFNodeCF, SFNodeNetworkLimited)
	if services != 0x449 {
		t.Errorf("NewServiceFlag: got %#x, want 0x449", uint64(services))
	}

	withUnknown := services | 1<<5 | 1<<40
	want = []ServiceFlag{SFNodeNetwork, SFNodeWitness, SFNodeCF, SFNodeNetworkLimited}
	if got := withUnknown.Enabled(); !reflect.DeepEqual(got, want) {
		t.Errorf("Enabled with unknown bits: got %v, want %v", got, want)
	}
	if !withUnknown.HasService(SFNodeCF) || withUnknown.HasService(SFNodeBloom) {
		t.Errorf("HasService: wrong result for %v", withUnknown)
	}

	addr := NewNetAddressIPPort(nil, 0, withUnknown)
	var decoded NetAddress
	if err := decoded.Decode(NewByteCursor(addr.Encode())); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Services != withUnknown {
		t.Errorf("unknown service bits were not preserved - got %#x, want %#x",
			uint64(decoded.Services), uint64(withUnknown))
	}
}

// TestBitcoinNet tests network parsing and stringized output.
func TestBitcoinNet(t *testing.T) {
	tests := []struct {
		magic uint32
		want  BitcoinNet
		str   string
		port  uint16
	}{
		{0xd9b4bef9, MainNet, "MainNet", 8333},
		{0xdab5bffa, TestNet, "TestNet", 18444},
		{0x0709110b, TestNet3, "TestNet3", 18333},
		{0x40cf030a, SigNet, "SigNet", 38333},
		{0xfeb4bef9, NamecoinNet, "NamecoinNet", 8334},
	}

	for _, test := range tests {
		net, err := ParseBitcoinNet(test.magic)
		if err != nil {
			t.Errorf("ParseBitcoinNet(%#x): unexpected error %v", test.magic, err)
			continue
		}
		if net != test.want {
			t.Errorf("ParseBitcoinNet(%#x): got %v, want %v", test.magic, net, test.want)
		}
		if net.String() != test.str {
			t.Errorf("String: got %s, want %s", net, test.str)
		}
		if net.DefaultPort() != test.port {
			t.Errorf("DefaultPort %s: got %d, want %d", net, net.DefaultPort(), test.port)
		}
	}

	_, err := ParseBitcoinNet(0xffffffff)
	if !errors.Is(err, ErrInvalidBytes) {
		t.Errorf("ParseBitcoinNet: got %v, want %v", err, ErrInvalidBytes)
	}
	if s := BitcoinNet(0xffffffff).String(); s != "Unknown BitcoinNet (4294967295)" {
		t.Errorf("String: got %s", s)
	}
}
