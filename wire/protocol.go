// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ProtocolVersion is the latest protocol version this package supports.
	ProtocolVersion int32 = 70015

	// ExtendedVersionFieldsVersion is the protocol version which added the
	// sender address, nonce, user agent and start height to the version
	// message.
	ExtendedVersionFieldsVersion int32 = 106

	// BIP0037Version is the protocol version which added the relay flag to
	// the version message.
	BIP0037Version int32 = 70001
)

// ServiceFlag identifies services supported by a peer.
type ServiceFlag uint64

const (
	// SFNodeNetwork is a flag used to indicate a peer is a full node.
	SFNodeNetwork ServiceFlag = 1 << iota

	// SFNodeGetUTXO is a flag used to indicate a peer supports the
	// getutxos and utxos commands (BIP0064).
	SFNodeGetUTXO

	// SFNodeBloom is a flag used to indicate a peer supports bloom
	// filtering.
	SFNodeBloom

	// SFNodeWitness is a flag used to indicate a peer supports blocks
	// and transactions including witness data (BIP0144).
	SFNodeWitness

	// SFNodeXthin is a flag used to indicate a peer supports xthin blocks.
	SFNodeXthin

	// sfNodeBit5 is not assigned to any service.
	sfNodeBit5

	// SFNodeCF is a flag used to indicate a peer supports committed
	// filters (CFs).
	SFNodeCF
)

// SFNodeNetworkLimited is a flag used to indicate a peer only serves the
// last 288 blocks (BIP0159).
const SFNodeNetworkLimited ServiceFlag = 1 << 10

// orderedSFStrings is an ordered list of service flags from lowest to
// highest bit.
var orderedSFStrings = []ServiceFlag{
	SFNodeNetwork,
	SFNodeGetUTXO,
	SFNodeBloom,
	SFNodeWitness,
	SFNodeXthin,
	SFNodeCF,
	SFNodeNetworkLimited,
}

// Map of service flags back to their constant names for pretty printing.
var sfStrings = map[ServiceFlag]string{
	SFNodeNetwork:        "SFNodeNetwork",
	SFNodeGetUTXO:        "SFNodeGetUTXO",
	SFNodeBloom:          "SFNodeBloom",
	SFNodeWitness:        "SFNodeWitness",
	SFNodeXthin:          "SFNodeXthin",
	SFNodeCF:             "SFNodeCF",
	SFNodeNetworkLimited: "SFNodeNetworkLimited",
}

// NewServiceFlag combines the passed flags into a single bitmask.
func NewServiceFlag(flags ...ServiceFlag) ServiceFlag {
	var combined ServiceFlag
	for _, flag := range flags {
		combined |= flag
	}
	return combined
}

// HasService returns whether every bit of service is set in f.
func (f ServiceFlag) HasService(service ServiceFlag) bool {
	return f&service == service
}

// Enabled lists the named services set in f, in bit order. Bits without a
// name are kept in the bitmask but never listed.
func (f ServiceFlag) Enabled() []ServiceFlag {
	var enabled []ServiceFlag
	for _, flag := range orderedSFStrings {
		if f&flag == flag {
			enabled = append(enabled, flag)
		}
	}
	return enabled
}

// String returns the ServiceFlag in human-readable form.
func (f ServiceFlag) String() string {
	// No flags are set.
	if f == 0 {
		return "0x0"
	}

	// Add individual bit flags.
	s := ""
	for _, flag := range orderedSFStrings {
		if f&flag == flag {
			s += sfStrings[flag] + "|"
			f -= flag
		}
	}

	// Add any remaining flags which aren't accounted for as hex.
	s = strings.TrimRight(s, "|")
	if f != 0 {
		s += "|0x" + strconv.FormatUint(uint64(f), 16)
	}
	s = strings.TrimLeft(s, "|")
	return s
}

// BitcoinNet represents which network a message belongs to.
type BitcoinNet uint32

// Constants used to indicate the message network. They can also be used to
// seek to the next message when a stream's state is unknown, but this package
// does not provide that functionality since it's generally a better idea to
// simply disconnect clients that are misbehaving over TCP.
const (
	// MainNet represents the main network.
	MainNet BitcoinNet = 0xd9b4bef9

	// TestNet represents the regression test network.
	TestNet BitcoinNet = 0xdab5bffa

	// TestNet3 represents the test network (version 3).
	TestNet3 BitcoinNet = 0x0709110b

	// SigNet represents the public default signet network.
	SigNet BitcoinNet = 0x40cf030a

	// NamecoinNet represents the namecoin main network.
	NamecoinNet BitcoinNet = 0xfeb4bef9
)

// bnStrings is a map of networks back to their constant names for pretty
// printing.
var bnStrings = map[BitcoinNet]string{
	MainNet:     "MainNet",
	TestNet:     "TestNet",
	TestNet3:    "TestNet3",
	SigNet:      "SigNet",
	NamecoinNet: "NamecoinNet",
}

// defaultPorts holds the well known listening port for each network.
var defaultPorts = map[BitcoinNet]uint16{
	MainNet:     8333,
	TestNet:     18444,
	TestNet3:    18333,
	SigNet:      38333,
	NamecoinNet: 8334,
}

// ParseBitcoinNet returns the network identified by magic. Unknown values are
// an error and never fall back to a default network.
func ParseBitcoinNet(magic uint32) (BitcoinNet, error) {
	net := BitcoinNet(magic)
	if _, ok := bnStrings[net]; !ok {
		return 0, invalidBytes("unknown network identifier 0x%08x", magic)
	}
	return net, nil
}

// DefaultPort returns the well known peer-to-peer port of the network, or 0
// for an unknown network.
func (n BitcoinNet) DefaultPort() uint16 {
	return defaultPorts[n]
}

// String returns the BitcoinNet in human-readable form.
func (n BitcoinNet) String() string {
	if s, ok := bnStrings[n]; ok {
		return s
	}

	return fmt.Sprintf("Unknown BitcoinNet (%d)", uint32(n))
}
