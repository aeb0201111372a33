package handshake

import (
	"net"
	"strconv"

	"github.com/btcshake/btcshake/util/random"
	"github.com/btcshake/btcshake/wire"
	"github.com/pkg/errors"
)

// sendVersion announces the local node configuration to the peer. The nonce
// of the message is kept to detect connections to ourselves.
func (flow *handshakeFlow) sendVersion() error {
	nonce, err := random.Uint64()
	if err != nil {
		return errors.Wrap(err, "generating version nonce")
	}
	flow.versionNonce = nonce

	me := localNetAddress(flow.connection.LocalAddr(), flow.config.Services)
	you := remoteNetAddress(flow.connection.Address())
	msg := wire.NewMsgVersion(me, you, nonce, flow.config.StartHeight)

	// Advertise the configured protocol version, services and user agent.
	msg.ProtocolVersion = flow.config.ProtocolVersion
	msg.Services = flow.config.Services
	msg.UserAgent = flow.config.UserAgent

	// Advertise if inv messages for transactions are desired.
	msg.Relay = flow.config.Relay

	return flow.connection.Send(msg)
}

// localNetAddress returns the address of our end of the connection, or the
// empty address when it is not a TCP address, as happens through a proxy.
func localNetAddress(addr net.Addr, services wire.ServiceFlag) *wire.NetAddress {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return wire.NewNetAddressIPPort(nil, 0, services)
	}
	return wire.NewNetAddress(tcpAddr, services)
}

// remoteNetAddress returns the address of the peer as dialed. The peer's
// services are not known before its version message arrives, and host names
// are announced as the unspecified address.
func remoteNetAddress(address string) *wire.NetAddress {
	host, portString, err := net.SplitHostPort(address)
	if err != nil {
		return wire.NewEmptyNetAddress()
	}
	port, err := strconv.ParseUint(portString, 10, 16)
	if err != nil {
		return wire.NewEmptyNetAddress()
	}
	return wire.NewNetAddressIPPort(net.ParseIP(host), uint16(port), 0)
}
