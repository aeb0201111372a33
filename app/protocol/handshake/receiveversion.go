package handshake

import (
	"github.com/btcshake/btcshake/app/protocol/protocolerrors"
	"github.com/btcshake/btcshake/wire"
)

// receiveVersion records the configuration the peer declared and
// acknowledges it with a verack.
func (flow *handshakeFlow) receiveVersion(msgVersion *wire.MsgVersion) error {
	if flow.peer != nil {
		return protocolerrors.Errorf(protocolerrors.InvalidData,
			"duplicate version message from %s", flow.connection)
	}

	if msgVersion.Nonce == flow.versionNonce {
		return protocolerrors.Errorf(protocolerrors.InvalidData,
			"connected to self at %s", flow.connection)
	}

	flow.peer = &NodeConfig{
		ProtocolVersion: msgVersion.ProtocolVersion,
		Services:        msgVersion.Services,
		UserAgent:       msgVersion.UserAgent,
		StartHeight:     msgVersion.LastBlock,
		Relay:           msgVersion.Relay,
	}
	log.Debugf("Peer %s runs %s with protocol version %d, services %s and "+
		"start height %d", flow.connection, msgVersion.UserAgent,
		msgVersion.ProtocolVersion, msgVersion.Services, msgVersion.LastBlock)

	return flow.connection.Send(wire.NewMsgVerAck())
}
