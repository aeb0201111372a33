package handshake

import (
	"github.com/btcshake/btcshake/wire"
	"github.com/pkg/errors"
)

// receiveVerAck checks the peer's liveness with a ping once it acknowledged
// our version. A repeated verack does not trigger another ping.
func (flow *handshakeFlow) receiveVerAck() error {
	if flow.pingSent {
		log.Debugf("Ignoring duplicate verack from %s", flow.connection)
		return nil
	}

	pingMessage, err := wire.NewMsgPing()
	if err != nil {
		return errors.Wrap(err, "generating ping nonce")
	}
	err = flow.connection.Send(pingMessage)
	if err != nil {
		return err
	}
	flow.pingNonce = pingMessage.Nonce
	flow.pingSent = true
	return nil
}

// receivePing echoes the nonce of the peer's ping.
func (flow *handshakeFlow) receivePing(pingMessage *wire.MsgPing) error {
	return flow.connection.Send(wire.NewMsgPong(pingMessage.Nonce))
}

// receivePong completes the handshake on the first pong that follows our
// ping. A pong is ignored while no ping was sent or while the peer's version
// is still unknown, since there is nothing to report yet.
func (flow *handshakeFlow) receivePong(pongMessage *wire.MsgPong) error {
	switch {
	case !flow.pingSent:
		log.Debugf("Ignoring unsolicited pong from %s", flow.connection)
		return nil
	case flow.peer == nil:
		log.Debugf("Ignoring pong from %s received before its version", flow.connection)
		return nil
	}

	if pongMessage.Nonce != flow.pingNonce {
		log.Debugf("Pong from %s has nonce %d, but the ping nonce was %d",
			flow.connection, pongMessage.Nonce, flow.pingNonce)
	}
	flow.setState(stateDone)
	return nil
}
