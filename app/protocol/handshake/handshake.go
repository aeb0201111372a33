package handshake

import (
	"context"
	"net"

	"github.com/btcshake/btcshake/app/protocol/protocolerrors"
	"github.com/btcshake/btcshake/infrastructure/logger"
	"github.com/btcshake/btcshake/infrastructure/network/netadapter"
	"github.com/btcshake/btcshake/wire"
	"github.com/pkg/errors"
)

// NodeConfig is the identity a node announces in its version message.
type NodeConfig struct {
	// Protocol version used by the node.
	ProtocolVersion int32

	// Services enabled for the connection.
	Services wire.ServiceFlag

	// User agent of the node.
	UserAgent string

	// Last block received by the node.
	StartHeight int32

	// Whether the remote peer should announce relayed transactions.
	Relay bool
}

// Node performs handshakes with peers on a single network using a fixed local
// configuration. It holds no per-handshake state, so one Node may run any
// number of handshakes concurrently.
type Node struct {
	config NodeConfig
	btcnet wire.BitcoinNet
	dial   netadapter.DialFunc
}

// New returns a Node announcing config on network btcnet and connecting to
// peers with dial.
func New(config NodeConfig, btcnet wire.BitcoinNet, dial netadapter.DialFunc) *Node {
	return &Node{
		config: config,
		btcnet: btcnet,
		dial:   dial,
	}
}

// Config returns the local configuration announced to peers.
func (n *Node) Config() NodeConfig {
	return n.config
}

// Network returns the network the node handshakes on.
func (n *Node) Network() wire.BitcoinNet {
	return n.btcnet
}

type state int

const (
	stateConnecting state = iota
	stateVersionSent
	stateDone
)

var stateStrings = map[state]string{
	stateConnecting:  "Connecting",
	stateVersionSent: "VersionSent",
	stateDone:        "Done",
}

func (s state) String() string {
	return stateStrings[s]
}

// handshakeFlow holds the state of one handshake attempt. It is owned by the
// goroutine running Handshake.
type handshakeFlow struct {
	*Node
	connection *netadapter.NetConnection
	state      state

	versionNonce uint64
	peer         *NodeConfig

	pingNonce uint64
	pingSent  bool
}

// Handshake connects to address and exchanges version, verack, ping and pong
// messages with the peer. On success it returns the configuration the peer
// declared in its version message.
//
// Failures attributable to the connection or the peer are
// *protocolerrors.ConnectionError values. If ctx expires first the error is
// protocolerrors.ErrHandshakeTimeout, and if ctx is canceled it is
// protocolerrors.ErrHandshakeCanceled. The socket is always closed on return
// and no attempt is ever retried.
func (n *Node) Handshake(ctx context.Context, address string) (*NodeConfig, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "Handshake with "+address)
	defer onEnd()

	log.Infof("Performing a handshake with %s", address)

	flow := &handshakeFlow{
		Node:  n,
		state: stateConnecting,
	}
	peer, err := flow.start(ctx, address)
	if err != nil {
		return nil, contextError(ctx, err, address)
	}
	return peer, nil
}

func (flow *handshakeFlow) start(ctx context.Context, address string) (*NodeConfig, error) {
	connection, err := netadapter.Dial(ctx, flow.dial, address, flow.btcnet)
	if err != nil {
		return nil, err
	}
	flow.connection = connection
	defer connection.Close()

	if deadline, ok := ctx.Deadline(); ok {
		err := connection.SetDeadline(deadline)
		if err != nil {
			return nil, protocolerrors.Wrap(protocolerrors.IOError, err, "setting deadline")
		}
	}

	// Closing the connection unblocks any pending read or write once ctx is
	// done.
	stop := make(chan struct{})
	defer close(stop)
	spawn("handshakeFlow-closeOnDone", func() {
		select {
		case <-ctx.Done():
			connection.Close()
		case <-stop:
		}
	})

	err = flow.sendVersion()
	if err != nil {
		return nil, err
	}
	flow.setState(stateVersionSent)

	for flow.state != stateDone {
		message, err := connection.Receive()
		if err != nil {
			return nil, err
		}
		err = flow.handleMessage(message)
		if err != nil {
			return nil, err
		}
	}

	log.Infof("Handshake with %s completed: %s", address, flow.peer.UserAgent)
	return flow.peer, nil
}

// handleMessage dispatches message by its command.
func (flow *handshakeFlow) handleMessage(message wire.Message) error {
	switch message := message.(type) {
	case *wire.MsgVersion:
		return flow.receiveVersion(message)
	case *wire.MsgVerAck:
		return flow.receiveVerAck()
	case *wire.MsgPing:
		return flow.receivePing(message)
	case *wire.MsgPong:
		return flow.receivePong(message)
	default:
		return protocolerrors.Errorf(protocolerrors.InvalidData,
			"unexpected %s message from %s", message.Command(), flow.connection)
	}
}

func (flow *handshakeFlow) setState(newState state) {
	log.Tracef("Handshake with %s: %s -> %s", flow.connection, flow.state, newState)
	flow.state = newState
}

// contextError replaces err with a timeout or cancellation error when the
// handshake failed because ctx ended, whatever the socket reported.
func contextError(ctx context.Context, err error, address string) error {
	ctxErr := ctx.Err()
	if ctxErr == nil {
		// The socket deadline is the context deadline, so it may fire a
		// moment before the context notices.
		var netErr net.Error
		_, hasDeadline := ctx.Deadline()
		if hasDeadline && errors.As(err, &netErr) && netErr.Timeout() {
			ctxErr = context.DeadlineExceeded
		}
	}

	switch {
	case ctxErr == nil:
		return err
	case errors.Is(ctxErr, context.DeadlineExceeded):
		log.Debugf("Handshake with %s timed out: %s", address, err)
		return errors.Wrapf(protocolerrors.ErrHandshakeTimeout, "handshake with %s", address)
	default:
		log.Debugf("Handshake with %s canceled: %s", address, err)
		return errors.Wrapf(protocolerrors.ErrHandshakeCanceled, "handshake with %s", address)
	}
}
