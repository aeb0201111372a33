package netadapter

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/btcshake/btcshake/app/protocol/protocolerrors"
	"github.com/btcshake/btcshake/infrastructure/logger"
	"github.com/btcshake/btcshake/wire"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

// ReadBufferSize is the maximum number of bytes requested from the socket in
// a single read.
const ReadBufferSize = 1024

// DialFunc connects to address over network, giving up after timeout. A zero
// timeout means no timeout. net.DialTimeout and (*socks.Proxy).DialTimeout
// both satisfy it.
type DialFunc func(network, address string, timeout time.Duration) (net.Conn, error)

// NetConnection is a connection to a single peer that sends and receives
// whole protocol frames.
//
// Frames are not assumed to arrive in a single read: received bytes are
// accumulated until a whole frame is buffered, and a single read may yield
// several frames.
type NetConnection struct {
	conn    net.Conn
	address string
	btcnet  wire.BitcoinNet

	pending []byte
	readBuf [ReadBufferSize]byte

	bytesSent     uint64
	bytesReceived uint64
}

// NewNetConnection wraps an established connection to a peer on network
// btcnet.
func NewNetConnection(conn net.Conn, btcnet wire.BitcoinNet) *NetConnection {
	return &NetConnection{
		conn:    conn,
		address: conn.RemoteAddr().String(),
		btcnet:  btcnet,
	}
}

// Dial connects to address using dial. The connect timeout is taken from the
// deadline of ctx, if any. Any failure to connect is a
// protocolerrors.ConnectionRefused error.
func Dial(ctx context.Context, dial DialFunc, address string,
	btcnet wire.BitcoinNet) (*NetConnection, error) {

	var timeout time.Duration
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, errors.WithStack(context.DeadlineExceeded)
		}
	}

	log.Debugf("Connecting to %s", address)
	conn, err := dial("tcp", address, timeout)
	if err != nil {
		return nil, protocolerrors.Wrapf(protocolerrors.ConnectionRefused, err,
			"connecting to %s", address)
	}
	log.Debugf("Connected to %s (local address %s)", address, conn.LocalAddr())

	netConnection := NewNetConnection(conn, btcnet)
	netConnection.address = address
	return netConnection, nil
}

func (c *NetConnection) String() string {
	return c.address
}

// Address returns the address the connection was made to.
func (c *NetConnection) Address() string {
	return c.address
}

// LocalAddr returns the local end of the connection.
func (c *NetConnection) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr returns the remote end of the connection.
func (c *NetConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Network returns the network whose frames the connection accepts.
func (c *NetConnection) Network() wire.BitcoinNet {
	return c.btcnet
}

// BytesSent returns the total number of bytes written to the peer.
func (c *NetConnection) BytesSent() uint64 {
	return atomic.LoadUint64(&c.bytesSent)
}

// BytesReceived returns the total number of bytes read from the peer.
func (c *NetConnection) BytesReceived() uint64 {
	return atomic.LoadUint64(&c.bytesReceived)
}

// SetDeadline sets the read and write deadline of the underlying socket.
func (c *NetConnection) SetDeadline(t time.Time) error {
	return c.conn.SetDeadline(t)
}

// Close closes the underlying socket. It is safe to call from any goroutine,
// and any blocked Send or Receive returns.
func (c *NetConnection) Close() error {
	return c.conn.Close()
}

// Send composes a frame for msg and writes it to the peer. Write failures are
// protocolerrors.IOError errors.
func (c *NetConnection) Send(msg wire.Message) error {
	frame := wire.Compose(c.btcnet, msg)

	// Use closures to log expensive operations so they are only run when
	// the logging level requires it.
	log.Debugf("%s", logger.NewLogClosure(func() string {
		return fmt.Sprintf("Sending %s%s to %s", msg.Command(),
			summaryString(msg), c)
	}))
	log.Tracef("%s", logger.NewLogClosure(func() string {
		return spew.Sdump(msg)
	}))
	log.Tracef("%s", logger.NewLogClosure(func() string {
		return spew.Sdump(frame)
	}))

	n, err := c.conn.Write(frame)
	atomic.AddUint64(&c.bytesSent, uint64(n))
	if err != nil {
		return protocolerrors.Wrapf(protocolerrors.IOError, err,
			"sending %s to %s", msg.Command(), c)
	}
	return nil
}

// Receive returns the next message from the peer, reading from the socket as
// often as needed to buffer a whole frame.
//
// Frames with an unknown command for the connection's network are skipped.
// A frame for any other network, an oversized frame, a checksum mismatch and a
// malformed payload are protocolerrors.InvalidData errors. A closed connection
// is a protocolerrors.ConnectionHangUp error and any other read failure is a
// protocolerrors.IOError error.
func (c *NetConnection) Receive() (wire.Message, error) {
	for {
		frame, n, err := wire.ReadFrame(c.pending)
		if err == nil {
			c.consume(n)
			if frame.Header.Net != c.btcnet {
				return nil, protocolerrors.Errorf(protocolerrors.InvalidData,
					"received %s message for %s from %s, expected %s",
					frame.Header.Command, frame.Header.Net, c, c.btcnet)
			}
			c.logReceived(frame.Message, n)
			return frame.Message, nil
		}

		var unknownErr *wire.UnknownCommandError
		switch {
		case errors.As(err, &unknownErr):
			if unknownErr.Net != c.btcnet {
				return nil, protocolerrors.Errorf(protocolerrors.InvalidData,
					"received unknown message for %s from %s, expected %s",
					unknownErr.Net, c, c.btcnet)
			}
			log.Debugf("Ignoring %s from %s", unknownErr, c)
			c.consume(unknownErr.FrameSize())

		case errors.Is(err, wire.ErrInsufficientBytes):
			err := c.read()
			if err != nil {
				return nil, err
			}

		default:
			return nil, protocolerrors.Wrapf(protocolerrors.InvalidData, err,
				"reading message from %s", c)
		}
	}
}

// read performs a single socket read of at most ReadBufferSize bytes and
// appends the result to the pending bytes.
func (c *NetConnection) read() error {
	n, err := c.conn.Read(c.readBuf[:])
	if n > 0 {
		atomic.AddUint64(&c.bytesReceived, uint64(n))
		c.pending = append(c.pending, c.readBuf[:n]...)
		log.Tracef("Read %d bytes from %s, %d bytes pending", n, c, len(c.pending))

		// Whatever went wrong will be reported again by the next read
		// if the bytes received so far do not complete a frame.
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return protocolerrors.Errorf(protocolerrors.ConnectionHangUp,
			"%s closed the connection", c)
	}
	return protocolerrors.Wrapf(protocolerrors.IOError, err, "reading from %s", c)
}

// consume drops the first n pending bytes. The remainder is copied to the
// front so the buffer does not grow without bound over a long exchange.
func (c *NetConnection) consume(n int) {
	remaining := copy(c.pending, c.pending[n:])
	c.pending = c.pending[:remaining]
}

func (c *NetConnection) logReceived(msg wire.Message, n int) {
	log.Debugf("%s", logger.NewLogClosure(func() string {
		return fmt.Sprintf("Received %s%s from %s", msg.Command(),
			summaryString(msg), c)
	}))
	log.Tracef("%s", logger.NewLogClosure(func() string {
		return spew.Sdump(msg)
	}))
	log.Tracef("Frame of %d bytes from %s", n, c)
}
