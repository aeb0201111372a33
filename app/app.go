package app

import (
	"context"
	"fmt"
	"os"

	"github.com/btcshake/btcshake/app/protocol/handshake"
	"github.com/btcshake/btcshake/infrastructure/config"
	"github.com/btcshake/btcshake/infrastructure/logger"
	"github.com/btcshake/btcshake/infrastructure/os/signal"
	"github.com/btcshake/btcshake/util/panics"
	"github.com/btcshake/btcshake/util/profiling"
	"github.com/btcshake/btcshake/version"
	"github.com/btcshake/btcshake/wire"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// ErrHandshakesFailed is returned by StartApp when at least one handshake of
// the batch did not succeed.
var ErrHandshakesFailed = errors.New("not all handshakes succeeded")

type btcshakeApp struct {
	cfg *config.Config
}

// StartApp starts the btcshake app, and blocks until every handshake of the
// batch finished or the process was interrupted.
func StartApp() error {
	// Load configuration and parse command line. This function also
	// initializes logging and configures it accordingly.
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil
		}
		return err
	}
	defer logger.CloseLogRotator()

	defer panics.HandlePanic(log, "MAIN", nil)

	app := &btcshakeApp{cfg: cfg}
	return app.main()
}

func (app *btcshakeApp) main() error {
	// Show version at startup.
	log.Infof("Version %s", version.Version())

	// Enable http profiling server if requested.
	if app.cfg.Profile != "" {
		profiling.Start(app.cfg.Profile, log)
	}

	node := newNode(app.cfg)
	log.Debugf("Announcing %s with protocol version %d on %s", node.Config().UserAgent,
		node.Config().ProtocolVersion, node.Network())

	// Cancel the batch on an interrupt signal. Handshakes in flight end with
	// a cancellation error and the summary is still printed.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	interrupt := signal.InterruptListener()
	spawn("btcshakeApp.main-interrupt", func() {
		select {
		case <-interrupt:
			cancel()
		case <-ctx.Done():
		}
	})

	results := RunBatch(ctx, node, app.cfg.Addresses, app.cfg.HandshakeTimeout,
		app.cfg.MaxParallel)

	if !app.cfg.NoSummary {
		fmt.Println(renderSummary(results))
	}

	failed := countFailed(results)
	if failed > 0 {
		return errors.Wrapf(ErrHandshakesFailed, "%d of %d handshakes failed",
			failed, len(results))
	}
	return nil
}

// newNode returns the handshake node described by cfg. The node always
// announces itself as a full network node.
func newNode(cfg *config.Config) *handshake.Node {
	nodeConfig := handshake.NodeConfig{
		ProtocolVersion: cfg.ProtocolVersion,
		Services:        wire.SFNodeNetwork,
		UserAgent:       cfg.UserAgent,
		StartHeight:     cfg.StartHeight,
		Relay:           cfg.Relay,
	}
	return handshake.New(nodeConfig, cfg.Net(), cfg.Dial)
}
