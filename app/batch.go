package app

import (
	"context"
	"time"

	"github.com/btcshake/btcshake/app/protocol/handshake"
	"github.com/btcshake/btcshake/app/protocol/protocolerrors"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Handshaker performs a single handshake with the peer at address.
// *handshake.Node implements it.
type Handshaker interface {
	Handshake(ctx context.Context, address string) (*handshake.NodeConfig, error)
}

// Result is the outcome of the handshake with a single peer.
type Result struct {
	Address string

	// Peer is the configuration the peer declared. It is nil if the
	// handshake failed.
	Peer *handshake.NodeConfig

	Err     error
	Elapsed time.Duration
}

// RunBatch performs a handshake with each address and returns the results in
// the order of addresses. Every handshake gets its own connection and is
// bounded by timeout. At most maxParallel handshakes run at the same time, so
// a maxParallel of 1 performs them one after the other.
//
// A failed handshake never affects the others. Once ctx is canceled the
// handshakes in flight are abandoned and the remaining ones are not
// attempted; all of them report protocolerrors.ErrHandshakeCanceled.
func RunBatch(ctx context.Context, node Handshaker, addresses []string,
	timeout time.Duration, maxParallel int) []*Result {

	results := make([]*Result, len(addresses))
	group := errgroup.Group{}
	group.SetLimit(maxParallel)

	for i, address := range addresses {
		i, address := i, address
		results[i] = &Result{Address: address}

		if ctx.Err() != nil {
			results[i].Err = errors.Wrapf(protocolerrors.ErrHandshakeCanceled,
				"handshake with %s", address)
			continue
		}

		group.Go(func() error {
			results[i] = runHandshake(ctx, node, address, timeout)
			return nil
		})
	}
	group.Wait()

	return results
}

func runHandshake(ctx context.Context, node Handshaker, address string,
	timeout time.Duration) *Result {

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	peer, err := node.Handshake(ctx, address)
	result := &Result{
		Address: address,
		Peer:    peer,
		Err:     err,
		Elapsed: time.Since(start),
	}

	if err != nil {
		log.Errorf("Handshake with %s failed: %s", address, err)
	} else {
		log.Infof("Handshake with %s succeeded in %s", address, result.Elapsed)
	}
	return result
}

func countFailed(results []*Result) int {
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	return failed
}
