package config

import (
	"fmt"
	"os"

	"github.com/btcshake/btcshake/wire"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// NetworkFlags holds the network configuration, that is which network is selected.
type NetworkFlags struct {
	TestNet  bool `long:"testnet" description:"Use the regression test network"`
	TestNet3 bool `long:"testnet3" description:"Use the test network (version 3)"`
	SigNet   bool `long:"signet" description:"Use the signet test network"`
	Namecoin bool `long:"namecoin" description:"Use the namecoin network"`

	ActiveNet wire.BitcoinNet
}

// ResolveNetwork parses the network command line argument and sets ActiveNet accordingly.
// It returns error if more than one network was selected, nil otherwise.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	// Default net is main net.
	networkFlags.ActiveNet = wire.MainNet
	// Multiple networks can't be selected simultaneously.
	numNets := 0
	// Count number of network flags passed; assign the active network
	// while we're at it
	if networkFlags.TestNet {
		numNets++
		networkFlags.ActiveNet = wire.TestNet
	}
	if networkFlags.TestNet3 {
		numNets++
		networkFlags.ActiveNet = wire.TestNet3
	}
	if networkFlags.SigNet {
		numNets++
		networkFlags.ActiveNet = wire.SigNet
	}
	if networkFlags.Namecoin {
		numNets++
		networkFlags.ActiveNet = wire.NamecoinNet
	}
	if numNets > 1 {
		message := "Multiple networks parameters (testnet, testnet3, signet, namecoin) " +
			"cannot be used together. Please choose only one network"
		err := errors.New(message)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return err
	}

	return nil
}

// Net returns the active network.
func (networkFlags *NetworkFlags) Net() wire.BitcoinNet {
	return networkFlags.ActiveNet
}
