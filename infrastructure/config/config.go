// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/btcshake/btcshake/infrastructure/logger"
	"github.com/btcshake/btcshake/version"
	"github.com/btcshake/btcshake/wire"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/go-socks/socks"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	defaultConfigFilename = "btcshake.conf"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "btcshake.log"
	defaultTimeout        = 1000
	defaultStartHeight    = 1
	defaultMaxParallel    = 1

	// userAgentName is the name announced in the user agent of every
	// version message.
	userAgentName = "btcshake"
)

var (
	// DefaultAppDir is the default home directory for btcshake.
	DefaultAppDir = btcutil.AppDataDir("btcshake", false)

	defaultConfigFile = filepath.Join(DefaultAppDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(DefaultAppDir, defaultLogDirname)
)

// Flags defines the configuration options for btcshake.
//
// See LoadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion       bool     `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile        string   `short:"C" long:"configfile" description:"Path to configuration file"`
	Timeout           uint64   `short:"t" long:"timeout" description:"Maximum time for each handshake in milliseconds"`
	LogDir            string   `long:"logdir" description:"Directory to log output"`
	NoLogFiles        bool     `long:"nologfiles" description:"Disable logging to a file"`
	NoStdout          bool     `long:"nostdout" description:"Disable logging to standard output"`
	DebugLevel        string   `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	ProtocolVersion   int32    `long:"protocolversion" description:"Protocol version announced to peers"`
	StartHeight       int32    `long:"startheight" description:"Last block height announced to peers"`
	Relay             bool     `long:"relay" description:"Ask peers to announce relayed transactions"`
	UserAgentComments []string `long:"uacomment" description:"Comment to add to the user agent -- See BIP 14 for more information."`
	MaxParallel       int      `long:"maxparallel" description:"Maximum number of handshakes performed at the same time"`
	NoSummary         bool     `long:"nosummary" description:"Do not print the summary table after all handshakes"`
	Profile           string   `long:"profile" description:"Enable HTTP profiling on given port -- NOTE port must be between 1024 and 65535"`
	Proxy             string   `long:"proxy" description:"Connect via SOCKS5 proxy (eg. 127.0.0.1:9050)"`
	ProxyUser         string   `long:"proxyuser" description:"Username for proxy server"`
	ProxyPass         string   `long:"proxypass" default-mask:"-" description:"Password for proxy server"`
	NetworkFlags
}

// Config defines the configuration of a btcshake run.
type Config struct {
	*Flags

	// Addresses are the validated peer addresses, in the order they were
	// given.
	Addresses []string

	// HandshakeTimeout bounds each handshake from dialing to its final pong.
	HandshakeTimeout time.Duration

	// UserAgent is announced in every version message.
	UserAgent string

	// Dial connects to peers, directly or through the configured proxy.
	Dial func(string, string, time.Duration) (net.Conn, error)
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultAppDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// newConfigParser returns a new command line flags parser.
func newConfigParser(cfgFlags *Flags, options flags.Options) *flags.Parser {
	parser := flags.NewParser(cfgFlags, options)
	parser.Usage = "[OPTIONS] address..."
	return parser
}

func defaultFlags() *Flags {
	return &Flags{
		ConfigFile:      defaultConfigFile,
		Timeout:         defaultTimeout,
		LogDir:          defaultLogDir,
		DebugLevel:      defaultLogLevel,
		ProtocolVersion: wire.ProtocolVersion,
		StartHeight:     defaultStartHeight,
		MaxParallel:     defaultMaxParallel,
	}
}

// LoadConfig initializes and parses the config using a config file and the
// command line arguments args, which exclude the program name.
//
// The configuration proceeds as follows:
// 	1) Start with a default config with sane settings
// 	2) Pre-parse the command line to check for an alternative config file
// 	3) Load configuration file overwriting defaults with any specified options
// 	4) Parse CLI options and overwrite/add any specified options
//
// The above results in btcshake functioning properly without any config
// settings while still allowing the user to override settings with config
// files and command line options. Command line options always take
// precedence. The positional arguments are the peer addresses.
func LoadConfig(args []string) (*Config, error) {
	cfgFlags := defaultFlags()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified. Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := *cfgFlags
	preParser := newConfigParser(&preCfg, flags.HelpFlag)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			return nil, err
		}
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	// Load additional config from file. A missing file is only worth a
	// warning when it was asked for explicitly.
	var configFileError error
	parser := newConfigParser(cfgFlags, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %s\n", err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, err
		}
		if preCfg.ConfigFile != defaultConfigFile {
			configFileError = err
		}
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) || flagsErr.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, err
	}

	cfg := &Config{
		Flags: cfgFlags,
	}

	err = cfg.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		logger.PrintSubsystems()
		os.Exit(0)
	}

	if cfg.NoStdout {
		logger.DisableStdout()
	}

	// Initialize log rotation. After log rotation has been initialized, the
	// logger variables may be used.
	if !cfg.NoLogFiles {
		cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
		err = logger.InitLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return nil, err
		}
	}

	// Parse, validate, and set debug log level(s).
	err = logger.ParseAndSetDebugLevels(cfg.DebugLevel)
	if err != nil {
		err := errors.Errorf("LoadConfig: %s", err)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, err
	}

	err = cfg.validate(remainingArgs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, err
	}

	// Warn about missing config file only after all other configuration is
	// done. This prevents the warning on help messages and invalid
	// options. Note this should go directly before the return.
	if configFileError != nil {
		log.Warnf("%s", configFileError)
	}

	return cfg, nil
}

// validate checks the parsed options and fills in the derived fields of cfg.
func (cfg *Config) validate(addresses []string) error {
	funcName := "LoadConfig"

	if len(addresses) == 0 {
		return errors.Errorf("%s: at least one peer address is required", funcName)
	}
	cfg.Addresses = make([]string, len(addresses))
	for i, address := range addresses {
		parsed, err := ParseAddress(address)
		if err != nil {
			return errors.Wrap(err, funcName)
		}
		cfg.Addresses[i] = parsed
	}

	if cfg.Timeout == 0 {
		return errors.Errorf("%s: the timeout must be greater than zero", funcName)
	}
	cfg.HandshakeTimeout = time.Duration(cfg.Timeout) * time.Millisecond

	if cfg.ProtocolVersion <= 0 {
		return errors.Errorf("%s: the protocol version must be positive, got %d",
			funcName, cfg.ProtocolVersion)
	}

	if cfg.MaxParallel < 1 {
		return errors.Errorf("%s: the maximum number of parallel handshakes must "+
			"be at least 1, got %d", funcName, cfg.MaxParallel)
	}

	// Validate profile port number
	if cfg.Profile != "" {
		profilePort, err := strconv.Atoi(cfg.Profile)
		if err != nil || profilePort < 1024 || profilePort > 65535 {
			return errors.Errorf("%s: The profile port must be between 1024 and 65535",
				funcName)
		}
	}

	// Check the user agent comments for reserved characters.
	for _, uaComment := range cfg.UserAgentComments {
		if strings.ContainsAny(uaComment, "/:()") {
			return errors.Errorf("%s: The following characters are reserved "+
				"for user agent comments: '/', ':', '(', ')'", funcName)
		}
	}
	userAgent, err := wire.FormatUserAgent(userAgentName, version.Version(),
		cfg.UserAgentComments...)
	if err != nil {
		return errors.Wrapf(err, "%s: invalid user agent comments", funcName)
	}
	cfg.UserAgent = userAgent

	// Setup the dial function depending on the specified options. The
	// default is to use the standard net.DialTimeout function. When a
	// proxy is specified, the dial function is set to the proxy specific
	// dial function.
	cfg.Dial = net.DialTimeout
	if cfg.Proxy != "" {
		_, _, err := net.SplitHostPort(cfg.Proxy)
		if err != nil {
			return errors.Errorf("%s: Proxy address '%s' is invalid: %s",
				funcName, cfg.Proxy, err)
		}

		proxy := &socks.Proxy{
			Addr:     cfg.Proxy,
			Username: cfg.ProxyUser,
			Password: cfg.ProxyPass,
		}
		cfg.Dial = proxy.DialTimeout
	}

	return nil
}
