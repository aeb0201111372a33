package config

import (
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// These errors describe why a peer address given on the command line could
// not be used.
var (
	ErrMissingAddress = errors.New("IPv4 address not specified")

	ErrMissingPort = errors.New("port not specified")

	ErrInvalidAddress = errors.New("IPv4 address should consist of four decimal " +
		"numbers, each ranging from 0 to 255")

	ErrAddressComponentRange = errors.New("IPv4 address component should range from 0 to 255")

	ErrPortRange = errors.New("port should range from 0 to 65535")

	ErrInvalidIPv6Address = errors.New("IPv6 address should be enclosed in brackets " +
		"and followed by a port, as in [::1]:8333")
)

// ParseAddress validates a peer address of the form ipv4:port or [ipv6]:port
// and returns it in canonical host:port form. Host names are not accepted.
//
// Invalid addresses are reported with the most specific reason available,
// checking the host before the port.
func ParseAddress(address string) (string, error) {
	host, port, err := net.SplitHostPort(address)
	if err == nil {
		ip := net.ParseIP(host)
		_, portErr := strconv.ParseUint(port, 10, 16)
		if ip != nil && portErr == nil {
			return net.JoinHostPort(ip.String(), port), nil
		}
	}

	return "", errors.Wrapf(addressError(address), "invalid address '%s'", address)
}

// addressError finds out what is wrong with an address net.SplitHostPort and
// net.ParseIP did not accept.
func addressError(address string) error {
	host, port, err := net.SplitHostPort(address)
	if err == nil && strings.Contains(host, ":") && net.ParseIP(host) != nil {
		if port == "" {
			return ErrMissingPort
		}
		return ErrPortRange
	}
	if strings.HasPrefix(address, "[") || strings.Count(address, ":") > 1 {
		return ErrInvalidIPv6Address
	}

	host, port, _ = strings.Cut(address, ":")
	if host == "" {
		return ErrMissingAddress
	}

	components := strings.Split(host, ".")
	if len(components) != 4 {
		return ErrInvalidAddress
	}
	for _, component := range components {
		_, err := strconv.ParseUint(component, 10, 8)
		if err != nil {
			return ErrAddressComponentRange
		}
	}

	if port == "" {
		return ErrMissingPort
	}
	_, err = strconv.ParseUint(port, 10, 16)
	if err != nil {
		return ErrPortRange
	}

	// Every component parses, so the host has a form net.ParseIP rejects,
	// such as components with leading zeros.
	return ErrInvalidAddress
}
