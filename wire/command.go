package wire

import (
	"fmt"
	"strings"
)

// CommandSize is the fixed size of all commands in the common message
// header. Shorter commands must be zero padded.
const CommandSize = 12

// Command identifies the payload type of a message.
type Command uint8

// Commands used in message headers which describe the type of message.
const (
	CmdVersion Command = iota
	CmdVerAck
	CmdPing
	CmdPong
)

var commandStrings = map[Command]string{
	CmdVersion: "version",
	CmdVerAck:  "verack",
	CmdPing:    "ping",
	CmdPong:    "pong",
}

// commandTags holds the null padded wire form of every command.
var commandTags = func() map[Command][CommandSize]byte {
	tags := make(map[Command][CommandSize]byte, len(commandStrings))
	for cmd, s := range commandStrings {
		var tag [CommandSize]byte
		copy(tag[:], s)
		tags[cmd] = tag
	}
	return tags
}()

// Tag returns the null padded 12-byte wire form of the command.
func (cmd Command) Tag() [CommandSize]byte {
	return commandTags[cmd]
}

// String returns the command in human-readable form.
func (cmd Command) String() string {
	if s, ok := commandStrings[cmd]; ok {
		return s
	}
	return fmt.Sprintf("Unknown Command (%d)", uint8(cmd))
}

// ParseCommand returns the command whose wire tag equals tag byte for byte,
// padding included.
func ParseCommand(tag [CommandSize]byte) (Command, error) {
	for cmd, known := range commandTags {
		if known == tag {
			return cmd, nil
		}
	}
	return 0, invalidBytes("unknown command %q", printableCommand(tag))
}

// printableCommand strips the null padding of a raw tag for log output.
func printableCommand(tag [CommandSize]byte) string {
	return strings.TrimRight(string(tag[:]), "\x00")
}
