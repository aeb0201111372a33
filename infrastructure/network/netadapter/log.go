// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netadapter

import (
	"fmt"

	"github.com/btcshake/btcshake/infrastructure/logger"
	"github.com/btcshake/btcshake/wire"
)

var log, _ = logger.Get(logger.SubsystemTags.NTAR)

// messageSummary returns a human-readable string which summarizes a message.
// Not all messages have or need a summary. This is used for debug logging.
func messageSummary(msg wire.Message) string {
	switch msg := msg.(type) {
	case *wire.MsgVersion:
		return fmt.Sprintf("agent %s, pver %d, block %d, services %s",
			msg.UserAgent, msg.ProtocolVersion, msg.LastBlock, msg.Services)

	case *wire.MsgVerAck:
		// No summary.

	case *wire.MsgPing:
		return fmt.Sprintf("nonce %d", msg.Nonce)

	case *wire.MsgPong:
		return fmt.Sprintf("nonce %d", msg.Nonce)
	}

	// No summary for other messages.
	return ""
}

func summaryString(msg wire.Message) string {
	summary := messageSummary(msg)
	if len(summary) > 0 {
		summary = " (" + summary + ")"
	}
	return summary
}
