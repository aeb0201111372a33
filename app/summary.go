package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/btcshake/btcshake/app/protocol/protocolerrors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"
)

// outcome names the way a handshake ended.
func outcome(err error) string {
	var connectionErr *protocolerrors.ConnectionError
	switch {
	case err == nil:
		return "Success"
	case errors.As(err, &connectionErr):
		return connectionErr.Code.String()
	case errors.Is(err, protocolerrors.ErrHandshakeTimeout):
		return "Timeout"
	case errors.Is(err, protocolerrors.ErrHandshakeCanceled):
		return "Canceled"
	default:
		return "Error"
	}
}

// renderSummary renders one row per result, in order, followed by the number
// of successful handshakes.
func renderSummary(results []*Result) string {
	summary := table.NewWriter()
	summary.SetStyle(table.StyleLight)
	summary.Style().Format.Header = text.FormatDefault
	summary.Style().Format.Footer = text.FormatDefault
	summary.AppendHeader(table.Row{"Address", "Outcome", "Version", "User agent",
		"Start height", "Services", "Relay", "Elapsed"})

	for _, result := range results {
		row := table.Row{result.Address, outcome(result.Err)}
		if result.Peer != nil {
			peer := result.Peer
			row = append(row, peer.ProtocolVersion, peer.UserAgent,
				peer.StartHeight, peer.Services, strconv.FormatBool(peer.Relay))
		} else {
			row = append(row, "", "", "", "", "")
		}
		row = append(row, result.Elapsed.Round(time.Millisecond))
		summary.AppendRow(row)
	}

	succeeded := len(results) - countFailed(results)
	summary.AppendFooter(table.Row{"", fmt.Sprintf("%d/%d succeeded", succeeded,
		len(results))})
	return summary.Render()
}
