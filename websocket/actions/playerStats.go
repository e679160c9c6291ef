package actions

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/thesrcielos/TicTacToeStats/websocket/message"
	"github.com/thesrcielos/TicTacToeStats/websocket/transport"
)

// HandlePlayerStats answers with the stats of the requested player, or of
// the sender when no username is given.
func (a *Actions) HandlePlayerStats(ctx context.Context, username string, msg message.Message) {
	var payload message.PlayerStatsRequestPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			a.logger.Warn("error decoding stats request", slog.String("username", username), slog.Any("error", err))
			a.sendError(username, "invalid stats request")
			return
		}
	}
	target := payload.Username
	if target == "" {
		target = username
	}

	p, err := a.service.FindByUsername(ctx, target)
	if err != nil {
		a.sendError(username, "error loading player stats")
		return
	}
	if p == nil {
		a.sendError(username, "player not found")
		return
	}
	a.sender.SendToPlayer(username, transport.OutgoingMessage{
		Type:    message.TypePlayerStats,
		Payload: p,
	})
}
