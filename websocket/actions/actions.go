package actions

import (
	"context"
	"log/slog"

	"github.com/thesrcielos/TicTacToeStats/internal/player"
	"github.com/thesrcielos/TicTacToeStats/websocket/message"
	"github.com/thesrcielos/TicTacToeStats/websocket/transport"
)

// Actions handles the messages a connected player can send.
type Actions struct {
	service player.PlayerService
	sender  transport.Sender
	logger  *slog.Logger
}

func New(service player.PlayerService, sender transport.Sender, logger *slog.Logger) *Actions {
	return &Actions{service: service, sender: sender, logger: logger}
}

func (a *Actions) sendError(username string, text string) {
	a.sender.SendToPlayer(username, transport.OutgoingMessage{
		Type:    message.TypeError,
		Payload: message.ErrorPayload{Message: text},
	})
}

func (a *Actions) sendStats(ctx context.Context, to []string, username string) {
	p, err := a.service.FindByUsername(ctx, username)
	if err != nil {
		a.logger.Error("error loading player stats", slog.String("username", username), slog.Any("error", err))
		return
	}
	if p == nil {
		return
	}
	a.sender.BroadcastToPlayers(to, transport.OutgoingMessage{
		Type:    message.TypePlayerStats,
		Payload: p,
	})
}
