package actions

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/thesrcielos/TicTacToeStats/internal/player"
	"github.com/thesrcielos/TicTacToeStats/websocket/message"
	"github.com/thesrcielos/TicTacToeStats/websocket/transport"
)

// HandleGameResult records a finished game reported by one of its players
// and pushes fresh stats to both participants.
func (a *Actions) HandleGameResult(ctx context.Context, username string, msg message.Message) {
	var payload message.GameResultPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		a.logger.Warn("error decoding game result", slog.String("username", username), slog.Any("error", err))
		a.sendError(username, "invalid game result")
		return
	}
	if payload.Player1 == "" || payload.Player2 == "" {
		a.sendError(username, "player1 and player2 are required")
		return
	}

	outcome, err := a.service.RecordGameResult(ctx, player.GameResult{
		Player1: payload.Player1,
		Player2: payload.Player2,
		Winner:  payload.Winner,
	})
	if err != nil {
		a.sendError(username, "error recording game result")
		return
	}

	a.sender.SendToPlayer(username, transport.OutgoingMessage{
		Type: message.TypeGameResultRecorded,
		Payload: message.GameResultRecordedPayload{
			Outcome:  string(outcome),
			Recorded: outcome.Recorded(),
		},
	})

	if !outcome.Recorded() {
		return
	}
	participants := []string{payload.Player1, payload.Player2}
	a.sendStats(ctx, participants, payload.Player1)
	a.sendStats(ctx, participants, payload.Player2)
}
