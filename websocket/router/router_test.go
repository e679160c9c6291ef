package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/TicTacToeStats/internal/player"
	"github.com/thesrcielos/TicTacToeStats/websocket/actions"
	"github.com/thesrcielos/TicTacToeStats/websocket/message"
	"github.com/thesrcielos/TicTacToeStats/websocket/transport"
)

type sent struct {
	to  string
	msg transport.OutgoingMessage
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sent
}

func (s *recordingSender) SendToPlayer(username string, msg transport.OutgoingMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sent{to: username, msg: msg})
}

func (s *recordingSender) BroadcastToPlayers(usernames []string, msg transport.OutgoingMessage) {
	for _, u := range usernames {
		s.SendToPlayer(u, msg)
	}
}

func (s *recordingSender) types() []string {
	out := make([]string, 0, len(s.sent))
	for _, m := range s.sent {
		out = append(out, m.to+":"+m.msg.Type)
	}
	return out
}

func newTestRouter() (*Router, *player.MockPlayerService, *recordingSender) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockService := &player.MockPlayerService{}
	sender := &recordingSender{}
	return New(actions.New(mockService, sender, logger), logger), mockService, sender
}

func newMessage(t *testing.T, msgType string, payload interface{}) message.Message {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return message.Message{Type: msgType, Payload: raw}
}

func TestRouteMessage_GameResultRecorded(t *testing.T) {
	r, mockService, sender := newTestRouter()
	winner := "alice"
	result := player.GameResult{Player1: "alice", Player2: "bob", Winner: &winner}
	mockService.On("RecordGameResult", mock.Anything, result).Return(player.OutcomePlayer1Won, nil)
	mockService.On("FindByUsername", mock.Anything, "alice").Return(&player.Player{Username: "alice", GamesWon: 1, TotalGames: 1}, nil)
	mockService.On("FindByUsername", mock.Anything, "bob").Return(&player.Player{Username: "bob", GamesLost: 1, TotalGames: 1}, nil)

	r.RouteMessage(context.Background(), "alice", newMessage(t, message.TypeGameResult,
		message.GameResultPayload{Player1: "alice", Player2: "bob", Winner: &winner}))

	assert.Equal(t, []string{
		"alice:GAME_RESULT_RECORDED",
		"alice:PLAYER_STATS",
		"bob:PLAYER_STATS",
		"alice:PLAYER_STATS",
		"bob:PLAYER_STATS",
	}, sender.types())
	ack := sender.sent[0].msg.Payload.(message.GameResultRecordedPayload)
	assert.Equal(t, "PLAYER1_WON", ack.Outcome)
	assert.True(t, ack.Recorded)
	mockService.AssertExpectations(t)
}

func TestRouteMessage_GameResultIgnoredSendsOnlyAck(t *testing.T) {
	r, mockService, sender := newTestRouter()
	mockService.On("RecordGameResult", mock.Anything, player.GameResult{Player1: "alice", Player2: "ghost"}).
		Return(player.OutcomeUnknownPlayer, nil)

	r.RouteMessage(context.Background(), "alice", newMessage(t, message.TypeGameResult,
		message.GameResultPayload{Player1: "alice", Player2: "ghost"}))

	require.Len(t, sender.sent, 1)
	ack := sender.sent[0].msg.Payload.(message.GameResultRecordedPayload)
	assert.False(t, ack.Recorded)
	mockService.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
}

func TestRouteMessage_GameResultErrors(t *testing.T) {
	r, mockService, sender := newTestRouter()
	mockService.On("RecordGameResult", mock.Anything, mock.Anything).Return(player.GameOutcome(""), errors.New("db down"))

	r.RouteMessage(context.Background(), "alice", message.Message{Type: message.TypeGameResult, Payload: json.RawMessage(`{bad`)})
	r.RouteMessage(context.Background(), "alice", newMessage(t, message.TypeGameResult, message.GameResultPayload{Player1: "alice"}))
	r.RouteMessage(context.Background(), "alice", newMessage(t, message.TypeGameResult, message.GameResultPayload{Player1: "alice", Player2: "bob"}))

	assert.Equal(t, []string{"alice:ERROR", "alice:ERROR", "alice:ERROR"}, sender.types())
	mockService.AssertNumberOfCalls(t, "RecordGameResult", 1)
}

func TestRouteMessage_PlayerStats(t *testing.T) {
	r, mockService, sender := newTestRouter()
	bob := &player.Player{Username: "bob"}
	mockService.On("FindByUsername", mock.Anything, "bob").Return(bob, nil)
	mockService.On("FindByUsername", mock.Anything, "alice").Return(&player.Player{Username: "alice"}, nil)
	mockService.On("FindByUsername", mock.Anything, "ghost").Return(nil, nil)

	r.RouteMessage(context.Background(), "alice", newMessage(t, message.TypePlayerStats, message.PlayerStatsRequestPayload{Username: "bob"}))
	r.RouteMessage(context.Background(), "alice", message.Message{Type: message.TypePlayerStats})
	r.RouteMessage(context.Background(), "alice", newMessage(t, message.TypePlayerStats, message.PlayerStatsRequestPayload{Username: "ghost"}))

	assert.Equal(t, []string{"alice:PLAYER_STATS", "alice:PLAYER_STATS", "alice:ERROR"}, sender.types())
	assert.Same(t, bob, sender.sent[0].msg.Payload)
}

func TestRouteMessage_UnknownTypeIsIgnored(t *testing.T) {
	r, mockService, sender := newTestRouter()

	r.RouteMessage(context.Background(), "alice", message.Message{Type: "MOVE"})

	assert.Empty(t, sender.sent)
	mockService.AssertExpectations(t)
}
