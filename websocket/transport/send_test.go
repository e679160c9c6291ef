package transport

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thesrcielos/TicTacToeStats/internal/session"
)

type recordingConn struct {
	written []interface{}
	fail    bool
}

func (c *recordingConn) WriteJSON(v interface{}) error {
	if c.fail {
		return errors.New("broken pipe")
	}
	c.written = append(c.written, v)
	return nil
}

func (c *recordingConn) Close() error { return nil }

func TestSessionSender_SendsOnlyToConnectedPlayers(t *testing.T) {
	registry := session.NewRegistry()
	alice := &recordingConn{}
	broken := &recordingConn{fail: true}
	registry.Register("alice", alice)
	registry.Register("broken", broken)

	sender := NewSessionSender(registry, slog.New(slog.NewTextHandler(io.Discard, nil)))
	msg := OutgoingMessage{Type: "PLAYER_STATS", Payload: "x"}

	sender.BroadcastToPlayers([]string{"alice", "offline", "broken"}, msg)

	assert.Equal(t, []interface{}{msg}, alice.written)
	assert.Empty(t, broken.written)
}
