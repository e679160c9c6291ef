package session

import (
	"sync"
)

// Conn is the part of a websocket connection the registry writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type PlayerSession struct {
	Username string
	Conn     Conn
	ConnMu   sync.Mutex
}

// Write serializes writes on one connection.
func (p *PlayerSession) Write(v interface{}) error {
	p.ConnMu.Lock()
	defer p.ConnMu.Unlock()
	return p.Conn.WriteJSON(v)
}

type Registry struct {
	players   map[string]*PlayerSession
	playersMu sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{players: make(map[string]*PlayerSession)}
}

// Register replaces and closes any previous connection for the username.
func (r *Registry) Register(username string, conn Conn) *PlayerSession {
	r.playersMu.Lock()
	defer r.playersMu.Unlock()

	if old, ok := r.players[username]; ok && old.Conn != conn {
		_ = old.Conn.Close()
	}
	s := &PlayerSession{Username: username, Conn: conn}
	r.players[username] = s
	return s
}

// Unregister removes the session only if it is still the registered one.
func (r *Registry) Unregister(s *PlayerSession) {
	r.playersMu.Lock()
	defer r.playersMu.Unlock()

	if current, ok := r.players[s.Username]; ok && current == s {
		delete(r.players, s.Username)
	}
}

func (r *Registry) Get(username string) *PlayerSession {
	r.playersMu.RLock()
	defer r.playersMu.RUnlock()

	return r.players[username]
}

func (r *Registry) Usernames() []string {
	r.playersMu.RLock()
	defer r.playersMu.RUnlock()

	all := make([]string, 0, len(r.players))
	for name := range r.players {
		all = append(all, name)
	}
	return all
}
