package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/thesrcielos/TicTacToeStats/internal/apperrors"
)

// UsernameLocker serializes get-or-create for one username.
type UsernameLocker interface {
	Lock(ctx context.Context, username string) (unlock func(), err error)
}

var ErrLockTimeout = errors.New("timed out waiting for username lock")

const lockRetryInterval = 25 * time.Millisecond

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker holds the lock as a SETNX key so it is shared across instances.
// The key expires after ttl so a crashed holder cannot block a username forever.
type RedisLocker struct {
	db     *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisLocker(db *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{db: db, ttl: ttl, logger: logger}
}

func lockKey(username string) string {
	return fmt.Sprintf("lock:player:%s", username)
}

func (l *RedisLocker) Lock(ctx context.Context, username string) (func(), error) {
	key := lockKey(username)
	token := uuid.New().String()

	deadline := time.Now().Add(l.ttl)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := l.db.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, apperrors.Internal("error acquiring username lock", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, apperrors.NewAppError(http.StatusServiceUnavailable, "player is busy, try again", ErrLockTimeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}

	return func() {
		// Released with a fresh context: the caller's may already be cancelled.
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.db, []string{key}, token).Err(); err != nil {
			l.logger.Warn("error releasing username lock, it expires after its ttl",
				slog.String("username", username),
				slog.Duration("ttl", l.ttl),
				slog.Any("error", err))
		}
	}, nil
}

// LocalLocker is the in-process fallback used when Redis is not configured.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*localEntry
}

type localEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*localEntry)}
}

func (l *LocalLocker) Lock(ctx context.Context, username string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[username]
	if !ok {
		entry = &localEntry{}
		l.locks[username] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	if err := ctx.Err(); err != nil {
		l.release(username, entry)
		return nil, err
	}

	return func() { l.release(username, entry) }, nil
}

func (l *LocalLocker) release(username string, entry *localEntry) {
	entry.mu.Unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, username)
	}
}
