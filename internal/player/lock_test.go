package player

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/thesrcielos/TicTacToeStats/internal/apperrors"
)

type RedisLockerSuite struct {
	suite.Suite
	mini   *miniredis.Miniredis
	client *redis.Client
	locker *RedisLocker
	logs   *bytes.Buffer
	ctx    context.Context
}

func TestRedisLockerSuite(t *testing.T) {
	suite.Run(t, new(RedisLockerSuite))
}

func (s *RedisLockerSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.logs = &bytes.Buffer{}
	s.locker = NewRedisLocker(s.client, 200*time.Millisecond, slog.New(slog.NewTextHandler(s.logs, nil)))
	s.ctx = context.Background()
}

func (s *RedisLockerSuite) TearDownTest() {
	_ = s.client.Close()
	s.mini.Close()
}

func (s *RedisLockerSuite) TestLockSetsKeyWithTTL() {
	unlock, err := s.locker.Lock(s.ctx, "alice")
	s.Require().NoError(err)

	s.True(s.mini.Exists("lock:player:alice"))
	s.Greater(s.mini.TTL("lock:player:alice"), time.Duration(0))

	unlock()
	s.False(s.mini.Exists("lock:player:alice"))
}

func (s *RedisLockerSuite) TestSecondLockTimesOutWhileHeld() {
	unlock, err := s.locker.Lock(s.ctx, "bob")
	s.Require().NoError(err)
	defer unlock()

	_, err = s.locker.Lock(s.ctx, "bob")
	s.ErrorIs(err, ErrLockTimeout)
	s.Equal(http.StatusServiceUnavailable, apperrors.StatusCode(err))
}

func (s *RedisLockerSuite) TestUnlockFailureIsLogged() {
	unlock, err := s.locker.Lock(s.ctx, "gina")
	s.Require().NoError(err)

	s.mini.Close()
	unlock()

	s.Contains(s.logs.String(), "error releasing username lock")
	s.Contains(s.logs.String(), "username=gina")
}

func (s *RedisLockerSuite) TestLockIsPerUsername() {
	unlockA, err := s.locker.Lock(s.ctx, "carol")
	s.Require().NoError(err)
	defer unlockA()

	unlockB, err := s.locker.Lock(s.ctx, "dave")
	s.Require().NoError(err)
	unlockB()
}

func (s *RedisLockerSuite) TestUnlockDoesNotReleaseForeignHolder() {
	unlock, err := s.locker.Lock(s.ctx, "erin")
	s.Require().NoError(err)

	// The key expired and another instance took it over.
	s.mini.FastForward(time.Second)
	s.Require().NoError(s.mini.Set("lock:player:erin", "someone-else"))

	unlock()
	value, err := s.mini.Get("lock:player:erin")
	s.Require().NoError(err)
	s.Equal("someone-else", value)
}

func (s *RedisLockerSuite) TestLockHonoursCancelledContext() {
	unlock, err := s.locker.Lock(s.ctx, "frank")
	s.Require().NoError(err)
	defer unlock()

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err = s.locker.Lock(ctx, "frank")
	s.ErrorIs(err, context.Canceled)
}

func TestLocalLocker_MutualExclusion(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "alice")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, locker.locks)
}

func TestLocalLocker_CancelledContext(t *testing.T) {
	locker := NewLocalLocker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := locker.Lock(ctx, "bob")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, locker.locks)
}
