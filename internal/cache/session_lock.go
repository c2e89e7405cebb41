package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/SuryanshuBanerjee/tempmitra/internal/observability"
)

// ErrSessionBusy is returned when another request holds the session lock
var ErrSessionBusy = errors.New("session is busy")

// releaseScript deletes the lock only if the caller still owns it
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SessionLocker serializes triage updates for a single chat session
type SessionLocker interface {
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
}

type sessionLocker struct {
	client  *redis.Client
	ttl     time.Duration
	wait    time.Duration
	backoff time.Duration
}

// NewSessionLocker creates a Redis-backed per-session lock. ttl bounds how
// long a crashed holder can block the session; wait bounds how long Lock
// retries before giving up with ErrSessionBusy.
func NewSessionLocker(client *redis.Client, ttl, wait time.Duration) SessionLocker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &sessionLocker{
		client:  client,
		ttl:     ttl,
		wait:    wait,
		backoff: 25 * time.Millisecond,
	}
}

func (l *sessionLocker) key(sessionID string) string {
	return fmt.Sprintf("chat:session:%s:lock", sessionID)
}

func (l *sessionLocker) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := l.key(sessionID)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				// Fresh context so a cancelled request still releases its lock.
				if err := releaseScript.Run(context.Background(), l.client, []string{key}, token).Err(); err != nil {
					observability.Logger().Warn("session lock release failed", "session_id", sessionID, "error", err)
				}
			}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, ErrSessionBusy
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.backoff):
		}
	}
}
