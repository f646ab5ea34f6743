package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Socrates/config"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ScopeLocker serialises work on one (question, user) dialogue scope.
type ScopeLocker interface {
	// Acquire returns ErrTurnInProgress when the scope is already held.
	Acquire(ctx context.Context, questionID uint, userID *uint) (release func(), err error)
}

// NewScopeLocker picks the locker configured by DIALOGUE_SCOPE_LOCK. rdb may be nil unless the
// mode is redis.
func NewScopeLocker(cfg *config.Config, rdb *goredis.Client) (ScopeLocker, error) {
	switch cfg.Dialogue.ScopeLock {
	case config.ScopeLockRedis:
		if rdb == nil {
			return nil, fmt.Errorf("scope lock %q needs a redis client", cfg.Dialogue.ScopeLock)
		}
		return NewRedisScopeLocker(rdb, cfg.Dialogue.ScopeLockTTL), nil
	default:
		return noopScopeLocker{}, nil
	}
}

type noopScopeLocker struct{}

func (noopScopeLocker) Acquire(context.Context, uint, *uint) (func(), error) {
	return func() {}, nil
}

// releaseScript deletes the key only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisScopeLocker struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisScopeLocker(rdb *goredis.Client, ttl time.Duration) ScopeLocker {
	return &redisScopeLocker{rdb: rdb, ttl: ttl}
}

func scopeKey(questionID uint, userID *uint) string {
	if userID == nil {
		return fmt.Sprintf("tutor:scope:%d:anon", questionID)
	}
	return fmt.Sprintf("tutor:scope:%d:%d", questionID, *userID)
}

func (l *redisScopeLocker) Acquire(ctx context.Context, questionID uint, userID *uint) (func(), error) {
	key := scopeKey(questionID, userID)
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire scope lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrTurnInProgress
	}

	return func() {
		// released even when the request context is already cancelled
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.rdb, []string{key}, token).Err(); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Failed to release scope lock")
		}
	}, nil
}
