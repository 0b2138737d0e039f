package notifications

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"yourspace/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	presenceKeyPrefix = "presence:user:"
	presenceTTL       = 90 * time.Second
)

// Presence counts local sockets per user and mirrors "online" into Redis with
// a TTL, refreshed on socket activity, so other instances can answer IsOnline.
type Presence struct {
	rdb *redis.Client
	ttl time.Duration

	mu    sync.RWMutex
	local map[uint]int
}

func NewPresence(rdb *redis.Client) *Presence {
	return &Presence{rdb: rdb, ttl: presenceTTL, local: make(map[uint]int)}
}

func presenceKey(userID uint) string {
	return presenceKeyPrefix + strconv.FormatUint(uint64(userID), 10)
}

func (p *Presence) Connect(ctx context.Context, userID uint) {
	p.mu.Lock()
	p.local[userID]++
	p.mu.Unlock()
	p.Touch(ctx, userID)
}

// Touch extends the Redis presence key.
func (p *Presence) Touch(ctx context.Context, userID uint) {
	if p.rdb == nil {
		return
	}
	if err := p.rdb.Set(ctx, presenceKey(userID), "1", p.ttl).Err(); err != nil {
		middleware.Logger.Warn("presence refresh failed", slog.Uint64("user_id", uint64(userID)), slog.String("error", err.Error()))
	}
}

// Disconnect drops one socket. The Redis key is removed with the last one.
func (p *Presence) Disconnect(ctx context.Context, userID uint) {
	p.mu.Lock()
	n := p.local[userID] - 1
	if n <= 0 {
		delete(p.local, userID)
	} else {
		p.local[userID] = n
	}
	p.mu.Unlock()

	if n > 0 || p.rdb == nil {
		return
	}
	if err := p.rdb.Del(ctx, presenceKey(userID)).Err(); err != nil {
		middleware.Logger.Warn("presence clear failed", slog.Uint64("user_id", uint64(userID)), slog.String("error", err.Error()))
	}
}

func (p *Presence) IsOnline(ctx context.Context, userID uint) bool {
	p.mu.RLock()
	n := p.local[userID]
	p.mu.RUnlock()
	if n > 0 {
		return true
	}
	if p.rdb == nil {
		return false
	}
	exists, err := p.rdb.Exists(ctx, presenceKey(userID)).Result()
	return err == nil && exists > 0
}
