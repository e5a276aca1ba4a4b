package ratelimit

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const (
	loginRate  = 0.5
	loginBurst = 5
)

// LoginLimiter throttles login attempts per username. With no redis client
// configured it allows everything.
type LoginLimiter struct {
	bucket *TokenBucket
	log    *zap.Logger
}

func NewLoginLimiter(bucket *TokenBucket, log *zap.Logger) *LoginLimiter {
	return &LoginLimiter{
		bucket: bucket,
		log:    log.Named("ratelimit.login"),
	}
}

func (l *LoginLimiter) Allow(ctx context.Context, username string) bool {
	if l == nil || l.bucket == nil {
		return true
	}

	key := "gamevault:login:" + strings.ToLower(strings.TrimSpace(username))
	result, err := l.bucket.Allow(ctx, key, loginRate, loginBurst)
	if err != nil {
		// fail open: a limiter outage must not lock every user out
		l.log.Warn("login rate limiter unavailable", zap.Error(err))
		return true
	}
	return result.Allowed
}
