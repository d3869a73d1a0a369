package ratelimit

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/donara/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// SubmitLimiter throttles donation submissions per client address. A nil
// limiter allows everything.
type SubmitLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
	log    *zap.Logger
}

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
	Lc  fx.Lifecycle
}

func NewSubmitLimiter(p Params) *SubmitLimiter {
	if !p.Cfg.RateLimit.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: p.Cfg.RateLimit.RedisAddr,
		DB:   p.Cfg.RateLimit.RedisDB,
	})
	p.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return &SubmitLimiter{
		bucket: NewTokenBucket(client),
		rate:   p.Cfg.RateLimit.SubmitRate,
		burst:  p.Cfg.RateLimit.SubmitBurst,
		log:    p.Log.Named("ratelimit"),
	}
}

// Allow reports whether clientIP may submit now. Limiter errors fail open.
func (l *SubmitLimiter) Allow(ctx context.Context, clientIP string) (Result, bool) {
	if l == nil {
		return Result{Allowed: true}, true
	}

	res, err := l.bucket.Allow(ctx, fmt.Sprintf("donate:submit:%s", clientIP), l.rate, l.burst)
	if err != nil {
		l.log.Warn("rate limit check failed, allowing request", zap.Error(err))
		return Result{Allowed: true}, true
	}
	return res, res.Allowed
}

var Module = fx.Module("rate.limit",
	fx.Provide(NewSubmitLimiter),
)
