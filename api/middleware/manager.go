package middleware

import (
	"context"
	"time"

	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
)

// SessionVerifier validates an admin session behind a parsed access token
type SessionVerifier interface {
	AccessTokenSecret() string
	VerifyAdmin(ctx context.Context, claims *structs.AuthClaims) (*structs.AdminSession, error)
}

// RateLimiter counts requests per client and endpoint within a window
type RateLimiter interface {
	IncrementRateLimit(ip, endpoint string, ttl time.Duration) (int, error)
}

type Middleware struct {
	logger   *gecho.Logger
	cfg      *structs.Config
	sessions SessionVerifier
	limiter  RateLimiter
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, sessions SessionVerifier, limiter RateLimiter) *Middleware {
	return &Middleware{
		logger:   logger,
		cfg:      cfg,
		sessions: sessions,
		limiter:  limiter,
	}
}
