package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/cache"
	apperrors "pizzeria/internal/errors"
)

const rateLimitKeyPrefix = "ratelimit:"

// Counter increments a key that expires ttl after its first increment.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

var _ Counter = (*cache.Client)(nil)

// RateLimiter is a fixed-window, per client IP request limiter backed by Redis.
// When Redis cannot be reached requests are let through.
type RateLimiter struct {
	counter  Counter
	scope    string
	requests int
	window   time.Duration
	logger   *slog.Logger
}

// NewRateLimiter allows requests per window per IP for routes in scope.
func NewRateLimiter(counter Counter, scope string, requests int, window time.Duration, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{
		counter:  counter,
		scope:    scope,
		requests: requests,
		window:   window,
		logger:   logger,
	}
}

// Handle applies the limit.
func (r *RateLimiter) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if r.requests <= 0 || r.window <= 0 {
			return next(c)
		}

		ctx := c.Request().Context()
		key := rateLimitKeyPrefix + r.scope + ":" + c.RealIP()

		count, err := r.counter.Incr(ctx, key, r.window)
		if err != nil {
			r.logger.WarnContext(ctx, "rate limiter unavailable, allowing request",
				slog.String("scope", r.scope),
				slog.String("error", err.Error()),
			)
			return next(c)
		}

		remaining := int64(r.requests) - count
		if remaining < 0 {
			remaining = 0
		}
		header := c.Response().Header()
		header.Set("X-RateLimit-Limit", strconv.Itoa(r.requests))
		header.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(r.requests) {
			header.Set("Retry-After", strconv.Itoa(int(r.window.Seconds())))
			return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
				Error: "too many requests",
				Code:  "RATE_LIMITED",
			})
		}

		return next(c)
	}
}
