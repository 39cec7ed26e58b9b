package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/hanbutik/backend-butik/internal/common"
)

// Config describes the request budget applied per caller.
type Config struct {
	RequestsPerMinute int
	Prefix            string
}

// Handler enforces per-caller rate limits backed by Redis. Authenticated
// callers are keyed by user id so NAT'd customers do not share a budget.
type Handler struct {
	instance *limiter.Limiter
	OnError  func(error)
}

// New builds a rate limit handler. When the Redis store cannot be created
// it falls back to an in-process store rather than disabling limits.
func New(client *redis.Client, cfg Config) (*Handler, error) {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 120
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "rl"
	}
	rate := limiter.Rate{Period: time.Minute, Limit: int64(rpm)}

	var store limiter.Store
	var err error
	if client != nil {
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: prefix})
	}
	if store == nil || err != nil {
		store = memory.NewStore()
	}
	return &Handler{instance: limiter.New(store, rate)}, err
}

// Middleware implements the http.Handler middleware interface.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h == nil || h.instance == nil {
			next.ServeHTTP(w, r)
			return
		}
		res, err := h.instance.Get(r.Context(), callerKey(r))
		if err != nil {
			if h.OnError != nil {
				h.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}

		headers := w.Header()
		headers.Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
		headers.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(res.Reset, 10))

		if res.Reached {
			retryAfter := res.Reset - time.Now().Unix()
			if retryAfter < 0 {
				retryAfter = 0
			}
			headers.Set("Retry-After", strconv.FormatInt(retryAfter, 10))
			common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func callerKey(r *http.Request) string {
	if userID, ok := common.UserID(r.Context()); ok && userID != "" {
		return "u:" + userID
	}
	return "ip:" + common.ClientIP(r)
}
