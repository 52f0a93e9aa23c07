package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayedHeader    = "Idempotent-Replayed"

	idempotencyLockTTL = 30 * time.Second
	maxIdempotencyKey  = 128
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

func idempotencyKeys(r *http.Request, key string) (cacheKey, lockKey string) {
	cacheKey = fmt.Sprintf("idemp:%s:%s", r.URL.Path, key)
	return cacheKey, cacheKey + ":lock"
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// POST requests. A duplicate that arrives while the first is still running
// gets 409. Redis failures fail open: the request is processed normally.
func Idempotency(rdb redis.Cmdable, ttl time.Duration) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			log := logger.From(r.Context())
			if len(key) > maxIdempotencyKey {
				writeError(w, internal.NewValidationFieldError(IdempotencyHeader, "idempotency key is too long", internal.ErrCodeValidationFailed))
				return
			}

			ctx := r.Context()
			cacheKey, lockKey := idempotencyKeys(r, key)

			stored, err := rdb.Get(ctx, cacheKey).Result()
			switch {
			case err == nil:
				var cached cachedResponse
				if jsonErr := json.Unmarshal([]byte(stored), &cached); jsonErr == nil {
					log.Info("replaying idempotent response", "idempotency_key", key, "status", cached.Status)
					w.Header().Set("Content-Type", cached.ContentType)
					w.Header().Set(ReplayedHeader, "true")
					w.WriteHeader(cached.Status)
					_, _ = w.Write([]byte(cached.Body))
					return
				}
				log.Warn("discarding unreadable idempotency record", "idempotency_key", key)
			case !errors.Is(err, redis.Nil):
				log.Warn("idempotency store unavailable, processing without it", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			acquired, err := rdb.SetNX(ctx, lockKey, "1", idempotencyLockTTL).Result()
			if err != nil {
				log.Warn("idempotency lock unavailable, processing without it", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				writeError(w, internal.NewConflictError("a request with this idempotency key is still being processed", internal.ErrCodeRequestInProgress))
				return
			}

			rec := &capturingWriter{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(internal.ContextWithIdempotencyKey(ctx, key)))

			status := rec.statusCode()
			if status < http.StatusInternalServerError {
				payload, _ := json.Marshal(cachedResponse{
					Status:      status,
					ContentType: w.Header().Get("Content-Type"),
					Body:        rec.body.String(),
				})
				if err := rdb.Set(ctx, cacheKey, string(payload), ttl).Err(); err != nil {
					log.Warn("failed to store idempotent response", "idempotency_key", key, "error", err)
				}
			}
			if err := rdb.Del(ctx, lockKey).Err(); err != nil {
				log.Warn("failed to release idempotency lock", "idempotency_key", key, "error", err)
			}
		})
	}
}

type capturingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (cw *capturingWriter) WriteHeader(code int) {
	if cw.status == 0 {
		cw.status = code
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *capturingWriter) Write(b []byte) (int, error) {
	if cw.status == 0 {
		cw.status = http.StatusOK
	}
	cw.body.Write(b)
	return cw.ResponseWriter.Write(b)
}

func (cw *capturingWriter) statusCode() int {
	if cw.status == 0 {
		return http.StatusOK
	}
	return cw.status
}

func writeError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
