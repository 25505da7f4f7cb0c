package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pukpuklouis/blackliving-backend/pkg/logger"
	"github.com/pukpuklouis/blackliving-backend/pkg/redis"
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *captureWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *captureWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	return w.ResponseWriter.Write(p)
}

// ResponseCache serves public GET responses from Redis for the configured
// TTL. Only 200 responses are stored; everything else passes through.
func ResponseCache(store redis.Store, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || ttl <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := store.CacheKey(cacheHash(r))

			if raw, err := store.Get(r.Context(), key); err == nil {
				var cached cachedResponse
				if err := json.Unmarshal([]byte(raw), &cached); err == nil {
					etag := bodyETag(cached.Body)
					if r.Header.Get("If-None-Match") == etag {
						w.Header().Set("ETag", etag)
						w.WriteHeader(http.StatusNotModified)
						return
					}
					w.Header().Set("Content-Type", cached.ContentType)
					w.Header().Set("ETag", etag)
					w.Header().Set("X-Cache", "HIT")
					w.WriteHeader(cached.Status)
					w.Write(cached.Body)
					return
				}
			} else if !errors.Is(err, redis.Nil) && logg != nil {
				logg.Warn(r.Context(), "response cache read failed")
			}

			w.Header().Set("X-Cache", "MISS")
			capture := &captureWriter{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			if capture.status != 0 && capture.status != http.StatusOK {
				return
			}

			payload, err := json.Marshal(cachedResponse{
				Status:      http.StatusOK,
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.buf.Bytes(),
			})
			if err != nil {
				return
			}
			if err := store.Set(r.Context(), key, string(payload), ttl); err != nil && logg != nil {
				logg.Warn(r.Context(), "response cache write failed")
			}
		})
	}
}

func cacheHash(r *http.Request) string {
	sum := sha256.Sum256([]byte(r.Method + "|" + r.URL.Path + "|" + r.URL.RawQuery))
	return hex.EncodeToString(sum[:])
}

func bodyETag(body []byte) string {
	sum := sha256.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
