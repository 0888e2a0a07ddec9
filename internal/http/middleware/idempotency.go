package middleware

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/balance-ledger/internal/cache"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
)

type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (*cache.Response, error)
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
	Store(ctx context.Context, key string, resp cache.Response) error
}

// Idempotency replays the recorded reply when a mutating request is retried
// with the same Idempotency-Key. Requests without the header pass through.
// Server errors are not recorded so the caller can retry them.
func Idempotency(store IdempotencyStore, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader(headerIdempotencyKey))
		if header == "" || store == nil {
			c.Next()
			return
		}

		key := scopedKey(c, header)
		ctx := c.Request.Context()

		recorded, err := store.Lookup(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", header).Msg("idempotency lookup failed")
			c.Next()
			return
		}
		if recorded != nil {
			c.Header(headerReplayed, "true")
			c.Data(recorded.Status, recorded.ContentType, recorded.Body)
			c.Abort()
			return
		}

		reserved, err := store.Reserve(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", header).Msg("idempotency reserve failed")
			c.Next()
			return
		}
		if !reserved {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "request with this idempotency key is in progress", "code": "conflict"})
			return
		}
		defer func() {
			if err := store.Release(context.WithoutCancel(ctx), key); err != nil {
				log.Warn().Err(err).Str("key", header).Msg("idempotency release failed")
			}
		}()

		// A twin request may have recorded its reply and released the key
		// between the first lookup and the reservation.
		recorded, err = store.Lookup(ctx, key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "idempotency store unavailable", "code": "unavailable"})
			return
		}
		if recorded != nil {
			c.Header(headerReplayed, "true")
			c.Data(recorded.Status, recorded.ContentType, recorded.Body)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			return
		}
		resp := cache.Response{
			Status:      status,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		}
		if err := store.Store(context.WithoutCancel(ctx), key, resp); err != nil {
			log.Warn().Err(err).Str("key", header).Msg("idempotency store failed")
		}
	}
}

func scopedKey(c *gin.Context, header string) string {
	principal := "anonymous"
	if profile, ok := MustPrincipal(c); ok {
		principal = fmt.Sprintf("%d", profile.ID)
	}
	return fmt.Sprintf("%s:%s:%s:%s", principal, c.Request.Method, c.Request.URL.Path, header)
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
