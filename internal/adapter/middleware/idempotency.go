package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	// Hold the in-progress lock until the handler finishes or this expires.
	provisionalLockTTL = 60 * time.Second
	// Allowed client/server clock skew for X-Request-At (in UTC).
	maxClockSkew = 10 * time.Minute
)

// idempEntry is the redis payload: first written provisionally (InProgress)
// under SETNX, then overwritten with the final response for replay.
type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// requestMeta is what a mutating request must carry to be deduplicated.
type requestMeta struct {
	requestID string
	requestAt time.Time
	holderID  string
}

// extractMeta validates the idempotency headers. A non-empty second return
// is the message for the 400 response.
func extractMeta(req *http.Request) (requestMeta, string) {
	var m requestMeta

	m.requestID = strings.TrimSpace(req.Header.Get("X-Request-Id"))
	if m.requestID == "" {
		return m, "missing X-Request-Id"
	}
	if !validReqID(m.requestID) {
		return m, "invalid X-Request-Id format"
	}

	at, err := parseRequestAt(req.Header.Get("X-Request-At"))
	if err != nil {
		return m, err.Error()
	}
	now := nowUTC()
	if at.Before(now.Add(-maxClockSkew)) || at.After(now.Add(maxClockSkew)) {
		return m, "X-Request-At too skewed"
	}
	m.requestAt = at

	m.holderID = strings.TrimSpace(req.Header.Get("X-Holder-Id"))
	if m.holderID == "" {
		return m, "missing X-Holder-Id"
	}
	if !reHex32.MatchString(m.holderID) {
		return m, "invalid X-Holder-Id"
	}
	return m, ""
}

// replayOrConflict handles the SETNX-lost case: the key already exists, so
// either the stored response is replayed, the body differs (misuse), or the
// first attempt is still running.
func replayOrConflict(ctx context.Context, c echo.Context, rdb *redis.Client, key, bhash string) error {
	cur, err := loadEntry(ctx, rdb, key)
	if err != nil {
		slog.Warn("idempotency entry load failed", "key", key, "error", err)
	}
	if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
		return c.JSON(http.StatusConflict, map[string]string{"error": "X-Request-Id reused with different body"})
	}
	if !cur.InProgress && cur.Code != 0 && len(cur.Body) > 0 {
		return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
	}
	return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
}

// Idempotency dedupes mutating requests. Key = method + route + holder id +
// request id; a replayed key with the same body returns the stored response.
// X-Request-At must be epoch (seconds or ms) or RFC3339 with a timezone.
func Idempotency(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			meta, badReq := extractMeta(req)
			if badReq != "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": badReq})
			}

			// Buffer the body so the handler can still read it after hashing.
			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewBuffer(body))
			bhash := bodyHash(body)

			key := buildKey(req.Method, c.Path(), meta.holderID, meta.requestID)
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			won, err := provisionalSet(ctx, rdb, key, idempEntry{
				InProgress:  true,
				BodySHA256:  bhash,
				RequestID:   meta.requestID,
				RequestAtMS: meta.requestAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			})
			if err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !won {
				return replayOrConflict(ctx, c, rdb, key, bhash)
			}

			// Run the handler with the response teed into a buffer for replay.
			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			_ = saveFinal(context.Background(), rdb, key, idempEntry{
				InProgress:  false,
				Code:        rec.code,
				Body:        rec.buf.Bytes(),
				BodySHA256:  bhash,
				RequestID:   meta.requestID,
				RequestAtMS: meta.requestAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}, ttl)
			return nil
		}
	}
}
