package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/langtools/langtools-api/internal/api/shared"
	"github.com/langtools/langtools-api/internal/platform/logger"
	"github.com/langtools/langtools-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJWT struct {
	claims *auth.Claims
	err    error
}

func (s stubJWT) GenerateToken(context.Context, uuid.UUID) (string, error) { return "", nil }

func (s stubJWT) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, s.err
	}
	return s.claims, nil
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.UserID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = io.WriteString(w, id.String())
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	tests := []struct {
		name   string
		header string
		err    error
		status int
	}{
		{"valid", "Bearer good", nil, http.StatusOK},
		{"lowercase scheme", "bearer good", nil, http.StatusOK},
		{"missing header", "", nil, http.StatusUnauthorized},
		{"wrong scheme", "Basic good", nil, http.StatusUnauthorized},
		{"expired", "Bearer old", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid", "Bearer forged", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"unexpected failure", "Bearer x", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mw := NewAuthMiddleware(stubJWT{claims: &auth.Claims{UserID: userID}, err: tt.err})

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			mw.Authenticate(http.HandlerFunc(echoUser)).ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			}
		})
	}
}

func TestTrace(t *testing.T) {
	t.Parallel()
	base := slog.New(slog.NewTextHandler(io.Discard, nil))

	var seen string
	h := Trace(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.TraceID(r.Context())
		assert.NotSame(t, base, logger.FromContext(r.Context()))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(TraceHeader))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(TraceHeader, "upstream-id")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "upstream-id", seen)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	h := RateLimit(0.001, 2)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

type observed struct {
	method, route string
	status        int
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observed
}

func (o *recordingObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observed{method, route, status})
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{}

	r := chi.NewRouter()
	r.Use(Metrics(obs))
	r.Get("/api/entries/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(http.ResponseWriter, *http.Request) {})

	for _, path := range []string{"/api/entries/123", "/ok"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, []observed{
		{http.MethodGet, "/api/entries/{id}", http.StatusNotFound},
		{http.MethodGet, "/ok", http.StatusOK},
	}, obs.seen)
}
