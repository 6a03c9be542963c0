package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/pikdum/mona/internal/cache"
	"github.com/pikdum/mona/internal/platform/api"
	"github.com/pikdum/mona/internal/platform/httpserver"
)

// SessionEnsurer is the slice of the metadata client the login
// middleware needs.
type SessionEnsurer interface {
	EnsureSession(ctx context.Context) error
}

// RequireSession refreshes the metadata-provider session before the
// handler runs. A login failure is an upstream failure for the whole
// request.
func RequireSession(tv SessionEnsurer, log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := tv.EnsureSession(r.Context()); err != nil {
				log.Error("tvdb login failed", zap.Error(err))
				api.BadGateway(w, "LOGIN_FAILED", "tvdb login failed", httpserver.RequestIDFromContext(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type redirectRecorder struct {
	http.ResponseWriter
	status int
}

func (w *redirectRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// CacheRedirects memoizes redirect responses keyed by the literal raw
// value of the named query parameter. A hit answers immediately without
// invoking the handler; a miss stores the handler's redirect target.
// Concurrent identical misses each run the handler; the last store wins.
func CacheRedirects(c *cache.Redirects, param string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.URL.Query().Get(param)
			if key != "" {
				if target, ok := c.Get(key); ok {
					http.Redirect(w, r, target, http.StatusTemporaryRedirect)
					return
				}
			}

			recorder := &redirectRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			if key != "" && recorder.status == http.StatusTemporaryRedirect {
				if location := w.Header().Get("Location"); location != "" {
					c.Set(key, location)
				}
			}
		})
	}
}
