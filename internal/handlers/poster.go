// Package handlers wires the resolution pipeline to the HTTP surface:
// one handler per endpoint plus the session, cache, and rate-limit
// middlewares.
package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/pikdum/mona/internal/platform/api"
	"github.com/pikdum/mona/internal/platform/httpserver"
	"github.com/pikdum/mona/internal/query"
	"github.com/pikdum/mona/internal/resolver"
	"github.com/pikdum/mona/internal/scrape"
)

// Poster resolves ?query= into a poster redirect: catalog first, then
// the subsplease probe.
func Poster(res *resolver.Resolver, sub *scrape.Subsplease, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		parsed, ok := query.Parse(r.URL.Query().Get("query"))
		if !ok {
			api.BadRequest(w, "INVALID_QUERY", "query is invalid", rid)
			return
		}

		poster, err := res.Poster(r.Context(), parsed)
		if err != nil {
			log.Warn("tvdb poster lookup failed", zap.String("title", parsed.Title), zap.Error(err))
			api.BadGateway(w, "TVDB_FAILED", "tvdb request failed", rid)
			return
		}
		if poster != "" {
			http.Redirect(w, r, poster, http.StatusTemporaryRedirect)
			return
		}

		poster, err = sub.Poster(r.Context(), parsed.Title)
		if err != nil {
			log.Warn("subsplease probe failed", zap.String("title", parsed.Title), zap.Error(err))
			api.BadGateway(w, "SUBSPLEASE_FAILED", "subsplease request failed", rid)
			return
		}
		if poster != "" {
			http.Redirect(w, r, poster, http.StatusTemporaryRedirect)
			return
		}

		api.NotFound(w, "POSTER_NOT_FOUND", "poster not found", rid)
	}
}
