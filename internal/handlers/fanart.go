package handlers

import (
	"math/rand"
	"net/http"

	"go.uber.org/zap"

	"github.com/pikdum/mona/internal/platform/api"
	"github.com/pikdum/mona/internal/platform/httpserver"
	"github.com/pikdum/mona/internal/query"
	"github.com/pikdum/mona/internal/resolver"
	"github.com/pikdum/mona/internal/tvdb"
)

// Fanart resolves ?query= into a redirect to one randomly chosen fanart
// image from the best candidate's collection.
func Fanart(res *resolver.Resolver, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		parsed, ok := query.Parse(r.URL.Query().Get("query"))
		if !ok {
			api.BadRequest(w, "INVALID_QUERY", "query is invalid", rid)
			return
		}

		artworks, err := res.Fanart(r.Context(), parsed)
		if err != nil {
			log.Warn("tvdb fanart lookup failed", zap.String("title", parsed.Title), zap.Error(err))
			api.BadGateway(w, "TVDB_FAILED", "tvdb request failed", rid)
			return
		}

		image := pickImage(artworks)
		if image == "" {
			api.NotFound(w, "FANART_NOT_FOUND", "fanart not found", rid)
			return
		}
		http.Redirect(w, r, image, http.StatusTemporaryRedirect)
	}
}

// pickImage chooses uniformly at random among artworks that carry an
// image.
func pickImage(artworks []tvdb.Artwork) string {
	var images []string
	for _, art := range artworks {
		if art.Image != "" {
			images = append(images, art.Image)
		}
	}
	if len(images) == 0 {
		return ""
	}
	return images[rand.Intn(len(images))]
}
