package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pikdum/mona/internal/platform/api"
	"github.com/pikdum/mona/internal/platform/httpserver"
	"github.com/pikdum/mona/internal/scrape"
)

var allowedTorrentPrefixes = []string{"https://nyaa.si/", "https://sukebei.nyaa.si/"}

func allowedTorrentURL(u string) bool {
	for _, prefix := range allowedTorrentPrefixes {
		if strings.HasPrefix(u, prefix) {
			return true
		}
	}
	return false
}

// TorrentArt resolves ?url= (a nyaa listing page) into a redirect to the
// first image found in the listing description.
func TorrentArt(nyaa *scrape.Nyaa, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		pageURL := r.URL.Query().Get("url")
		if !allowedTorrentURL(pageURL) {
			api.BadRequest(w, "INVALID_URL", "invalid url", rid)
			return
		}

		image, err := nyaa.TorrentArt(r.Context(), pageURL)
		if err != nil {
			log.Warn("torrent art scrape failed", zap.String("url", pageURL), zap.Error(err))
			api.BadGateway(w, "TORRENT_FAILED", "torrent request failed", rid)
			return
		}
		if image == "" {
			api.NotFound(w, "ART_NOT_FOUND", "art not found", rid)
			return
		}
		http.Redirect(w, r, image, http.StatusTemporaryRedirect)
	}
}
