// Package scrape holds the secondary art sources used when the catalog
// comes up empty: subsplease poster probing and nyaa torrent-description
// scraping.
package scrape

import (
	"errors"
	"net/http"
	"time"
)

const maxRedirectHops = 10

// NewHTTPClient builds the outbound client shared by the scrapers. It
// follows redirects up to a fixed hop limit and never retries.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirectHops {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}
