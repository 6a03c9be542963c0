package scrape

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

var imagePattern = regexp.MustCompile(`https?://[^\s"']+?\.(?:jpg|jpeg|png|gif)`)

// Nyaa extracts the first image URL out of a torrent listing's
// description block.
type Nyaa struct {
	HTTPClient *http.Client
	Log        *zap.Logger
}

func NewNyaa(client *http.Client, log *zap.Logger) *Nyaa {
	if client == nil {
		client = NewHTTPClient()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Nyaa{HTTPClient: client, Log: log}
}

// TorrentArt fetches the listing page and regex-matches the first image
// URL inside the description container. A non-success page or a missing
// container degrades to "" with a nil error, never an upstream error.
func (n *Nyaa) TorrentArt(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("nyaa: get %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("nyaa: parse %s: %w", pageURL, err)
	}

	description := doc.Find("div#torrent-description").First()
	if description.Length() == 0 {
		return "", nil
	}
	contents, err := description.Html()
	if err != nil {
		return "", err
	}
	return imagePattern.FindString(contents), nil
}
