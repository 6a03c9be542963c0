package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pikdum/mona/internal/query"
)

// Subsplease probes subsplease.org show pages for a poster image.
type Subsplease struct {
	BaseURL    string
	HTTPClient *http.Client
	Log        *zap.Logger
}

func NewSubsplease(baseURL string, client *http.Client, log *zap.Logger) *Subsplease {
	if baseURL == "" {
		baseURL = "https://subsplease.org"
	}
	if client == nil {
		client = NewHTTPClient()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Subsplease{BaseURL: strings.TrimRight(baseURL, "/"), HTTPClient: client, Log: log}
}

// Poster slugifies the title and probes /shows/<slug>, dropping the last
// hyphen-separated word per round, until a page with an image tag loads
// or the slug is exhausted. An empty result with a nil error means no
// poster was found; only transport failures are errors.
func (s *Subsplease) Poster(ctx context.Context, title string) (string, error) {
	s.Log.Info("searching subsplease", zap.String("title", title))

	var words []string
	for _, w := range strings.Split(query.Slugify(title), "-") {
		if w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		words = []string{""}
	}

	rounds := len(words) + 1
	for attempt := 0; attempt < rounds; attempt++ {
		src, err := s.probe(ctx, s.BaseURL+"/shows/"+strings.Join(words, "-"))
		if err != nil {
			return "", err
		}
		if src != "" {
			return s.BaseURL + src, nil
		}
		if len(words) > 0 {
			words = words[:len(words)-1]
		}
	}
	return "", nil
}

func (s *Subsplease) probe(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("subsplease: get %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("subsplease: parse %s: %w", pageURL, err)
	}
	src, _ := doc.Find("img").First().Attr("src")
	return src, nil
}
