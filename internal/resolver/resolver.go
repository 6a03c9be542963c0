// Package resolver turns a parsed query into concrete artwork: it runs
// the catalog search ladder, scores and selects candidates, and extracts
// poster, season-poster, and fanart images.
package resolver

import (
	"context"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/pikdum/mona/internal/query"
	"github.com/pikdum/mona/internal/tvdb"
)

// Artwork type codes used by the provider.
const (
	artTypeSeasonPoster = 7
	artTypeMovieBack    = 15
	artTypeSeriesFanart = 3
)

// Catalog is the slice of the metadata client the resolver needs.
type Catalog interface {
	Search(ctx context.Context, query string) ([]tvdb.Record, error)
	SeriesExtended(ctx context.Context, seriesID int64) (*tvdb.SeriesExtended, error)
	SeriesArtworks(ctx context.Context, seriesID, artType int64) (*tvdb.ArtworkList, error)
	MovieExtended(ctx context.Context, movieID int64) (*tvdb.MovieExtended, error)
	SeasonExtended(ctx context.Context, seasonID int64) (*tvdb.SeasonExtended, error)
}

type Resolver struct {
	Catalog Catalog
	Log     *zap.Logger
}

func New(catalog Catalog, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{Catalog: catalog, Log: log}
}

// searchCandidates runs the search ladder: the raw query text verbatim
// first, then the title-derived forms. It returns the first non-empty
// result set together with the exact query string that produced it,
// which scoring needs downstream.
func (r *Resolver) searchCandidates(ctx context.Context, p query.ParsedQuery) ([]tvdb.Record, string, error) {
	if p.Raw != "" {
		results, err := r.Catalog.Search(ctx, p.Raw)
		if err != nil {
			return nil, "", err
		}
		if len(results) > 0 {
			return results, p.Raw, nil
		}
	}
	return r.searchByTitle(ctx, p)
}

// searchByTitle searches with "Title (Year)" when a year was parsed,
// retrying with the bare title when the combined form finds nothing.
func (r *Resolver) searchByTitle(ctx context.Context, p query.ParsedQuery) ([]tvdb.Record, string, error) {
	searchString := p.SearchString()
	results, err := r.Catalog.Search(ctx, searchString)
	if err != nil {
		return nil, "", err
	}
	if len(results) == 0 && p.Year != "" {
		searchString = p.Title
		results, err = r.Catalog.Search(ctx, searchString)
		if err != nil {
			return nil, "", err
		}
	}
	if len(results) == 0 {
		r.Log.Info("no catalog results", zap.String("search", searchString))
	}
	return results, searchString, nil
}

// Poster resolves the poster image for a query. An empty string with a
// nil error means nothing was found.
func (r *Resolver) Poster(ctx context.Context, p query.ParsedQuery) (string, error) {
	results, q, err := r.searchCandidates(ctx, p)
	if err != nil {
		return "", err
	}
	best, ok := SelectBest(results, q)
	if !ok {
		return "", nil
	}

	id, hasID := best.ID()
	image := best.ImageRef()

	// A raw-filename match can select a record that carries neither an
	// identifier nor an image; retry on the parsed title alone.
	if !hasID && image == "" {
		fallback, fq, err := r.searchByTitle(ctx, p)
		if err != nil {
			return "", err
		}
		if alt, ok := SelectBest(fallback, fq); ok {
			id, hasID = alt.ID()
			image = alt.ImageRef()
		}
	}

	if image == "" && hasID {
		details, err := r.Catalog.SeriesExtended(ctx, id)
		if err != nil {
			return "", err
		}
		if details != nil {
			image = details.ImageRef()
		}
	}

	if !hasID || p.Season == "" {
		return image, nil
	}
	seasonImage, err := r.seasonImage(ctx, id, p.Season)
	if err != nil {
		return "", err
	}
	if seasonImage != "" {
		return seasonImage, nil
	}
	return image, nil
}

// seasonImage finds the season-poster artwork (type code 7) for the
// season whose number matches the parsed season string.
func (r *Resolver) seasonImage(ctx context.Context, seriesID int64, season string) (string, error) {
	number, err := strconv.ParseInt(season, 10, 64)
	if err != nil {
		return "", nil
	}

	series, err := r.Catalog.SeriesExtended(ctx, seriesID)
	if err != nil {
		return "", err
	}
	if series == nil {
		return "", nil
	}

	var seasonID int64
	found := false
	for _, s := range series.Seasons {
		if s.Number == number {
			seasonID, found = s.ID, true
			break
		}
	}
	if !found {
		return "", nil
	}

	details, err := r.Catalog.SeasonExtended(ctx, seasonID)
	if err != nil {
		return "", err
	}
	if details == nil {
		return "", nil
	}
	for _, art := range details.Artwork {
		if art.Type == artTypeSeasonPoster {
			return art.Image, nil
		}
	}
	return "", nil
}

// Fanart resolves the fanart collection for a query: candidates are
// tried in descending score order and the first one yielding a non-empty
// artwork collection wins. A nil slice with a nil error means none.
func (r *Resolver) Fanart(ctx context.Context, p query.ParsedQuery) ([]tvdb.Artwork, error) {
	results, q, err := r.searchCandidates(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	candidates := make([]tvdb.Record, len(results))
	copy(candidates, results)
	sort.SliceStable(candidates, func(i, j int) bool {
		return HybridScore(candidates[i], q) > HybridScore(candidates[j], q)
	})

	for _, candidate := range candidates {
		artworks, err := r.fanartForCandidate(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if len(artworks) > 0 {
			return artworks, nil
		}
	}
	return nil, nil
}

func (r *Resolver) fanartForCandidate(ctx context.Context, candidate tvdb.Record) ([]tvdb.Artwork, error) {
	id, ok := candidate.ID()
	if !ok {
		return nil, nil
	}

	switch candidate.Type {
	case "series":
		list, err := r.Catalog.SeriesArtworks(ctx, id, artTypeSeriesFanart)
		if err != nil {
			return nil, err
		}
		if list == nil {
			return nil, nil
		}
		return list.Artworks, nil
	case "movie":
		movie, err := r.Catalog.MovieExtended(ctx, id)
		if err != nil {
			return nil, err
		}
		if movie == nil {
			return nil, nil
		}
		var filtered []tvdb.Artwork
		for _, art := range movie.Artworks {
			if art.Type == artTypeMovieBack {
				filtered = append(filtered, art)
			}
		}
		return filtered, nil
	default:
		return nil, nil
	}
}
