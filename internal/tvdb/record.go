package tvdb

import (
	"encoding/json"
	"strconv"
	"strings"
)

// idKeys is the fallback order for locating a record's identifier. Search
// results carry the id under different keys depending on the index that
// produced them; the first present and coercible key wins.
var idKeys = []string{"tvdb_id", "id", "objectID", "objectId", "object_id"}

// Record is one catalog search result. Every field is optional on the
// wire; absent fields decode to their zero value so access stays
// defensive without speculative map lookups.
type Record struct {
	ImageURL        string       `json:"image_url"`
	Image           string       `json:"image"`
	PrimaryLanguage string       `json:"primary_language"`
	Type            string       `json:"type"`
	Name            string       `json:"name"`
	Slug            string       `json:"slug"`
	Translations    Translations `json:"translations"`
	Aliases         []string     `json:"aliases"`

	id    int64
	hasID bool
	raw   []byte
}

type Translations struct {
	Eng string `json:"eng"`
}

func (r *Record) UnmarshalJSON(b []byte) error {
	type plain Record
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Record(p)
	r.raw = append([]byte(nil), b...)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	for _, key := range idKeys {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if id, ok := coerceID(v); ok {
			r.id, r.hasID = id, true
			break
		}
	}
	return nil
}

// ID returns the record identifier, coerced from an integer or numeric
// string under the documented key order.
func (r Record) ID() (int64, bool) {
	return r.id, r.hasID
}

// ImageRef returns the record image, preferring image_url over image.
func (r Record) ImageRef() string {
	if r.ImageURL != "" {
		return r.ImageURL
	}
	return r.Image
}

// Blob is the case-folded raw serialization of the record, used for
// free-text signals like "anime" or "crunchyroll".
func (r Record) Blob() string {
	return strings.ToLower(string(r.raw))
}

func coerceID(v json.RawMessage) (int64, bool) {
	var n int64
	if err := json.Unmarshal(v, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// SeriesExtended is the extended series record. Only the fields the
// resolution pipeline reads are modeled.
type SeriesExtended struct {
	ImageURL string      `json:"image_url"`
	Image    string      `json:"image"`
	Seasons  []SeasonRef `json:"seasons"`
}

// ImageRef mirrors Record.ImageRef for the extended shape.
func (s SeriesExtended) ImageRef() string {
	if s.ImageURL != "" {
		return s.ImageURL
	}
	return s.Image
}

type SeasonRef struct {
	ID     int64 `json:"id"`
	Number int64 `json:"number"`
}

type SeasonExtended struct {
	Artwork []Artwork `json:"artwork"`
}

type MovieExtended struct {
	Image    string    `json:"image"`
	Artworks []Artwork `json:"artworks"`
}

type ArtworkList struct {
	Artworks []Artwork `json:"artworks"`
}

// Artwork is a single artwork entry. Type is the provider's artwork type
// code (7 = season poster, 15 = movie backdrop, 3 = series fanart).
type Artwork struct {
	Type  int64  `json:"type"`
	Image string `json:"image"`
}
