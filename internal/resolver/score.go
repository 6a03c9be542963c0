package resolver

import (
	"regexp"
	"slices"
	"strings"

	"github.com/pikdum/mona/internal/tvdb"
)

var trailingDigits = regexp.MustCompile(`-\d+$`)

// TitleRelevance scores how well a record's titles match the query, in
// [0, 100]. Pure function of the record and query.
//
// 100: exact case-insensitive match of the English translation, name, or
// an alias; or the slug with a trailing -<digits> suffix stripped and
// hyphens spaced out. Useful for "to-be-hero-x-2020" style slugs.
// 90: any of those fields contains the query as a substring.
// Otherwise: 80 scaled by the fraction of query words (longer than one
// character) found across all title fields.
func TitleRelevance(rec tvdb.Record, query string) float64 {
	if strings.TrimSpace(query) == "" {
		return 0
	}
	q := strings.ToLower(query)

	eng := strings.ToLower(rec.Translations.Eng)
	name := strings.ToLower(rec.Name)
	slugRaw := strings.ToLower(rec.Slug)
	slug := strings.ReplaceAll(slugRaw, "-", " ")
	aliases := make([]string, len(rec.Aliases))
	for i, alias := range rec.Aliases {
		aliases[i] = strings.ToLower(alias)
	}

	if eng == q || name == q || slices.Contains(aliases, q) {
		return 100
	}
	if slugRaw != "" {
		trimmed := strings.ReplaceAll(trailingDigits.ReplaceAllString(slugRaw, ""), "-", " ")
		if trimmed == q {
			return 100
		}
	}

	qHyphen := strings.ReplaceAll(q, " ", "-")
	contains := func(s string) bool { return strings.Contains(s, q) }
	if contains(eng) || contains(name) || contains(slug) ||
		strings.Contains(slugRaw, qHyphen) ||
		slices.ContainsFunc(aliases, contains) {
		return 90
	}

	var words []string
	for _, w := range strings.Fields(q) {
		if len(w) > 1 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return 0
	}

	allText := strings.Join(append([]string{eng, name, slug}, aliases...), " ")
	matched := 0
	for _, w := range words {
		if strings.Contains(allText, w) {
			matched++
		}
	}
	return float64(matched) / float64(len(words)) * 80
}

// HybridScore blends title relevance with anime-shaped metadata signals:
// 0.6 × TitleRelevance + 0.4 × animeScore, where animeScore (max 80) adds
// 20 for a usable image, 30 for a jpn/kor/zho primary language, 10 for a
// series, and 20 when the raw record mentions anime or crunchyroll.
func HybridScore(rec tvdb.Record, query string) float64 {
	var animeScore float64

	if img := rec.ImageRef(); img != "" && !strings.Contains(img, "missing") {
		animeScore += 20
	}
	switch rec.PrimaryLanguage {
	case "jpn", "kor", "zho":
		animeScore += 30
	}
	if rec.Type == "series" {
		animeScore += 10
	}
	if blob := rec.Blob(); strings.Contains(blob, "anime") || strings.Contains(blob, "crunchyroll") {
		animeScore += 20
	}

	return TitleRelevance(rec, query)*0.6 + animeScore*0.4
}

// SelectBest picks the candidate maximizing HybridScore. Ties break to
// the first-encountered maximum, so selection is deterministic for a
// given result order.
func SelectBest(results []tvdb.Record, query string) (tvdb.Record, bool) {
	if len(results) == 0 {
		return tvdb.Record{}, false
	}
	best := results[0]
	bestScore := HybridScore(best, query)
	for _, rec := range results[1:] {
		if score := HybridScore(rec, query); score > bestScore {
			best, bestScore = rec, score
		}
	}
	return best, true
}
