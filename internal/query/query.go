// Package query turns a raw release filename or search string into the
// fields the resolution pipeline works with.
package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/moistari/rls"
)

// ParsedQuery is the parsed view of one inbound query string. Title is
// mandatory; Year and Season are "" when the parser found none. Raw is
// the verbatim input and is what gets searched first.
type ParsedQuery struct {
	Raw    string
	Title  string
	Year   string
	Season string
}

// Parse tokenizes a release filename or free-form search string. The
// second return is false when no title could be extracted, which
// invalidates the whole query.
func Parse(raw string) (ParsedQuery, bool) {
	release := rls.ParseString(raw)
	title := strings.TrimSpace(release.Title)
	if title == "" {
		return ParsedQuery{}, false
	}

	parsed := ParsedQuery{Raw: raw, Title: title}
	if release.Year > 0 {
		parsed.Year = strconv.Itoa(release.Year)
	}
	if release.Series > 0 {
		parsed.Season = strconv.Itoa(release.Series)
	}
	return parsed, true
}

// SearchString is the catalog query derived from the parsed fields:
// "Title (Year)" when a year was found, bare Title otherwise.
func (p ParsedQuery) SearchString() string {
	if p.Year != "" {
		return fmt.Sprintf("%s (%s)", p.Title, p.Year)
	}
	return p.Title
}

var (
	bracketGroups = regexp.MustCompile(`\[.*?\]`)
	nonAlnumRuns  = regexp.MustCompile(`[^a-zA-Z0-9_]+`)
	punctStripper = strings.NewReplacer("(", "", ")", "", "'", "", "’", "", "+", "", "@", "")
)

// Slugify derives a lowercase hyphen-delimited identifier from a title.
// Bracketed release-group tags are dropped entirely.
func Slugify(text string) string {
	text = strings.ToLower(text)
	text = bracketGroups.ReplaceAllString(text, "")
	text = punctStripper.Replace(text)
	text = nonAlnumRuns.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}
