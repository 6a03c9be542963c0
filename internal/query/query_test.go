package query

import "testing"

func TestParse_Filename(t *testing.T) {
	raw := "[TaigaSubs]_Toradora!_(2008)_-_01v2_-_Tiger_and_Dragon_[1280x720_H.264_FLAC][1234ABCD].mkv"
	parsed, ok := Parse(raw)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if parsed.Title != "Toradora!" {
		t.Errorf("Title = %q, want %q", parsed.Title, "Toradora!")
	}
	if parsed.Year != "2008" {
		t.Errorf("Year = %q, want %q", parsed.Year, "2008")
	}
	if parsed.Raw != raw {
		t.Errorf("Raw = %q, want verbatim input", parsed.Raw)
	}
}

func TestParse_SeasonNumber(t *testing.T) {
	parsed, ok := Parse("My Show S02E05 1080p")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if parsed.Season != "2" {
		t.Errorf("Season = %q, want %q", parsed.Season, "2")
	}
}

func TestParse_NoTitle(t *testing.T) {
	if _, ok := Parse(""); ok {
		t.Fatal("expected empty input to be invalid")
	}
}

func TestSearchString(t *testing.T) {
	tests := []struct {
		name   string
		parsed ParsedQuery
		want   string
	}{
		{"with year", ParsedQuery{Title: "Toradora", Year: "2008"}, "Toradora (2008)"},
		{"without year", ParsedQuery{Title: "Toradora"}, "Toradora"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.parsed.SearchString(); got != tc.want {
				t.Errorf("SearchString() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"[SubsPlease] My Show (2020) - 01", "my-show-2020-01"},
		{"K-On!!", "k-on"},
		{"Love Live! Sunshine!!", "love-live-sunshine"},
		{"Fate/stay night", "fate-stay-night"},
		{"Konosuba ’s World", "konosuba-s-world"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
