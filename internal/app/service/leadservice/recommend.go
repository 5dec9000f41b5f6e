package leadservice

import (
	"sort"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/bitforce/ambassador/internal/models"
)

type Recommendation struct {
	Listing *models.ProviderListing `json:"listing"`
	Score   int                     `json:"score"`
	Matched []string                `json:"matched"`
}

func tokens(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.FieldsFunc(strings.ToLower(v), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})...)
	}
	return lo.Uniq(out)
}

// rank scores listings against lead interests: 3 for a category hit and 2
// per matching keyword. Listings with no overlap are dropped.
func rank(interests []string, listings []*models.ProviderListing, exclude []string) []Recommendation {
	wanted := tokens(interests)
	var out []Recommendation
	for _, l := range listings {
		if lo.Contains(exclude, l.ID) {
			continue
		}
		var score int
		var matched []string
		category := tokens([]string{l.Category})
		if len(category) > 0 && lo.Every(wanted, category) {
			score += 3
			matched = append(matched, l.Category)
		}
		for _, kw := range tokens(l.Keywords) {
			if lo.Contains(wanted, kw) {
				score += 2
				matched = append(matched, kw)
			}
		}
		if score > 0 {
			out = append(out, Recommendation{Listing: l, Score: score, Matched: lo.Uniq(matched)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Listing.Title < out[j].Listing.Title
	})
	return out
}
