// File: services/conversation/resolve.go
package conversation

import (
	"context"
	"regexp"
	"strings"

	"stayfinder/models"
	"stayfinder/services/extract"

	"github.com/pmezard/go-difflib/difflib"
)

// Outcome classifies a selection resolution, by decreasing confidence.
type Outcome string

const (
	// ExactMatch means the extracted name equals an offer name after
	// normalization; safe to commit without asking.
	ExactMatch Outcome = "EXACT_MATCH"
	// SuggestedMatch is a fuzzy hit above the similarity threshold. It is a
	// guess: the caller must get the user's confirmation before committing.
	SuggestedMatch Outcome = "SUGGESTED_MATCH"
	// NotFound means nothing cleared the threshold; Options carries the valid
	// names to show the user.
	NotFound Outcome = "NOT_FOUND"
)

// similarityThreshold is the minimum sequence-matching ratio for a fuzzy hit.
const similarityThreshold = 0.5

// Resolution is the result of matching free-text input against the offers.
type Resolution struct {
	Outcome   Outcome
	Hotel     *models.HotelOffer
	Candidate string
	Options   []string
}

// Resolver determines which hotel, if any, a free-text message refers to.
// It extracts a candidate name with the LLM, then matches it against the
// offer names: exact normalized equality first, a fuzzy ratio fallback second.
type Resolver struct {
	extractor extract.Extractor
}

func NewResolver(extractor extract.Extractor) *Resolver {
	return &Resolver{extractor: extractor}
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeName lowercases, trims and strips every character that is not a
// letter or digit. It is applied identically to both sides of every
// comparison, and is idempotent.
func normalizeName(s string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}

// similarity is the sequence-matching ratio between two normalized names.
func similarity(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// Resolve maps user text to one of the offers. Calling it with an empty offer
// list is a contract violation and fails with ErrNoOffers.
func (r *Resolver) Resolve(ctx context.Context, text string, offers []models.HotelOffer) (Resolution, error) {
	if len(offers) == 0 {
		return Resolution{}, ErrNoOffers
	}

	names := make([]string, len(offers))
	for i, o := range offers {
		names[i] = o.Name
	}

	candidate := r.extractor.HotelName(ctx, text, names)
	if candidate == "" {
		return Resolution{Outcome: NotFound, Options: names}, nil
	}

	normalized := normalizeName(candidate)

	// Exact pass.
	for i := range offers {
		if normalizeName(offers[i].Name) == normalized {
			return Resolution{Outcome: ExactMatch, Hotel: &offers[i], Candidate: candidate}, nil
		}
	}

	// Fuzzy fallback. The best hit above the threshold is only a suggestion.
	bestRatio := 0.0
	bestIdx := -1
	for i := range offers {
		ratio := similarity(normalized, normalizeName(offers[i].Name))
		if ratio > bestRatio {
			bestRatio = ratio
			bestIdx = i
		}
	}
	if bestIdx >= 0 && bestRatio >= similarityThreshold {
		return Resolution{Outcome: SuggestedMatch, Hotel: &offers[bestIdx], Candidate: candidate}, nil
	}

	return Resolution{Outcome: NotFound, Candidate: candidate, Options: names}, nil
}
