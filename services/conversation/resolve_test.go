package conversation

import (
	"context"
	"testing"

	"stayfinder/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubNameExtractor answers every extraction with fixed values.
type stubNameExtractor struct {
	trip    models.TripDetails
	name    string
	contact models.Contact
}

func (s *stubNameExtractor) TripDetails(ctx context.Context, text string) models.TripDetails {
	return s.trip
}

func (s *stubNameExtractor) HotelName(ctx context.Context, text string, options []string) string {
	return s.name
}

func (s *stubNameExtractor) Contact(ctx context.Context, text string) models.Contact {
	return s.contact
}

func twoHotels() []models.HotelOffer {
	return []models.HotelOffer{
		{HotelID: "RTZCPT", Name: "The Ritz Hotel", Available: true},
		{HotelID: "HGICPT", Name: "Hilton Garden Inn", Available: true},
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{"  The Ritz Hotel ", "HILTON-GARDEN, Inn!", "h ô tel", "already"}
	for _, in := range inputs {
		once := normalizeName(in)
		assert.Equal(t, once, normalizeName(once), "normalize(normalize(%q))", in)
	}
}

func TestNormalizeNameStripsPunctuationAndCase(t *testing.T) {
	assert.Equal(t, "theritzhotel", normalizeName("  The Ritz Hotel! "))
	assert.Equal(t, "hiltongardeninn", normalizeName("Hilton-Garden, Inn"))
}

func TestResolveExactMatch(t *testing.T) {
	r := NewResolver(&stubNameExtractor{name: "The Ritz Hotel"})

	res, err := r.Resolve(context.Background(), "i'll take the ritz", twoHotels())
	require.NoError(t, err)
	assert.Equal(t, ExactMatch, res.Outcome)
	require.NotNil(t, res.Hotel)
	assert.Equal(t, "RTZCPT", res.Hotel.HotelID)
}

func TestResolveExactMatchIgnoresCaseAndPunctuation(t *testing.T) {
	r := NewResolver(&stubNameExtractor{name: "the ritz-hotel!"})

	res, err := r.Resolve(context.Background(), "the ritz please", twoHotels())
	require.NoError(t, err)
	assert.Equal(t, ExactMatch, res.Outcome)
	assert.Equal(t, "RTZCPT", res.Hotel.HotelID)
}

func TestResolveTypoIsSuggestedNotCommitted(t *testing.T) {
	r := NewResolver(&stubNameExtractor{name: "ritz htel"})

	res, err := r.Resolve(context.Background(), "the ritz htel", twoHotels())
	require.NoError(t, err)
	assert.Equal(t, SuggestedMatch, res.Outcome)
	require.NotNil(t, res.Hotel)
	assert.Equal(t, "The Ritz Hotel", res.Hotel.Name)
}

func TestResolveUnknownSentinelIsNotFound(t *testing.T) {
	// The extractor returns "" when the model answers the unknown sentinel.
	r := NewResolver(&stubNameExtractor{name: ""})

	res, err := r.Resolve(context.Background(), "whatever you think is best", twoHotels())
	require.NoError(t, err)
	assert.Equal(t, NotFound, res.Outcome)
	assert.Equal(t, []string{"The Ritz Hotel", "Hilton Garden Inn"}, res.Options)
}

func TestResolveGibberishBelowThresholdIsNotFound(t *testing.T) {
	r := NewResolver(&stubNameExtractor{name: "zzqqxxywv"})

	res, err := r.Resolve(context.Background(), "zzqqxxywv", twoHotels())
	require.NoError(t, err)
	assert.Equal(t, NotFound, res.Outcome)
	assert.Equal(t, []string{"The Ritz Hotel", "Hilton Garden Inn"}, res.Options)
}

func TestResolveEmptyOffersIsContractViolation(t *testing.T) {
	r := NewResolver(&stubNameExtractor{name: "The Ritz Hotel"})

	_, err := r.Resolve(context.Background(), "the ritz", nil)
	assert.ErrorIs(t, err, ErrNoOffers)
}

func TestSimilarityRatio(t *testing.T) {
	// "ritzhtel" vs "theritzhotel" shares most of its characters in order,
	// which must clear the suggestion threshold.
	assert.GreaterOrEqual(t, similarity("ritzhtel", "theritzhotel"), similarityThreshold)
	assert.Less(t, similarity("zzqqxxywv", "theritzhotel"), similarityThreshold)
}
