package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"stayfinder/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore round-trips states through JSON, like the Redis store does, so
// tests exercise the same serialization path.
type memoryStore struct {
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Get(ctx context.Context, sessionID string) (*models.BookingState, error) {
	raw, ok := m.data[sessionID]
	if !ok {
		return models.NewBookingState(), nil
	}
	var state models.BookingState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (m *memoryStore) Set(ctx context.Context, sessionID string, state *models.BookingState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.data[sessionID] = raw
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

// scriptedExtractor returns a different extraction per turn.
type scriptedExtractor struct {
	trips    []models.TripDetails
	tripIdx  int
	name     string
	contacts []models.Contact
	contIdx  int
}

func (s *scriptedExtractor) TripDetails(ctx context.Context, text string) models.TripDetails {
	if s.tripIdx >= len(s.trips) {
		return models.TripDetails{}
	}
	trip := s.trips[s.tripIdx]
	s.tripIdx++
	return trip
}

func (s *scriptedExtractor) HotelName(ctx context.Context, text string, options []string) string {
	return s.name
}

func (s *scriptedExtractor) Contact(ctx context.Context, text string) models.Contact {
	if s.contIdx >= len(s.contacts) {
		return models.Contact{}
	}
	contact := s.contacts[s.contIdx]
	s.contIdx++
	return contact
}

type fakeProvider struct {
	offers []models.HotelOffer
	err    error
	calls  int
}

func (f *fakeProvider) SearchHotels(ctx context.Context, cityCode, checkIn, checkOut string, guests int) ([]models.HotelOffer, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.offers, nil
}

func fullTrip() models.TripDetails {
	return models.TripDetails{
		Destination: "Cape Town",
		CheckIn:     "2025-09-15",
		CheckOut:    "2025-09-20",
		Guests:      2,
	}
}

func newTestService(extractor *scriptedExtractor, provider *fakeProvider) (*Service, *memoryStore) {
	store := newMemoryStore()
	svc := NewService(store, extractor, provider, time.Second, 3)
	return svc, store
}

func TestAdvanceIncompleteSlotsNeverSearches(t *testing.T) {
	provider := &fakeProvider{offers: twoHotels()}
	svc, _ := newTestService(&scriptedExtractor{
		trips: []models.TripDetails{{Destination: "Cape Town", Guests: 2}},
	}, provider)

	reply, state, err := svc.Advance(context.Background(), "s1", "two of us off to cape town")
	require.NoError(t, err)

	assert.Zero(t, provider.calls)
	assert.Equal(t, models.PhaseCollecting, state.Phase)
	assert.Nil(t, state.SearchResults)
	assert.Equal(t, "Please provide: check in date, check out date.", reply)
}

func TestAdvanceFirstWriteWins(t *testing.T) {
	provider := &fakeProvider{offers: twoHotels()}
	svc, _ := newTestService(&scriptedExtractor{
		trips: []models.TripDetails{
			{Destination: "Cape Town"},
			{Destination: "Durban", CheckIn: "2025-09-15"},
		},
	}, provider)

	_, state, err := svc.Advance(context.Background(), "s1", "cape town please")
	require.NoError(t, err)
	assert.Equal(t, "Cape Town", state.Trip.Destination)

	_, state, err = svc.Advance(context.Background(), "s1", "actually durban, from the 15th")
	require.NoError(t, err)
	assert.Equal(t, "Cape Town", state.Trip.Destination, "a known slot is never overwritten")
	assert.Equal(t, "2025-09-15", state.Trip.CheckIn)
}

func TestAdvanceCompleteSlotsTriggersSearchOnce(t *testing.T) {
	provider := &fakeProvider{offers: twoHotels()}
	svc, _ := newTestService(&scriptedExtractor{
		trips: []models.TripDetails{fullTrip()},
	}, provider)

	reply, state, err := svc.Advance(context.Background(), "s1", "cape town, sep 15 to 20, 2 guests")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, models.PhaseAwaitingSelection, state.Phase)
	require.Len(t, state.SearchResults, 2)
	assert.Contains(t, reply, "The Ritz Hotel")
	assert.Contains(t, reply, "Hilton Garden Inn")

	// The conversation has moved on; another slot-filling turn is a phase
	// violation, so a second search can never fire.
	_, _, err = svc.Advance(context.Background(), "s1", "anything")
	assert.True(t, IsPhaseViolation(err))
	assert.Equal(t, 1, provider.calls)
}

func TestAdvanceEmptyResultsKeepsSlotsAndPhase(t *testing.T) {
	provider := &fakeProvider{offers: []models.HotelOffer{}}
	svc, _ := newTestService(&scriptedExtractor{
		trips: []models.TripDetails{fullTrip()},
	}, provider)

	reply, state, err := svc.Advance(context.Background(), "s1", "cape town, sep 15 to 20, 2 guests")
	require.NoError(t, err)

	assert.Equal(t, models.PhaseCollecting, state.Phase)
	assert.Nil(t, state.SearchResults)
	assert.Contains(t, reply, "Sorry")
	assert.Equal(t, fullTrip(), state.Trip, "collected slots are retained after a failed search")
}

func TestAdvanceProviderFailureKeepsSlots(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream unreachable")}
	svc, _ := newTestService(&scriptedExtractor{
		trips: []models.TripDetails{fullTrip()},
	}, provider)

	reply, state, err := svc.Advance(context.Background(), "s1", "cape town, sep 15 to 20, 2 guests")
	require.NoError(t, err, "a provider failure is an apology, not a turn error")

	assert.Equal(t, models.PhaseCollecting, state.Phase)
	assert.Contains(t, reply, "Sorry")
	assert.Equal(t, fullTrip(), state.Trip)
}

func TestAdvanceSearchRetriesAreBounded(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream unreachable")}
	svc, _ := newTestService(&scriptedExtractor{
		trips: []models.TripDetails{fullTrip()},
	}, provider)

	for i := 0; i < 3; i++ {
		_, _, err := svc.Advance(context.Background(), "s1", "same details again")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, provider.calls)

	reply, state, err := svc.Advance(context.Background(), "s1", "same details again")
	require.NoError(t, err)
	assert.Equal(t, 3, provider.calls, "the provider is not called past the attempt limit")
	assert.Contains(t, reply, "new booking")
	assert.Equal(t, models.PhaseCollecting, state.Phase)
}

func setupAwaitingSelection(t *testing.T, extractor *scriptedExtractor) (*Service, *memoryStore) {
	t.Helper()
	extractor.trips = []models.TripDetails{fullTrip()}
	provider := &fakeProvider{offers: twoHotels()}
	svc, store := newTestService(extractor, provider)
	_, state, err := svc.Advance(context.Background(), "s1", "cape town, sep 15 to 20, 2 guests")
	require.NoError(t, err)
	require.Equal(t, models.PhaseAwaitingSelection, state.Phase)
	return svc, store
}

func TestSelectExactMatchMovesToContact(t *testing.T) {
	svc, _ := setupAwaitingSelection(t, &scriptedExtractor{name: "The Ritz Hotel"})

	reply, state, err := svc.Select(context.Background(), "s1", "i'll take the ritz")
	require.NoError(t, err)

	assert.Equal(t, models.PhaseAwaitingContact, state.Phase)
	require.NotNil(t, state.SelectedHotel)
	assert.Equal(t, "RTZCPT", state.SelectedHotel.HotelID)
	assert.Contains(t, reply, "name, email and phone")
}

func TestSelectTypoSuggestsWithoutCommitting(t *testing.T) {
	svc, _ := setupAwaitingSelection(t, &scriptedExtractor{name: "ritz htel"})

	reply, state, err := svc.Select(context.Background(), "s1", "the ritz htel")
	require.NoError(t, err)

	assert.Equal(t, models.PhaseAwaitingSelection, state.Phase, "a fuzzy hit is never auto-committed")
	assert.Nil(t, state.SelectedHotel)
	require.NotNil(t, state.PendingSuggestion)
	assert.Equal(t, "The Ritz Hotel", state.PendingSuggestion.Name)
	assert.Contains(t, reply, "Did you mean")
}

func TestSelectConfirmsPendingSuggestion(t *testing.T) {
	svc, _ := setupAwaitingSelection(t, &scriptedExtractor{name: "ritz htel"})

	_, _, err := svc.Select(context.Background(), "s1", "the ritz htel")
	require.NoError(t, err)

	reply, state, err := svc.Select(context.Background(), "s1", "yes")
	require.NoError(t, err)

	assert.Equal(t, models.PhaseAwaitingContact, state.Phase)
	require.NotNil(t, state.SelectedHotel)
	assert.Equal(t, "RTZCPT", state.SelectedHotel.HotelID)
	assert.Nil(t, state.PendingSuggestion)
	assert.Contains(t, reply, "name, email and phone")
}

func TestSelectRejectsPendingSuggestion(t *testing.T) {
	svc, _ := setupAwaitingSelection(t, &scriptedExtractor{name: "ritz htel"})

	_, _, err := svc.Select(context.Background(), "s1", "the ritz htel")
	require.NoError(t, err)

	reply, state, err := svc.Select(context.Background(), "s1", "no")
	require.NoError(t, err)

	assert.Equal(t, models.PhaseAwaitingSelection, state.Phase)
	assert.Nil(t, state.PendingSuggestion)
	assert.Nil(t, state.SelectedHotel)
	assert.Contains(t, reply, "The Ritz Hotel")
	assert.Contains(t, reply, "Hilton Garden Inn")
}

func TestSelectNotFoundListsOptions(t *testing.T) {
	svc, _ := setupAwaitingSelection(t, &scriptedExtractor{name: ""})

	reply, state, err := svc.Select(context.Background(), "s1", "surprise me")
	require.NoError(t, err)

	assert.Equal(t, models.PhaseAwaitingSelection, state.Phase)
	assert.Contains(t, reply, "The Ritz Hotel")
	assert.Contains(t, reply, "Hilton Garden Inn")
}

func TestSelectInCollectingPhaseIsViolation(t *testing.T) {
	provider := &fakeProvider{offers: twoHotels()}
	svc, _ := newTestService(&scriptedExtractor{}, provider)

	_, _, err := svc.Select(context.Background(), "s1", "the ritz")
	assert.True(t, IsPhaseViolation(err))
}

func setupAwaitingContact(t *testing.T, extractor *scriptedExtractor) *Service {
	t.Helper()
	extractor.name = "The Ritz Hotel"
	svc, _ := setupAwaitingSelection(t, extractor)
	_, state, err := svc.Select(context.Background(), "s1", "the ritz")
	require.NoError(t, err)
	require.Equal(t, models.PhaseAwaitingContact, state.Phase)
	return svc
}

func TestConfirmPartialContactReportsMissingFields(t *testing.T) {
	svc := setupAwaitingContact(t, &scriptedExtractor{
		contacts: []models.Contact{{Name: "Jo"}},
	})

	reply, state, err := svc.Confirm(context.Background(), "s1", "my name is Jo")
	require.NoError(t, err)

	assert.Equal(t, models.PhaseAwaitingContact, state.Phase)
	assert.Equal(t, "Almost there! Please provide: email, phone.", reply)
}

func TestConfirmAccumulatesContactAcrossTurns(t *testing.T) {
	svc := setupAwaitingContact(t, &scriptedExtractor{
		contacts: []models.Contact{
			{Name: "Jo"},
			{Email: "jo@example.com", Phone: "+27115551234"},
		},
	})

	_, _, err := svc.Confirm(context.Background(), "s1", "my name is Jo")
	require.NoError(t, err)

	reply, state, err := svc.Confirm(context.Background(), "s1", "jo@example.com, +27 11 555 1234")
	require.NoError(t, err)

	assert.Equal(t, models.PhaseConfirmed, state.Phase)
	require.NotNil(t, state.Contact)
	assert.Equal(t, "Jo", state.Contact.Name)
	assert.NotEmpty(t, state.PaymentLink)
	assert.Contains(t, reply, state.PaymentLink)
	assert.Contains(t, reply, "The Ritz Hotel")
}

func TestConfirmedSessionRejectsFurtherTurns(t *testing.T) {
	svc := setupAwaitingContact(t, &scriptedExtractor{
		contacts: []models.Contact{{Name: "Jo", Email: "jo@example.com", Phone: "+27115551234"}},
	})

	_, state, err := svc.Confirm(context.Background(), "s1", "Jo, jo@example.com, +27 11 555 1234")
	require.NoError(t, err)
	require.Equal(t, models.PhaseConfirmed, state.Phase)

	_, _, err = svc.Confirm(context.Background(), "s1", "anything else")
	assert.True(t, IsPhaseViolation(err))
	_, _, err = svc.Advance(context.Background(), "s1", "another trip")
	assert.True(t, IsPhaseViolation(err))
}

func TestResetStartsFreshState(t *testing.T) {
	provider := &fakeProvider{offers: twoHotels()}
	extractor := &scriptedExtractor{trips: []models.TripDetails{fullTrip(), {}}}
	svc, store := newTestService(extractor, provider)

	_, state, err := svc.Advance(context.Background(), "s1", "cape town, sep 15 to 20, 2 guests")
	require.NoError(t, err)
	require.Equal(t, models.PhaseAwaitingSelection, state.Phase)

	require.NoError(t, svc.Reset(context.Background(), "s1"))

	fresh, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseCollecting, fresh.Phase)
	assert.Nil(t, fresh.SearchResults)
}

func TestSessionsAreIsolated(t *testing.T) {
	provider := &fakeProvider{offers: twoHotels()}
	extractor := &scriptedExtractor{trips: []models.TripDetails{
		fullTrip(),
		{Destination: "Durban"},
	}}
	svc, _ := newTestService(extractor, provider)

	_, s1, err := svc.Advance(context.Background(), "s1", "cape town, sep 15 to 20, 2 guests")
	require.NoError(t, err)
	require.Equal(t, models.PhaseAwaitingSelection, s1.Phase)

	_, s2, err := svc.Advance(context.Background(), "s2", "thinking about durban")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseCollecting, s2.Phase)
	assert.Equal(t, "Durban", s2.Trip.Destination)
	assert.Nil(t, s2.SearchResults)
}
