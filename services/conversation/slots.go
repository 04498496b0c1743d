// File: services/conversation/slots.go
package conversation

import (
	"context"

	"stayfinder/models"
	"stayfinder/services/hotels"
	"stayfinder/utils"

	"go.uber.org/zap"
)

// Advance runs one slot-filling turn: extract fields from the message, merge
// them into the session state, and search for hotels once all four slots are
// known. The reply either lists the results, names the missing slots, or
// apologises for a failed search.
func (s *Service) Advance(ctx context.Context, sessionID, text string) (string, *models.BookingState, error) {
	state, err := s.load(ctx, sessionID, models.PhaseCollecting)
	if err != nil {
		return "", nil, err
	}

	extractCtx, cancel := s.callCtx(ctx)
	extracted := s.extractor.TripDetails(extractCtx, text)
	cancel()

	mergeTripDetails(&state.Trip, extracted)

	reply := s.searchIfReady(ctx, state)
	if reply == "" {
		reply = missingSlotsReply(state.Trip.MissingSlots())
	}

	if err := s.save(ctx, sessionID, state); err != nil {
		return "", nil, err
	}
	return reply, state, nil
}

// mergeTripDetails adopts extracted values only for slots that are still
// empty. A slot is never overwritten once known, even if the user later
// states something different: first write wins for the whole attempt.
func mergeTripDetails(trip *models.TripDetails, extracted models.TripDetails) {
	if trip.Destination == "" && extracted.Destination != "" {
		trip.Destination = extracted.Destination
	}
	if trip.CheckIn == "" && extracted.CheckIn != "" {
		trip.CheckIn = extracted.CheckIn
	}
	if trip.CheckOut == "" && extracted.CheckOut != "" {
		trip.CheckOut = extracted.CheckOut
	}
	if trip.Guests <= 0 && extracted.Guests > 0 {
		trip.Guests = extracted.Guests
	}
}

// searchIfReady fires the hotel search when all four slots are filled and no
// search has succeeded yet. It returns "" when the slots are still
// incomplete. Failed searches keep the collected slots and the COLLECTING
// phase; the attempt counter stops identical retries from running forever.
func (s *Service) searchIfReady(ctx context.Context, state *models.BookingState) string {
	if !state.Trip.Complete() || state.SearchResults != nil {
		return ""
	}

	logger := utils.GetLogger()

	if state.SearchAttempts >= s.maxAttempts {
		logger.Warn("search attempt limit reached",
			zap.String("destination", state.Trip.Destination),
			zap.Int("attempts", state.SearchAttempts))
		return searchLimitReply
	}
	state.SearchAttempts++

	cityCode := hotels.CityCode(state.Trip.Destination)
	logger.Info("searching hotels",
		zap.String("cityCode", cityCode),
		zap.String("checkIn", state.Trip.CheckIn),
		zap.String("checkOut", state.Trip.CheckOut),
		zap.Int("guests", state.Trip.Guests))

	searchCtx, cancel := s.callCtx(ctx)
	defer cancel()
	offers, err := s.provider.SearchHotels(searchCtx, cityCode, state.Trip.CheckIn, state.Trip.CheckOut, state.Trip.Guests)
	if err != nil {
		logger.Error("hotel search failed", zap.Error(err))
		return searchFailedReply
	}
	if len(offers) == 0 {
		return noHotelsReply
	}

	state.SearchResults = offers
	state.Phase = models.PhaseAwaitingSelection
	return listingReply(offers)
}
