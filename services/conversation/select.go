// File: services/conversation/select.go
package conversation

import (
	"context"
	"strings"

	"stayfinder/models"
	"stayfinder/utils"

	"go.uber.org/zap"
)

var affirmations = []string{
	"yes", "yeah", "yep", "sure", "correct", "right", "confirm", "ok", "okay", "that's it", "that one",
}

var negations = []string{
	"no", "nope", "not that", "wrong", "none of", "neither",
}

func matchesAny(text string, phrases []string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, p := range phrases {
		if lower == p || strings.HasPrefix(lower, p+" ") || strings.HasPrefix(lower, p+",") {
			return true
		}
	}
	return false
}

// Select runs one selection turn. A pending fuzzy suggestion is committed on
// an affirmative reply and dropped on a negative one; anything else is
// resolved against the search results from scratch.
func (s *Service) Select(ctx context.Context, sessionID, text string) (string, *models.BookingState, error) {
	state, err := s.load(ctx, sessionID, models.PhaseAwaitingSelection)
	if err != nil {
		return "", nil, err
	}

	if state.PendingSuggestion != nil {
		if matchesAny(text, affirmations) {
			s.commitSelection(state, state.PendingSuggestion)
			if err := s.save(ctx, sessionID, state); err != nil {
				return "", nil, err
			}
			return selectionCommittedReply(state.SelectedHotel.Name), state, nil
		}
		if matchesAny(text, negations) {
			state.PendingSuggestion = nil
			reply := notFoundReply(offerNames(state.SearchResults))
			if err := s.save(ctx, sessionID, state); err != nil {
				return "", nil, err
			}
			return reply, state, nil
		}
		// Neither a yes nor a no: drop the guess and treat the message as a
		// new selection attempt.
		state.PendingSuggestion = nil
	}

	resolveCtx, cancel := s.callCtx(ctx)
	resolution, err := s.resolver.Resolve(resolveCtx, text, state.SearchResults)
	cancel()
	if err != nil {
		return "", nil, err
	}

	var reply string
	switch resolution.Outcome {
	case ExactMatch:
		s.commitSelection(state, resolution.Hotel)
		reply = selectionCommittedReply(resolution.Hotel.Name)
	case SuggestedMatch:
		// A fuzzy hit is a guess; never book it without the user's yes.
		state.PendingSuggestion = resolution.Hotel
		reply = suggestionReply(resolution.Hotel.Name)
	case NotFound:
		reply = notFoundReply(resolution.Options)
	}

	utils.GetLogger().Info("selection resolved",
		zap.String("outcome", string(resolution.Outcome)),
		zap.String("candidate", resolution.Candidate))

	if err := s.save(ctx, sessionID, state); err != nil {
		return "", nil, err
	}
	return reply, state, nil
}

// commitSelection records the chosen hotel and moves the conversation to
// contact collection.
func (s *Service) commitSelection(state *models.BookingState, hotel *models.HotelOffer) {
	state.SelectedHotel = hotel
	state.PendingSuggestion = nil
	state.Phase = models.PhaseAwaitingContact
}

func offerNames(offers []models.HotelOffer) []string {
	names := make([]string, len(offers))
	for i, o := range offers {
		names[i] = o.Name
	}
	return names
}
