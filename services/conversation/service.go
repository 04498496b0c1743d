// File: services/conversation/service.go
package conversation

import (
	"context"
	"fmt"
	"time"

	"stayfinder/models"
	"stayfinder/services/extract"
	"stayfinder/services/hotels"
)

// Service drives one booking conversation turn at a time. Turns for a single
// session are strictly sequential; state for different sessions never mixes
// because every turn loads and saves under its own session ID.
type Service struct {
	store       Store
	extractor   extract.Extractor
	provider    hotels.SearchProvider
	resolver    *Resolver
	callTimeout time.Duration
	maxAttempts int
}

func NewService(store Store, extractor extract.Extractor, provider hotels.SearchProvider, callTimeout time.Duration, maxAttempts int) *Service {
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Service{
		store:       store,
		extractor:   extractor,
		provider:    provider,
		resolver:    NewResolver(extractor),
		callTimeout: callTimeout,
		maxAttempts: maxAttempts,
	}
}

// Reset discards the session so the next message starts a fresh booking.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// load fetches the session state and verifies the conversation phase.
func (s *Service) load(ctx context.Context, sessionID string, expected models.Phase) (*models.BookingState, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if state.Phase != expected {
		return nil, newPhaseError(expected, state.Phase)
	}
	return state, nil
}

func (s *Service) save(ctx context.Context, sessionID string, state *models.BookingState) error {
	if err := s.store.Set(ctx, sessionID, state); err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

// callCtx bounds a single external call (extractor or search provider).
func (s *Service) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.callTimeout)
}
