// File: services/conversation/contact.go
package conversation

import (
	"context"
	"fmt"

	"stayfinder/models"

	"github.com/google/uuid"
)

// Confirm runs one contact-collection turn. Partial details are kept and the
// reply names exactly the fields still missing; once name, email and phone
// are all present the booking is confirmed with a mocked payment link.
func (s *Service) Confirm(ctx context.Context, sessionID, text string) (string, *models.BookingState, error) {
	state, err := s.load(ctx, sessionID, models.PhaseAwaitingContact)
	if err != nil {
		return "", nil, err
	}

	extractCtx, cancel := s.callCtx(ctx)
	extracted := s.extractor.Contact(extractCtx, text)
	cancel()

	if state.Contact == nil {
		state.Contact = &models.Contact{}
	}
	mergeContact(state.Contact, extracted)

	var reply string
	if state.Contact.Complete() {
		state.Phase = models.PhaseConfirmed
		state.PaymentLink = newPaymentLink()
		reply = confirmedReply(state)
	} else {
		reply = missingContactReply(state.Contact.MissingFields())
	}

	if err := s.save(ctx, sessionID, state); err != nil {
		return "", nil, err
	}
	return reply, state, nil
}

// mergeContact adopts extracted values only for fields that are still empty,
// mirroring the first-write-wins policy of the trip slots.
func mergeContact(contact *models.Contact, extracted models.Contact) {
	if contact.Name == "" && extracted.Name != "" {
		contact.Name = extracted.Name
	}
	if contact.Email == "" && extracted.Email != "" {
		contact.Email = extracted.Email
	}
	if contact.Phone == "" && extracted.Phone != "" {
		contact.Phone = extracted.Phone
	}
}

// newPaymentLink issues the mocked checkout link. No real transaction is
// created.
func newPaymentLink() string {
	return fmt.Sprintf("https://pay.stayfinder.example/checkout/%s", uuid.New().String())
}
