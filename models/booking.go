package models

// Phase marks how far a booking conversation has progressed. Transitions are
// one-directional: COLLECTING -> AWAITING_SELECTION -> AWAITING_CONTACT ->
// CONFIRMED. A new booking requires a fresh session.
type Phase string

const (
	PhaseCollecting        Phase = "COLLECTING"
	PhaseAwaitingSelection Phase = "AWAITING_SELECTION"
	PhaseAwaitingContact   Phase = "AWAITING_CONTACT"
	PhaseConfirmed         Phase = "CONFIRMED"
)

// TripDetails are the four required booking slots. Empty string / zero means
// the slot has not been filled yet.
type TripDetails struct {
	Destination string `json:"destination,omitempty"`
	CheckIn     string `json:"checkIn,omitempty"`
	CheckOut    string `json:"checkOut,omitempty"`
	Guests      int    `json:"guests,omitempty"`
}

// Complete reports whether all four slots are filled.
func (t TripDetails) Complete() bool {
	return t.Destination != "" && t.CheckIn != "" && t.CheckOut != "" && t.Guests > 0
}

// MissingSlots returns the unfilled slots as human-readable labels,
// in a fixed order.
func (t TripDetails) MissingSlots() []string {
	var missing []string
	if t.Destination == "" {
		missing = append(missing, "destination")
	}
	if t.CheckIn == "" {
		missing = append(missing, "check in date")
	}
	if t.CheckOut == "" {
		missing = append(missing, "check out date")
	}
	if t.Guests <= 0 {
		missing = append(missing, "number of guests")
	}
	return missing
}

// Contact holds the guest details collected before confirmation.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// MissingFields returns the contact fields still required for confirmation.
func (c Contact) MissingFields() []string {
	var missing []string
	if c.Name == "" {
		missing = append(missing, "name")
	}
	if c.Email == "" {
		missing = append(missing, "email")
	}
	if c.Phone == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// Complete reports whether name, email and phone are all present.
func (c Contact) Complete() bool {
	return len(c.MissingFields()) == 0
}

// BookingState holds everything known about one booking conversation. One
// instance exists per session ID; it is created on the first message and
// mutated turn by turn until the booking is confirmed or the session expires.
type BookingState struct {
	Trip TripDetails `json:"trip"`

	// SearchResults is set at most once per booking attempt, only after all
	// four slots are filled.
	SearchResults []HotelOffer `json:"searchResults,omitempty"`

	// SearchAttempts counts provider calls for the current slot set, so a
	// failed search is not retried forever with unchanged inputs.
	SearchAttempts int `json:"searchAttempts,omitempty"`

	Phase Phase `json:"phase"`

	// SelectedHotel is always one of SearchResults (by hotel ID).
	SelectedHotel *HotelOffer `json:"selectedHotel,omitempty"`

	// PendingSuggestion is a fuzzy match awaiting the user's confirmation.
	// It is never committed without an explicit yes.
	PendingSuggestion *HotelOffer `json:"pendingSuggestion,omitempty"`

	Contact *Contact `json:"contact,omitempty"`

	// PaymentLink is the mocked checkout link issued on confirmation.
	PaymentLink string `json:"paymentLink,omitempty"`
}

// NewBookingState returns the initial state for a fresh conversation.
func NewBookingState() *BookingState {
	return &BookingState{Phase: PhaseCollecting}
}
