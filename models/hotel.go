package models

// RoomOffer is one priced room option inside a hotel offer.
type RoomOffer struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

// HotelOffer is a read-only record from the hotel search provider. The
// service only formats and displays it; the provider owns the shape.
type HotelOffer struct {
	HotelID            string      `json:"hotelId"`
	Name               string      `json:"name"`
	AddressLines       []string    `json:"addressLines,omitempty"`
	Offers             []RoomOffer `json:"offers,omitempty"`
	CancellationPolicy string      `json:"cancellationPolicy,omitempty"`
	Available          bool        `json:"available"`
}

// Address returns the first address line, or a placeholder when the provider
// sent none.
func (h HotelOffer) Address() string {
	if len(h.AddressLines) > 0 {
		return h.AddressLines[0]
	}
	return "Address not available"
}
