// File: services/conversation/format.go
package conversation

import (
	"fmt"
	"strings"

	"stayfinder/models"
)

// formatHotelListing renders the search results as a numbered, human-readable
// list: name, address, room prices, availability and cancellation policy.
func formatHotelListing(offers []models.HotelOffer) string {
	var sb strings.Builder
	for i, offer := range offers {
		var prices []string
		for _, room := range offer.Offers {
			prices = append(prices, fmt.Sprintf("%s %s", room.Total, room.Currency))
		}
		priceText := "No offers available"
		if len(prices) > 0 {
			priceText = strings.Join(prices, ", ")
		}

		availability := "Available"
		if !offer.Available {
			availability = "Not available"
		}

		policy := offer.CancellationPolicy
		if policy == "" {
			policy = "No cancellation policy available"
		}

		sb.WriteString(fmt.Sprintf("%d. %s - %s\n   Price: %s | %s\n   Policy: %s\n\n",
			i+1, offer.Name, offer.Address(), priceText, availability, policy))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func listingReply(offers []models.HotelOffer) string {
	return "I found some hotels for your trip:\n\n" + formatHotelListing(offers) +
		"\n\nPlease tell me which one you'd like by name."
}

func missingSlotsReply(missing []string) string {
	return fmt.Sprintf("Please provide: %s.", strings.Join(missing, ", "))
}

const noHotelsReply = "Sorry, I couldn't find any hotels for those dates. " +
	"You can try different dates or another destination."

const searchFailedReply = "Sorry, I couldn't reach the hotel search service right now. " +
	"Please try again in a moment."

const searchLimitReply = "Sorry, I still couldn't find any hotels for those details. " +
	"Please start a new booking with different dates or another destination."

func suggestionReply(name string) string {
	return fmt.Sprintf("Did you mean %q? Please reply yes or no.", name)
}

func notFoundReply(options []string) string {
	return "I couldn't match that to any of the hotels I found. The available options are:\n- " +
		strings.Join(options, "\n- ") + "\nPlease tell me which one you'd like by name."
}

func selectionCommittedReply(name string) string {
	return fmt.Sprintf("Great choice! To confirm your booking at %s, "+
		"please share your name, email and phone number.", name)
}

func missingContactReply(missing []string) string {
	return fmt.Sprintf("Almost there! Please provide: %s.", strings.Join(missing, ", "))
}

func confirmedReply(state *models.BookingState) string {
	return fmt.Sprintf("Your booking at %s from %s to %s for %d guest(s) is confirmed, %s! "+
		"Complete your payment here: %s",
		state.SelectedHotel.Name, state.Trip.CheckIn, state.Trip.CheckOut,
		state.Trip.Guests, state.Contact.Name, state.PaymentLink)
}
