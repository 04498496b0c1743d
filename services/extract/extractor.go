// File: services/extract/extractor.go
package extract

import (
	"context"
	"fmt"
	"strings"

	"stayfinder/models"
	"stayfinder/utils"

	"go.uber.org/zap"
)

// Extractor turns free-form user text into structured booking data. All three
// methods degrade to zero values when the model output is malformed or the
// call fails: extraction problems are never an error for the calling turn.
type Extractor interface {
	// TripDetails pulls destination, check-in, check-out and guest count out
	// of a user message. Unknown fields stay zero.
	TripDetails(ctx context.Context, text string) models.TripDetails

	// HotelName picks the single hotel name the user most likely means, given
	// the names on offer. Returns "" when the model answers the unknown
	// sentinel or nothing usable.
	HotelName(ctx context.Context, text string, options []string) string

	// Contact pulls name, email and phone out of a user message. Unknown
	// fields stay empty.
	Contact(ctx context.Context, text string) models.Contact
}

const tripDetailsPrompt = `You are a JSON extractor. From the following user message, extract:
- destination (city name)
- check_in (ISO date YYYY-MM-DD if available)
- check_out (ISO date YYYY-MM-DD if available)
- guests (integer number of guests if available)

Return only a JSON object with these keys. Use null for unknown values.

Message:
%s`

const hotelNamePrompt = `You are helping a user pick a hotel from a list. The available hotels are:
%s

From the user message below, return only a JSON object {"name": "<hotel name>"}
with the single hotel the user means. If the message does not identify any of
the hotels, return {"name": "unknown"}.

Message:
%s`

const contactPrompt = `You are a JSON extractor. From the following user message, extract:
- name (the person's full name)
- email (email address)
- phone (phone number)

Return only a JSON object with these keys. Use null for unknown values.

Message:
%s`

// unknownSentinel is the literal answer the name extractor gives when the
// message matches none of the offered hotels.
const unknownSentinel = "unknown"

// GeminiExtractor implements Extractor on top of the shared Gemini client.
type GeminiExtractor struct {
	client *GeminiClient
}

func NewGeminiExtractor(client *GeminiClient) *GeminiExtractor {
	return &GeminiExtractor{client: client}
}

func (e *GeminiExtractor) TripDetails(ctx context.Context, text string) models.TripDetails {
	raw, err := e.client.GenerateContent(ctx, fmt.Sprintf(tripDetailsPrompt, text))
	if err != nil {
		utils.GetLogger().Warn("trip details extraction failed, treating as no fields", zap.Error(err))
		return models.TripDetails{}
	}
	return parseTripDetails(raw)
}

func (e *GeminiExtractor) HotelName(ctx context.Context, text string, options []string) string {
	prompt := fmt.Sprintf(hotelNamePrompt, "- "+strings.Join(options, "\n- "), text)
	raw, err := e.client.GenerateContent(ctx, prompt)
	if err != nil {
		utils.GetLogger().Warn("hotel name extraction failed, treating as unknown", zap.Error(err))
		return ""
	}
	return parseHotelName(raw)
}

func (e *GeminiExtractor) Contact(ctx context.Context, text string) models.Contact {
	raw, err := e.client.GenerateContent(ctx, fmt.Sprintf(contactPrompt, text))
	if err != nil {
		utils.GetLogger().Warn("contact extraction failed, treating as no fields", zap.Error(err))
		return models.Contact{}
	}
	return parseContact(raw)
}
