// File: services/extract/parse.go
package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"stayfinder/models"

	"stayfinder/utils"

	"go.uber.org/zap"
)

// jsonBlockRe matches the first {...} block in model output. Models often wrap
// the JSON in prose or code fences; only the block itself is parsed.
var jsonBlockRe = regexp.MustCompile(`\{[\s\S]*?\}`)

// findJSONBlock returns the first {...} block found in text, or "".
func findJSONBlock(text string) string {
	return jsonBlockRe.FindString(text)
}

// decodeFields parses the first JSON object in raw model output into a
// key->value map. Malformed output yields an empty map, never an error.
func decodeFields(raw string) map[string]any {
	block := findJSONBlock(raw)
	if block == "" {
		trimmed := strings.TrimSpace(raw)
		if !strings.HasPrefix(trimmed, "{") {
			utils.GetLogger().Warn("no JSON block found in extractor output, returning empty fields")
			return map[string]any{}
		}
		block = trimmed
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(block), &fields); err != nil {
		utils.GetLogger().Warn("failed to parse extracted JSON", zap.Error(err), zap.String("raw", block))
		return map[string]any{}
	}
	return fields
}

// stringField reads a non-empty string value, tolerating null and the literal
// "null" some models emit.
func stringField(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

// intField reads a positive integer value, tolerating numbers sent as strings.
func intField(fields map[string]any, key string) int {
	switch v := fields[key].(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func parseTripDetails(raw string) models.TripDetails {
	fields := decodeFields(raw)
	return models.TripDetails{
		Destination: stringField(fields, "destination"),
		CheckIn:     stringField(fields, "check_in"),
		CheckOut:    stringField(fields, "check_out"),
		Guests:      intField(fields, "guests"),
	}
}

func parseHotelName(raw string) string {
	name := stringField(decodeFields(raw), "name")
	if name == "" {
		// Some models answer with the bare name or sentinel, no JSON.
		if block := findJSONBlock(raw); block == "" {
			name = strings.TrimSpace(raw)
		}
	}
	if strings.EqualFold(name, unknownSentinel) {
		return ""
	}
	return name
}

func parseContact(raw string) models.Contact {
	fields := decodeFields(raw)
	return models.Contact{
		Name:  stringField(fields, "name"),
		Email: stringField(fields, "email"),
		Phone: stringField(fields, "phone"),
	}
}
