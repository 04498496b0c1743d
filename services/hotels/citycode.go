// File: services/hotels/citycode.go
package hotels

import "strings"

// cityCodes maps known city names to their IATA city codes.
var cityCodes = map[string]string{
	"cape town":    "CPT",
	"johannesburg": "JNB",
	"durban":       "DUR",
}

// CityCode resolves a free-text city name to the code the search provider
// expects. Unmapped names pass through uppercased as a best-effort code.
func CityCode(name string) string {
	if code, ok := cityCodes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}
	return strings.ToUpper(strings.TrimSpace(name))
}
