// File: services/hotels/provider.go
package hotels

import (
	"context"

	"stayfinder/models"
)

// SearchProvider finds bookable hotel offers for a city and stay. A failed or
// unreachable backend returns an error; a city with no offers returns an
// empty list and no error.
type SearchProvider interface {
	SearchHotels(ctx context.Context, cityCode, checkIn, checkOut string, guests int) ([]models.HotelOffer, error)
}
