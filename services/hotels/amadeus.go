// File: services/hotels/amadeus.go
package hotels

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"stayfinder/models"
	"stayfinder/utils"

	"go.uber.org/zap"
)

// maxHotelIDs caps how many hotels from the city list are priced per search.
const maxHotelIDs = 10

// AmadeusClient implements SearchProvider against the Amadeus self-service
// REST API: an OAuth2 client-credentials token, a hotels-by-city lookup, then
// an offers search over the returned hotel IDs.
type AmadeusClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewAmadeusClient(baseURL, clientID, clientSecret string, timeout time.Duration) *AmadeusClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AmadeusClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// token returns a valid access token, refreshing it when missing or expired.
func (a *AmadeusClient) token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && time.Now().Before(a.tokenExpiry) {
		return a.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", a.clientID)
	form.Set("client_secret", a.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("amadeus token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("amadeus token request returned status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode amadeus token response: %w", err)
	}

	a.accessToken = tokenResp.AccessToken
	// Renew a minute early so in-flight searches never carry a stale token.
	a.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)
	return a.accessToken, nil
}

func (a *AmadeusClient) getJSON(ctx context.Context, rawURL string, out any) error {
	tok, err := a.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("amadeus request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("amadeus returned status %d for %s", resp.StatusCode, rawURL)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// hotelsByCity returns up to maxHotelIDs hotel IDs for a city code.
func (a *AmadeusClient) hotelsByCity(ctx context.Context, cityCode string) ([]string, error) {
	u := fmt.Sprintf("%s/v1/reference-data/locations/hotels/by-city?cityCode=%s",
		a.baseURL, url.QueryEscape(cityCode))

	var listResp struct {
		Data []struct {
			HotelID string `json:"hotelId"`
		} `json:"data"`
	}
	if err := a.getJSON(ctx, u, &listResp); err != nil {
		return nil, err
	}

	var ids []string
	for _, h := range listResp.Data {
		if h.HotelID == "" {
			continue
		}
		ids = append(ids, h.HotelID)
		if len(ids) == maxHotelIDs {
			break
		}
	}
	return ids, nil
}

// offerEntry mirrors the provider's hotel-offers payload.
type offerEntry struct {
	Hotel struct {
		HotelID string `json:"hotelId"`
		Name    string `json:"name"`
		Address struct {
			Lines []string `json:"lines"`
		} `json:"address"`
	} `json:"hotel"`
	Available bool `json:"available"`
	Offers    []struct {
		Price struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"price"`
		Policies struct {
			Cancellations []struct {
				Description struct {
					Text string `json:"text"`
				} `json:"description"`
			} `json:"cancellations"`
		} `json:"policies"`
	} `json:"offers"`
}

// SearchHotels looks up the city's hotels and prices them for the stay.
func (a *AmadeusClient) SearchHotels(ctx context.Context, cityCode, checkIn, checkOut string, guests int) ([]models.HotelOffer, error) {
	logger := utils.GetLogger()

	ids, err := a.hotelsByCity(ctx, cityCode)
	if err != nil {
		return nil, fmt.Errorf("hotel list lookup failed for %s: %w", cityCode, err)
	}
	if len(ids) == 0 {
		logger.Info("no hotels found in city", zap.String("cityCode", cityCode))
		return []models.HotelOffer{}, nil
	}

	q := url.Values{}
	q.Set("hotelIds", strings.Join(ids, ","))
	q.Set("checkInDate", checkIn)
	q.Set("checkOutDate", checkOut)
	q.Set("adults", strconv.Itoa(guests))
	u := a.baseURL + "/v3/shopping/hotel-offers?" + q.Encode()

	var offersResp struct {
		Data []offerEntry `json:"data"`
	}
	if err := a.getJSON(ctx, u, &offersResp); err != nil {
		return nil, fmt.Errorf("hotel offers search failed for %s: %w", cityCode, err)
	}

	offers := make([]models.HotelOffer, 0, len(offersResp.Data))
	for _, entry := range offersResp.Data {
		offers = append(offers, convertOffer(entry))
	}
	return offers, nil
}

func convertOffer(entry offerEntry) models.HotelOffer {
	offer := models.HotelOffer{
		HotelID:      entry.Hotel.HotelID,
		Name:         entry.Hotel.Name,
		AddressLines: entry.Hotel.Address.Lines,
		Available:    entry.Available,
	}
	if offer.Name == "" {
		offer.Name = "Unnamed Hotel"
	}
	for _, room := range entry.Offers {
		offer.Offers = append(offer.Offers, models.RoomOffer{
			Total:    room.Price.Total,
			Currency: room.Price.Currency,
		})
		if offer.CancellationPolicy == "" && len(room.Policies.Cancellations) > 0 {
			offer.CancellationPolicy = room.Policies.Cancellations[0].Description.Text
		}
	}
	return offer
}
