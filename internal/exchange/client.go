package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// House is one quote entry of the exchange API response.
type House struct {
	Casa struct {
		Compra  string `json:"compra"`
		Venta   string `json:"venta"`
		Agencia string `json:"agencia"`
		Nombre  string `json:"nombre"`
	} `json:"casa"`
}

var ErrNoQuote = errors.New("exchange: no quote for configured agency")

// Client fetches exchange quotes from the external rate API. It is never
// called inside an order transaction; all reads go through the side cache.
type Client struct {
	BaseURL string
	Agency  string // agency code of the quote to use
	HTTP    *http.Client
}

func NewClient(baseURL, agency string) *Client {
	return &Client{
		BaseURL: baseURL,
		Agency:  agency,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) Houses(ctx context.Context) ([]House, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"?type=valoresprincipales", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange api: status %d", resp.StatusCode)
	}
	var houses []House
	if err := json.NewDecoder(resp.Body).Decode(&houses); err != nil {
		return nil, fmt.Errorf("exchange api: decode: %w", err)
	}
	return houses, nil
}

// BuyRate returns the configured agency's buy quote as the raw
// locale-formatted string served by the API.
func (c *Client) BuyRate(ctx context.Context) (string, error) {
	houses, err := c.Houses(ctx)
	if err != nil {
		return "", err
	}
	for _, h := range houses {
		if h.Casa.Agencia == c.Agency {
			return h.Casa.Compra, nil
		}
	}
	return "", ErrNoQuote
}
