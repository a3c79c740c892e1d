package storefront

import (
	"encoding/json"
	"log/slog"

	"github.com/juliez0727-gif/steam2025/internal/ports"
)

const defaultBaseURL = "https://store.steampowered.com"

// Client performs all storefront reads through the relay chain: search-page
// scanning, per-product detail fetches and cursor-paginated review fetches.
type Client struct {
	relay      ports.Relay
	logger     *slog.Logger
	baseURL    string
	minReviews int
}

var (
	_ ports.PageScanner  = (*Client)(nil)
	_ ports.DetailSource = (*Client)(nil)
	_ ports.ReviewSource = (*Client)(nil)
)

// NewClient wires the relay; minReviews is the strict lower bound a listing
// row's approximate review count must exceed to be kept.
func NewClient(relay ports.Relay, logger *slog.Logger, minReviews int) *Client {
	if minReviews <= 0 {
		minReviews = 1000
	}
	return &Client{
		relay:      relay,
		logger:     logger,
		baseURL:    defaultBaseURL,
		minReviews: minReviews,
	}
}

// rawJSON normalizes a relay payload back into JSON bytes: some relays hand
// back parsed structures, others the body text.
func rawJSON(payload any) ([]byte, error) {
	if s, ok := payload.(string); ok {
		return []byte(s), nil
	}
	return json.Marshal(payload)
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Client) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
