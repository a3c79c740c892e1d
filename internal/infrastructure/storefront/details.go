package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/juliez0727-gif/steam2025/internal/domain"
)

// FetchDetails retrieves per-product metadata. Unlike search pages, a missing
// product is a real failure here, so proxied 404s are not tolerated.
func (c *Client) FetchDetails(ctx context.Context, appID int) (*domain.GameDetails, error) {
	target := fmt.Sprintf("%s/api/appdetails?appids=%d&l=schinese&cc=CN", c.baseURL, appID)

	payload, err := c.relay.Fetch(ctx, target, false)
	if err != nil {
		return nil, fmt.Errorf("fetch details for app %d: %w", appID, err)
	}

	raw, err := rawJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("normalize details payload: %w", err)
	}

	var envelope map[string]struct {
		Success bool `json:"success"`
		Data    struct {
			Name               string   `json:"name"`
			Developers         []string `json:"developers"`
			Publishers         []string `json:"publishers"`
			SupportedLanguages string   `json:"supported_languages"`
			SupportInfo        struct {
				URL   string `json:"url"`
				Email string `json:"email"`
			} `json:"support_info"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode details for app %d: %w", appID, err)
	}

	entry, ok := envelope[strconv.Itoa(appID)]
	if !ok || !entry.Success {
		return nil, fmt.Errorf("no details for app %d", appID)
	}

	return &domain.GameDetails{
		Name:               entry.Data.Name,
		Developers:         entry.Data.Developers,
		Publishers:         entry.Data.Publishers,
		SupportEmail:       entry.Data.SupportInfo.Email,
		SupportURL:         entry.Data.SupportInfo.URL,
		SupportedLanguages: entry.Data.SupportedLanguages,
	}, nil
}
