package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/juliez0727-gif/steam2025/internal/domain"
)

const reviewPageSize = 100

// FetchReviews pages through a product's review feed with cursor continuation
// until limit reviews are collected, a page comes back empty, or the upstream
// reports failure. The page count is capped at ceil(limit/pageSize) so a
// misbehaving cursor cannot loop forever. A relay failure mid-pagination
// aborts the whole fetch; pages already collected are discarded.
func (c *Client) FetchReviews(ctx context.Context, appID, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		return nil, nil
	}

	maxPages := (limit + reviewPageSize - 1) / reviewPageSize
	cursor := "*"
	var collected []domain.Review

	for page := 0; page < maxPages; page++ {
		payload, err := c.relay.Fetch(ctx, c.reviewsURL(appID, cursor), false)
		if err != nil {
			return nil, fmt.Errorf("fetch reviews for app %d: %w", appID, err)
		}

		raw, err := rawJSON(payload)
		if err != nil {
			return nil, fmt.Errorf("normalize reviews payload: %w", err)
		}

		var body struct {
			Success int    `json:"success"`
			Cursor  string `json:"cursor"`
			Reviews []struct {
				Author struct {
					PlaytimeForever int `json:"playtime_forever"`
				} `json:"author"`
				TimestampCreated int64  `json:"timestamp_created"`
				VotedUp          bool   `json:"voted_up"`
				Review           string `json:"review"`
			} `json:"reviews"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("decode reviews for app %d: %w", appID, err)
		}

		if body.Success != 1 || len(body.Reviews) == 0 {
			break
		}

		for _, r := range body.Reviews {
			collected = append(collected, domain.Review{
				PlaytimeMinutes: r.Author.PlaytimeForever,
				CreatedAt:       r.TimestampCreated,
				VotedUp:         r.VotedUp,
				Text:            r.Review,
			})
			if len(collected) >= limit {
				return collected, nil
			}
		}

		cursor = body.Cursor
		if cursor == "" {
			break
		}
	}

	return collected, nil
}

func (c *Client) reviewsURL(appID int, cursor string) string {
	q := url.Values{}
	q.Set("json", "1")
	q.Set("cursor", cursor)
	q.Set("num_per_page", strconv.Itoa(reviewPageSize))
	q.Set("language", "schinese")
	q.Set("day_range", "9223372036854775807")
	q.Set("review_type", "all")
	q.Set("purchase_type", "all")
	q.Set("filter", "recent")
	return fmt.Sprintf("%s/appreviews/%d?%s", c.baseURL, appID, q.Encode())
}
