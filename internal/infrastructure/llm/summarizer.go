package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/juliez0727-gif/steam2025/internal/config"
	"github.com/juliez0727-gif/steam2025/internal/domain"
	"github.com/juliez0727-gif/steam2025/internal/ports"
)

const systemPrompt = `You analyze Steam user reviews for a single game and answer in the user's language.
Respond with a single JSON object, no prose, using exactly these keys:
{"summary": string, "positivePoints": [string], "negativePoints": [string],
"technicalIssues": [string], "verdict": string, "sentimentScore": integer 0-100}.`

// Client implements ports.Summarizer backed by OpenAI-compatible APIs.
type Client struct {
	endpoint       string
	model          string
	apiKey         string
	maxReviews     int
	maxReviewChars int
	httpClient     *http.Client
}

var _ ports.Summarizer = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.LLMConfig) *Client {
	c := &Client{
		endpoint:       cfg.Endpoint,
		model:          cfg.Model,
		apiKey:         cfg.APIKey,
		maxReviews:     cfg.MaxReviews,
		maxReviewChars: cfg.MaxReviewChars,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	if c.maxReviews <= 0 {
		c.maxReviews = 50
	}
	if c.maxReviewChars <= 0 {
		c.maxReviewChars = 300
	}
	return c
}

// Summarize posts a bounded review sample and decodes the structured report.
func (c *Client) Summarize(ctx context.Context, gameName string, reviews []domain.Review) (domain.Report, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return domain.Report{}, fmt.Errorf("llm client misconfigured")
	}
	if len(reviews) == 0 {
		return domain.Report{}, fmt.Errorf("no reviews to summarize")
	}

	userMsg, err := c.buildUserMessage(gameName, reviews)
	if err != nil {
		return domain.Report{}, fmt.Errorf("build llm payload: %w", err)
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userMsg},
		},
		"response_format": map[string]string{"type": "json_object"},
	})
	if err != nil {
		return domain.Report{}, fmt.Errorf("marshal llm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Report{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Report{}, fmt.Errorf("call llm: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.Report{}, fmt.Errorf("llm error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return domain.Report{}, fmt.Errorf("decode llm response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return domain.Report{}, fmt.Errorf("llm returned no choices")
	}

	var report domain.Report
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &report); err != nil {
		return domain.Report{}, fmt.Errorf("decode report: %w", err)
	}

	if report.SentimentScore < 0 {
		report.SentimentScore = 0
	}
	if report.SentimentScore > 100 {
		report.SentimentScore = 100
	}

	return report, nil
}

func (c *Client) buildUserMessage(gameName string, reviews []domain.Review) (string, error) {
	type item struct {
		PlaytimeHours int    `json:"playtimeHours"`
		VotedUp       bool   `json:"votedUp"`
		Text          string `json:"text"`
	}

	sample := reviews
	if len(sample) > c.maxReviews {
		sample = sample[:c.maxReviews]
	}

	items := make([]item, 0, len(sample))
	for _, r := range sample {
		items = append(items, item{
			PlaytimeHours: r.PlaytimeMinutes / 60,
			VotedUp:       r.VotedUp,
			Text:          truncateRunes(r.Text, c.maxReviewChars),
		})
	}

	payload, err := json.Marshal(map[string]any{
		"game":    gameName,
		"reviews": items,
	})
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
