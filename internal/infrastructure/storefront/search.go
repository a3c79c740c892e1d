package storefront

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/juliez0727-gif/steam2025/internal/domain"
)

var (
	// Release labels come in many shapes: "15 Jan, 2025", "Q1 2025", bare
	// "2026". Accept any year from 2025 through 2099.
	yearExpr = regexp.MustCompile(`\b(202[5-9]|20[3-9][0-9])\b`)

	// The review tooltip carries the count in whichever locale the request
	// asked for; the English and Simplified-Chinese labels cover both.
	countExprs = []*regexp.Regexp{
		regexp.MustCompile(`([0-9][0-9,]*)\s*篇用户评测`),
		regexp.MustCompile(`of the ([0-9][0-9,]*) user reviews`),
	}
)

// ScanPage fetches one page of search results and extracts discovered-level
// games. It never fails: any fetch or parse problem yields an empty slice.
func (c *Client) ScanPage(ctx context.Context, pageIndex, pageSize int) []domain.Game {
	target := c.searchURL(pageIndex*pageSize, pageSize, "")
	fragment, ok := c.fetchResultsHTML(ctx, target)
	if !ok {
		c.warn("search page unavailable", "page", pageIndex)
		return nil
	}
	games := c.parseRows(fragment, true)
	c.debug("search page scanned", "page", pageIndex, "kept", len(games))
	return games
}

// SearchByTerm runs a free-text storefront search. Rows are parsed leniently:
// the release-year and review-count gates do not apply to user lookups.
func (c *Client) SearchByTerm(ctx context.Context, term string, pageSize int) []domain.Game {
	target := c.searchURL(0, pageSize, term)
	fragment, ok := c.fetchResultsHTML(ctx, target)
	if !ok {
		c.warn("term search unavailable", "term", term)
		return nil
	}
	return c.parseRows(fragment, false)
}

func (c *Client) fetchResultsHTML(ctx context.Context, target string) (string, bool) {
	payload, err := c.relay.Fetch(ctx, target, true)
	if err != nil {
		c.debug("search fetch failed", "error", err)
		return "", false
	}
	return resultsHTML(payload), true
}

func (c *Client) searchURL(start, count int, term string) string {
	q := url.Values{}
	q.Set("start", strconv.Itoa(start))
	q.Set("count", strconv.Itoa(count))
	q.Set("infinite", "1")
	q.Set("force_infinite", "1")
	q.Set("filter", "topsellers")
	q.Set("category1", "998")
	q.Set("supportedlang", "schinese")
	q.Set("l", "schinese")
	q.Set("cc", "CN")
	if term != "" {
		q.Set("term", term)
	}
	return c.baseURL + "/search/results/?" + q.Encode()
}

// resultsHTML digs the embedded HTML fragment out of the search response,
// which arrives either pre-parsed or as body text depending on the relay.
func resultsHTML(payload any) string {
	switch v := payload.(type) {
	case map[string]any:
		if h, ok := v["results_html"].(string); ok {
			return h
		}
	case string:
		var body struct {
			ResultsHTML string `json:"results_html"`
		}
		if err := json.Unmarshal([]byte(v), &body); err == nil && body.ResultsHTML != "" {
			return body.ResultsHTML
		}
		// Some relays strip the JSON wrapper and return the fragment itself.
		if strings.Contains(v, "data-ds-appid") {
			return v
		}
	}
	return ""
}

func (c *Client) parseRows(fragment string, strict bool) []domain.Game {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		c.debug("parse fragment failed", "error", err)
		return nil
	}

	var games []domain.Game
	doc.Find("a[data-ds-appid]").Each(func(_ int, row *goquery.Selection) {
		if game, ok := c.parseRow(row, strict); ok {
			games = append(games, game)
		}
	})
	return games
}

// parseRow extracts one result row. In strict mode the row must carry a
// release year in range and a review count above the minimum; malformed rows
// are skipped either way.
func (c *Client) parseRow(row *goquery.Selection, strict bool) (domain.Game, bool) {
	raw, ok := row.Attr("data-ds-appid")
	if !ok {
		return domain.Game{}, false
	}
	// Bundles list several ids comma-separated; the first one is the app.
	appID, err := strconv.Atoi(strings.TrimSpace(strings.Split(raw, ",")[0]))
	if err != nil || appID <= 0 {
		return domain.Game{}, false
	}

	released := strings.TrimSpace(row.Find(".search_released").First().Text())
	tooltip := reviewTooltip(row)
	count := parseReviewCount(tooltip)

	if strict {
		if !yearExpr.MatchString(released) {
			return domain.Game{}, false
		}
		if count <= c.minReviews {
			return domain.Game{}, false
		}
	}

	logo, _ := row.Find("img").First().Attr("src")

	return domain.Game{
		AppID:             appID,
		Name:              strings.TrimSpace(row.Find(".title").First().Text()),
		LogoURL:           logo,
		ReleaseDate:       released,
		ApproxReviewCount: count,
		ReviewSummary:     summaryLabel(tooltip),
	}, true
}

// reviewTooltip reads the review summary tooltip from the score column, or
// from anywhere in the row when the score column is missing.
func reviewTooltip(row *goquery.Selection) string {
	if t, ok := row.Find(".search_reviewscore span.search_review_summary").First().Attr("data-tooltip-html"); ok {
		return t
	}
	if t, ok := row.Find("span.search_review_summary").First().Attr("data-tooltip-html"); ok {
		return t
	}
	return ""
}

func parseReviewCount(tooltip string) int {
	for _, expr := range countExprs {
		m := expr.FindStringSubmatch(tooltip)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err == nil {
			return n
		}
	}
	return 0
}

// summaryLabel is the leading tooltip segment, e.g. "特别好评" or "Very Positive".
func summaryLabel(tooltip string) string {
	label := tooltip
	if i := strings.Index(label, "<br>"); i >= 0 {
		label = label[:i]
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return "Unknown"
	}
	return label
}
