package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewPage(cursor string, count int) map[string]any {
	reviews := make([]any, 0, count)
	for i := 0; i < count; i++ {
		reviews = append(reviews, map[string]any{
			"author":            map[string]any{"playtime_forever": 600},
			"timestamp_created": 1750000000,
			"voted_up":          i%2 == 0,
			"review":            "很好玩",
		})
	}
	return map[string]any{"success": 1, "cursor": cursor, "reviews": reviews}
}

func TestFetchReviewsStopsAtLimit(t *testing.T) {
	t.Parallel()

	relay := &stubRelay{payloads: []any{
		reviewPage("c1", 100),
		reviewPage("c2", 100),
		reviewPage("c3", 100),
		reviewPage("c4", 100),
	}}

	reviews, err := newTestClient(relay).FetchReviews(context.Background(), 42, 250)
	require.NoError(t, err)

	assert.Len(t, reviews, 250)
	assert.Equal(t, 3, relay.calls, "at most ceil(250/100) requests")
}

func TestFetchReviewsStopsOnEmptyPage(t *testing.T) {
	t.Parallel()

	relay := &stubRelay{payloads: []any{
		reviewPage("c1", 40),
		reviewPage("c2", 0),
	}}

	reviews, err := newTestClient(relay).FetchReviews(context.Background(), 42, 250)
	require.NoError(t, err)

	assert.Len(t, reviews, 40)
	assert.Equal(t, 2, relay.calls)
}

func TestFetchReviewsFollowsCursor(t *testing.T) {
	t.Parallel()

	relay := &stubRelay{payloads: []any{
		reviewPage("next-cursor", 100),
		reviewPage("", 100),
	}}

	reviews, err := newTestClient(relay).FetchReviews(context.Background(), 42, 200)
	require.NoError(t, err)
	require.Len(t, reviews, 200)

	require.Len(t, relay.targets, 2)
	assert.Contains(t, relay.targets[0], "cursor=%2A")
	assert.Contains(t, relay.targets[1], "cursor=next-cursor")
}

func TestFetchReviewsAbortsWholesale(t *testing.T) {
	t.Parallel()

	relay := &stubRelay{
		payloads: []any{reviewPage("c1", 100), nil},
		errs:     []error{nil, errors.New("all relays failed")},
	}

	reviews, err := newTestClient(relay).FetchReviews(context.Background(), 42, 300)
	require.Error(t, err)
	assert.Nil(t, reviews, "partial pages are discarded on a late failure")
}

func TestFetchReviewsMapsFields(t *testing.T) {
	t.Parallel()

	relay := &stubRelay{payloads: []any{
		map[string]any{
			"success": 1,
			"cursor":  "",
			"reviews": []any{map[string]any{
				"author":            map[string]any{"playtime_forever": 930},
				"timestamp_created": 1748736000,
				"voted_up":          true,
				"review":            "优化不错，剧情在线",
			}},
		},
	}}

	reviews, err := newTestClient(relay).FetchReviews(context.Background(), 42, 10)
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	assert.Equal(t, 930, reviews[0].PlaytimeMinutes)
	assert.Equal(t, int64(1748736000), reviews[0].CreatedAt)
	assert.True(t, reviews[0].VotedUp)
	assert.Equal(t, "优化不错，剧情在线", reviews[0].Text)
}
