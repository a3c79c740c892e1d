package storefront

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDetails(t *testing.T) {
	t.Parallel()

	relay := &stubRelay{payloads: []any{map[string]any{
		"2358720": map[string]any{
			"success": true,
			"data": map[string]any{
				"name":                "黑神话：悟空",
				"developers":          []any{"游戏科学"},
				"publishers":          []any{"Game Science"},
				"supported_languages": "简体中文<strong>*</strong>, English<br><strong>*</strong>注明的语言支持音频",
				"support_info": map[string]any{
					"url":   "https://www.heishenhua.com",
					"email": "support@heishenhua.com",
				},
			},
		},
	}}}

	details, err := newTestClient(relay).FetchDetails(context.Background(), 2358720)
	require.NoError(t, err)

	assert.Equal(t, "黑神话：悟空", details.Name)
	assert.Equal(t, []string{"游戏科学"}, details.Developers)
	assert.Equal(t, []string{"Game Science"}, details.Publishers)
	assert.Equal(t, "support@heishenhua.com", details.SupportEmail)

	require.Len(t, relay.tolerate, 1)
	assert.False(t, relay.tolerate[0], "detail fetches must not tolerate 404s")
}

func TestFetchDetailsUpstreamFailure(t *testing.T) {
	t.Parallel()

	relay := &stubRelay{payloads: []any{map[string]any{
		"123": map[string]any{"success": false},
	}}}

	_, err := newTestClient(relay).FetchDetails(context.Background(), 123)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no details")
}

func TestFetchDetailsFromRawText(t *testing.T) {
	t.Parallel()

	relay := &stubRelay{payloads: []any{
		`{"55":{"success":true,"data":{"name":"Some Game","developers":["Dev"],"publishers":["Pub"]}}}`,
	}}

	details, err := newTestClient(relay).FetchDetails(context.Background(), 55)
	require.NoError(t, err)
	assert.Equal(t, "Some Game", details.Name)
}
