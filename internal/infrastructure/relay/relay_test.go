package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchFallsBackToNextStrategy(t *testing.T) {
	t.Parallel()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results_html": "<div></div>"}`))
	}))
	defer healthy.Close()

	client := New([]Strategy{
		{Name: "broken", Endpoint: broken.URL + "/?url="},
		{Name: "healthy", Endpoint: healthy.URL + "/?url="},
	}, nil, nil)

	payload, err := client.Fetch(context.Background(), "https://example.org/search", false)
	require.NoError(t, err)

	parsed, ok := payload.(map[string]any)
	require.True(t, ok, "expected parsed JSON, got %T", payload)
	assert.Equal(t, "<div></div>", parsed["results_html"])
}

func TestFetchFailsWithAllReasons(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New([]Strategy{
		{Name: "first", Endpoint: server.URL + "/?url="},
		{Name: "second", Endpoint: server.URL + "/?url="},
		{Name: "third", Endpoint: server.URL + "/?url="},
	}, nil, nil)

	_, err := client.Fetch(context.Background(), "https://example.org/search", false)
	require.Error(t, err)
	for _, name := range []string{"first", "second", "third"} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestFetchUnwrapsEnvelope(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":{"http_code":200},"contents":"{\"success\":1}"}`))
	}))
	defer server.Close()

	client := New([]Strategy{
		{Name: "wrapped", Endpoint: server.URL + "/get?url=", Envelope: true},
	}, nil, nil)

	payload, err := client.Fetch(context.Background(), "https://example.org/app", false)
	require.NoError(t, err)

	parsed, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), parsed["success"])
}

func TestFetchRejectsEnvelopeUpstreamFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":{"http_code":500},"contents":""}`))
	}))
	defer server.Close()

	client := New([]Strategy{
		{Name: "wrapped", Endpoint: server.URL + "/get?url=", Envelope: true},
	}, nil, nil)

	_, err := client.Fetch(context.Background(), "https://example.org/app", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream returned 500")
}

func TestFetchToleratesNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":{"http_code":404},"contents":""}`))
	}))
	defer server.Close()

	strategies := []Strategy{{Name: "wrapped", Endpoint: server.URL + "/get?url=", Envelope: true}}

	payload, err := New(strategies, nil, nil).Fetch(context.Background(), "https://example.org/search", true)
	require.NoError(t, err)
	assert.Equal(t, "", payload)

	_, err = New(strategies, nil, nil).Fetch(context.Background(), "https://example.org/app", false)
	require.Error(t, err)
}

func TestFetchReturnsRawTextForNonJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<a data-ds-appid="10"></a>`))
	}))
	defer server.Close()

	client := New([]Strategy{{Name: "raw", Endpoint: server.URL + "/?url="}}, nil, nil)

	payload, err := client.Fetch(context.Background(), "https://example.org/fragment", false)
	require.NoError(t, err)
	assert.Equal(t, `<a data-ds-appid="10"></a>`, payload)
}

func TestFetchAppendsCacheBuster(t *testing.T) {
	t.Parallel()

	var gotTarget string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.URL.Query().Get("url")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New([]Strategy{{Name: "raw", Endpoint: server.URL + "/?url="}}, nil, nil)
	client.now = func() time.Time { return time.UnixMilli(1735689600000) }

	_, err := client.Fetch(context.Background(), "https://example.org/search?start=0", false)
	require.NoError(t, err)

	parsed, err := url.Parse(gotTarget)
	require.NoError(t, err)
	assert.Equal(t, "1735689600000", parsed.Query().Get("_"))
	assert.Equal(t, "0", parsed.Query().Get("start"))
}

func TestWithCacheBusterSeparator(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(42)
	assert.True(t, strings.HasSuffix(withCacheBuster("https://a/b", now), "?_=42"))
	assert.True(t, strings.HasSuffix(withCacheBuster("https://a/b?x=1", now), "&_=42"))
}
