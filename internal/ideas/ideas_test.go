package ideas

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeGemini mimics the generateContent reply shape: the idea list arrives
// as a JSON string inside the first candidate part.
func fakeGemini(t *testing.T, ideasJSON string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Contains(t, req, "generationConfig")

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": ideasJSON}}}},
			},
		})
	})
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{APIKey: "test-key", BaseURL: srv.URL, Logger: testLogger()})
}

func TestGenerateParsesIdeas(t *testing.T) {
	c := newTestClient(t, fakeGemini(t, `[
		{"title":"Catering box","description":"Weekly lunch boxes for offices."},
		{"title":"Coffee cart","description":"A mobile espresso cart for markets."}
	]`))

	result, err := c.Generate(context.Background(), "food and beverage")
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Catering box", result[0].Title)
	assert.Equal(t, "A mobile espresso cart for markets.", result[1].Description)
}

func TestGenerateWithoutKey(t *testing.T) {
	c := New(Config{Logger: testLogger()})
	assert.False(t, c.Configured())

	_, err := c.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerateServiceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	c := New(Config{APIKey: "test-key", BaseURL: srv.URL, Logger: testLogger()})

	_, err := c.Generate(context.Background(), "retail")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured, "unreachable must be distinct from unconfigured")
	assert.Contains(t, err.Error(), "failed to communicate")
}

func TestGenerateRejectsNonOKStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.Generate(context.Background(), "retail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestGenerateRejectsMalformedIdeaPayload(t *testing.T) {
	cases := map[string]string{
		"not json":       `oops not json`,
		"empty array":    `[]`,
		"missing fields": `[{"title":"only a title"}]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, fakeGemini(t, payload))
			_, err := c.Generate(context.Background(), "crafts")
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrNotConfigured))
		})
	}
}

func TestGenerateRejectsEmptyCandidates(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))

	_, err := c.Generate(context.Background(), "crafts")
	require.Error(t, err)
}
