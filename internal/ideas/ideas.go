// Package ideas calls the generative-text service to suggest product and
// service ideas for a business domain. Failures are always explicit: a
// missing key, an unreachable service and a malformed reply each produce a
// distinct error, never a silently empty result.
package ideas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	model          = "gemini-2.5-flash"
	ideaCount      = 5
)

// ErrNotConfigured means no API key was provided; AI features are off.
var ErrNotConfigured = errors.New("idea service API key is not configured")

// Idea is one generated suggestion.
type Idea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Config holds client configuration.
type Config struct {
	APIKey     string
	BaseURL    string // defaults to the Google Generative Language endpoint
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// Client talks to the generateContent endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
	Temperature      float64         `json:"temperature"`
	TopP             float64         `json:"topP"`
}

// responseSchema constrains the model to a JSON array of title/description
// objects so the reply can be decoded directly.
var responseSchema = json.RawMessage(`{
  "type": "ARRAY",
  "items": {
    "type": "OBJECT",
    "properties": {
      "title": {"type": "STRING", "description": "A short, catchy name for the product or service idea."},
      "description": {"type": "STRING", "description": "A brief, one or two-sentence description of the idea."}
    },
    "required": ["title", "description"]
  }
}`)

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate asks for a fixed number of ideas for the given business domain.
func (c *Client) Generate(ctx context.Context, businessType string) ([]Idea, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	prompt := fmt.Sprintf(
		"Generate %d innovative and practical product or service ideas for a small business in the field of %q. "+
			"The ideas should be creative and suitable for a small to medium enterprise (UMKM).",
		ideaCount, businessType)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema,
			Temperature:      0.8,
			TopP:             0.9,
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).Warn("idea service unreachable")
		return nil, fmt.Errorf("failed to communicate with the AI service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to communicate with the AI service: status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("failed to communicate with the AI service: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("received an invalid format from the AI service")
	}

	text := strings.TrimSpace(gr.Candidates[0].Content.Parts[0].Text)
	var result []Idea
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, errors.New("received an invalid format from the AI service")
	}
	for _, idea := range result {
		if idea.Title == "" || idea.Description == "" {
			return nil, errors.New("received an invalid format from the AI service")
		}
	}
	if len(result) == 0 {
		return nil, errors.New("received an invalid format from the AI service")
	}
	return result, nil
}
