package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/minjae/threadlens/internal/config"
	"github.com/minjae/threadlens/internal/logger"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	maxRetries     = 3
)

// Client calls the Gemini generateContent API. The enrichment methods never
// return errors to callers: any failure after retries yields the documented
// default record so one bad model response cannot abort an analysis run.
type Client struct {
	http        *resty.Client
	model       string
	apiKey      string
	baseURL     string
	temperature float64
	maxTokens   int
	log         *logger.Logger

	// Overridable in tests to avoid real backoff sleeps.
	sleep func(time.Duration)
}

// NewClient creates a Gemini API client.
// Parameters:
//   - cfg: API key, model name, and generation settings.
//   - log: logger, or nil for the process default.
//
// Returns:
//   - *Client: initialized client.
func NewClient(cfg *config.GeminiConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Default()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(120 * time.Second)

	return &Client{
		http:        client,
		model:       strings.TrimPrefix(cfg.Model, "models/"),
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		log:         log.WithField(logger.FieldComponent, "gemini"),
		sleep:       time.Sleep,
	}
}

// Model returns the model name in use.
func (c *Client) Model() string {
	return c.model
}

// Gemini generateContent request/response structures.
type generateRequest struct {
	Contents         []requestContent `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// generate sends the parts and retries up to three times with exponential
// backoff (1s, 2s) before giving up.
func (c *Client) generate(ctx context.Context, parts []requestPart) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		text, err := c.generateOnce(ctx, parts)
		if err == nil && text != "" {
			return text, nil
		}
		if err == nil {
			err = fmt.Errorf("empty response")
		}
		lastErr = err
		c.log.WithError(err).WithField("attempt", attempt+1).Warn("Generation attempt failed")

		if attempt < maxRetries-1 {
			wait := time.Duration(1<<attempt) * time.Second
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			default:
				c.sleep(wait)
			}
		}
	}
	return "", fmt.Errorf("all generation attempts failed: %w", lastErr)
}

func (c *Client) generateOnce(ctx context.Context, parts []requestPart) (string, error) {
	req := generateRequest{
		Contents: []requestContent{{Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature:     c.temperature,
			TopP:            0.8,
			TopK:            40,
			MaxOutputTokens: c.maxTokens,
		},
	}

	var resp generateResponse
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpResp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(req).
		SetResult(&resp).
		Post(endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil {
			return "", fmt.Errorf("Gemini API returned HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return "", fmt.Errorf("Gemini API returned HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
	}
	if resp.Error != nil {
		return "", fmt.Errorf("Gemini API error: %s", resp.Error.Message)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// generateText is the text-only convenience wrapper around generate.
func (c *Client) generateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, []requestPart{{Text: prompt}})
}

// TestConnection verifies the API key and model with a trivial generation.
func (c *Client) TestConnection(ctx context.Context) bool {
	_, err := c.generateText(ctx, "Respond with 'OK'")
	if err != nil {
		c.log.WithError(err).Error("Gemini API connection test failed")
		return false
	}
	return true
}
