// Package insights narrates an analysis through a Groq-compatible chat
// completions API. Failures never propagate: narration degrades to a static
// fallback string and translation degrades to the untranslated text.
package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"finhealth/internal/core"
	applog "finhealth/internal/log"
)

// Fallback is returned when the narration service is unavailable.
const Fallback = "Error generating insights. Please try again later."

// Narrator is the plain-text-in, plain-text-out contract the rest of the
// service depends on.
type Narrator interface {
	GenerateInsights(ctx context.Context, analysis *core.Analysis) string
	Translate(ctx context.Context, text, language string) string
}

// Config holds the narration service settings. The client is constructed
// once at process start and injected where needed; there is no package
// level singleton.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client talks to a Groq-style /chat/completions endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *applog.Logger
}

var _ Narrator = (*Client)(nil)

// NewClient builds a narration client. A zero timeout defaults to 45s.
func NewClient(cfg Config, logger *applog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.WithComponent(applog.ComponentInsights),
	}
}

// GenerateInsights narrates the analysis for a non-finance business owner.
// Any failure yields the static fallback text.
func (c *Client) GenerateInsights(ctx context.Context, analysis *core.Analysis) string {
	prompt := BuildInsightsPrompt(analysis)

	text, err := c.chatCompletion(ctx, prompt, 0.4)
	if err != nil {
		c.logger.ErrorContext(ctx, "Narration failed, using fallback",
			applog.FieldOperation, applog.OpNarrate,
			applog.FieldScore, analysis.Score,
			applog.FieldError, err)
		return Fallback
	}
	return text
}

// Translate renders the advisory text into the requested language. English
// is a no-op; failures fall back to the original text.
func (c *Client) Translate(ctx context.Context, text, language string) string {
	language = strings.TrimSpace(language)
	if language == "" || language == "en" || strings.TrimSpace(text) == "" {
		return text
	}

	prompt := fmt.Sprintf("Translate the following financial advice into %s:\n%s", language, text)
	translated, err := c.chatCompletion(ctx, prompt, 0.3)
	if err != nil {
		c.logger.ErrorContext(ctx, "Translation failed, returning original text",
			applog.FieldOperation, applog.OpTranslate,
			applog.FieldLanguage, language,
			applog.FieldError, err)
		return text
	}
	return translated
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) chatCompletion(ctx context.Context, prompt string, temperature float64) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call narration service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("narration service status %d: %s", resp.StatusCode, detail)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("narration service returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
