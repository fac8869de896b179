// Package gemini wraps the Google GenAI SDK behind the advisor.Generator
// boundary.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/arthsathi/arthsathi/internal/domain"
)

// Client generates text with the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// KeyConfigured reports whether the API key looks usable. An empty key or
// the .env.example placeholder counts as not configured, so the condition
// can be reported before any call is attempted.
func KeyConfigured(apiKey string) bool {
	return apiKey != "" && apiKey != domain.APIKeyPlaceholder
}

// NewClient creates a Gemini client. Callers should check KeyConfigured
// first; an unusable key returns domain.ErrGeminiNotConfigured.
func NewClient(ctx context.Context, cfg domain.GeminiConfig) (*Client, error) {
	if !KeyConfigured(cfg.APIKey) {
		return nil, domain.ErrGeminiNotConfigured
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// Generate sends one prompt and returns the model's text.
func (c *Client) Generate(ctx context.Context, promptText string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(promptText, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned no text candidates")
	}
	return text, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}
