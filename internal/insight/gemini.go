package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ClientConfig selects the Gemini backend. An API key selects the Gemini
// API; otherwise Vertex AI is used with project and location.
type ClientConfig struct {
	APIKey   string
	Project  string
	Location string
}

// NewClient creates a genai client for cfg.
func NewClient(ctx context.Context, cfg ClientConfig) (*genai.Client, error) {
	cc := &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	}
	if cfg.APIKey != "" {
		cc = &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client, nil
}

// GeminiProvider asks a Gemini model for an insight.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(client *genai.Client, model string) *GeminiProvider {
	return &GeminiProvider{client: client, model: model}
}

func (g *GeminiProvider) Assess(ctx context.Context, req Request) (*Insight, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.2),
	})
	if err != nil {
		return nil, fmt.Errorf("generate with %s: %w", g.model, err)
	}

	in, err := Parse(resp.Text())
	if err != nil {
		return nil, err
	}
	in.Model = g.model
	return in, nil
}

// Parse decodes a model's JSON text into a normalized Insight. Markdown code
// fences around the object are tolerated.
func Parse(text string) (*Insight, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse insight json: %w", err)
	}
	return Decode(raw)
}
