package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var ErrEmptyResponse = errors.New("llm returned no choices")

// Generator produces structured JSON from a prompt. All feature services
// depend on this interface so tests can stub the model out.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, out any) error
}

// Client talks to an OpenAI-compatible chat endpoint in JSON mode.
type Client struct {
	model llms.Model
}

func New(apiKey, baseURL, model string) (*Client, error) {
	m, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
		openai.WithResponseFormat(&openai.ResponseFormat{Type: "json_object"}),
	)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}
	return &Client{model: m}, nil
}

// GenerateJSON sends the prompt and unmarshals the (possibly fenced) JSON
// reply into out.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, out any) error {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}
	resp, err := c.model.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		return err
	}
	if len(resp.Choices) == 0 {
		return ErrEmptyResponse
	}
	raw := ExtractJSON(resp.Choices[0].Content)
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("parse llm response: %w", err)
	}
	return nil
}

// ExtractJSON strips markdown code fences that some models wrap around JSON.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
		return strings.TrimSpace(s)
	}
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
		return strings.TrimSpace(s)
	}
	return s
}
