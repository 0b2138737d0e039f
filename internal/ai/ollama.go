package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultOllamaModel = "smollm2"

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// OllamaBackend calls a local Ollama server's non-streaming generate API.
type OllamaBackend struct {
	client *resty.Client
	model  string
}

func NewOllamaBackend(baseURL, model string, timeout time.Duration) *OllamaBackend {
	if model == "" {
		model = DefaultOllamaModel
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &OllamaBackend{client: client, model: model}
}

func (b *OllamaBackend) Name() string { return "ollama" }

func (b *OllamaBackend) Complete(ctx context.Context, system, user string) (string, error) {
	var out ollamaResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(ollamaRequest{Model: b.model, Prompt: user, System: system}).
		SetResult(&out).
		SetError(&out).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("could not reach Ollama at %s: %w", b.client.BaseURL, err)
	}
	if resp.IsError() {
		if out.Error != "" {
			return "", fmt.Errorf("ollama returned %d: %s", resp.StatusCode(), out.Error)
		}
		return "", fmt.Errorf("ollama returned %d", resp.StatusCode())
	}
	return out.Response, nil
}
