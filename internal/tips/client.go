// Package tips generates reminder content through OpenAI-compatible chat
// providers, with caching and static fallbacks.
package tips

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/materna-cli/materna/internal/config"
	"github.com/materna-cli/materna/internal/errors"
	"github.com/materna-cli/materna/internal/logging"
)

// Client calls chat completion providers in order until one succeeds.
type Client struct {
	providers []config.ProviderConfig
	http      *http.Client
}

// NewClient creates a client over the configured providers.
func NewClient() *Client {
	return &Client{
		providers: config.Global.Tips.Providers,
		http: &http.Client{
			Timeout: config.Global.Tips.Timeout,
		},
	}
}

// HasProviders reports whether any provider is configured.
func (c *Client) HasProviders() bool {
	return len(c.providers) > 0
}

// chatRequest is the OpenAI-compatible request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the OpenAI-compatible response body.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Chat sends the prompt to each provider in order and returns the first
// successful completion along with the provider name.
func (c *Client) Chat(ctx context.Context, prompt string) (string, string, error) {
	if len(c.providers) == 0 {
		return "", "", errors.ErrNoProvider
	}

	var lastErr error
	for _, provider := range c.providers {
		content, err := c.callProvider(ctx, provider, prompt)
		if err == nil {
			return content, provider.Name, nil
		}

		lastErr = err
		logging.DebugLog("provider call failed",
			logging.KeyProvider, provider.Name,
			logging.KeyError, err)

		if ctx.Err() != nil {
			return "", "", ctx.Err()
		}
	}

	return "", "", fmt.Errorf("%w: %v", errors.ErrProviderFailed, lastErr)
}

// callProvider performs one chat completion request.
func (c *Client) callProvider(ctx context.Context, provider config.ProviderConfig, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       provider.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   provider.MaxTokens,
		Temperature: provider.Temperature,
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimSuffix(provider.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+provider.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("malformed response (HTTP %d)", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("provider error (HTTP %d): %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("provider error (HTTP %d)", resp.StatusCode)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty completion")
	}
	return content, nil
}
