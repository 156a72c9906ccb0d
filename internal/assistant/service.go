// Package assistant implements the in-store shopping assistant over an
// OpenAI-compatible chat completions API.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hamadpass/khodarji-backend/pkg/config"
	"github.com/hamadpass/khodarji-backend/pkg/enums"
	pkgerrors "github.com/hamadpass/khodarji-backend/pkg/errors"
	"github.com/hamadpass/khodarji-backend/pkg/types"
)

const responseBodyReadLimit int64 = 1024

// Service answers shopper questions with the cart as context.
type Service interface {
	Reply(ctx context.Context, lang enums.Language, cart []types.CartItem, message string) (string, error)
}

// Option configures optional client behavior.
type Option func(*client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// disabled is the service used when no API key is configured.
type disabled struct{}

func (disabled) Reply(context.Context, enums.Language, []types.CartItem, string) (string, error) {
	return "", pkgerrors.New(pkgerrors.CodeDependency, "shopping assistant is not configured")
}

// NewService builds the assistant. Without an API key it degrades to a
// service that rejects every request instead of failing startup.
func NewService(cfg config.AssistantConfig, opts ...Option) Service {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return disabled{}
	}

	c := &client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     apiKey,
		model:      cfg.Model,
	}
	if c.httpClient.Timeout == 0 {
		c.httpClient.Timeout = 30 * time.Second
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// systemPrompt frames the assistant as the store's helper, anchored to the
// shopper's language and current cart.
func systemPrompt(lang enums.Language, cart []types.CartItem) string {
	names := make([]string, 0, len(cart))
	for _, item := range cart {
		names = append(names, item.Name.In(lang))
	}
	ingredients := strings.Join(names, ", ")
	if ingredients == "" {
		ingredients = "Empty"
	}

	language := "English"
	if lang == enums.LanguageArabic {
		language = "Arabic"
	}

	return fmt.Sprintf(`You are 'Khodarji AI', a friendly shopping assistant for a Jordanian fresh produce store.
The customer's language is %s.
Current cart contents: %s.
Help users with:
1. Recipe ideas based on their cart.
2. Storage tips for fruits and vegetables.
3. Seasonal advice for Jordan.
Keep responses helpful, concise, and professional. Use local Jordanian context where appropriate.`, language, ingredients)
}

// Reply sends the shopper's message and returns the assistant's answer.
func (c *client) Reply(ctx context.Context, lang enums.Language, cart []types.CartItem, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(lang, cart)},
			{Role: "user", Content: message},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal chat request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build chat request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute chat request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "chat request failed")
	}

	var apiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode chat response")
	}
	if len(apiResp.Choices) == 0 || strings.TrimSpace(apiResp.Choices[0].Message.Content) == "" {
		return "I'm sorry, I couldn't process that.", nil
	}
	return apiResp.Choices[0].Message.Content, nil
}
