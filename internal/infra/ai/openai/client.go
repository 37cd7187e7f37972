package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/constrite/constrite/internal/domain/ai"
)

const (
	maxTokens   = 8192
	temperature = 0.4
)

type Client struct {
	api   *openai.Client
	model string
}

func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, domai.ErrMissingAPIKey
	}
	return &Client{api: openai.NewClient(apiKey), model: model}, nil
}

// Generate submits the prompt pair plus the image as a base64 data URL and
// returns the concatenated response text. Failures are wrapped with the
// domain sentinels so the retry loop can classify them without inspecting
// message text.
func (c *Client) Generate(ctx context.Context, req domai.Request) (string, error) {
	model := c.model
	if model == "" {
		model = "gpt-4o"
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s",
		req.ImageMIME, base64.StdEncoding.EncodeToString(req.ImageData))

	chatReq := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: req.UserPrompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		chatReq.MaxCompletionTokens = maxTokens
	} else {
		chatReq.MaxTokens = maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", wrapAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("response blocked or empty: %w", domai.ErrEmptyResponse)
	}

	// Concatenate all returned parts in order before normalization.
	var b strings.Builder
	for _, choice := range resp.Choices {
		b.WriteString(choice.Message.Content)
	}
	text := b.String()

	if len(text) < 50 {
		return "", fmt.Errorf("extracted %d chars: %w", len(text), domai.ErrEmptyResponse)
	}

	return text, nil
}

func wrapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusGatewayTimeout, http.StatusRequestTimeout:
			return fmt.Errorf("upstream status %d: %w", apiErr.HTTPStatusCode, domai.ErrTimeout)
		}
	}
	return fmt.Errorf("chat completion failed: %w", err)
}
