package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"chatbot-be/pkg/llm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Provider talks to any OpenAI-compatible chat completion endpoint.
// URLs containing "azure" are treated as full Azure deployment URLs.
type Provider struct {
	BaseURL   string
	APIKey    string
	ModelName string
	Client    *http.Client
}

// Ensure Provider implements LLMProvider
var _ llm.LLMProvider = &Provider{}

func NewProvider(baseURL, apiKey, modelName string, timeout time.Duration) *Provider {
	return &Provider{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []llm.Message `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message llm.Message `json:"message"`
	} `json:"choices"`
}

func (p *Provider) IsAzure() bool {
	return strings.Contains(strings.ToLower(p.BaseURL), "azure")
}

func (p *Provider) endpoint() string {
	if p.IsAzure() {
		return p.BaseURL
	}
	return p.BaseURL + "/chat/completions"
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Model:  p.ModelName,
		APIKey: p.APIKey,
	}
	for _, opt := range opts {
		opt(options)
	}

	ctx, span := otel.Tracer("chatbot-be/llm").Start(ctx, "llm.chat")
	defer span.End()
	span.SetAttributes(
		attribute.Bool("llm.azure", p.IsAzure()),
		attribute.String("llm.model", options.Model),
		attribute.Int("llm.messages", len(history)),
	)

	payload := chatRequest{
		Messages:    history,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	}
	if !p.IsAzure() {
		payload.Model = options.Model
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.IsAzure() {
		req.Header.Set("api-key", options.APIKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+options.APIKey)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		err = classifyTransportError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportError(err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		apiErr := &llm.APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
		span.SetStatus(codes.Error, "upstream status")
		return "", apiErr
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("LLM API returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", llm.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", llm.ErrTimeout, err)
	}
	return &llm.NetworkError{Err: err}
}
