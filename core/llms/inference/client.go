package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/koscakluka/ema-festdesk/core/llms"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	completionsPath = "/chat/completions"
	apiVersion      = "2024-05-01-preview"
)

// Client talks to an Azure AI Inference compatible chat completions endpoint.
type Client struct {
	endpoint string
	apiKey   string
	model    string

	httpClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default otelhttp instrumented client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func NewClient(endpoint, apiKey, model string, opts ...ClientOption) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("inference endpoint missing")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("inference api key missing")
	}

	client := &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)},
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Complete sends one request and returns the generated text. Non-success
// responses are returned as *llms.APIError so callers can tell rate limiting
// apart from terminal failures.
func (c *Client) Complete(ctx context.Context, request llms.Request) (string, error) {
	ctx, span := tracer.Start(ctx, "chat completion")
	defer span.End()

	model := request.ModelID
	if model == "" {
		model = c.model
	}

	reqBody := requestBody{
		Messages: []message{
			{Role: llms.MessageRoleSystem, Content: request.SystemPrompt},
			{Role: llms.MessageRoleUser, Content: request.UserMessage},
		},
		Temperature: request.Temperature,
		TopP:        request.TopP,
		MaxTokens:   request.MaxTokens,
		Model:       model,
	}
	if request.SystemPrompt == "" {
		reqBody.Messages = reqBody.Messages[1:]
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		err = fmt.Errorf("error marshalling JSON: %w", err)
		span.RecordError(err)
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+completionsPath, bytes.NewReader(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		return "", err
	}
	query := req.URL.Query()
	query.Set("api-version", apiVersion)
	req.URL.RawQuery = query.Encode()

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("api-key", c.apiKey)

	span.SetAttributes(
		attribute.String("request.model", model),
		attribute.Int("request.max_tokens", request.MaxTokens),
	)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseError(resp)
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, apiErr.Error())
		return "", apiErr
	}

	var body responseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		err = fmt.Errorf("error unmarshalling JSON: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	if len(body.Choices) == 0 {
		return "", nil
	}

	return body.Choices[0].Message.Content, nil
}

func parseError(resp *http.Response) *llms.APIError {
	apiErr := &llms.APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("failed to read error body", "status", resp.StatusCode, "error", err)
		return apiErr
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Message = parsed.Error.Message
	}
	return apiErr
}

type message struct {
	Role    llms.MessageRole `json:"role"`
	Content string           `json:"content"`
}

type requestBody struct {
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
	MaxTokens   int       `json:"max_tokens"`
	Model       string    `json:"model,omitempty"`
}

type responseBody struct {
	Choices []struct {
		Index        int     `json:"index"`
		FinishReason string  `json:"finish_reason"`
		Message      message `json:"message"`
	} `json:"choices"`
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
