package answers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/koscakluka/ema-festdesk/core/llms"
	"github.com/koscakluka/ema-festdesk/core/topics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultMaxRetries = 3
	DefaultBackoff    = 2 * time.Second
)

// Service is the remote chat completion backend.
type Service interface {
	Complete(ctx context.Context, req llms.Request) (string, error)
}

// Client answers festival questions. Canned answers never reach the network,
// everything else is fetched from the remote service with a bounded retry on
// rate limiting.
type Client struct {
	service Service
	gate    *topics.Gate

	systemPrompt string
	requestOpts  []llms.RequestOption

	maxRetries int
	backoff    time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

type ClientOption func(*Client)

// WithMaxRetries sets the total number of attempts made per question.
func WithMaxRetries(maxRetries int) ClientOption {
	return func(c *Client) {
		if maxRetries > 0 {
			c.maxRetries = maxRetries
		}
	}
}

// WithBackoff sets the fixed wait between rate limited attempts.
func WithBackoff(backoff time.Duration) ClientOption {
	return func(c *Client) {
		if backoff >= 0 {
			c.backoff = backoff
		}
	}
}

func WithRequestOptions(opts ...llms.RequestOption) ClientOption {
	return func(c *Client) {
		c.requestOpts = append(c.requestOpts, opts...)
	}
}

// WithSleep replaces the wait used between attempts, mostly for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) ClientOption {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

func NewClient(service Service, gate *topics.Gate, opts ...ClientOption) (*Client, error) {
	if service == nil {
		return nil, fmt.Errorf("answer service missing")
	}
	if gate == nil {
		return nil, fmt.Errorf("topic gate missing")
	}

	systemPrompt, err := gate.Festival().SystemPrompt()
	if err != nil {
		return nil, fmt.Errorf("failed to render system prompt: %w", err)
	}

	c := &Client{
		service:      service,
		gate:         gate,
		systemPrompt: systemPrompt,
		maxRetries:   DefaultMaxRetries,
		backoff:      DefaultBackoff,
		sleep:        sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Answer resolves a user utterance to the assistant's reply.
func (c *Client) Answer(ctx context.Context, utterance string) (string, error) {
	ctx, span := tracer.Start(ctx, "answer question")
	defer span.End()

	if answer, ok := c.gate.CannedAnswer(utterance); ok {
		span.SetAttributes(attribute.Bool("answer.canned", true))
		return answer, nil
	}

	span.SetAttributes(attribute.Bool("answer.canned", false))
	answer, err := c.FetchAnswer(ctx, utterance)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetching answer failed")
		return "", err
	}
	return answer, nil
}

// FetchAnswer asks the remote service, retrying only on rate limiting. At most
// maxRetries attempts are made with a fixed backoff between them.
func (c *Client) FetchAnswer(ctx context.Context, utterance string) (string, error) {
	span := trace.SpanFromContext(ctx)
	req := llms.NewRequest(c.systemPrompt, utterance, c.requestOpts...)

	for attempt := 1; ; attempt++ {
		span.AddEvent("answer attempt", trace.WithAttributes(attribute.Int("attempt", attempt)))

		content, err := c.service.Complete(ctx, req)
		if err == nil {
			return stripCodeFences(content), nil
		}

		var apiErr *llms.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.IsRateLimited():
			if attempt >= c.maxRetries {
				logger.Warn("answer service still rate limited, giving up", "attempts", attempt)
				return "", fmt.Errorf("gave up after %d attempts: %w", attempt, ErrRateLimited)
			}
			logger.Info("answer service rate limited, backing off", "attempt", attempt, "backoff", c.backoff)
			if err := c.sleep(ctx, c.backoff); err != nil {
				return "", err
			}

		case errors.As(err, &apiErr):
			message := apiErr.Message
			if message == "" {
				message = unexpectedErrorMessage
			}
			return "", &RemoteServiceError{Status: apiErr.StatusCode, Message: message}

		default:
			return "", fmt.Errorf("failed to fetch answer: %w", err)
		}
	}
}

// stripCodeFences removes a markdown fence wrapping the whole reply.
func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	if idx := strings.Index(content, "\n"); idx >= 0 {
		content = content[idx+1:]
	} else {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
