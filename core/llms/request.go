package llms

// Request is a single-shot question for the remote answer service.
type Request struct {
	SystemPrompt string
	UserMessage  string
	Temperature  float64
	TopP         float64
	MaxTokens    int
	// ModelID is the deployment or model name. Clients fall back to their
	// configured model when it is empty.
	ModelID string
}

const (
	DefaultTemperature = 0.7
	DefaultTopP        = 1.0
	DefaultMaxTokens   = 500
)

type RequestOption func(*Request)

// NewRequest builds a request with the default sampling parameters applied
// before opts.
func NewRequest(systemPrompt, userMessage string, opts ...RequestOption) Request {
	req := Request{
		SystemPrompt: systemPrompt,
		UserMessage:  userMessage,
		Temperature:  DefaultTemperature,
		TopP:         DefaultTopP,
		MaxTokens:    DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

func WithTemperature(temperature float64) RequestOption {
	return func(r *Request) { r.Temperature = temperature }
}

func WithTopP(topP float64) RequestOption {
	return func(r *Request) { r.TopP = topP }
}

func WithMaxTokens(maxTokens int) RequestOption {
	return func(r *Request) { r.MaxTokens = maxTokens }
}

func WithModelID(modelID string) RequestOption {
	return func(r *Request) { r.ModelID = modelID }
}

type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)
