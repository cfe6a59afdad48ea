// Package openai adapts the OpenAI Chat Completions API to the generic
// provider.Adapter interface. It converts the normalized persona/history
// request into the SDK's message format, classifies API failures into the
// provider taxonomy and retries transient ones with backoff.
package openai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/talecard/talecard/core"
	"github.com/talecard/talecard/provider"
)

// ProviderID identifies this backend in results and failure classifications.
const ProviderID = "openai"

// Options configure the OpenAI adapter. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	Retry               provider.RetryOptions
}

// Adapter wraps the OpenAI Chat Completions API behind provider.Adapter.
type Adapter struct {
	client *openai.Client
	opts   Options
}

// New creates a new OpenAI adapter using the official client configured from
// the environment.
func New(optFns ...func(o *Options)) *Adapter {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a new OpenAI adapter from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Adapter {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 1024,
		Retry:               provider.DefaultRetryOptions(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Adapter{client: client, opts: opts}
}

// Complete implements provider.Adapter.
func (a *Adapter) Complete(ctx context.Context, req provider.Request) (*provider.Result, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               a.opts.Model,
		Temperature:         openai.Float(a.opts.Temperature),
		MaxCompletionTokens: openai.Int(a.opts.MaxCompletionTokens),
	}
	return provider.WithRetry(ctx, ProviderID, a.opts.Retry, func(ctx context.Context) (*provider.Result, error) {
		resp, err := a.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return nil, classify(err)
		}
		if len(resp.Choices) == 0 {
			return nil, provider.NewError(provider.KindEmptyResponse, ProviderID, errors.New("no choices returned"))
		}
		text := strings.TrimSpace(resp.Choices[0].Message.Content)
		if text == "" {
			return nil, provider.NewError(provider.KindEmptyResponse, ProviderID, errors.New("blank completion"))
		}
		return &provider.Result{Text: text, ProviderID: ProviderID}, nil
	})
}

// buildMessages converts the normalized request into OpenAI chat messages:
// persona as system, stored history in order, then the new user message.
func buildMessages(req provider.Request) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, m := range req.History {
		switch m.Role {
		case core.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Text))
		default:
			messages = append(messages, openai.UserMessage(m.Text))
		}
	}
	messages = append(messages, openai.UserMessage(req.UserMessage))
	return messages
}

// classify maps SDK failures into the provider taxonomy by status code.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return provider.NewError(provider.KindTimeout, ProviderID, err)
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 429:
			return provider.NewError(provider.KindRateLimited, ProviderID, err)
		case apiErr.StatusCode >= 500:
			return provider.NewError(provider.KindUnavailable, ProviderID, err)
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return provider.NewError(provider.KindUnauthorized, ProviderID, err)
		case apiErr.StatusCode >= 400:
			return provider.NewError(provider.KindInvalidRequest, ProviderID, err)
		}
	}
	// Connection failures, EOF and the like: transport-class, worth retrying.
	return provider.NewError(provider.KindUnavailable, ProviderID, err)
}

// Info implements provider.Adapter.
func (a *Adapter) Info() provider.Info {
	return provider.Info{ID: ProviderID, Model: a.opts.Model}
}
