// Package anthropic adapts the Anthropic Messages API to the generic
// provider.Adapter interface.
package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/talecard/talecard/core"
	"github.com/talecard/talecard/provider"
)

// ProviderID identifies this backend in results and failure classifications.
const ProviderID = "anthropic"

// Options configure the Anthropic adapter (model id, temperature, max
// tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
	Retry       provider.RetryOptions
}

// Adapter wraps the Anthropic Messages API behind provider.Adapter.
type Adapter struct {
	client *anthropic.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   1024,
		Retry:       provider.DefaultRetryOptions(),
	}
}

// New creates a new Anthropic adapter using the official client.
func New(optFns ...func(o *Options)) *Adapter {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Adapter{client: &client, opts: opts}
}

// NewFromClient creates a new Anthropic adapter from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Adapter {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Adapter{client: client, opts: opts}
}

// Complete implements provider.Adapter.
func (a *Adapter) Complete(ctx context.Context, req provider.Request) (*provider.Result, error) {
	params := anthropic.MessageNewParams{
		Model:       a.opts.Model,
		Messages:    buildMessages(req),
		MaxTokens:   a.opts.MaxTokens,
		Temperature: anthropic.Float(a.opts.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	return provider.WithRetry(ctx, ProviderID, a.opts.Retry, func(ctx context.Context) (*provider.Result, error) {
		resp, err := a.client.Messages.New(ctx, params)
		if err != nil {
			return nil, classify(err)
		}
		var sb strings.Builder
		for _, block := range resp.Content {
			if block.Type == "text" {
				sb.WriteString(block.AsText().Text)
			}
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			return nil, provider.NewError(provider.KindEmptyResponse, ProviderID, errors.New("no text content returned"))
		}
		return &provider.Result{Text: text, ProviderID: ProviderID}, nil
	})
}

// buildMessages converts the normalized request into Anthropic messages.
// The system prompt travels separately in params.System.
func buildMessages(req provider.Request) []anthropic.MessageParam {
	messages := make([]anthropic.MessageParam, 0, len(req.History)+1)
	for _, m := range req.History {
		switch m.Role {
		case core.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		}
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserMessage)))
	return messages
}

// classify maps SDK failures into the provider taxonomy by status code.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return provider.NewError(provider.KindTimeout, ProviderID, err)
	}
	var apiErr *anthropic.Error
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
	return provider.NewError(provider.KindUnavailable, ProviderID, err)
}

// Info implements provider.Adapter.
func (a *Adapter) Info() provider.Info {
	return provider.Info{ID: ProviderID, Model: string(a.opts.Model)}
}
