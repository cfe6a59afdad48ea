// Package gemini adapts Google's Gemini API (via the genai SDK) to the
// generic provider.Adapter interface.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/talecard/talecard/core"
	"github.com/talecard/talecard/provider"
	"google.golang.org/genai"
)

// ProviderID identifies this backend in results and failure classifications.
const ProviderID = "gemini"

// Options configure the Gemini adapter.
type Options struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	APIKey          string
	Retry           provider.RetryOptions
}

// Adapter wraps the Gemini generate-content API behind provider.Adapter.
type Adapter struct {
	client *genai.Client
	opts   Options
}

// New creates a new Gemini adapter. The underlying client is constructed
// eagerly so configuration problems surface at startup rather than on the
// first turn.
func New(optFns ...func(o *Options)) (*Adapter, error) {
	opts := Options{
		Model:           "gemini-2.0-flash",
		Temperature:     0.7,
		MaxOutputTokens: 1024,
		Retry:           provider.DefaultRetryOptions(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: opts.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Adapter{client: client, opts: opts}, nil
}

// Complete implements provider.Adapter.
func (a *Adapter) Complete(ctx context.Context, req provider.Request) (*provider.Result, error) {
	contents := buildContents(req)
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(a.opts.Temperature),
		MaxOutputTokens: a.opts.MaxOutputTokens,
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	return provider.WithRetry(ctx, ProviderID, a.opts.Retry, func(ctx context.Context) (*provider.Result, error) {
		resp, err := a.client.Models.GenerateContent(ctx, a.opts.Model, contents, config)
		if err != nil {
			return nil, classify(err)
		}
		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return nil, provider.NewError(provider.KindEmptyResponse, ProviderID, errors.New("no text content returned"))
		}
		return &provider.Result{Text: text, ProviderID: ProviderID}, nil
	})
}

// buildContents converts the normalized request into Gemini contents. The
// assistant role maps to Gemini's "model" role.
func buildContents(req provider.Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		switch m.Role {
		case core.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Text, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Text, genai.RoleUser))
		}
	}
	contents = append(contents, genai.NewContentFromText(req.UserMessage, genai.RoleUser))
	return contents
}

// classify maps SDK failures into the provider taxonomy by status code.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return provider.NewError(provider.KindTimeout, ProviderID, err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429:
			return provider.NewError(provider.KindRateLimited, ProviderID, err)
		case apiErr.Code >= 500:
			return provider.NewError(provider.KindUnavailable, ProviderID, err)
		case apiErr.Code == 401 || apiErr.Code == 403:
			return provider.NewError(provider.KindUnauthorized, ProviderID, err)
		case apiErr.Code >= 400:
			return provider.NewError(provider.KindInvalidRequest, ProviderID, err)
		}
	}
	return provider.NewError(provider.KindUnavailable, ProviderID, err)
}

// Info implements provider.Adapter.
func (a *Adapter) Info() provider.Info {
	return provider.Info{ID: ProviderID, Model: a.opts.Model}
}
