package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

type geminiProvider struct{}

func (p *geminiProvider) Name() string {
	return "gemini"
}

func (p *geminiProvider) client(ctx context.Context, credential string) (*genai.Client, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, ErrBadCredential
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(credential),
		Backend: genai.BackendGeminiAPI,
	})
}

func (p *geminiProvider) ListModels(ctx context.Context, credential string) ([]ModelInfo, error) {
	client, err := p.client(ctx, credential)
	if err != nil {
		return nil, err
	}
	page, err := client.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, classifyGeminiError(err)
	}
	var models []ModelInfo
	for {
		for _, m := range page.Items {
			models = append(models, ModelInfo{
				// The API reports fully qualified names like "models/gemini-1.5-flash".
				Name:             strings.TrimPrefix(m.Name, "models/"),
				SupportedActions: m.SupportedActions,
			})
		}
		page, err = page.Next(ctx)
		if errors.Is(err, genai.ErrPageDone) {
			break
		}
		if err != nil {
			return nil, classifyGeminiError(err)
		}
	}
	return models, nil
}

func (p *geminiProvider) Generate(ctx context.Context, credential string, model string, prompt string) (string, error) {
	client, err := p.client(ctx, credential)
	if err != nil {
		return "", err
	}
	resp, err := client.Models.GenerateContent(
		ctx,
		model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// classifyGeminiError maps SDK errors onto the provider error classes so the
// resolver can tell a skippable failure from a fatal one.
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Code {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrBadCredential, apiErr.Message)
	case http.StatusBadRequest:
		// Gemini reports an invalid API key as 400 INVALID_ARGUMENT.
		if strings.Contains(strings.ToLower(apiErr.Message), "api key") {
			return fmt.Errorf("%w: %s", ErrBadCredential, apiErr.Message)
		}
		return err
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrModelNotFound, apiErr.Message)
	}
	return err
}

func init() {
	Register("gemini", func() IProvider { return &geminiProvider{} })
}
