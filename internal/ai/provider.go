package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Error classes surfaced by providers. Providers wrap their transport
// errors into these so callers can branch without knowing the SDK.
var (
	ErrRateLimited   = errors.New("rate limited")
	ErrBadCredential = errors.New("bad credential")
	ErrModelNotFound = errors.New("model not found")
)

// ModelInfo describes one model identifier reported by a provider listing.
type ModelInfo struct {
	Name             string
	SupportedActions []string
}

func (m ModelInfo) SupportsGeneration() bool {
	for _, action := range m.SupportedActions {
		if action == "generateContent" {
			return true
		}
	}
	return false
}

// IProvider is a generative-content backend. The credential is supplied
// per call: it belongs to the user's session, not to the process.
type IProvider interface {
	Name() string
	ListModels(ctx context.Context, credential string) ([]ModelInfo, error)
	Generate(ctx context.Context, credential string, model string, prompt string) (string, error)
}

type ProviderFactory func() IProvider

var registry = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string) (IProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
	return factory(), nil
}
