package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// ErrNoUsableModel means every candidate failed or discovery itself was
// rejected. Callers get this instead of a guessed identifier.
var ErrNoUsableModel = errors.New("no usable model")

// probePrompt is the trivial generation used to check that a candidate
// actually answers under the supplied credential.
const probePrompt = "Reply with the single word OK."

// attemptOutcome classifies one candidate probe.
type attemptOutcome int

const (
	attemptSuccess attemptOutcome = iota
	attemptSkip
	attemptFatal
)

func classifyAttempt(err error) attemptOutcome {
	switch {
	case err == nil:
		return attemptSuccess
	case errors.Is(err, ErrBadCredential):
		return attemptFatal
	default:
		// Rate limits, dead identifiers and transient transport errors all
		// mean "try the next candidate".
		return attemptSkip
	}
}

// Resolver picks the model identifier to use for a session. It combines
// listing-based discovery with sequential candidate probing; the caller
// caches the result per session.
type Resolver struct {
	provider   IProvider
	candidates []string
	legacy     string
	probeDelay time.Duration
}

func NewResolver(provider IProvider, candidates []string, legacyFallback string, probeDelay time.Duration) *Resolver {
	return &Resolver{
		provider:   provider,
		candidates: candidates,
		legacy:     legacyFallback,
		probeDelay: probeDelay,
	}
}

// Resolve returns the first candidate that answers a trivial generation
// call. A bad-credential failure aborts the scan immediately.
func (r *Resolver) Resolve(ctx context.Context, credential string) (string, error) {
	order, err := r.probeOrder(ctx, credential)
	if err != nil {
		return "", err
	}

	logger := logutil.GetLogger(ctx)
	var lastErr error
	for i, name := range order {
		_, err := r.provider.Generate(ctx, credential, name, probePrompt)
		switch classifyAttempt(err) {
		case attemptSuccess:
			logger.Info("model resolved", zap.String("model", name), zap.Int("attempt", i+1))
			return name, nil
		case attemptFatal:
			logger.Warn("model probe rejected credential", zap.String("model", name), zap.Error(err))
			return "", fmt.Errorf("%w: %v", ErrNoUsableModel, err)
		}
		lastErr = err
		logger.Warn("model probe failed", zap.String("model", name), zap.Error(err))
		if errors.Is(err, ErrRateLimited) && r.probeDelay > 0 {
			select {
			case <-time.After(r.probeDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	if lastErr == nil {
		return "", ErrNoUsableModel
	}
	return "", fmt.Errorf("%w: %v", ErrNoUsableModel, lastErr)
}

// probeOrder builds the ordered candidate list: discovered identifiers by
// preference tier first, then the configured candidates, then the legacy
// fallback. If the listing call fails for a non-fatal reason the static
// list alone is used.
func (r *Resolver) probeOrder(ctx context.Context, credential string) ([]string, error) {
	var order []string
	seen := make(map[string]bool)
	push := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		order = append(order, name)
	}

	models, err := r.provider.ListModels(ctx, credential)
	switch {
	case err == nil:
		for _, name := range rankDiscovered(models, r.provider.Name()) {
			push(name)
		}
	case classifyAttempt(err) == attemptFatal:
		return nil, fmt.Errorf("%w: %v", ErrNoUsableModel, err)
	default:
		logutil.GetLogger(ctx).Warn("model listing failed, probing static candidates", zap.Error(err))
	}

	for _, name := range r.candidates {
		push(name)
	}
	push(r.legacy)
	return order, nil
}

// rankDiscovered orders listed models: low-latency 1.5 tier, then
// high-capability 1.5 tier, then anything else in the provider family.
func rankDiscovered(models []ModelInfo, family string) []string {
	var flash, pro, rest []string
	for _, m := range models {
		if !m.SupportsGeneration() {
			continue
		}
		name := m.Name
		switch {
		case strings.Contains(name, "flash") && strings.Contains(name, "1.5"):
			flash = append(flash, name)
		case strings.Contains(name, "pro") && strings.Contains(name, "1.5"):
			pro = append(pro, name)
		case strings.Contains(name, family):
			rest = append(rest, name)
		}
	}
	ranked := make([]string, 0, len(flash)+len(pro)+len(rest))
	ranked = append(ranked, flash...)
	ranked = append(ranked, pro...)
	ranked = append(ranked, rest...)
	return ranked
}
