package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/neurolearn/neurosched/internal/ai"
	"github.com/neurolearn/neurosched/internal/analyzer"
	"github.com/neurolearn/neurosched/internal/ingest"
	"github.com/neurolearn/neurosched/internal/model"
	appErr "github.com/neurolearn/neurosched/internal/pkg/errors"
	"github.com/neurolearn/neurosched/internal/session"
	"github.com/neurolearn/neurosched/internal/transcript"
)

const analysisJSON = `{"summary":"Short summary of the material in two sentences.","difficulty_score":%d,"estimated_study_time_minutes":15,"key_concepts":["One","Two","Three"],"learning_advice":"Practice recall."}`

// pipelineProvider answers the resolve probe with OK and analysis prompts
// with a canned record. Models listed in dead return not-found.
type pipelineProvider struct {
	difficulty   int
	dead         map[string]bool
	analyzeCalls int
	probeCalls   int
}

func (p *pipelineProvider) Name() string { return "gemini" }

func (p *pipelineProvider) ListModels(ctx context.Context, credential string) ([]ai.ModelInfo, error) {
	return []ai.ModelInfo{
		{Name: "gemini-1.5-flash", SupportedActions: []string{"generateContent"}},
		{Name: "gemini-1.5-pro", SupportedActions: []string{"generateContent"}},
	}, nil
}

func (p *pipelineProvider) Generate(ctx context.Context, credential, modelName, prompt string) (string, error) {
	if p.dead[modelName] {
		return "", fmt.Errorf("%w: %s is gone", ai.ErrModelNotFound, modelName)
	}
	if strings.Contains(prompt, "learning-science expert") {
		p.analyzeCalls++
		return fmt.Sprintf(analysisJSON, p.difficulty), nil
	}
	p.probeCalls++
	return "OK", nil
}

type noCaptions struct{}

func (noCaptions) Fetch(ctx context.Context, videoID string) ([]transcript.Segment, error) {
	return nil, transcript.ErrNotAvailable
}

func newTestService(provider ai.IProvider) *StudyService {
	return NewStudyService(
		ingest.New(noCaptions{}),
		ai.NewResolver(provider, []string{"gemini-1.5-flash"}, "gemini-pro", 0),
		analyzer.New(provider, 25000, time.Minute),
		session.NewStore(16, time.Minute),
		128,
		time.Minute,
	)
}

func rawTextRequest(text string) AnalyzeRequest {
	return AnalyzeRequest{
		Credential: "key",
		Source:     ingest.Source{Type: model.SourceRawText, Text: text},
		StartDate:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestAnalyze_FullPipeline(t *testing.T) {
	provider := &pipelineProvider{difficulty: 2}
	svc := newTestService(provider)

	result, err := svc.Analyze(context.Background(), rawTextRequest("The mitochondria is the powerhouse of the cell."))
	require.NoError(t, err)
	require.NotEmpty(t, result.ID)
	require.Equal(t, model.SourceRawText, result.SourceType)
	require.Equal(t, "gemini-1.5-flash", result.Model)
	require.Equal(t, 2, result.Analysis.DifficultyScore)
	require.Len(t, result.Schedule, 6)
	require.Equal(t, "Active Recall", result.Schedule[0].Technique)
	require.Equal(t, result.Schedule[0].Date.AddDate(0, 0, 1), result.Schedule[1].Date)
}

func TestAnalyze_ResolutionCachedPerSession(t *testing.T) {
	provider := &pipelineProvider{difficulty: 5}
	svc := newTestService(provider)

	_, err := svc.Analyze(context.Background(), rawTextRequest("first document"))
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), rawTextRequest("second document"))
	require.NoError(t, err)
	require.Equal(t, 1, provider.probeCalls)
}

func TestAnalyze_ResultCacheSkipsModelCall(t *testing.T) {
	provider := &pipelineProvider{difficulty: 5}
	svc := newTestService(provider)

	_, err := svc.Analyze(context.Background(), rawTextRequest("same document"))
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), rawTextRequest("same document"))
	require.NoError(t, err)
	require.Equal(t, 1, provider.analyzeCalls)
	require.Equal(t, int64(1), svc.Snapshot().CacheHits)
}

func TestAnalyze_MissingCredential(t *testing.T) {
	svc := newTestService(&pipelineProvider{difficulty: 5})
	req := rawTextRequest("text")
	req.Credential = "   "
	_, err := svc.Analyze(context.Background(), req)
	require.ErrorIs(t, err, appErr.ErrMissingCredential)
}

func TestAnalyze_EmptyContent(t *testing.T) {
	svc := newTestService(&pipelineProvider{difficulty: 5})
	_, err := svc.Analyze(context.Background(), rawTextRequest("   \n\t  "))
	require.ErrorIs(t, err, ErrNoContent)
}

func TestAnalyze_ReResolvesWhenModelVanishes(t *testing.T) {
	provider := &pipelineProvider{difficulty: 8}
	svc := newTestService(provider)

	// First request pins gemini-1.5-flash in the session.
	_, err := svc.Analyze(context.Background(), rawTextRequest("first"))
	require.NoError(t, err)

	// The pinned model disappears; the next analysis must fall over to the
	// next usable candidate instead of failing forever.
	provider.dead = map[string]bool{"gemini-1.5-flash": true}
	result, err := svc.Analyze(context.Background(), rawTextRequest("second"))
	require.NoError(t, err)
	require.Equal(t, "gemini-1.5-pro", result.Model)
}

func TestAnalyze_HighDifficultySelectsHeavyTechniques(t *testing.T) {
	provider := &pipelineProvider{difficulty: 9}
	svc := newTestService(provider)

	result, err := svc.Analyze(context.Background(), rawTextRequest("dense material"))
	require.NoError(t, err)
	require.Equal(t, "Blurting", result.Schedule[0].Technique)
}

func TestPlanOnly_RejectsOutOfRangeScore(t *testing.T) {
	svc := newTestService(&pipelineProvider{difficulty: 5})
	_, err := svc.PlanOnly(time.Now(), 0)
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = svc.PlanOnly(time.Now(), 11)
	require.ErrorIs(t, err, appErr.ErrInvalid)

	entries, err := svc.PlanOnly(time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 6)
}
