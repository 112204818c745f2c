package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/neurolearn/neurosched/internal/ai"
	"github.com/neurolearn/neurosched/internal/analyzer"
	"github.com/neurolearn/neurosched/internal/ingest"
	"github.com/neurolearn/neurosched/internal/model"
	appErr "github.com/neurolearn/neurosched/internal/pkg/errors"
	"github.com/neurolearn/neurosched/internal/planner"
	"github.com/neurolearn/neurosched/internal/session"
)

// ErrNoContent means ingestion produced an empty document; there is nothing
// to analyze and no external call is made.
var ErrNoContent = errors.New("no content to analyze")

// StudyService runs the whole pipeline for one request: ingest, resolve,
// analyze, plan. It owns the session store and the analysis result cache.
type StudyService struct {
	ingestor *ingest.Ingestor
	resolver *ai.Resolver
	analyzer *analyzer.Analyzer
	sessions *session.Store
	results  *expirable.LRU[string, *model.AnalysisResult]

	analyses  atomic.Int64
	cacheHits atomic.Int64
	failures  atomic.Int64
}

type AnalyzeRequest struct {
	Credential string
	Source     ingest.Source
	StartDate  time.Time
}

type AnalyzeResult struct {
	ID         string                `json:"id"`
	SourceType model.SourceType      `json:"source_type"`
	Model      string                `json:"model"`
	Analysis   *model.AnalysisResult `json:"analysis"`
	Schedule   []model.ScheduleEntry `json:"schedule"`
}

func NewStudyService(ingestor *ingest.Ingestor, resolver *ai.Resolver, anl *analyzer.Analyzer, sessions *session.Store, cacheSize int, cacheTTL time.Duration) *StudyService {
	return &StudyService{
		ingestor: ingestor,
		resolver: resolver,
		analyzer: anl,
		sessions: sessions,
		results:  expirable.NewLRU[string, *model.AnalysisResult](cacheSize, nil, cacheTTL),
	}
}

func (s *StudyService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	credential := strings.TrimSpace(req.Credential)
	if credential == "" {
		return nil, appErr.ErrMissingCredential
	}

	doc, err := s.ingestor.Ingest(ctx, req.Source)
	if err != nil {
		s.failures.Add(1)
		return nil, err
	}
	if doc.Empty() {
		return nil, ErrNoContent
	}

	sess := s.sessions.Get(credential)
	modelName, err := s.resolveForSession(ctx, sess)
	if err != nil {
		s.failures.Add(1)
		return nil, err
	}

	analysis, usedModel, err := s.analyzeDocument(ctx, sess, modelName, doc)
	if err != nil {
		s.failures.Add(1)
		return nil, err
	}
	s.analyses.Add(1)

	start := req.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	return &AnalyzeResult{
		ID:         uuid.NewString(),
		SourceType: doc.Source,
		Model:      usedModel,
		Analysis:   analysis,
		Schedule:   planner.Plan(start, analysis.DifficultyScore),
	}, nil
}

// analyzeDocument invokes the model, consulting the result cache first. A
// not-found failure invalidates the session's cached identifier and retries
// once after re-resolving.
func (s *StudyService) analyzeDocument(ctx context.Context, sess *session.Session, modelName string, doc model.Document) (*model.AnalysisResult, string, error) {
	key := resultKey(modelName, doc)
	if cached, ok := s.results.Get(key); ok {
		s.cacheHits.Add(1)
		return cached, modelName, nil
	}

	analysis, err := s.analyzer.Analyze(ctx, sess.Credential(), modelName, doc)
	if errors.Is(err, ai.ErrModelNotFound) {
		logutil.GetLogger(ctx).Warn("resolved model vanished, re-resolving",
			zap.String("model", modelName), zap.Error(err))
		sess.InvalidateModel(modelName)
		modelName, err = s.resolveForSession(ctx, sess)
		if err != nil {
			return nil, "", err
		}
		analysis, err = s.analyzer.Analyze(ctx, sess.Credential(), modelName, doc)
	}
	if err != nil {
		return nil, "", err
	}
	s.results.Add(resultKey(modelName, doc), analysis)
	return analysis, modelName, nil
}

// ActiveModel reports the model the session would use, resolving it now if
// this is the first call for the credential.
func (s *StudyService) ActiveModel(ctx context.Context, credential string) (string, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", appErr.ErrMissingCredential
	}
	return s.resolveForSession(ctx, s.sessions.Get(credential))
}

// PlanOnly exposes the pure scheduling transform for the calendar view.
func (s *StudyService) PlanOnly(start time.Time, difficultyScore int) ([]model.ScheduleEntry, error) {
	if difficultyScore < 1 || difficultyScore > 10 {
		return nil, appErr.ErrInvalid
	}
	return planner.Plan(start, difficultyScore), nil
}

func (s *StudyService) resolveForSession(ctx context.Context, sess *session.Session) (string, error) {
	if cached, ok := sess.ResolvedModel(); ok {
		return cached, nil
	}
	resolved, err := s.resolver.Resolve(ctx, sess.Credential())
	if err != nil {
		return "", err
	}
	sess.SetResolvedModel(resolved)
	return resolved, nil
}

// Stats is a point-in-time snapshot of pipeline counters.
type Stats struct {
	Analyses  int64
	CacheHits int64
	Failures  int64
}

func (s *StudyService) Snapshot() Stats {
	return Stats{
		Analyses:  s.analyses.Load(),
		CacheHits: s.cacheHits.Load(),
		Failures:  s.failures.Load(),
	}
}

func resultKey(modelName string, doc model.Document) string {
	sum := sha256.Sum256([]byte(doc.Content))
	return modelName + ":" + string(doc.Source) + ":" + hex.EncodeToString(sum[:])
}
