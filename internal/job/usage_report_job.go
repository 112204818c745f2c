package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/neurolearn/neurosched/internal/service"
)

// UsageReportJob periodically logs pipeline counters so operators can see
// traffic without any metrics backend.
type UsageReportJob struct {
	study *service.StudyService
}

func NewUsageReportJob(study *service.StudyService) *UsageReportJob {
	return &UsageReportJob{study: study}
}

func (j *UsageReportJob) Name() string {
	return "usage_report"
}

func (j *UsageReportJob) Run(ctx context.Context) error {
	if j.study == nil {
		return nil
	}
	stats := j.study.Snapshot()
	logutil.GetLogger(ctx).Info("pipeline usage",
		zap.Int64("analyses", stats.Analyses),
		zap.Int64("cache_hits", stats.CacheHits),
		zap.Int64("failures", stats.Failures),
	)
	return nil
}
