package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/neurolearn/neurosched/internal/ai"
	"github.com/neurolearn/neurosched/internal/analyzer"
	"github.com/neurolearn/neurosched/internal/config"
	"github.com/neurolearn/neurosched/internal/handler"
	"github.com/neurolearn/neurosched/internal/ingest"
	"github.com/neurolearn/neurosched/internal/job"
	"github.com/neurolearn/neurosched/internal/middleware"
	"github.com/neurolearn/neurosched/internal/schedule"
	"github.com/neurolearn/neurosched/internal/service"
	"github.com/neurolearn/neurosched/internal/session"
	"github.com/neurolearn/neurosched/internal/transcript"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "neurosched",
		Short: "neurosched backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run neurosched server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.Strings("candidates", cfg.AI.Candidates),
	)

	provider, err := ai.NewProvider(cfg.AI.Provider)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	resolver := ai.NewResolver(
		provider,
		cfg.AI.Candidates,
		cfg.AI.LegacyFallback,
		time.Duration(cfg.AI.ProbeDelayMS)*time.Millisecond,
	)
	contentAnalyzer := analyzer.New(
		provider,
		cfg.AI.MaxInputChars,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second,
	)
	transcripts := transcript.NewClient(cfg.Transcript)
	ingestor := ingest.New(transcripts)
	sessions := session.NewStore(cfg.AI.CacheSize, time.Duration(cfg.AI.SessionTTLMinutes)*time.Minute)

	studyService := service.NewStudyService(
		ingestor,
		resolver,
		contentAnalyzer,
		sessions,
		cfg.AI.CacheSize,
		time.Duration(cfg.AI.SessionTTLMinutes)*time.Minute,
	)

	deps := handler.RouterDeps{
		Study:         handler.NewStudyHandler(studyService, cfg.Upload.MaxPDFBytes),
		AnalyzeWindow: time.Duration(cfg.AnalyzeWindowMS) * time.Millisecond,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewUsageReportJob(studyService), "0 * * * *"); err != nil {
		return fmt.Errorf("schedule usage report: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
