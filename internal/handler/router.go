package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neurolearn/neurosched/internal/middleware"
	"github.com/neurolearn/neurosched/internal/pkg/response"
)

type RouterDeps struct {
	Study         *StudyHandler
	AnalyzeWindow time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/healthz", healthz)
	api.POST("/analyze", middleware.RateLimit(deps.AnalyzeWindow), deps.Study.Analyze)
	api.POST("/schedule", deps.Study.Schedule)
	api.GET("/models/active", deps.Study.ActiveModel)
}

func healthz(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
