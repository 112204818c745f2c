package handler

import (
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neurolearn/neurosched/internal/ingest"
	"github.com/neurolearn/neurosched/internal/model"
	"github.com/neurolearn/neurosched/internal/pkg/errcode"
	"github.com/neurolearn/neurosched/internal/pkg/response"
	"github.com/neurolearn/neurosched/internal/service"
)

const dateLayout = "2006-01-02"

type StudyHandler struct {
	study       *service.StudyService
	maxPDFBytes int64
}

func NewStudyHandler(study *service.StudyService, maxPDFBytes int64) *StudyHandler {
	return &StudyHandler{study: study, maxPDFBytes: maxPDFBytes}
}

type analyzeJSONRequest struct {
	VideoURL  string `json:"video_url"`
	Text      string `json:"text"`
	StartDate string `json:"start_date"`
}

// Analyze accepts one of the three inputs: a PDF as multipart "file", or a
// JSON body carrying a video URL or pasted text.
func (h *StudyHandler) Analyze(c *gin.Context) {
	source, startDate, ok := h.parseAnalyzeRequest(c)
	if !ok {
		return
	}
	result, err := h.study.Analyze(c.Request.Context(), service.AnalyzeRequest{
		Credential: credential(c),
		Source:     source,
		StartDate:  startDate,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *StudyHandler) parseAnalyzeRequest(c *gin.Context) (ingest.Source, time.Time, bool) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return h.parseMultipart(c)
	}

	var req analyzeJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request body")
		return ingest.Source{}, time.Time{}, false
	}
	startDate, ok := parseStartDate(c, req.StartDate)
	if !ok {
		return ingest.Source{}, time.Time{}, false
	}
	switch {
	case strings.TrimSpace(req.VideoURL) != "":
		return ingest.Source{Type: model.SourceVideoTranscript, VideoURL: req.VideoURL}, startDate, true
	case req.Text != "":
		return ingest.Source{Type: model.SourceRawText, Text: req.Text}, startDate, true
	default:
		response.Error(c, errcode.ErrInvalid, "one of video_url or text is required")
		return ingest.Source{}, time.Time{}, false
	}
}

func (h *StudyHandler) parseMultipart(c *gin.Context) (ingest.Source, time.Time, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "file is required")
		return ingest.Source{}, time.Time{}, false
	}
	if h.maxPDFBytes > 0 && file.Size > h.maxPDFBytes {
		response.Error(c, errcode.ErrInvalid, "file exceeds "+formatUploadLimit(h.maxPDFBytes))
		return ingest.Source{}, time.Time{}, false
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "failed to open file")
		return ingest.Source{}, time.Time{}, false
	}
	defer opened.Close()
	data, err := io.ReadAll(opened)
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "failed to read file")
		return ingest.Source{}, time.Time{}, false
	}
	startDate, ok := parseStartDate(c, c.PostForm("start_date"))
	if !ok {
		return ingest.Source{}, time.Time{}, false
	}
	return ingest.Source{Type: model.SourcePDF, PDF: data}, startDate, true
}

func parseStartDate(c *gin.Context, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, true
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "start_date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return parsed, true
}

type scheduleRequest struct {
	StartDate       string `json:"start_date"`
	DifficultyScore int    `json:"difficulty_score"`
}

// Schedule exposes the plan transform on its own, for re-rendering the
// calendar without another model call.
func (h *StudyHandler) Schedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request body")
		return
	}
	start, ok := parseStartDate(c, req.StartDate)
	if !ok {
		return
	}
	if start.IsZero() {
		start = time.Now()
	}
	entries, err := h.study.PlanOnly(start, req.DifficultyScore)
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "difficulty_score must be between 1 and 10")
		return
	}
	response.Success(c, gin.H{"schedule": entries})
}

// ActiveModel reports which model identifier the caller's session resolved
// to, resolving now on first use. This backs the connection-status check.
func (h *StudyHandler) ActiveModel(c *gin.Context) {
	resolved, err := h.study.ActiveModel(c.Request.Context(), credential(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"model": resolved})
}
