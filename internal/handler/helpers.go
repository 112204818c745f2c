package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/neurolearn/neurosched/internal/ai"
	"github.com/neurolearn/neurosched/internal/analyzer"
	"github.com/neurolearn/neurosched/internal/ingest"
	"github.com/neurolearn/neurosched/internal/pkg/errcode"
	appErr "github.com/neurolearn/neurosched/internal/pkg/errors"
	"github.com/neurolearn/neurosched/internal/pkg/response"
	"github.com/neurolearn/neurosched/internal/service"
)

// credential reads the session's API key from the request header.
func credential(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader("X-Api-Key"))
}

// handleError maps pipeline errors onto the reply envelope. The error text
// is surfaced as-is; document content and credentials never appear in it.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Warn("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrMissingCredential):
		response.Error(c, errcode.ErrMissingCredential, "api key is required")
	case errors.Is(err, ingest.ErrInvalidURL):
		response.Error(c, errcode.ErrInvalidVideoURL, err.Error())
	case errors.Is(err, ingest.ErrNoCaptions):
		response.Error(c, errcode.ErrNoCaptions, err.Error())
	case errors.Is(err, ingest.ErrUnreadable):
		response.Error(c, errcode.ErrUnreadableDocument, err.Error())
	case errors.Is(err, ai.ErrNoUsableModel):
		response.Error(c, errcode.ErrNoUsableModel, err.Error())
	case errors.Is(err, analyzer.ErrInvalidResponse):
		response.Error(c, errcode.ErrBadModelResponse, err.Error())
	case errors.Is(err, analyzer.ErrTransport):
		response.Error(c, errcode.ErrModelTransport, err.Error())
	case errors.Is(err, service.ErrNoContent):
		response.Error(c, errcode.ErrInvalid, err.Error())
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
