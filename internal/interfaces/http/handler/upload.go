package handler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/salesdash/backend/internal/application/ingest"
	"github.com/salesdash/backend/internal/infrastructure/logger"
	"github.com/salesdash/backend/internal/interfaces/http/dto"
	"github.com/salesdash/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// UploadHandler accepts CSV files and feeds them through the ingestion
// pipeline. Uploads are staged to a temp file so the multipart body is
// fully read before ingestion begins; the temp file is removed whether
// the run succeeds or fails.
type UploadHandler struct {
	BaseHandler
	pipeline    *ingest.Pipeline
	maxFileSize int64
	tempDir     string
	timeout     time.Duration
	logger      *zap.Logger
}

// NewUploadHandler creates a new UploadHandler. A zero timeout means
// ingestion is bounded only by the request context.
func NewUploadHandler(pipeline *ingest.Pipeline, maxFileSize int64, tempDir string, timeout time.Duration, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		pipeline:    pipeline,
		maxFileSize: maxFileSize,
		tempDir:     tempDir,
		timeout:     timeout,
		logger:      logger,
	}
}

// RegisterRoutes mounts the upload endpoints. The connection deadlines
// are extended for these routes so large files survive the server-wide
// read/write timeouts.
func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	upload := rg.Group("/upload", middleware.ExtendDeadlines(h.timeout))
	{
		upload.POST("/csv", h.UploadCSV)
	}
}

// UploadCSV ingests a multipart CSV upload under the form field "file".
func (h *UploadHandler) UploadCSV(c *gin.Context) {
	log := logger.WithCorrelation(c.Request.Context(), h.logger)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeBadRequest, "Multipart field 'file' is required")
		return
	}

	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		h.ErrorWithCode(c, dto.ErrCodeFileTooLarge,
			fmt.Sprintf("File exceeds the maximum allowed size of %d bytes", h.maxFileSize))
		return
	}

	if !isCSVUpload(fileHeader.Filename, fileHeader.Header.Get("Content-Type")) {
		h.ErrorWithCode(c, dto.ErrCodeUnsupportedFile, "Only CSV files are supported")
		return
	}

	tempPath := filepath.Join(h.tempDir, fmt.Sprintf("upload-%s.csv", uuid.NewString()))
	// Cleanup is registered before the save so a partially written file
	// does not leak when staging fails.
	defer func() {
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			log.Warn("Failed to remove temp upload file",
				zap.String("path", tempPath),
				zap.Error(err))
		}
	}()
	if err := c.SaveUploadedFile(fileHeader, tempPath); err != nil {
		log.Error("Failed to stage upload",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		h.InternalError(c, "Failed to store uploaded file")
		return
	}

	f, err := os.Open(tempPath)
	if err != nil {
		log.Error("Failed to open staged upload", zap.String("path", tempPath), zap.Error(err))
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.pipeline.Run(ctx, f)
	if err != nil {
		log.Error("CSV ingestion failed",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewUploadResponse(
		"File processed successfully",
		result.TotalRows,
		result.ProcessedRows,
		result.SkippedRows,
	))
}

// isCSVUpload accepts files with a .csv name or a text/csv content type.
func isCSVUpload(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return true
	}
	mediaType := contentType
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	return strings.EqualFold(strings.TrimSpace(mediaType), "text/csv")
}
