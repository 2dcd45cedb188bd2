package templates

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"assinaai/document-gateway/document-gateway-backend/internal/docx"
	"assinaai/document-gateway/document-gateway-backend/internal/render"
	"assinaai/document-gateway/document-gateway-backend/pkg/storage"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type Handler struct {
	service        Service
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewHandler(service Service, maxUploadBytes int64, logger *zap.Logger) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{service: service, maxUploadBytes: maxUploadBytes, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/extract-variables", h.ExtractVariables)
	rg.POST("/replace-variables", h.ReplaceVariables)
	rg.POST("/convert-to-pdf", h.ConvertToPDF)
	rg.POST("/process-document", h.ProcessDocument)
	rg.POST("/extract-and-convert", h.ExtractAndConvert)
	rg.POST("/extract-convert-upload", h.ExtractConvertUpload)
	rg.POST("/process-from-s3", h.ProcessFromStore)
}

// readUpload validates and reads the multipart "file" field.
func (h *Handler) readUpload(c *gin.Context) ([]byte, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided in request"})
		return nil, false
	}
	if err := ValidateUploadHeader(fh, h.maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	if err := ValidateDocxContent(data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return data, true
}

// formVariables normalizes the "variables" form field. A missing field is
// an error only when required.
func (h *Handler) formVariables(c *gin.Context, required bool) (map[string]string, bool) {
	raw := c.PostForm("variables")
	if raw == "" {
		if required {
			c.JSON(http.StatusBadRequest, gin.H{"error": "variables mapping is required"})
			return nil, false
		}
		return nil, true
	}
	vars, err := NormalizeVariables([]byte(raw))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return vars, true
}

func (h *Handler) uploadOptions(c *gin.Context) (UploadOptions, bool) {
	opts := UploadOptions{
		Bucket: c.PostForm("bucket"),
		Prefix: c.PostForm("s3Prefix"),
	}
	if raw := c.PostForm("ttlSeconds"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ttlSeconds must be an integer"})
			return opts, false
		}
		opts.TTL = time.Duration(seconds) * time.Second
	}
	return opts, true
}

// respondError maps error kinds to HTTP statuses: malformed documents and
// invalid variables are client errors, renderer and object-store failures
// are dependency errors, everything else is internal.
func (h *Handler) respondError(c *gin.Context, action string, err error) {
	var malformed *docx.MalformedDocumentError
	var invalidVars *InvalidVariablesError
	var renderErr *render.RenderError
	var storeErr *storage.StoreError

	switch {
	case errors.As(err, &malformed), errors.As(err, &invalidVars):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &renderErr), errors.As(err, &storeErr):
		h.logger.Error(action, zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": action, "message": err.Error()})
	default:
		h.logger.Error(action, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": action, "message": err.Error()})
	}
}

func (h *Handler) ExtractVariables(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}

	variables, err := h.service.ExtractVariables(c.Request.Context(), data)
	if err != nil {
		h.respondError(c, "failed to extract variables", err)
		return
	}

	c.JSON(http.StatusOK, ExtractResponse{Variables: variables, Count: len(variables)})
}

func (h *Handler) ReplaceVariables(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}
	vars, ok := h.formVariables(c, true)
	if !ok {
		return
	}

	modified, err := h.service.ReplaceVariables(c.Request.Context(), data, vars)
	if err != nil {
		h.respondError(c, "failed to replace variables", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="modified.docx"`)
	c.Data(http.StatusOK, docxContentType, modified)
}

func (h *Handler) ConvertToPDF(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}

	pdf, err := h.service.ConvertToPDF(c.Request.Context(), data)
	if err != nil {
		h.respondError(c, "failed to convert to PDF", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="converted.pdf"`)
	c.Data(http.StatusOK, pdfContentType, pdf)
}

func (h *Handler) ProcessDocument(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}
	vars, ok := h.formVariables(c, true)
	if !ok {
		return
	}

	pdf, err := h.service.ProcessDocument(c.Request.Context(), data, vars)
	if err != nil {
		h.respondError(c, "failed to process document", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="processed.pdf"`)
	c.Data(http.StatusOK, pdfContentType, pdf)
}

func (h *Handler) ExtractAndConvert(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}
	vars, ok := h.formVariables(c, false)
	if !ok {
		return
	}

	variables, pdf, err := h.service.ExtractAndConvert(c.Request.Context(), data, vars)
	if err != nil {
		h.respondError(c, "failed to extract and convert", err)
		return
	}

	c.JSON(http.StatusOK, ExtractConvertResponse{
		Variables: variables,
		PDFBase64: base64.StdEncoding.EncodeToString(pdf),
	})
}

func (h *Handler) ExtractConvertUpload(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}
	vars, ok := h.formVariables(c, false)
	if !ok {
		return
	}
	opts, ok := h.uploadOptions(c)
	if !ok {
		return
	}

	variables, url, err := h.service.ExtractConvertUpload(c.Request.Context(), data, vars, opts)
	if err != nil {
		h.respondError(c, "failed to extract, convert and upload", err)
		return
	}

	c.JSON(http.StatusOK, UploadResponse{Variables: variables, PresignedURL: url})
}

func (h *Handler) ProcessFromStore(c *gin.Context) {
	var req struct {
		Bucket       string          `json:"bucket"`
		Key          string          `json:"key"`
		Variables    json.RawMessage `json:"variables"`
		OutputBucket string          `json:"outputBucket"`
		S3Prefix     string          `json:"s3Prefix"`
		TTLSeconds   int             `json:"ttlSeconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Bucket == "" || req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bucket and key are required"})
		return
	}

	var vars map[string]string
	if len(req.Variables) > 0 {
		normalized, err := NormalizeVariables(req.Variables)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		vars = normalized
	}

	opts := UploadOptions{
		Bucket: req.OutputBucket,
		Prefix: req.S3Prefix,
		TTL:    time.Duration(req.TTLSeconds) * time.Second,
	}

	variables, url, err := h.service.ProcessFromStore(c.Request.Context(), req.Bucket, req.Key, vars, opts)
	if err != nil {
		h.respondError(c, "failed to process document from store", err)
		return
	}

	c.JSON(http.StatusOK, UploadResponse{Variables: variables, PresignedURL: url})
}
