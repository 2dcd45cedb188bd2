// Package templates exposes the template-processing operations: variable
// extraction, placeholder substitution, PDF rendering, and the combined
// upload-and-presign flows.
package templates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"assinaai/document-gateway/document-gateway-backend/internal/docx"
	"assinaai/document-gateway/document-gateway-backend/internal/render"
	"assinaai/document-gateway/document-gateway-backend/pkg/storage"
)

const pdfContentType = "application/pdf"

// Service is the conversion orchestrator. Every operation is a single
// attempt; a failing stage aborts the whole call and its error kind
// surfaces unchanged.
type Service interface {
	ExtractVariables(ctx context.Context, docxBytes []byte) ([]string, error)
	ReplaceVariables(ctx context.Context, docxBytes []byte, vars map[string]string) ([]byte, error)
	ConvertToPDF(ctx context.Context, docxBytes []byte) ([]byte, error)
	ProcessDocument(ctx context.Context, docxBytes []byte, vars map[string]string) ([]byte, error)
	ExtractAndConvert(ctx context.Context, docxBytes []byte, vars map[string]string) ([]string, []byte, error)
	ExtractConvertUpload(ctx context.Context, docxBytes []byte, vars map[string]string, opts UploadOptions) ([]string, string, error)
	ProcessFromStore(ctx context.Context, bucket, key string, vars map[string]string, opts UploadOptions) ([]string, string, error)
}

// StoreDefaults fill in UploadOptions left at their zero value.
type StoreDefaults struct {
	Bucket     string
	KeyPrefix  string
	PresignTTL time.Duration
}

type service struct {
	renderer render.Renderer
	store    storage.ObjectStore
	defaults StoreDefaults
	logger   *zap.Logger
}

func NewService(renderer render.Renderer, store storage.ObjectStore, defaults StoreDefaults, logger *zap.Logger) Service {
	return &service{
		renderer: renderer,
		store:    store,
		defaults: defaults,
		logger:   logger,
	}
}

func (s *service) ExtractVariables(ctx context.Context, docxBytes []byte) ([]string, error) {
	return docx.ExtractVariables(docxBytes)
}

func (s *service) ReplaceVariables(ctx context.Context, docxBytes []byte, vars map[string]string) ([]byte, error) {
	return docx.SubstituteVariables(docxBytes, vars)
}

func (s *service) ConvertToPDF(ctx context.Context, docxBytes []byte) ([]byte, error) {
	return s.renderer.Render(ctx, docxBytes)
}

func (s *service) ProcessDocument(ctx context.Context, docxBytes []byte, vars map[string]string) ([]byte, error) {
	replaced, err := docx.SubstituteVariables(docxBytes, vars)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(ctx, replaced)
}

// ExtractAndConvert extracts the variable list from the original document
// before any substitution, so the reported names always describe the
// template's declared placeholders, then optionally substitutes and
// renders.
func (s *service) ExtractAndConvert(ctx context.Context, docxBytes []byte, vars map[string]string) ([]string, []byte, error) {
	variables, err := docx.ExtractVariables(docxBytes)
	if err != nil {
		return nil, nil, err
	}

	body := docxBytes
	if len(vars) > 0 {
		body, err = docx.SubstituteVariables(docxBytes, vars)
		if err != nil {
			return nil, nil, err
		}
	}

	pdf, err := s.renderer.Render(ctx, body)
	if err != nil {
		return nil, nil, err
	}
	return variables, pdf, nil
}

func (s *service) ExtractConvertUpload(ctx context.Context, docxBytes []byte, vars map[string]string, opts UploadOptions) ([]string, string, error) {
	variables, pdf, err := s.ExtractAndConvert(ctx, docxBytes, vars)
	if err != nil {
		return nil, "", err
	}

	bucket := opts.Bucket
	if bucket == "" {
		bucket = s.defaults.Bucket
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = s.defaults.PresignTTL
	}
	key := opts.Key
	if key == "" {
		prefix := opts.Prefix
		if prefix == "" {
			prefix = s.defaults.KeyPrefix
		}
		key = prefix + uuid.New().String() + ".pdf"
	}

	if err := s.store.Put(ctx, bucket, key, pdf, pdfContentType); err != nil {
		return nil, "", err
	}
	url, err := s.store.PresignGet(ctx, bucket, key, ttl)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("uploaded rendered document",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Duration("ttl", ttl),
		zap.Int("pdf_bytes", len(pdf)))
	return variables, url, nil
}

// ProcessFromStore fetches the source template from the object store
// instead of accepting it inline, then behaves as ExtractConvertUpload.
func (s *service) ProcessFromStore(ctx context.Context, bucket, key string, vars map[string]string, opts UploadOptions) ([]string, string, error) {
	docxBytes, err := s.store.Get(ctx, bucket, key)
	if err != nil {
		return nil, "", err
	}
	return s.ExtractConvertUpload(ctx, docxBytes, vars, opts)
}
