package templates

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"assinaai/document-gateway/document-gateway-backend/internal/docx"
	"assinaai/document-gateway/document-gateway-backend/internal/render"
	"assinaai/document-gateway/document-gateway-backend/pkg/storage"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, 0, zap.NewNop())

	storePut := &storage.StoreError{Op: "put", Bucket: "assinaai-temp", Key: "k.pdf", Err: errors.New("AccessDenied")}

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"malformed document", &docx.MalformedDocumentError{Reason: "missing word/document.xml"}, http.StatusBadRequest},
		{"invalid variables", &InvalidVariablesError{Reason: "variables must be a JSON object"}, http.StatusBadRequest},
		{"renderer failure", &render.RenderError{Reason: "soffice exited abnormally"}, http.StatusBadGateway},
		{"store failure", storePut, http.StatusBadGateway},
		{"wrapped store failure", fmt.Errorf("upload step: %w", storePut), http.StatusBadGateway},
		{"unknown failure", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			h.respondError(c, "failed", tt.err)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
