package templates

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func header(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}

func TestValidateUploadHeader(t *testing.T) {
	assert.NoError(t, ValidateUploadHeader(header("contract.docx", 1024), DefaultMaxUploadBytes))
	assert.NoError(t, ValidateUploadHeader(header("UPPER.DOCX", 1024), DefaultMaxUploadBytes))

	assert.Error(t, ValidateUploadHeader(header("", 1024), DefaultMaxUploadBytes))
	assert.Error(t, ValidateUploadHeader(header("notes.txt", 1024), DefaultMaxUploadBytes))
	assert.Error(t, ValidateUploadHeader(header("legacy.doc", 1024), DefaultMaxUploadBytes))
	assert.Error(t, ValidateUploadHeader(header("big.docx", DefaultMaxUploadBytes+1), DefaultMaxUploadBytes))
}

func TestValidateDocxContent(t *testing.T) {
	assert.NoError(t, ValidateDocxContent(testDocx(t, "hello")))

	assert.Error(t, ValidateDocxContent([]byte("plain text, not an archive")))
	assert.Error(t, ValidateDocxContent([]byte("%PDF-1.7 fake pdf bytes")))
}
