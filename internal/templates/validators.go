package templates

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// DefaultMaxUploadBytes caps uploaded templates at 10 MB.
const DefaultMaxUploadBytes = 10 * 1024 * 1024

// ValidateUploadHeader rejects uploads with a non-.docx filename or a
// size above the cap before the body is read.
func ValidateUploadHeader(fh *multipart.FileHeader, maxBytes int64) error {
	if fh.Filename == "" {
		return fmt.Errorf("no filename provided")
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".docx") {
		return fmt.Errorf("file must be a .docx file")
	}
	if fh.Size > maxBytes {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", maxBytes)
	}
	return nil
}

// ValidateDocxContent sniffs the upload's magic bytes. DOCX is a zip
// container; anything else is rejected without parsing.
func ValidateDocxContent(data []byte) error {
	kind, err := filetype.Match(data)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}
	if kind != matchers.TypeDocx && kind != matchers.TypeZip {
		return fmt.Errorf("file content is not a DOCX document")
	}
	return nil
}
