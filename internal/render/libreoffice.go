// Package render converts DOCX documents to PDF through a headless
// LibreOffice process.
package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RenderError reports a failed conversion: the renderer binary is
// unavailable, the process exited non-zero, or no output was produced.
// It is a dependency error and is never retried.
type RenderError struct {
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("render failed: %s", e.Reason)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer converts a serialized DOCX to fixed-layout PDF bytes.
type Renderer interface {
	Render(ctx context.Context, docx []byte) ([]byte, error)
}

// wellKnownPaths are checked after $PATH when no binary is configured.
var wellKnownPaths = []string{
	"/usr/bin/soffice",
	"/usr/bin/libreoffice",
	"/usr/local/bin/soffice",
	"/opt/libreoffice/program/soffice",
	"/Applications/LibreOffice.app/Contents/MacOS/soffice",
}

// LibreOffice renders documents by invoking soffice in headless mode.
// Each call runs in its own scratch directory under Workspace, which also
// serves as HOME so the office profile never touches the real one.
type LibreOffice struct {
	// BinaryPath overrides discovery when non-empty.
	BinaryPath string
	// Workspace is the parent directory for per-call scratch dirs.
	// Defaults to the system temp directory.
	Workspace string
	// Timeout bounds a single conversion. Zero means no bound beyond the
	// caller's context.
	Timeout time.Duration

	logger *zap.Logger
}

func NewLibreOffice(binaryPath, workspace string, timeout time.Duration, logger *zap.Logger) *LibreOffice {
	if workspace == "" {
		workspace = os.TempDir()
	}
	return &LibreOffice{BinaryPath: binaryPath, Workspace: workspace, Timeout: timeout, logger: logger}
}

// findBinary locates the soffice executable.
func (lo *LibreOffice) findBinary() (string, error) {
	if lo.BinaryPath != "" {
		if _, err := os.Stat(lo.BinaryPath); err != nil {
			return "", &RenderError{Reason: "configured renderer binary not found", Err: err}
		}
		return lo.BinaryPath, nil
	}
	if path, err := exec.LookPath("soffice"); err == nil {
		return path, nil
	}
	for _, candidate := range wellKnownPaths {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", &RenderError{Reason: "soffice not found in PATH or well-known locations"}
}

// Render writes the document into a scratch directory, runs a single
// headless conversion, and reads back the produced PDF. The context bounds
// the process lifetime.
func (lo *LibreOffice) Render(ctx context.Context, docx []byte) ([]byte, error) {
	if lo.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, lo.Timeout)
		defer cancel()
	}

	binary, err := lo.findBinary()
	if err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp(lo.Workspace, scratchPrefix+"*")
	if err != nil {
		return nil, &RenderError{Reason: "failed to create scratch directory", Err: err}
	}
	defer os.RemoveAll(workDir)

	docxPath := filepath.Join(workDir, "document.docx")
	if err := os.WriteFile(docxPath, docx, 0o600); err != nil {
		return nil, &RenderError{Reason: "failed to stage document", Err: err}
	}

	cmd := exec.CommandContext(ctx, binary,
		"--headless", "--nologo", "--nodefault", "--invisible", "--nofirststartwizard",
		"--convert-to", "pdf",
		"--outdir", workDir,
		docxPath,
	)
	cmd.Env = append(os.Environ(), "HOME="+workDir)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, &RenderError{
			Reason: "soffice exited abnormally: " + strings.TrimSpace(string(output)),
			Err:    err,
		}
	}

	pdfPath := filepath.Join(workDir, "document.pdf")
	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, &RenderError{Reason: "no PDF produced", Err: err}
	}

	if lo.logger != nil {
		lo.logger.Debug("rendered document",
			zap.Int("docx_bytes", len(docx)),
			zap.Int("pdf_bytes", len(pdf)))
	}
	return pdf, nil
}
