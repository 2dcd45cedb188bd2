package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

// Test fixtures: hand-built DOCX packages with just enough structure for
// the engine — a body part, optional header/footer parts, and a couple of
// passthrough entries.

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

// run renders a single styled-run fragment.
func run(text string) string {
	return `<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">` + text + `</w:t></w:r>`
}

// para renders a paragraph whose text is fragmented into one run per
// argument.
func para(runs ...string) string {
	var sb strings.Builder
	sb.WriteString(`<w:p><w:pPr><w:jc w:val="center"/></w:pPr>`)
	for _, text := range runs {
		sb.WriteString(run(text))
	}
	sb.WriteString(`</w:p>`)
	return sb.String()
}

// tablePara wraps a paragraph in a one-cell table.
func tablePara(runs ...string) string {
	return `<w:tbl><w:tr><w:tc>` + para(runs...) + `</w:tc></w:tr></w:tbl>`
}

func bodyXML(content string) string {
	return xmlHeader + `<w:document ` + wordNS + `><w:body>` + content + `</w:body></w:document>`
}

func headerXML(content string) string {
	return xmlHeader + `<w:hdr ` + wordNS + `>` + content + `</w:hdr>`
}

func footerXML(content string) string {
	return xmlHeader + `<w:ftr ` + wordNS + `>` + content + `</w:ftr>`
}

// buildPackage zips the given parts in map-independent, fixed order.
func buildPackage(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	order := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/document.xml",
		"word/header1.xml",
		"word/footer1.xml",
		"word/styles.xml",
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		content, ok := parts[name]
		if !ok {
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close package: %v", err)
	}
	return buf.Bytes()
}

// simplePackage builds a package with only a body.
func simplePackage(t *testing.T, body string) []byte {
	t.Helper()
	return buildPackage(t, map[string]string{
		"[Content_Types].xml": xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   bodyXML(body),
	})
}

// readPart extracts one entry of a zipped package.
func readPart(t *testing.T, pkg []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("failed to read %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("part %s not found in package", name)
	return ""
}

// effectiveTexts parses a package and returns each paragraph's effective
// text in traversal order.
func effectiveTexts(t *testing.T, pkg []byte) []string {
	t.Helper()
	doc, err := Parse(pkg)
	if err != nil {
		t.Fatalf("failed to parse package: %v", err)
	}
	var texts []string
	doc.forEachParagraph(func(p *etree.Element) bool {
		texts = append(texts, paragraphText(p))
		return false
	})
	return texts
}
