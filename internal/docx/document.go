// Package docx reads and rewrites the text layer of WordprocessingML
// documents: the main body (including table cells) and every section
// header and footer part.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

const documentPart = "word/document.xml"

// MalformedDocumentError reports input that cannot be parsed as a DOCX
// package. It is a client-input error and is never retried.
type MalformedDocumentError struct {
	Reason string
	Err    error
}

func (e *MalformedDocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed document: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed document: %s", e.Reason)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// part is a single entry of the DOCX package. Text-bearing parts carry a
// parsed XML tree; all other entries keep their raw bytes. A part whose
// tree was never rewritten is serialized from raw, byte for byte.
type part struct {
	name  string
	raw   []byte
	tree  *etree.Document
	dirty bool
}

// Document is an opened DOCX package. Entry order from the source archive
// is preserved on serialization.
type Document struct {
	parts []*part
}

// isTextPart reports whether a package entry holds paragraphs the engine
// operates on: the main body, or a section header/footer.
func isTextPart(name string) bool {
	if name == documentPart {
		return true
	}
	if !strings.HasSuffix(name, ".xml") {
		return false
	}
	return strings.HasPrefix(name, "word/header") || strings.HasPrefix(name, "word/footer")
}

// Parse opens a DOCX byte blob. It returns a *MalformedDocumentError when
// the blob is not a zip archive, lacks the main document part, or a text
// part is not well-formed XML.
func Parse(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &MalformedDocumentError{Reason: "not a zip archive", Err: err}
	}

	doc := &Document{}
	hasBody := false
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, &MalformedDocumentError{Reason: "unreadable package entry " + f.Name, Err: err}
		}
		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		rc.Close()
		if err != nil {
			return nil, &MalformedDocumentError{Reason: "unreadable package entry " + f.Name, Err: err}
		}

		p := &part{name: f.Name, raw: buf.Bytes()}
		if isTextPart(f.Name) {
			tree := etree.NewDocument()
			if err := tree.ReadFromBytes(p.raw); err != nil {
				return nil, &MalformedDocumentError{Reason: "invalid XML in " + f.Name, Err: err}
			}
			p.tree = tree
			if f.Name == documentPart {
				hasBody = true
			}
		}
		doc.parts = append(doc.parts, p)
	}

	if !hasBody {
		return nil, &MalformedDocumentError{Reason: "missing " + documentPart}
	}
	return doc, nil
}

// Serialize writes the document back to its packaged binary form.
func (d *Document) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range d.parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create package entry %s: %w", p.name, err)
		}
		data := p.raw
		if p.tree != nil && p.dirty {
			data, err = p.tree.WriteToBytes()
			if err != nil {
				return nil, fmt.Errorf("failed to serialize %s: %w", p.name, err)
			}
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write package entry %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize package: %w", err)
	}
	return buf.Bytes(), nil
}

// forEachParagraph visits every paragraph element of every text part:
// body paragraphs, table-cell paragraphs (nested under the body), and
// header/footer paragraphs. fn reports whether it modified the paragraph.
func (d *Document) forEachParagraph(fn func(p *etree.Element) bool) {
	for _, part := range d.parts {
		if part.tree == nil {
			continue
		}
		root := part.tree.Root()
		if root == nil {
			continue
		}
		for _, p := range collectParagraphs(root) {
			if fn(p) {
				part.dirty = true
			}
		}
	}
}

func collectParagraphs(el *etree.Element) []*etree.Element {
	var found []*etree.Element
	for _, ch := range el.ChildElements() {
		if ch.Space == "w" && ch.Tag == "p" {
			found = append(found, ch)
			continue
		}
		found = append(found, collectParagraphs(ch)...)
	}
	return found
}

// paragraphText returns the paragraph's effective text: the concatenation
// of all its text nodes in document order, regardless of how the text is
// fragmented into runs.
func paragraphText(p *etree.Element) string {
	var sb strings.Builder
	appendText(p, &sb)
	return sb.String()
}

func appendText(el *etree.Element, sb *strings.Builder) {
	for _, ch := range el.ChildElements() {
		if ch.Space == "w" && ch.Tag == "t" {
			sb.WriteString(ch.Text())
			continue
		}
		appendText(ch, sb)
	}
}
