package docx

import (
	"strings"

	"github.com/beevik/etree"
)

// Substitute rewrites every paragraph in every region of the document,
// replacing {{name}} tokens with their mapped values. Tokens whose name
// is not a key of vars are re-emitted unchanged, delimiters included.
// Paragraphs containing no mapping key in literal {{key}} form are left
// untouched, runs and styling intact.
func (d *Document) Substitute(vars map[string]string) {
	d.forEachParagraph(func(p *etree.Element) bool {
		return rewriteParagraph(p, vars)
	})
}

// SubstituteVariables parses a DOCX blob, applies the variable mapping,
// and returns the serialized result.
func SubstituteVariables(data []byte, vars map[string]string) ([]byte, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc.Substitute(vars)
	return doc.Serialize()
}

// rewriteParagraph replaces the paragraph's run sequence when its
// effective text contains at least one mapping key in literal {{key}}
// form. It reports whether the paragraph was modified.
//
// The rewrite drops the existing runs and rebuilds them from the split
// text: one run per non-empty literal piece, one run per token (mapped
// value when known, the original token substring when not). Rebuilt runs
// carry no run properties; the paragraph's own properties are kept.
func rewriteParagraph(p *etree.Element, vars map[string]string) bool {
	text := paragraphText(p)

	found := false
	for key := range vars {
		if strings.Contains(text, "{{"+key+"}}") {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	var props *etree.Element
	for _, ch := range p.ChildElements() {
		if ch.Space == "w" && ch.Tag == "pPr" {
			props = ch
			break
		}
	}

	for _, tok := range append([]etree.Token(nil), p.Child...) {
		if el, ok := tok.(*etree.Element); ok && el == props {
			continue
		}
		p.RemoveChild(tok)
	}

	for _, seg := range Split(text) {
		switch {
		case seg.Token:
			value, ok := vars[seg.Name]
			if !ok {
				value = seg.Raw
			}
			appendRun(p, value)
		case seg.Raw != "":
			appendRun(p, seg.Raw)
		}
	}
	return true
}

func appendRun(p *etree.Element, text string) {
	r := p.CreateElement("w:r")
	t := r.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(text)
}
