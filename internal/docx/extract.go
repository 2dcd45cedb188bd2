package docx

import (
	"sort"

	"github.com/beevik/etree"
)

// Variables returns the deduplicated, lexicographically sorted names of
// every placeholder token found in the document's effective text: body
// paragraphs, table-cell paragraphs, and every section header and footer.
// The document is not modified.
func (d *Document) Variables() []string {
	seen := make(map[string]struct{})
	d.forEachParagraph(func(p *etree.Element) bool {
		for _, name := range Placeholders(paragraphText(p)) {
			seen[name] = struct{}{}
		}
		return false
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtractVariables parses a DOCX blob and returns its placeholder names.
func ExtractVariables(data []byte) ([]string, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Variables(), nil
}
