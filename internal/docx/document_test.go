package docx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsNonZipInput(t *testing.T) {
	_, err := Parse([]byte("definitely not a zip archive"))
	require.Error(t, err)

	var malformed *MalformedDocumentError
	assert.True(t, errors.As(err, &malformed))
	assert.Contains(t, malformed.Error(), "not a zip archive")
}

func TestParseRejectsMissingDocumentPart(t *testing.T) {
	pkg := buildPackage(t, map[string]string{
		"[Content_Types].xml": xmlHeader + `<Types/>`,
	})

	_, err := Parse(pkg)
	var malformed *MalformedDocumentError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, malformed.Error(), "word/document.xml")
}

func TestParseRejectsInvalidXML(t *testing.T) {
	pkg := buildPackage(t, map[string]string{
		"word/document.xml": "<w:document><unclosed",
	})

	_, err := Parse(pkg)
	var malformed *MalformedDocumentError
	require.True(t, errors.As(err, &malformed))
}

func TestSerializePreservesUntouchedParts(t *testing.T) {
	styles := xmlHeader + `<w:styles ` + wordNS + `/>`
	pkg := buildPackage(t, map[string]string{
		"word/document.xml": bodyXML(para("Hello {{name}}!")),
		"word/styles.xml":   styles,
	})

	doc, err := Parse(pkg)
	require.NoError(t, err)

	out, err := doc.Serialize()
	require.NoError(t, err)

	// Non-text parts round-trip byte for byte.
	assert.Equal(t, styles, readPart(t, out, "word/styles.xml"))
	// Text parts that were never rewritten do too.
	assert.Equal(t, bodyXML(para("Hello {{name}}!")), readPart(t, out, "word/document.xml"))
}

func TestParagraphTextSpansRuns(t *testing.T) {
	pkg := simplePackage(t, para("Hel", "lo {{na", "me}}!"))
	texts := effectiveTexts(t, pkg)
	require.Len(t, texts, 1)
	assert.Equal(t, "Hello {{name}}!", texts[0])
}

func TestParagraphEnumerationCoversAllRegions(t *testing.T) {
	pkg := buildPackage(t, map[string]string{
		"word/document.xml": bodyXML(para("body") + tablePara("cell")),
		"word/header1.xml":  headerXML(para("header")),
		"word/footer1.xml":  footerXML(para("footer")),
	})

	texts := effectiveTexts(t, pkg)
	assert.ElementsMatch(t, []string{"body", "cell", "header", "footer"}, texts)
}
