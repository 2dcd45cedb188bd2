package docx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single token", "Hello {{name}}!", []string{"name"}},
		{"multiple tokens", "{{a}} and {{b}}", []string{"a", "b"}},
		{"duplicate tokens kept in order", "{{a}}{{b}}{{a}}", []string{"a", "b", "a"}},
		{"empty name", "{{}}", []string{""}},
		{"name with spaces and punctuation", "{{first name, please!}}", []string{"first name, please!"}},
		{"no tokens", "plain text", nil},
		{"unclosed delimiter", "start {{name", nil},
		{"lone closing braces", "name}} end", nil},
		{"single braces", "{name}", nil},
		{"nested open takes shortest span", "{{a{{b}}", []string{"a{{b"}},
		{"broken open then valid token", "{{a}{{b}}", []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Placeholders(tt.text))
		})
	}
}

func TestSplitReconstructsInput(t *testing.T) {
	texts := []string{
		"Hello {{name}}, {{unknown}}!",
		"{{}}",
		"no tokens here",
		"{{lead}}tail",
		"head{{trail}}",
		"{{a}}{{b}}",
		"broken {{a} and {{b}}",
		"",
	}

	for _, text := range texts {
		segments := Split(text)
		var sb strings.Builder
		for _, seg := range segments {
			sb.WriteString(seg.Raw)
		}
		assert.Equal(t, text, sb.String(), "split of %q must reconstruct the input", text)
	}
}

func TestSplitSegments(t *testing.T) {
	segments := Split("Hello {{name}}!")
	assert.Equal(t, []Segment{
		{Raw: "Hello "},
		{Raw: "{{name}}", Name: "name", Token: true},
		{Raw: "!"},
	}, segments)
}

func TestSplitTokenNamesMatchPlaceholders(t *testing.T) {
	text := "a {{x}} b {{}} c {{y z}} d {{broken"
	var fromSplit []string
	for _, seg := range Split(text) {
		if seg.Token {
			fromSplit = append(fromSplit, seg.Name)
		}
	}
	assert.Equal(t, Placeholders(text), fromSplit)
}

func TestSplitEmptyTextHasNoSegments(t *testing.T) {
	assert.Empty(t, Split(""))
}
