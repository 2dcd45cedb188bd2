package docx

import "regexp"

// placeholderPattern matches {{name}} where name is any run of characters
// other than '}'. The name may be empty, so {{}} is a valid token. A {{
// with no closing }} never matches and stays literal text.
var placeholderPattern = regexp.MustCompile(`\{\{([^}]*)\}\}`)

// Placeholders returns the name of every placeholder token in text,
// leftmost first. Matches are non-overlapping and take the shortest span
// starting at each opening delimiter.
func Placeholders(text string) []string {
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		names = append(names, m[1])
	}
	return names
}

// Segment is one piece of a split text: either literal text or a
// placeholder token. Raw always holds the original substring, delimiters
// included, so concatenating every segment's Raw reconstructs the input
// exactly.
type Segment struct {
	Raw   string
	Name  string
	Token bool
}

// Split cuts text into an ordered sequence of literal and token segments.
func Split(text string) []Segment {
	var segments []Segment
	last := 0
	for _, loc := range placeholderPattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Raw: text[last:loc[0]]})
		}
		segments = append(segments, Segment{
			Raw:   text[loc[0]:loc[1]],
			Name:  text[loc[2]:loc[3]],
			Token: true,
		})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Raw: text[last:]})
	}
	return segments
}
