package misc

import (
	"regexp"
	"strings"
)

// Text is a plain-text file (script, config, markup), spec.md §4.3.6. Its
// sub-format tag for front-end syntax highlighting is not stored here;
// rfile.TextSubFormatFor derives it from the container path.
type Text struct {
	Contents string
}

// DecodeText treats buf as UTF-8 text verbatim.
func DecodeText(buf []byte) (*Text, error) {
	return &Text{Contents: string(buf)}, nil
}

// EncodeText returns the contents as raw UTF-8 bytes.
func EncodeText(t *Text) []byte {
	return []byte(t.Contents)
}

// Match identifies one hit in the text contents.
type Match struct {
	Offset int
	Length int
	Text   string
}

// Search finds every match of pattern in t's contents.
func (t *Text) Search(pattern string, caseSensitive, useRegex bool) ([]Match, error) {
	var matches []Match
	if useRegex {
		p := pattern
		if !caseSensitive {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		for _, loc := range re.FindAllStringIndex(t.Contents, -1) {
			matches = append(matches, Match{Offset: loc[0], Length: loc[1] - loc[0], Text: t.Contents[loc[0]:loc[1]]})
		}
		return matches, nil
	}

	haystack, needle := t.Contents, pattern
	if !caseSensitive {
		haystack, needle = strings.ToLower(haystack), strings.ToLower(pattern)
	}
	i := 0
	for {
		idx := strings.Index(haystack[i:], needle)
		if idx < 0 {
			break
		}
		start := i + idx
		matches = append(matches, Match{Offset: start, Length: len(pattern), Text: t.Contents[start : start+len(pattern)]})
		i = start + len(needle)
	}
	return matches, nil
}

// Replace applies replacement to every matched range, in reverse offset
// order so earlier offsets stay valid (spec.md §4.3.7).
func (t *Text) Replace(matches []Match, replacement string) int {
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		t.Contents = t.Contents[:m.Offset] + replacement + t.Contents[m.Offset+m.Length:]
	}
	return len(matches)
}
