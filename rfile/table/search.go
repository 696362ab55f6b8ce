package table

import (
	"regexp"
	"strings"

	"github.com/rpfm-go/rpfmcore/schema"
)

// Match identifies one string cell hit during Search.
type Match struct {
	Row, Col int
	Text     string
}

// Search scans every string-bearing cell (StringU8/U16, optional string and
// colour kinds) of t for pattern, implementing spec.md §4.3.7's per-type Search
// contract. When useRegex is false, pattern is matched literally.
func (t *Table) Search(pattern string, caseSensitive, useRegex bool) ([]Match, error) {
	var re *regexp.Regexp
	if useRegex {
		p := pattern
		if !caseSensitive {
			p = "(?i)" + p
		}
		var err error
		re, err = regexp.Compile(p)
		if err != nil {
			return nil, err
		}
	}

	var matches []Match
	for ri, row := range t.Rows {
		for ci, d := range row {
			if !isStringKind(d) {
				continue
			}
			if useRegex {
				if re.MatchString(d.Str) {
					matches = append(matches, Match{Row: ri, Col: ci, Text: d.Str})
				}
				continue
			}
			hay, needle := d.Str, pattern
			if !caseSensitive {
				hay, needle = strings.ToLower(hay), strings.ToLower(needle)
			}
			if strings.Contains(hay, needle) {
				matches = append(matches, Match{Row: ri, Col: ci, Text: d.Str})
			}
		}
	}
	return matches, nil
}

// Replace rewrites every matched cell's string, applying replacement in
// reverse row/col order so indices stay valid as cells are mutated
// (spec.md §4.3.7).
func (t *Table) Replace(matches []Match, pattern, replacement string, caseSensitive, useRegex bool) (int, error) {
	var re *regexp.Regexp
	if useRegex {
		p := pattern
		if !caseSensitive {
			p = "(?i)" + p
		}
		var err error
		re, err = regexp.Compile(p)
		if err != nil {
			return 0, err
		}
	}

	changed := 0
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		cell := &t.Rows[m.Row][m.Col]
		if useRegex {
			cell.Str = re.ReplaceAllString(cell.Str, replacement)
		} else if caseSensitive {
			cell.Str = strings.ReplaceAll(cell.Str, pattern, replacement)
		} else {
			cell.Str = replaceAllFold(cell.Str, pattern, replacement)
		}
		changed++
	}
	return changed, nil
}

func isStringKind(d Data) bool {
	switch d.Kind {
	case schema.KindStringU8, schema.KindStringU16, schema.KindOptionalStringU8, schema.KindOptionalStringU16, schema.KindColour:
		return true
	default:
		return false
	}
}

// replaceAllFold replaces every case-insensitive occurrence of pattern in s.
func replaceAllFold(s, pattern, replacement string) string {
	if pattern == "" {
		return s
	}
	lowerS, lowerP := strings.ToLower(s), strings.ToLower(pattern)
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(lowerS[i:], lowerP)
		if idx < 0 {
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i : i+idx])
		b.WriteString(replacement)
		i += idx + len(pattern)
	}
	return b.String()
}
