package loc

import (
	"regexp"
	"strings"
)

// Match identifies one hit in either a key or a value cell.
type Match struct {
	Row   int
	Field string // "key" or "value"
	Text  string
}

// Search scans every key/value cell for pattern (spec.md §4.3.7).
func (l *Loc) Search(pattern string, caseSensitive, useRegex bool) ([]Match, error) {
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

	match := func(s string) bool {
		if useRegex {
			return re.MatchString(s)
		}
		if caseSensitive {
			return strings.Contains(s, pattern)
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(pattern))
	}

	var matches []Match
	for i, row := range l.Rows {
		if match(row.Key) {
			matches = append(matches, Match{Row: i, Field: "key", Text: row.Key})
		}
		if match(row.Value) {
			matches = append(matches, Match{Row: i, Field: "value", Text: row.Value})
		}
	}
	return matches, nil
}

// Replace applies replacement to every matched cell, in reverse order.
func (l *Loc) Replace(matches []Match, pattern, replacement string, caseSensitive, useRegex bool) (int, error) {
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

	apply := func(s string) string {
		if useRegex {
			return re.ReplaceAllString(s, replacement)
		}
		if caseSensitive {
			return strings.ReplaceAll(s, pattern, replacement)
		}
		return replaceAllFold(s, pattern, replacement)
	}

	changed := 0
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		switch m.Field {
		case "key":
			l.Rows[m.Row].Key = apply(l.Rows[m.Row].Key)
		case "value":
			l.Rows[m.Row].Value = apply(l.Rows[m.Row].Value)
		}
		changed++
	}
	return changed, nil
}

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
