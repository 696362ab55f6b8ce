package portrait

import (
	"regexp"
	"strings"
)

// Match identifies one hit in an entry id or variant string field.
type Match struct {
	Entry   int
	Variant int // -1 for the entry id itself
	Field   string
	Text    string
}

// Search scans entry ids and variant string fields for pattern
// (spec.md §4.3.7).
func (f *File) Search(pattern string, caseSensitive, useRegex bool) ([]Match, error) {
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
	for ei, e := range f.Entries {
		if match(e.ID) {
			matches = append(matches, Match{Entry: ei, Variant: -1, Field: "id", Text: e.ID})
		}
		for vi, v := range e.Variants {
			fields := map[string]string{
				"filename":     v.Filename,
				"file_diffuse": v.FileDiffuse,
				"file_mask_1":  v.FileMask1,
				"file_mask_2":  v.FileMask2,
				"file_mask_3":  v.FileMask3,
			}
			for _, name := range []string{"filename", "file_diffuse", "file_mask_1", "file_mask_2", "file_mask_3"} {
				if match(fields[name]) {
					matches = append(matches, Match{Entry: ei, Variant: vi, Field: name, Text: fields[name]})
				}
			}
		}
	}
	return matches, nil
}

// Replace applies replacement to every matched field, in reverse order
// (spec.md §4.3.7).
func (f *File) Replace(matches []Match, pattern, replacement string, caseSensitive, useRegex bool) (int, error) {
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
		if m.Variant < 0 {
			f.Entries[m.Entry].ID = apply(f.Entries[m.Entry].ID)
			changed++
			continue
		}
		v := &f.Entries[m.Entry].Variants[m.Variant]
		switch m.Field {
		case "filename":
			v.Filename = apply(v.Filename)
		case "file_diffuse":
			v.FileDiffuse = apply(v.FileDiffuse)
		case "file_mask_1":
			v.FileMask1 = apply(v.FileMask1)
		case "file_mask_2":
			v.FileMask2 = apply(v.FileMask2)
		case "file_mask_3":
			v.FileMask3 = apply(v.FileMask3)
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
