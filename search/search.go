// Package search implements the global search/replace of spec.md §4.9:
// fan out over a Pack's typed files, collect matches grouped by file with
// a stable per-match locator, and apply replacements back through each
// type's own Search/Replace pair.
package search

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/rpfm-go/rpfmcore/pack"
	"github.com/rpfm-go/rpfmcore/rfile"
	"github.com/rpfm-go/rpfmcore/rfile/loc"
	"github.com/rpfm-go/rpfmcore/rfile/misc"
	"github.com/rpfm-go/rpfmcore/rfile/portrait"
	"github.com/rpfm-go/rpfmcore/rfile/table"
	"github.com/rpfm-go/rpfmcore/schema"
)

// Match is one hit within a file. Locator is a stable, type-specific
// identifier (e.g. "row:2,col:1" or "offset:48,length:5") derived purely from
// the decoded structure (spec.md §4.9). GlobalReplace does not read locators;
// it re-runs the search on each targeted file.
type Match struct {
	Locator string `json:"locator"`
	Text    string `json:"text"`
	Offset  int64  `json:"offset,omitempty"`
	Length  int64  `json:"length,omitempty"`
}

// FileResult groups every Match found within one container path.
type FileResult struct {
	Path    string  `json:"path"`
	Matches []Match `json:"matches"`
}

// Options configures both GlobalSearch and GlobalReplace.
type Options struct {
	Schema        *schema.Schema
	PathsSubset   []string
	CaseSensitive bool
	UseRegex      bool
}

func targetPaths(p *pack.Pack, opts Options) []string {
	targets := opts.PathsSubset
	if len(targets) == 0 {
		for cp := range p.Files {
			targets = append(targets, cp)
		}
	}
	sort.Strings(targets)
	return targets
}

// GlobalSearch scans every targeted file for pattern and returns one
// FileResult per file that matched.
func GlobalSearch(p *pack.Pack, pattern string, opts Options) ([]FileResult, error) {
	var out []FileResult
	for _, cp := range targetPaths(p, opts) {
		rf, ok := p.Files[cp]
		if !ok {
			continue
		}
		raw, err := p.ReadFile(rf)
		if err != nil {
			continue
		}
		matches, err := searchOne(rf.FileType, cp, raw, pattern, opts)
		if err != nil || len(matches) == 0 {
			continue
		}
		out = append(out, FileResult{Path: cp, Matches: matches})
	}
	return out, nil
}

// GlobalReplace re-runs the search for pattern on every targeted file and
// applies replacement through that file's own Replace, re-encoding and
// re-inserting the result. It returns the total number of cells/fields
// changed across every file. Binary formats refuse non-length-preserving
// or regex replacements via their own Replace method (spec.md §7's
// GlobalReplaceRequiresSameLengthAndNotRegex) — that refusal propagates
// unchanged to the caller.
func GlobalReplace(p *pack.Pack, pattern, replacement string, opts Options) (int, error) {
	total := 0
	for _, cp := range targetPaths(p, opts) {
		rf, ok := p.Files[cp]
		if !ok {
			continue
		}
		raw, err := p.ReadFile(rf)
		if err != nil {
			continue
		}
		n, newRaw, changed, err := replaceOne(rf.FileType, cp, raw, pattern, replacement, opts)
		if err != nil {
			return total, err
		}
		if changed {
			p.Insert(cp, newRaw)
		}
		total += n
	}
	return total, nil
}

func searchOne(ft rfile.FileType, cp string, raw []byte, pattern string, opts Options) ([]Match, error) {
	switch ft {
	case rfile.TypeDB:
		if opts.Schema == nil {
			return nil, nil
		}
		t, err := table.Decode(raw, table.Options{Schema: opts.Schema, TableNameHint: strings.Split(cp, "/")[1]})
		if err != nil {
			return nil, nil
		}
		hits, err := t.Search(pattern, opts.CaseSensitive, opts.UseRegex)
		if err != nil {
			return nil, err
		}
		out := make([]Match, len(hits))
		for i, h := range hits {
			out[i] = Match{Locator: fmt.Sprintf("row:%d,col:%d", h.Row, h.Col), Text: h.Text}
		}
		return out, nil

	case rfile.TypeLoc:
		l, err := loc.Decode(raw)
		if err != nil {
			return nil, nil
		}
		hits, err := l.Search(pattern, opts.CaseSensitive, opts.UseRegex)
		if err != nil {
			return nil, err
		}
		out := make([]Match, len(hits))
		for i, h := range hits {
			out[i] = Match{Locator: fmt.Sprintf("row:%d,field:%s", h.Row, h.Field), Text: h.Text}
		}
		return out, nil

	case rfile.TypePortraitSettings:
		f, err := portrait.Decode(raw)
		if err != nil {
			return nil, nil
		}
		hits, err := f.Search(pattern, opts.CaseSensitive, opts.UseRegex)
		if err != nil {
			return nil, err
		}
		out := make([]Match, len(hits))
		for i, h := range hits {
			out[i] = Match{Locator: fmt.Sprintf("entry:%d,variant:%d,field:%s", h.Entry, h.Variant, h.Field), Text: h.Text}
		}
		return out, nil

	case rfile.TypeText:
		t, err := misc.DecodeText(raw)
		if err != nil {
			return nil, nil
		}
		hits, err := t.Search(pattern, opts.CaseSensitive, opts.UseRegex)
		if err != nil {
			return nil, err
		}
		out := make([]Match, len(hits))
		for i, h := range hits {
			out[i] = Match{
				Locator: fmt.Sprintf("offset:%d,length:%d", h.Offset, h.Length),
				Text:    h.Text,
				Offset:  int64(h.Offset),
				Length:  int64(h.Length),
			}
		}
		return out, nil

	default:
		return nil, nil
	}
}

func replaceOne(ft rfile.FileType, cp string, raw []byte, pattern, replacement string, opts Options) (int, []byte, bool, error) {
	switch ft {
	case rfile.TypeDB:
		if opts.Schema == nil {
			return 0, nil, false, nil
		}
		t, err := table.Decode(raw, table.Options{Schema: opts.Schema, TableNameHint: strings.Split(cp, "/")[1]})
		if err != nil {
			return 0, nil, false, nil
		}
		hits, err := t.Search(pattern, opts.CaseSensitive, opts.UseRegex)
		if err != nil || len(hits) == 0 {
			return 0, nil, false, err
		}
		n, err := t.Replace(hits, pattern, replacement, opts.CaseSensitive, opts.UseRegex)
		if err != nil {
			return 0, nil, false, err
		}
		buf, err := table.Encode(t, table.Options{Schema: opts.Schema, TableNameHint: t.Name})
		if err != nil {
			return 0, nil, false, err
		}
		return n, buf, true, nil

	case rfile.TypeLoc:
		l, err := loc.Decode(raw)
		if err != nil {
			return 0, nil, false, nil
		}
		hits, err := l.Search(pattern, opts.CaseSensitive, opts.UseRegex)
		if err != nil || len(hits) == 0 {
			return 0, nil, false, err
		}
		n, err := l.Replace(hits, pattern, replacement, opts.CaseSensitive, opts.UseRegex)
		if err != nil {
			return 0, nil, false, err
		}
		return n, loc.Encode(l), true, nil

	case rfile.TypePortraitSettings:
		f, err := portrait.Decode(raw)
		if err != nil {
			return 0, nil, false, nil
		}
		hits, err := f.Search(pattern, opts.CaseSensitive, opts.UseRegex)
		if err != nil || len(hits) == 0 {
			return 0, nil, false, err
		}
		n, err := f.Replace(hits, pattern, replacement, opts.CaseSensitive, opts.UseRegex)
		if err != nil {
			return 0, nil, false, err
		}
		return n, portrait.Encode(f), true, nil

	case rfile.TypeText:
		t, err := misc.DecodeText(raw)
		if err != nil {
			return 0, nil, false, nil
		}
		hits, err := t.Search(pattern, opts.CaseSensitive, opts.UseRegex)
		if err != nil || len(hits) == 0 {
			return 0, nil, false, err
		}
		n := t.Replace(hits, replacement)
		return n, misc.EncodeText(t), true, nil

	case rfile.TypeRigidModel:
		n := bytes.Count(raw, []byte(pattern))
		if !opts.UseRegex && n == 0 {
			return 0, nil, false, nil
		}
		m, err := misc.DecodeRigidModel(raw)
		if err != nil {
			return 0, nil, false, nil
		}
		if err := m.Replace(pattern, replacement, opts.UseRegex); err != nil {
			return 0, nil, false, err
		}
		m.Raw = bytes.ReplaceAll(m.Raw, []byte(pattern), []byte(replacement))
		return n, misc.EncodeRigidModel(m), true, nil

	case rfile.TypeSoundBank, rfile.TypeVideo, rfile.TypeImage, rfile.TypeHlslCompiled:
		n := bytes.Count(raw, []byte(pattern))
		if !opts.UseRegex && n == 0 {
			return 0, nil, false, nil
		}
		o, err := misc.DecodeOpaque(raw)
		if err != nil {
			return 0, nil, false, nil
		}
		if err := o.Replace(pattern, replacement, opts.UseRegex); err != nil {
			return 0, nil, false, err
		}
		o.Raw = bytes.ReplaceAll(o.Raw, []byte(pattern), []byte(replacement))
		return n, misc.EncodeOpaque(o), true, nil

	default:
		return 0, nil, false, nil
	}
}
