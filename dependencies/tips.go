package dependencies

import (
	"encoding/json"
	"os"
)

// tipsStructuralVersion guards the on-disk JSON shape, mirroring the
// versioned sidecar files rpfm_lib/src/tips/mod.rs persists.
const tipsStructuralVersion = 1

// Tip is one user annotation attached to a container path, or to the empty
// path for a game-wide note (spec.md supplemented feature: "Tips").
type Tip struct {
	ID        uint64 `json:"id"`
	User      string `json:"user"`
	Timestamp int64  `json:"timestamp"`
	Message   string `json:"message"`
	URL       string `json:"url"`
	Path      string `json:"path"`
}

// Tips is the per-container-path annotation sidecar Dependencies carries
// alongside its file indices. Unlike the rest of Dependencies it is mutable
// after Rebuild: tips are user data, not derived from the archives.
type Tips struct {
	Version int             `json:"version"`
	ByPath  map[string][]Tip `json:"tips"`
}

// NewTips returns an empty Tips set.
func NewTips() Tips {
	return Tips{Version: tipsStructuralVersion, ByPath: map[string][]Tip{}}
}

// LoadTips reads a Tips sidecar previously written by Tips.Save. A missing
// file is not an error: callers get an empty set, matching rpfm_lib's
// fall-back-to-default behaviour when no local tips file exists yet.
func LoadTips(path string) (Tips, error) {
	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewTips(), nil
	}
	if err != nil {
		return Tips{}, err
	}
	var t Tips
	if err := json.Unmarshal(buf, &t); err != nil {
		return Tips{}, err
	}
	if t.ByPath == nil {
		t.ByPath = map[string][]Tip{}
	}
	return t, nil
}

// Save writes t to path as pretty-printed JSON.
func (t Tips) Save(path string) error {
	buf, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

// ForPath returns every tip attached exactly to path.
func (t Tips) ForPath(path string) []Tip {
	return t.ByPath[path]
}

// Add attaches tip to its own Path, replacing any existing tip with the
// same ID (editing a tip is implemented as delete-then-append, matching
// add_tip_to_local_tips's "overwrite on same id" behaviour).
func (t *Tips) Add(tip Tip) {
	t.DeleteByID(tip.ID)
	t.ByPath[tip.Path] = append(t.ByPath[tip.Path], tip)
}

// DeleteByID removes the tip with the given id from every path, pruning
// any path left with no tips.
func (t *Tips) DeleteByID(id uint64) {
	for path, tips := range t.ByPath {
		kept := tips[:0]
		for _, tip := range tips {
			if tip.ID != id {
				kept = append(kept, tip)
			}
		}
		if len(kept) == 0 {
			delete(t.ByPath, path)
		} else {
			t.ByPath[path] = kept
		}
	}
}
