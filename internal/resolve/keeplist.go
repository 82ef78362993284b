package resolve

import "strings"

// KeepList protects shows from deletion by normalized name matching.
type KeepList struct {
	names map[string]struct{}
}

// NewKeepList normalizes the configured names once up front.
func NewKeepList(names []string) *KeepList {
	k := &KeepList{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		k.names[normalizeShowName(name)] = struct{}{}
	}
	return k
}

// IsProtected reports whether a show is on the keep list. A nil list
// protects nothing.
func (k *KeepList) IsProtected(show string) bool {
	if k == nil {
		return false
	}
	_, ok := k.names[normalizeShowName(show)]
	return ok
}

// normalizeShowName folds case and drops spaces and underscores, so
// "Breaking Bad", "breaking_bad" and "BreakingBad" all match.
func normalizeShowName(name string) string {
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, "_", "")
	return strings.ToLower(name)
}
