package document

import (
	"path/filepath"
	"sort"
	"strings"

	"disasexpl/internal/pathvars"
)

// Locate returns the disassembly path for a source file. Associations map a
// glob to a path template; keys are tried in sorted order and a leading "**/"
// matches any directory. Without a match the extension is replaced by ".S".
func Locate(source, workspace string, associations map[string]string) string {
	keys := make([]string, 0, len(associations))
	for k := range associations {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, pattern := range keys {
		if matchGlob(pattern, source, workspace) {
			return pathvars.New(workspace, source).Resolve(associations[pattern])
		}
	}
	return DefaultPath(source)
}

// DefaultPath replaces the extension of source with ".S".
func DefaultPath(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".S"
}

func matchGlob(pattern, source, workspace string) bool {
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		dir, name := source, ""
		for dir != filepath.Dir(dir) {
			dir, name = filepath.Dir(dir), filepath.Join(filepath.Base(dir), name)
			if ok, _ := filepath.Match(rest, name); ok {
				return true
			}
		}
		return false
	}

	if ok, _ := filepath.Match(pattern, source); ok {
		return true
	}
	if workspace == "" {
		return false
	}
	rel, err := filepath.Rel(workspace, source)
	if err != nil {
		return false
	}
	ok, _ := filepath.Match(pattern, rel)
	return ok
}
