// pkg/compress/filter.go
package compress

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// pathFilter decides which walked paths are left out of the archive. It
// combines the .gitignore files found under the walk root with extra
// gitignore-style patterns given on the command line.
type pathFilter struct {
	// rules maps a slash-separated directory, relative to the root ("" for
	// the root itself), to the compiled .gitignore found there
	rules   map[string]*ignore.GitIgnore
	exclude *ignore.GitIgnore
}

// newPathFilter loads every .gitignore under root when useGitignore is set
// and compiles the exclude patterns. It returns nil when there is nothing to
// filter.
func newPathFilter(root string, useGitignore bool, exclude []string) (*pathFilter, error) {
	pf := &pathFilter{rules: make(map[string]*ignore.GitIgnore)}

	if len(exclude) > 0 {
		pf.exclude = ignore.CompileIgnoreLines(exclude...)
	}

	if useGitignore {
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || d.Name() != ".gitignore" {
				// Unreadable parts of the tree are reported by the main walk
				return nil
			}
			compiled, err := ignore.CompileIgnoreFile(p)
			if err != nil {
				return nil
			}
			rel, err := filepath.Rel(root, filepath.Dir(p))
			if err != nil {
				return nil
			}
			pf.rules[relKey(rel)] = compiled
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(pf.rules) == 0 && pf.exclude == nil {
		return nil, nil
	}
	return pf, nil
}

func relKey(rel string) string {
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return ""
	}
	return rel
}

// matches reports whether any applicable rule set matches rel, checking
// .gitignore files from the root down to rel's parent.
func (pf *pathFilter) matches(rel string) bool {
	if pf.exclude != nil && pf.exclude.MatchesPath(rel) {
		return true
	}

	dir := ""
	parts := strings.Split(path.Dir(strings.TrimSuffix(rel, "/")), "/")
	for i := -1; i < len(parts); i++ {
		if i >= 0 {
			if parts[i] == "." || parts[i] == "" {
				continue
			}
			dir = path.Join(dir, parts[i])
		}
		rules, ok := pf.rules[dir]
		if !ok {
			continue
		}
		candidate := rel
		if dir != "" {
			candidate = strings.TrimPrefix(rel, dir+"/")
		}
		if rules.MatchesPath(candidate) {
			return true
		}
	}
	return false
}

// Excluded reports whether the file at rel (relative to the walk root) is
// left out.
func (pf *pathFilter) Excluded(rel string) bool {
	if pf == nil {
		return false
	}
	return pf.matches(filepath.ToSlash(rel))
}

// ExcludedDir reports whether the whole directory at rel can be skipped. Only
// directory patterns ("build/") prune; a file pattern such as "*.log" never
// hides a directory that happens to match it.
func (pf *pathFilter) ExcludedDir(rel string) bool {
	if pf == nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return pf.matches(rel+"/") && !pf.matches(rel)
}
