// Package pathfinder discovers source files under a root directory by
// extension, optionally honouring gitignore-style exclusions.
package pathfinder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/codeutf8/pkg/ignore"
	"github.com/fulmenhq/codeutf8/pkg/logger"
)

// Match is one discovered file.
type Match struct {
	Path     string // absolute path used for I/O
	Rel      string // slash-separated path relative to the root
	Category string // extension bucket the file was found under, e.g. "cpp"
}

// Finder enumerates regular files whose names end in one of Extensions.
type Finder struct {
	Extensions    []string
	RespectIgnore bool
}

// NewFinder creates a finder for the given extensions (without leading dots).
func NewFinder(extensions []string, respectIgnore bool) *Finder {
	return &Finder{Extensions: extensions, RespectIgnore: respectIgnore}
}

// Patterns returns the doublestar pattern used for each extension, in order.
func (f *Finder) Patterns() []string {
	patterns := make([]string, len(f.Extensions))
	for i, ext := range f.Extensions {
		patterns[i] = "**/*." + ext
	}
	return patterns
}

// Find walks root and returns matches grouped by category in extension
// order, each group sorted by relative path. A file whose name matches
// several extensions is reported once per extension.
func (f *Finder) Find(ctx context.Context, root string) ([]Match, error) {
	if len(f.Extensions) == 0 {
		return nil, errors.New("no extensions to search for")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	var matcher *ignore.Matcher
	if f.RespectIgnore {
		if matcher, err = ignore.NewMatcher(abs); err != nil {
			return nil, fmt.Errorf("failed to load ignore files: %w", err)
		}
	}

	patterns := f.Patterns()
	buckets := make([][]Match, len(patterns))

	walkErr := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal
			if path == abs {
				return err
			}
			logger.Warn(fmt.Sprintf("Skipping %s: %v", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == abs {
			return nil
		}

		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" || (matcher != nil && matcher.IsIgnoredDir(rel)) {
				return filepath.SkipDir
			}
			return nil
		}

		if matcher != nil && matcher.IsIgnored(rel) {
			return nil
		}

		found := false
		for i, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, rel); !ok {
				continue
			}
			if !found {
				if !isRegular(path, d) {
					return nil
				}
				found = true
			}
			buckets[i] = append(buckets[i], Match{Path: path, Rel: rel, Category: f.Extensions[i]})
		}
		if found {
			logger.Trace("Discovered file", logger.String("path", rel))
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("discovery walk failed: %w", walkErr)
	}

	var out []Match
	for _, bucket := range buckets {
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].Rel < bucket[j].Rel })
		out = append(out, bucket...)
	}
	return out, nil
}

// isRegular reports whether path is a regular file, following symlinks.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}
