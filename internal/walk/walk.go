// Package walk produces the candidate media files under a course directory.
package walk

import (
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Entry is one yielded file.
type Entry struct {
	Dir  string
	Name string
}

// Path returns the joined directory and file name.
func (e Entry) Path() string {
	return filepath.Join(e.Dir, e.Name)
}

// Options controls which directories and files are yielded.
type Options struct {
	// Extensions are matched against the lowercased file name suffix.
	Extensions []string
	// Filter, when set, must match a directory path for its files to be yielded.
	// Subdirectories are evaluated on their own.
	Filter *regexp.Regexp
	// ExcludeMarker skips every directory whose path contains it.
	ExcludeMarker string
	// OnDir is called once per visited directory with the filter verdict.
	OnDir func(dir string, included bool)
	// TypedRoot, when set, stands in for root in the path that Filter and
	// ExcludeMarker see, so directories above the typed scan root never
	// take part in the match.
	TypedRoot string
}

// CompileFilter compiles a case-insensitive directory filter.
// An empty expression yields a nil filter that accepts everything.
func CompileFilter(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, nil
	}
	return regexp.Compile("(?i)" + expr)
}

// Walk returns a lazy sequence of files under root. Directories are visited
// top-down: a directory's own files come before any of its subdirectories.
// A read error is yielded once and ends the sequence.
// The sequence can be ranged over more than once.
func Walk(root string, opts Options) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		w := walker{root: root, opts: opts, yield: yield}
		w.dir(root)
	}
}

type walker struct {
	root  string
	opts  Options
	yield func(Entry, error) bool
}

// dir walks one directory and reports whether traversal should continue.
func (w *walker) dir(dir string) bool {
	matched := w.matchPath(dir)
	if w.opts.ExcludeMarker != "" && strings.Contains(matched, w.opts.ExcludeMarker) {
		return true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.yield(Entry{Dir: dir}, err)
		return false
	}

	included := w.opts.Filter == nil || w.opts.Filter.MatchString(matched)
	if w.opts.OnDir != nil {
		w.opts.OnDir(dir, included)
	}

	var subdirs []string
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, e.Name())
			continue
		}
		if !included || !w.hasExtension(e.Name()) {
			continue
		}
		if !w.yield(Entry{Dir: dir, Name: e.Name()}, nil) {
			return false
		}
	}

	for _, name := range subdirs {
		if !w.dir(filepath.Join(dir, name)) {
			return false
		}
	}
	return true
}

// matchPath returns dir as seen from TypedRoot.
func (w *walker) matchPath(dir string) string {
	if w.opts.TypedRoot == "" {
		return dir
	}
	rel, err := filepath.Rel(w.root, dir)
	if err != nil {
		return dir
	}
	return filepath.Join(w.opts.TypedRoot, rel)
}

func (w *walker) hasExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range w.opts.Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
