package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// SourceExtensions lists the C/C++ file suffixes the tool handles.
var SourceExtensions = []string{".c", ".cpp", ".h", ".hpp"}

// Walker discovers source files under a directory tree.
type Walker struct {
	extensions []string
	log        zerolog.Logger
}

// NewWalker creates a Walker matching SourceExtensions.
func NewWalker(logger zerolog.Logger) *Walker {
	return &Walker{
		extensions: SourceExtensions,
		log:        logger,
	}
}

// Match reports whether the file name ends with one of the walker's suffixes.
// The comparison is case-sensitive.
func (w *Walker) Match(name string) bool {
	for _, ext := range w.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Walk returns every matching file under root in walk order. Paths keep the
// root as given, so a relative root yields relative paths.
func (w *Walker) Walk(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var files []string

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			w.log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		if info.IsDir() {
			return nil
		}

		if w.Match(info.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	w.log.Debug().Int("count", len(files)).Str("root", root).Msg("Discovered files")
	return files, nil
}

// Resolve returns the file list for a run: the explicit file when one is
// given, otherwise the result of walking dir.
func (w *Walker) Resolve(file, dir string) ([]string, error) {
	if file != "" {
		return []string{file}, nil
	}
	return w.Walk(dir)
}
