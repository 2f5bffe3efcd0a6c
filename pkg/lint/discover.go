package lint

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// WorkflowExt is the extension of workflow files.
const WorkflowExt = ".xaml"

// Discover returns the workflows under root as sorted, slash-separated paths
// relative to root. Hidden directories are skipped, as are files starting with
// "~", which Studio leaves behind as lock and backup files.
func Discover(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()

		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}

			return nil
		}

		if !IsWorkflow(name) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err //nolint:wrapcheck // Wrapped below.
		}

		files = append(files, filepath.ToSlash(rel))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover workflows in %q: %w", root, err)
	}

	slices.Sort(files)

	return files, nil
}

// IsWorkflow reports whether the file name is a workflow that should be
// checked.
func IsWorkflow(name string) bool {
	name = filepath.Base(name)

	return strings.EqualFold(filepath.Ext(name), WorkflowExt) && !strings.HasPrefix(name, "~")
}
