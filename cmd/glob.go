// Copyright © 2024 The pystyle authors

package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// expandArgs resolves path arguments to the files to check.
//
// A directory contributes its direct regular files with extension ext, in
// name order.  A pattern ending with "/..." contributes every file with
// extension ext below the directory, skipping hidden directories.  A file
// is kept only if it has extension ext.  Paths that cannot be inspected are
// passed through so that reading them reports the error.  Paths matching
// any of excludes are dropped.
func expandArgs(args []string, ext string, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok {
			if dir == "" {
				dir = "."
			}
			files, err := findSourceFiles(dir, ext)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
			continue
		}
		info, err := os.Stat(arg)
		switch {
		case err != nil:
			out = append(out, arg)
		case info.IsDir():
			files, err := listSourceFiles(arg, ext)
			if err != nil {
				return nil, err
			}
			out = append(out, files...)
		case filepath.Ext(arg) == ext:
			out = append(out, arg)
		default:
			logger.WithField("file", arg).Debugf("skipped: extension is not %s", ext)
		}
	}
	return filterExcludes(out, excludes), nil
}

// listSourceFiles returns the regular files directly inside dir that have
// extension ext.
func listSourceFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || filepath.Ext(e.Name()) != ext {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

func findSourceFiles(root, ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && filepath.Ext(path) == ext {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// filterExcludes removes paths that match any of the exclude patterns.
func filterExcludes(paths, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var out []string
	for _, p := range paths {
		if !matchesAny(p, excludes) {
			out = append(out, p)
		}
	}
	return out
}

// matchesAny reports whether path, its base name, or any one of its
// components matches one of the glob patterns.
func matchesAny(path string, patterns []string) bool {
	path = filepath.ToSlash(filepath.Clean(path))
	components := splitPath(path)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
		for _, c := range components {
			if ok, _ := filepath.Match(pattern, c); ok {
				return true
			}
		}
	}
	return false
}

// splitPath returns the components of a slash separated path.
func splitPath(path string) []string {
	var parts []string
	for _, part := range strings.Split(path, "/") {
		if part != "" && part != "." {
			parts = append(parts, part)
		}
	}
	return parts
}
