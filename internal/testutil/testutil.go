// Package testutil locates font fixtures shared by tests across the
// module. Fixtures are not vendored into the repository; tests that
// can't find one skip rather than fail.
package testutil

import (
	"os"
	"path/filepath"
)

// fixtureDirs lists the places a test font might live, checked in
// order. FONT_TEST_DIR lets CI or a developer point at a local font
// cache without checking fonts into the repo.
func fixtureDirs() []string {
	var dirs []string
	if d := os.Getenv("FONT_TEST_DIR"); d != "" {
		dirs = append(dirs, d)
	}
	dirs = append(dirs,
		"testdata",
		filepath.Join("..", "testdata"),
		"/usr/share/fonts/truetype/roboto",
		"/usr/share/fonts/truetype/dejavu",
		"/usr/share/fonts/truetype/noto",
		"/usr/share/fonts",
		"/Library/Fonts",
		"/System/Library/Fonts",
		"/System/Library/Fonts/Supplemental",
		"/usr/local/share/fonts",
		os.Getenv("HOME")+"/.local/share/fonts",
	)
	return dirs
}

// FindTestFont searches the known fixture directories for name,
// returning the first match or "" if none exists.
func FindTestFont(name string) string {
	for _, dir := range fixtureDirs() {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	var found string
	for _, dir := range fixtureDirs() {
		if dir == "" || found != "" {
			continue
		}
		_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil || found != "" {
				return nil
			}
			if !info.IsDir() && filepath.Base(path) == name {
				found = path
			}
			return nil
		})
	}
	return found
}
