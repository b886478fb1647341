package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}
	pdfExtensions   = map[string]bool{".pdf": true}
)

// listMedia returns the regular files in dir with one of exts, sorted by name.
func listMedia(dir string, exts map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := []string{}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if exts[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// listOptionalMedia treats a missing directory as empty.
func listOptionalMedia(dir string, exts map[string]bool) ([]string, error) {
	files, err := listMedia(dir, exts)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	return files, err
}

func readMedia(dir, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
