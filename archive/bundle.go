// Package archive gives access to template bundles packed with "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Bundle is an open zip archive with templates and their resources.
type Bundle struct {
	path  string
	r     *zip.ReadCloser
	files map[string]*zip.File
}

// Open reads archive directory. Archives with entries which could escape
// extraction directory are rejected as a whole.
func Open(archive string) (*Bundle, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}
	b := &Bundle{path: archive, r: r, files: make(map[string]*zip.File, len(r.File))}
	for _, f := range r.File {
		if !isSafePath(f.Name) {
			r.Close()
			return nil, fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
		if !f.FileInfo().IsDir() {
			b.files[path.Clean(f.Name)] = f
		}
	}
	return b, nil
}

func (b *Bundle) Close() error {
	return b.r.Close()
}

// Path returns archive file name.
func (b *Bundle) Path() string {
	return b.path
}

// WalkFunc is called for every visited file, returned error stops the walk.
type WalkFunc func(name string) error

// Walk visits files with names starting with prefix in archive order.
func (b *Bundle) Walk(prefix string, walkFn WalkFunc) error {
	for _, f := range b.r.File {
		if f.FileInfo().IsDir() || !strings.HasPrefix(f.Name, prefix) {
			continue
		}
		if err := walkFn(path.Clean(f.Name)); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether archive contains file.
func (b *Bundle) Has(name string) bool {
	_, ok := b.files[path.Clean(name)]
	return ok
}

// ReadFile returns content of the file in archive.
func (b *Bundle) ReadFile(name string) ([]byte, error) {
	f, ok := b.files[path.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Extract copies file to dir keeping only its base name, some consumers
// (databases) need real files.
func (b *Bundle) Extract(name, dir string) (string, error) {
	data, err := b.ReadFile(name)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(dir, path.Base(name))
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return "", fmt.Errorf("unable to extract %q: %w", name, err)
	}
	return dst, nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
