package convert

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"textpdf/archive"
)

// resources gives access to files around template: data documents and
// images. Names are slash separated and relative to the resources root.
type resources interface {
	ReadFile(name string) ([]byte, error)
	Has(name string) bool
	// LocalPath returns file system path for the file, cleanup must be
	// called when file is no longer needed.
	LocalPath(name string) (string, func(), error)
}

type dirResources struct {
	root string
}

func (d dirResources) path(name string) string {
	return filepath.Join(d.root, filepath.FromSlash(name))
}

func (d dirResources) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(d.path(name))
}

func (d dirResources) Has(name string) bool {
	fi, err := os.Stat(d.path(name))
	return err == nil && fi.Mode().IsRegular()
}

func (d dirResources) LocalPath(name string) (string, func(), error) {
	return d.path(name), func() {}, nil
}

type bundleResources struct {
	b *archive.Bundle
}

func (r bundleResources) ReadFile(name string) ([]byte, error) {
	return r.b.ReadFile(name)
}

func (r bundleResources) Has(name string) bool {
	return r.b.Has(name)
}

func (r bundleResources) LocalPath(name string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "textpdf-")
	if err != nil {
		return "", nil, fmt.Errorf("unable to create temporary directory: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }
	p, err := r.b.Extract(name, dir)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	return p, cleanup, nil
}

var errRemoteImage = errors.New("remote images are not supported")

// imageLoader resolves img sources relative to the template location.
func imageLoader(res resources, template string) func(src string) ([]byte, error) {
	return func(src string) ([]byte, error) {
		if u, err := url.Parse(src); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
			if u.Scheme != "file" {
				return nil, fmt.Errorf("%w: %s", errRemoteImage, src)
			}
			src = u.Path
		}
		if filepath.IsAbs(src) {
			return os.ReadFile(src)
		}
		return res.ReadFile(path.Join(path.Dir(template), filepath.ToSlash(src)))
	}
}
