package convert

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// isArchiveFile checks zip signature, extension alone is not enough.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

// isTemplateName reports whether file could be a markup template.
func isTemplateName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xml")
}

// dataExtensions are probed in this order when looking for template data.
var dataExtensions = []string{".json", ".yaml", ".yml", ".db"}
