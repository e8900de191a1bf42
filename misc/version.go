// Package misc keeps build time information.
package misc

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// Set at link time with -ldflags "-X textpdf/misc.version=... -X textpdf/misc.gitHash=...".
var (
	version = "dev"
	gitHash = ""
)

const appName = "textpdf"

// GetAppName returns program name without extension.
func GetAppName() string {
	if len(os.Args) == 0 {
		return appName
	}
	name := strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))
	if name == "" || strings.HasSuffix(name, ".test") || name == "main" {
		return appName
	}
	return name
}

func GetVersion() string {
	return version
}

// GetGitHash returns commit program was built from, falls back to VCS
// information embedded by the go tool.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
