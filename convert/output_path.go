package convert

import (
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"textpdf/binding"
	"textpdf/config"
	"textpdf/state"
)

// buildOutputPath returns constructed output file path/name. src is slash
// separated template name relative to the processed source. Either default
// naming scheme or user-defined template is used, source directory structure
// is kept unless NoDirs is requested.
func buildOutputPath(src, dst string, data *binding.Data, env *state.LocalEnv) string {
	outDir := determineOutputDir(src, dst, env)
	defaultFile := buildDefaultFileName(src, env)

	if env.Cfg.Document.OutputNameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	values := buildValues(config.OutputNameTemplateFieldName, src, data, env.Format)
	expanded, err := expandTemplate(config.OutputNameTemplateFieldName, env.Cfg.Document.OutputNameTemplate, values)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return filepath.Join(outDir, defaultFile)
	}
	if strings.TrimSpace(expanded) == "" {
		return filepath.Join(outDir, defaultFile)
	}
	return assemblePathWithSubdirs(outDir, filepath.FromSlash(expanded), env)
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.FromSlash(path.Dir(src)))
}

func buildDefaultFileName(src string, env *state.LocalEnv) string {
	return cleanPathSegment(strings.TrimSuffix(path.Base(src), path.Ext(src)), env) + env.Format.Ext()
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output
// path cleaning every segment.
func assemblePathWithSubdirs(outDir, expanded string, env *state.LocalEnv) string {
	segments := splitPath(expanded)
	if len(segments) == 0 {
		return filepath.Join(outDir, "_bad_file_name_"+env.Format.Ext())
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, segment := range segments[:len(segments)-1] {
		parts = append(parts, cleanPathSegment(segment, env))
	}
	parts = append(parts, cleanPathSegment(segments[len(segments)-1], env)+env.Format.Ext())
	return filepath.Join(parts...)
}

// splitPath drops empty and relative ("." and "..") segments so expanded
// name never leaves output directory.
func splitPath(p string) []string {
	var segments []string
	for s := range strings.SplitSeq(p, string(os.PathSeparator)) {
		if s = strings.TrimSpace(s); s != "" && s != "." && s != ".." {
			segments = append(segments, s)
		}
	}
	return slices.Clip(segments)
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Document.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
