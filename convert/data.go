package convert

import (
	"context"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"textpdf/binding"
	"textpdf/state"
)

// loadData finds binding data for the template: data file from the command
// line or sibling file with the same base name. Nil result means template has
// no data.
func loadData(ctx context.Context, res resources, template string, log *zap.Logger) (*binding.Data, error) {
	env := state.EnvFromContext(ctx)
	query := env.Cfg.Document.DataQuery

	if env.DataFile != "" {
		data, err := binding.Load(env.DataFile, query, log)
		if err != nil {
			return nil, fmt.Errorf("unable to load data from %s: %w", env.DataFile, err)
		}
		if err := env.Rpt.StoreCopy("data"+path.Ext(env.DataFile), env.DataFile); err != nil {
			log.Debug("Unable to store data in report", zap.Error(err))
		}
		return data, nil
	}

	base := strings.TrimSuffix(template, path.Ext(template))
	for _, ext := range dataExtensions {
		name := base + ext
		if !res.Has(name) {
			continue
		}
		local, cleanup, err := res.LocalPath(name)
		if err != nil {
			return nil, err
		}
		defer cleanup()

		data, err := binding.Load(local, query, log)
		if err != nil {
			return nil, fmt.Errorf("unable to load data from %s: %w", name, err)
		}
		log.Debug("Using template data", zap.String("file", name), zap.Int("values", len(data.Values)))
		if err := env.Rpt.StoreCopy("data"+ext, local); err != nil {
			log.Debug("Unable to store data in report", zap.Error(err))
		}
		return data, nil
	}
	log.Debug("No data found for template", zap.String("template", template))
	return nil, nil
}
