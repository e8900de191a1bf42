package convert

import (
	"bytes"
	"fmt"
	"maps"
	"path"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"textpdf/binding"
	"textpdf/common"
	"textpdf/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context string
	// Name is template file name without extension
	Name   string
	Format string
	Title  string
	Data   map[string]any
}

func buildValues(name config.TemplateFieldName, src string, data *binding.Data, format common.OutputFmt) Values {
	v := Values{
		Context: string(name),
		Name:    strings.TrimSuffix(path.Base(src), path.Ext(src)),
		Format:  format.String(),
		Data:    map[string]any{},
	}
	if data != nil {
		v.Title = data.Title
		maps.Copy(v.Data, data.Values)
	}
	return v
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Option("missingkey=zero").Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
