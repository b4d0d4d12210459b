// Package stringutil renders text templates used in generated output.
package stringutil

import (
	"bytes"
	"strings"
	"text/template"
)

// funcs are available to every template.
var funcs = template.FuncMap{
	"join": strings.Join,
}

func Interpolate(s string, data any) (string, error) {
	tmpl, err := template.New("").Funcs(funcs).Parse(s)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
