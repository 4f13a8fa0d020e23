package patchwork

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/juju/errors"
)

// RenderTemplate renders a command or directory expression against the
// invocation's variables, with the sprig function set available.
func RenderTemplate(name string, expr string, vars map[string]interface{}) (string, error) {
	t := template.New(name)
	t.Option("missingkey=error")

	tmpl, err := t.Funcs(sprig.TxtFuncMap()).Parse(expr)
	if err != nil {
		return "", errors.Annotatef(err, "template %s failed to parse", name)
	}

	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, vars); err != nil {
		return "", errors.Annotatef(err, "template %s failed to render.\n\nExpression:\n%s\n\nVars:\n%v", name, expr, vars)
	}

	return buff.String(), nil
}
