package cmd

import (
	patchwork "github.com/mumoshu/patchwork/pkg"
	"github.com/mumoshu/patchwork/pkg/load"
	"github.com/mumoshu/patchwork/pkg/util/envutil"
)

// definitions loads pipeline definitions from the source the application
// points at, usually a Patchworkfile in the current directory. A missing
// source is not an error. Pipelines without definitions fall back to the
// built-in catalog.
func definitions(app *patchwork.Application) (*patchwork.PipelineDefs, error) {
	src, err := app.DefinitionsSource()
	if err != nil {
		return nil, patchwork.NewInitError(err)
	}

	environ := envutil.ParseEnviron()
	if environ["PATCHWORKFILE"] != "" {
		src = environ["PATCHWORKFILE"]
	}

	if src == "" {
		return nil, nil
	}

	defs, err := load.Source(src)
	if err != nil {
		return nil, patchwork.NewInitError(err)
	}

	return defs, nil
}
