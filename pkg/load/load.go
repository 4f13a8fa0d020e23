package load

import (
	"io/ioutil"
	"strings"

	patchwork "github.com/mumoshu/patchwork/pkg"
	"github.com/mumoshu/patchwork/pkg/get"
	"github.com/mumoshu/patchwork/pkg/util/fileutil"
)

// File loads pipeline definitions from a local Patchworkfile.
func File(path string) (*patchwork.PipelineDefs, error) {
	yaml, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return YAML(string(yaml))
}

func YAML(yaml string) (*patchwork.PipelineDefs, error) {
	return patchwork.ReadPipelineDefsFromBytes([]byte(yaml))
}

// Source loads pipeline definitions from a local file when one exists at the
// given path, and falls back to treating the path as a go-getter source.
func Source(src string) (*patchwork.PipelineDefs, error) {
	if fileutil.Exists(src) {
		return File(src)
	}

	if strings.Contains(src, "//") {
		bytes, err := get.GetBytes(src)
		if err != nil {
			return nil, err
		}
		return patchwork.ReadPipelineDefsFromBytes(bytes)
	}

	return File(src)
}
