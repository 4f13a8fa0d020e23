package patchwork

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/spf13/viper"

	"github.com/mumoshu/patchwork/pkg/get"
	"github.com/mumoshu/patchwork/pkg/util/fileutil"
	"github.com/mumoshu/patchwork/pkg/util/stringutil"
)

// ConfigKeys are the settings exposed as both config-file keys and
// command-line flags. Flag and environment variable names are derived from
// the keys, e.g. build.command is settable via --build-command and
// PATCHWORK_BUILD_COMMAND.
var ConfigKeys = []string{
	"tree",
	"patch",
	"build.command",
	"build.dir",
	"run.command",
	"run.dir",
	"check.command",
	"check.dir",
	"definitions",
	"timeout",
}

// ToolConfig configures one external tool invocation: a command line, the
// positional arguments appended to it, and the directory it runs in.
type ToolConfig struct {
	Command string
	Args    []string
	Dir     string
}

// Config is the static configuration one invocation runs with, materialized
// from viper after flags, config files and environment overrides are merged.
type Config struct {
	Tree        string
	Patch       string
	ApplyCheck  string
	Apply       string
	Restore     string
	Build       ToolConfig
	Run         ToolConfig
	Check       ToolConfig
	Env         map[string]string
	Timeout     time.Duration
	Definitions string
}

func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Tree:       v.GetString("tree"),
		Patch:      v.GetString("patch"),
		ApplyCheck: v.GetString("commands.apply-check"),
		Apply:      v.GetString("commands.apply"),
		Restore:    v.GetString("commands.restore"),
		Build: ToolConfig{
			Command: v.GetString("build.command"),
			Args:    v.GetStringSlice("build.args"),
			Dir:     v.GetString("build.dir"),
		},
		Run: ToolConfig{
			Command: v.GetString("run.command"),
			Args:    v.GetStringSlice("run.args"),
			Dir:     v.GetString("run.dir"),
		},
		Check: ToolConfig{
			Command: v.GetString("check.command"),
			Args:    v.GetStringSlice("check.args"),
			Dir:     v.GetString("check.dir"),
		},
		Env:         v.GetStringMapString("env"),
		Definitions: v.GetString("definitions"),
	}

	if timeout := v.GetString("timeout"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, errors.Annotatef(err, "config key timeout has an invalid duration %q", timeout)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// ResolvePatch locates the configured patch file and returns its absolute
// path, so that steps can reference it from any working directory. A patch
// that is not a local file is treated as a go-getter source and fetched into
// the cache.
func (c *Config) ResolvePatch() (string, error) {
	if c.Patch == "" {
		return "", missingKeyError("patch")
	}

	if fileutil.Exists(c.Patch) {
		return filepath.Abs(c.Patch)
	}

	if strings.Contains(c.Patch, "//") {
		file, err := get.File(c.Patch)
		if err != nil {
			return "", errors.Annotatef(err, "patch %s could not be fetched", c.Patch)
		}
		return filepath.Abs(file)
	}

	return "", errors.Errorf("patch file %s does not exist", c.Patch)
}

func missingKeyError(key string) error {
	return errors.Errorf("%s is not configured: set it in the config file or export PATCHWORK_%s", key, stringutil.ToEnvironmentName(key))
}
