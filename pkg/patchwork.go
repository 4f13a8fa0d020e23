package patchwork

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mumoshu/patchwork/pkg/cli/env"
	"github.com/mumoshu/patchwork/pkg/util/fileutil"
	"github.com/mumoshu/patchwork/pkg/util/stringutil"
)

func bindConfigFlags(flagset *pflag.FlagSet) {
	for _, key := range ConfigKeys {
		flagName := stringutil.ToArgumentName(key)
		flagset.String(flagName, "", key)
		viper.BindPFlag(key, flagset.Lookup(flagName))
	}
}

type CobraApp struct {
	viperCfg *viper.Viper
	cobraCmd *cobra.Command

	App *Application
}

func (a *CobraApp) Run(args []string) error {
	a.cobraCmd.SetArgs(args)
	return a.cobraCmd.Execute()
}

func (a *CobraApp) AddCommands(cmds ...*cobra.Command) {
	a.cobraCmd.AddCommand(cmds...)
}

type Opts struct {
	CommandPath string
	Args        []string
	Log         *logrus.Logger

	ExtraCmds []*cobra.Command
}

func Init(opts ...Opts) (*CobraApp, error) {
	var o Opts
	if len(opts) == 0 {
		o = Opts{Args: []string{}}
	} else if len(opts) == 1 {
		o = opts[0]
	} else {
		return nil, fmt.Errorf("unexpected number of opts: %d", len(opts))
	}
	log := o.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	commandName := "patchwork"
	if o.CommandPath != "" {
		commandName = filepath.Base(o.CommandPath)
	}

	envFromFile, err := env.New(commandName).GetOrSet("dev")
	if err != nil {
		return nil, errors.Trace(err)
	}

	v := viper.GetViper()

	p := &Application{
		Name:     commandName,
		Output:   "text",
		Colorize: true,
		Env:      envFromFile,
		Viper:    v,
		Log:      log,
	}

	rootCmd := &cobra.Command{
		Use:           commandName,
		Short:         "Transactionally patch a working tree, run tools against it, and always restore it",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return p.UpdateLoggingConfiguration()
		},
	}

	if len(o.ExtraCmds) > 0 {
		rootCmd.AddCommand(o.ExtraCmds...)
	}

	rootCmd.PersistentFlags().BoolVarP(&(p.Verbose), "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&(p.Output), "output", "o", "text", "Output format. One of: json|text|bunyan|message")
	rootCmd.PersistentFlags().BoolVarP(&(p.Colorize), "color", "C", true, "Colorize output")
	rootCmd.PersistentFlags().StringVarP(&(p.ConfigFile), "config-file", "c", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&(p.LogToStderr), "logtostderr", true, "write log messages to stderr")

	// Every config key doubles as a persistent flag, so that one-off runs
	// need no config file at all.
	bindConfigFlags(rootCmd.PersistentFlags())

	// Set default log level.
	v.SetDefault("log_level", "info")

	// Set default colors for the logs.
	v.SetDefault("log_color_panic", "red")
	v.SetDefault("log_color_fatal", "red")
	v.SetDefault("log_color_error", "red")
	v.SetDefault("log_color_warn", "red")
	v.SetDefault("log_color_info", "cyan")
	v.SetDefault("log_color_debug", "dark_gray")
	v.SetDefault("log_color_trace", "dark_gray")

	// The default tool commands reproduce the usual transactional flow
	// around a git checkout; all of them are overridable.
	v.SetDefault("tree", ".")
	v.SetDefault("commands.apply-check", "git apply --check {{.patch}}")
	v.SetDefault("commands.apply", "git apply {{.patch}}")
	v.SetDefault("commands.restore", "git checkout -- .")

	// see `func ExecuteC` in https://github.com/spf13/cobra/blob/master/command.go#L671-L677 for usage of ParseFlags()
	rootCmd.ParseFlags(o.Args)

	if p.ConfigFile != "" {
		v.SetConfigFile(p.ConfigFile)

		if err := v.MergeInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		v.SetConfigName(commandName)
		commonConfigFile := fmt.Sprintf("%s.yaml", commandName)
		commonConfigMsg := fmt.Sprintf("loading config file %s...", commonConfigFile)
		if fileutil.Exists(commonConfigFile) {
			if err := v.MergeInConfig(); err != nil {
				log.Errorf("%serror", commonConfigMsg)
				return nil, err
			}
			log.Debugf("%sdone", commonConfigMsg)
		} else {
			log.Debugf("%smissing", commonConfigMsg)
		}
	}

	env.SetAppName(commandName)
	envMsg := fmt.Sprintf("loading env file %s...", env.GetPath())
	envName, err := env.Get()
	if err != nil {
		log.Debugf("%smissing", envMsg)
	} else {
		log.Debugf("%sdone", envMsg)

		envConfigName := fmt.Sprintf("config/environments/%s", strings.TrimSpace(envName))
		envConfigFile := fmt.Sprintf("%s.yaml", envConfigName)
		envConfigMsg := fmt.Sprintf("loading config file %s...", envConfigFile)
		v.SetConfigName(envConfigName)
		if fileutil.Exists(envConfigFile) {
			if err := v.MergeInConfig(); err != nil {
				log.Errorf("%serror", envConfigMsg)
				return nil, err
			}
			log.Debugf("%sdone", envConfigMsg)
		} else {
			log.Debugf("%smissing", envConfigMsg)
		}
	}

	// Set the environment prefix as app name
	v.SetEnvPrefix(strings.ToUpper(commandName))
	v.AutomaticEnv()

	// Substitute the . and - to _
	replacer := strings.NewReplacer(".", "_", "-", "_")
	v.SetEnvKeyReplacer(replacer)

	// Workaround: We want to set log level via command-line option before the rootCmd is run
	if err := p.UpdateLoggingConfiguration(); err != nil {
		return nil, err
	}

	return &CobraApp{
		viperCfg: v,
		cobraCmd: rootCmd,
		App:      p,
	}, nil
}
