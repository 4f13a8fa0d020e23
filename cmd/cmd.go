package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	patchwork "github.com/mumoshu/patchwork/pkg"
)

func init() {
	logrus.SetOutput(os.Stdout)

	verbose := false
	logtostderr := false
	for _, e := range os.Environ() {
		if strings.Contains(e, "VERBOSE=") {
			verbose = true
			break
		}
		if strings.Contains(e, "LOGTOSTDERR=") {
			logtostderr = true
			break
		}
	}

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if logtostderr {
		logrus.SetOutput(os.Stderr)
	}
}

func MustRun() {
	if opts, err := RunE(); err != nil {
		HandleErrorAndExit(err, opts)
	}
}

func RunE() (patchwork.Opts, error) {
	opts := patchwork.Opts{
		CommandPath: os.Args[0],
		Args:        os.Args[1:],
		Log:         logrus.StandardLogger(),
	}

	cobraApp, err := patchwork.Init(opts)
	if err != nil {
		return opts, patchwork.NewInitError(err)
	}

	app := cobraApp.App

	cobraApp.AddCommands(
		BuildCmd(app),
		RunCmd(app),
		CheckCmd(app),
		ExecCmd(app),
		EnvCmd,
		VersionCmd(logrus.StandardLogger()),
	)

	return opts, cobraApp.Run(opts.Args)
}

func HandleErrorAndExit(err error, opts patchwork.Opts) {
	msg, status := HandleError(err, opts)
	LogAndExit(opts, msg, status)
}

func LogAndExit(opts patchwork.Opts, msg string, status int) {
	if msg != "" {
		opts.Log.Errorf("%s", msg)
	}
	os.Exit(status)
}

func HandleError(err error, opts patchwork.Opts) (string, int) {
	if err == nil {
		return "", 0
	}
	log := opts.Log
	var msg string
	switch cmdErr := err.(type) {
	case patchwork.InitError:
		msg = fmt.Sprintf("%v", err)
		return msg, 1
	case patchwork.CommandError:
		if log.GetLevel() == logrus.DebugLevel {
			msg = fmt.Sprintf("Stack trace: %+v\n", err)
		}
		errs := strings.Split(err.Error(), ": ")
		msg += strings.Join(errs, "\n")
		if strings.Trim(cmdErr.Cause, " \n\t") != "" {
			msg += fmt.Sprintf("\nCaused by: %s", cmdErr.Cause)
		}
		return msg, cmdErr.ExitStatus
	default:
		msg = fmt.Sprintf("Unexpected type of error %T: %s", err, err)
		return msg, 1
	}
}

func GetStatus(err error, opts patchwork.Opts) int {
	_, status := HandleError(err, opts)
	return status
}
