package cmd

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	patchwork "github.com/mumoshu/patchwork/pkg"
)

func checkApplication(t *testing.T) *patchwork.Application {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	v := viper.New()
	v.Set("check.command", "echo ok")
	v.Set("check.dir", t.TempDir())

	return &patchwork.Application{
		Name:  "patchwork",
		Env:   "test",
		Viper: v,
		Log:   log,
	}
}

func TestCheckCmdRunsConfiguredChecker(t *testing.T) {
	app := checkApplication(t)

	cmd := CheckCmd(app)
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckCmdReportsMissingConfiguration(t *testing.T) {
	app := checkApplication(t)
	app.Viper.Set("check.command", "")

	cmd := CheckCmd(app)
	if err := cmd.RunE(cmd, nil); err == nil {
		t.Fatal("expected error, but succeeded")
	}
}
