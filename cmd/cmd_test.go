package cmd

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	patchwork "github.com/mumoshu/patchwork/pkg"
)

func testOpts() patchwork.Opts {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return patchwork.Opts{Log: log}
}

func TestHandleErrorMapsInitErrorToStatusOne(t *testing.T) {
	err := patchwork.NewInitError(fmt.Errorf("patch is not configured"))

	msg, status := HandleError(err, testOpts())
	if status != 1 {
		t.Errorf("unexpected status: %d", status)
	}
	if !strings.Contains(msg, "patch is not configured") {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestHandleErrorPropagatesCommandExitStatus(t *testing.T) {
	err := patchwork.NewCommandError("build", 3, "error: patch failed", fmt.Errorf("build failed"))

	msg, status := HandleError(err, testOpts())
	if status != 3 {
		t.Errorf("unexpected status: %d", status)
	}
	if !strings.Contains(msg, "Caused by: error: patch failed") {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestHandleErrorOmitsEmptyCause(t *testing.T) {
	err := patchwork.NewCommandError("build", 1, "", fmt.Errorf("build failed"))

	msg, _ := HandleError(err, testOpts())
	if strings.Contains(msg, "Caused by") {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestHandleErrorFallsBackToStatusOne(t *testing.T) {
	_, status := HandleError(fmt.Errorf("some other failure"), testOpts())
	if status != 1 {
		t.Errorf("unexpected status: %d", status)
	}
}

func TestHandleErrorReportsSuccessAsZero(t *testing.T) {
	if status := GetStatus(nil, testOpts()); status != 0 {
		t.Errorf("unexpected status: %d", status)
	}
}
