package stringutil

import (
	"regexp"
	"strings"

	"github.com/huandu/xstrings"
)

var (
	regex            = regexp.MustCompile(`-([0-9]+)`)
	argumentReplacer = strings.NewReplacer(".", "-")
	envReplacer      = strings.NewReplacer("-", "_", ".", "_")
)

// ToArgumentName derives the command-line flag name for a config key, e.g.
// "build.command" becomes "build-command".
func ToArgumentName(name string) string {
	n := strings.Trim(regex.ReplaceAllString(xstrings.ToKebabCase(name), "$1-"), "-")
	return argumentReplacer.Replace(n)
}

// ToEnvironmentName derives the environment variable suffix for a config key,
// e.g. "build.command" becomes "BUILD_COMMAND".
func ToEnvironmentName(name string) string {
	n := strings.Trim(regex.ReplaceAllString(xstrings.ToKebabCase(name), "$1-"), "-")
	return strings.ToUpper(envReplacer.Replace(n))
}
