// Package log prints diagnostic output to stderr when BDDCLI_VERBOSE is set.
package log

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// EnvVerbose enables diagnostic output when set to any non-empty value.
const EnvVerbose = "BDDCLI_VERBOSE"

func Enabled() bool {
	return os.Getenv(EnvVerbose) != ""
}

// logger is built per message so that it follows os.Stderr when tests
// redirect it.
func logger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "bddcli",
		Level:  log.InfoLevel,
	})
}

func Info(msg ...any) {
	if Enabled() {
		logger().Info(strings.TrimSuffix(fmt.Sprintln(msg...), "\n"))
	}
}

func Infof(format string, args ...any) {
	if Enabled() {
		logger().Info(fmt.Sprintf(format, args...))
	}
}

// Infow logs msg with key/value pairs, e.g. Infow("ran", "exit_code", 1).
func Infow(msg string, keyvals ...any) {
	if Enabled() {
		logger().Info(msg, keyvals...)
	}
}
