// Package test contains the integration tests for the bddcli command.
package test

import (
	"os"
	"testing"

	"github.com/dansimau/bddcli/pkg/testutil"
	"github.com/dansimau/bddcli/pkg/xexec"
)

// TestMain echoes every application run so failing tests show the exact
// bootstrapper command line.
func TestMain(m *testing.M) {
	cleanup := testutil.WithEnv(append(os.Environ(), xexec.EnvVerbose+"=1")...)

	exitCode := m.Run()

	cleanup()

	os.Exit(exitCode)
}
