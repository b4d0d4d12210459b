package test

import (
	"os"
	"testing"

	"github.com/dansimau/bddcli/pkg/bddclicli"
	"github.com/dansimau/bddcli/pkg/log"
	"github.com/dansimau/bddcli/pkg/testutil"
	"github.com/dansimau/bddcli/pkg/xexec"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/assert/cmp"
)

func TestHelp(t *testing.T) {
	stdout, stderr, err := testutil.CaptureOutput(func() {
		exitCode := bddclicli.Run("--help")
		assert.Equal(t, exitCode, 0)
	})

	assert.NilError(t, err)
	assert.Assert(t, cmp.Contains(stdout+stderr, "verify"))
	assert.Assert(t, cmp.Contains(stdout+stderr, "record"))
}

func TestUnknownCommand(t *testing.T) {
	_, stderr, err := testutil.CaptureOutput(func() {
		exitCode := bddclicli.Run("bogus")
		assert.Equal(t, exitCode, 1)
	})

	assert.NilError(t, err)
	assert.Assert(t, cmp.Contains(stderr, "Unknown command"))
}

func TestMissingStoryArgument(t *testing.T) {
	_, stderr, err := testutil.CaptureOutput(func() {
		exitCode := bddclicli.Run("verify")
		assert.Equal(t, exitCode, 1)
	})

	assert.NilError(t, err)
	assert.Assert(t, cmp.Contains(stderr, "story"))
}

func TestMissingStoryFile(t *testing.T) {
	testutil.WithTempWorkingDir(t, func() {
		setupProject(t)

		_, stderr, err := testutil.CaptureOutput(func() {
			exitCode := bddclicli.Run("verify", "missing.yaml")
			assert.Equal(t, exitCode, 1)
		})

		assert.NilError(t, err)
		assert.Assert(t, cmp.Contains(stderr, "ERROR: open missing.yaml"))
	})
}

func TestVerbose(t *testing.T) {
	defer testutil.WithEnv(os.Environ()...)()
	assert.NilError(t, os.Unsetenv(xexec.EnvVerbose))

	testutil.WithTempWorkingDir(t, func() {
		cfg := setupProject(t)
		writeStory(t, "list.yaml", verifiedStory)

		_, stderr, err := testutil.CaptureOutput(func() {
			exitCode := bddclicli.Run("-v", "verify", "list.yaml")
			assert.Equal(t, exitCode, 0)
		})

		assert.NilError(t, err)
		assert.Assert(t, log.Enabled())
		assert.Equal(t, os.Getenv(xexec.EnvVerbose), "1")
		assert.Assert(t, cmp.Contains(stderr, "+ "+cfg.Bootstrapper+" app "))
		assert.Assert(t, cmp.Contains(stderr, "loaded list.yaml: 2 call(s)"))
		assert.Assert(t, cmp.Contains(stderr, `invoking "list-bad-flag"`))
	})
}
