package test

import (
	"strings"
	"testing"

	"github.com/dansimau/bddcli/pkg/bddclicli"
	"github.com/dansimau/bddcli/pkg/config"
	"github.com/dansimau/bddcli/pkg/testutil"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/assert/cmp"
)

func TestVerify_Passes(t *testing.T) {
	testutil.WithTempWorkingDir(t, func() {
		cfg := setupProject(t)
		writeStory(t, "list.yaml", verifiedStory)

		stdout, stderr, err := testutil.CaptureOutput(func() {
			exitCode := bddclicli.Run("verify", "list.yaml")
			assert.Equal(t, exitCode, 0)
		})

		assert.NilError(t, err)
		assert.Assert(t, cmp.Contains(stdout, "ok\tlist.yaml\t2 call(s)"))
		// XEXEC_VERBOSE is set for the whole package.
		assert.Assert(t, cmp.Contains(stderr, "+ "+cfg.Bootstrapper+" app "))
	})
}

func TestVerify_Mismatch(t *testing.T) {
	testutil.WithTempWorkingDir(t, func() {
		setupProject(t)
		writeStory(t, "list.yaml", strings.Replace(verifiedStory, `stdout: "a\nb\n"`, `stdout: "a\n"`, 1))

		_, stderr, err := testutil.CaptureOutput(func() {
			exitCode := bddclicli.Run("verify", "list.yaml")
			assert.Equal(t, exitCode, 1)
		})

		assert.NilError(t, err)
		assert.Assert(t, cmp.Contains(stderr, `list.yaml: call "list": response mismatch (-expected +observed)`))
		assert.Assert(t, cmp.Contains(stderr, "Stdout"))
		assert.Assert(t, cmp.Contains(stderr, "ERROR: list.yaml: verification failed"))
	})
}

func TestVerify_StopsAtFirstFailingStory(t *testing.T) {
	testutil.WithTempWorkingDir(t, func() {
		setupProject(t)
		writeStory(t, "bad.yaml", strings.Replace(verifiedStory, "exit_code: 2", "exit_code: 3", 1))
		writeStory(t, "good.yaml", verifiedStory)

		stdout, stderr, err := testutil.CaptureOutput(func() {
			exitCode := bddclicli.Run("verify", "bad.yaml", "good.yaml")
			assert.Equal(t, exitCode, 1)
		})

		assert.NilError(t, err)
		assert.Assert(t, cmp.Contains(stderr, `call "list-bad-flag"`))
		assert.Assert(t, !strings.Contains(stdout, "good.yaml"))
	})
}

func TestVerify_NoResponse(t *testing.T) {
	testutil.WithTempWorkingDir(t, func() {
		setupProject(t)
		writeStory(t, "list.yaml", unrecordedStory)

		_, stderr, err := testutil.CaptureOutput(func() {
			exitCode := bddclicli.Run("verify", "list.yaml")
			assert.Equal(t, exitCode, 1)
		})

		assert.NilError(t, err)
		assert.Assert(t, cmp.Contains(stderr, "hint: run record first"))
	})
}

const greetStory = `
base:
  title: greet
  positionals: [list]
  response: {exit_code: 0, stdout: "hello\na\nb\n", stderr: ""}
calls:
- title: greet-override
  extra_environ: {GREETING: bye}
  response: {exit_code: 0, stdout: "bye\na\nb\n", stderr: ""}
`

func TestVerify_ConfigFlagAndEnviron(t *testing.T) {
	testutil.WithTempWorkingDir(t, func() {
		cfg := setupProject(t)
		cfg.Environ = map[string]string{"GREETING": "hello"}
		assert.NilError(t, config.Write("greet.bddcli.yaml", cfg))

		writeStory(t, "greet.yaml", greetStory)

		_, _, err := testutil.CaptureOutput(func() {
			exitCode := bddclicli.Run("--config", "greet.bddcli.yaml", "verify", "greet.yaml")
			assert.Equal(t, exitCode, 0)
		})
		assert.NilError(t, err)

		// The default config sets no GREETING.
		_, _, err = testutil.CaptureOutput(func() {
			exitCode := bddclicli.Run("verify", "greet.yaml")
			assert.Equal(t, exitCode, 1)
		})
		assert.NilError(t, err)
	})
}

func TestVerify_MissingConfigFile(t *testing.T) {
	testutil.WithTempWorkingDir(t, func() {
		_, stderr, err := testutil.CaptureOutput(func() {
			exitCode := bddclicli.Run("-c", "missing.yaml", "verify", "list.yaml")
			assert.Equal(t, exitCode, 1)
		})

		assert.NilError(t, err)
		assert.Assert(t, cmp.Contains(stderr, "ERROR: open missing.yaml"))
	})
}
