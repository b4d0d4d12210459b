package test

import (
	"testing"

	"github.com/dansimau/bddcli/pkg/bddclicli"
	"github.com/dansimau/bddcli/pkg/testutil"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/assert/cmp"
)

func TestShow(t *testing.T) {
	testutil.WithTempWorkingDir(t, func() {
		setupProject(t)
		writeStory(t, "list.yaml", unrecordedStory)

		stdout, _, err := testutil.CaptureOutput(func() {
			exitCode := bddclicli.Run("show", "list.yaml")
			assert.Equal(t, exitCode, 0)
		})

		assert.NilError(t, err)
		equalLines(t, stdout, `
			+----------------+-------+--------------+-----------+
			|     TITLE      | BASE  | COMMAND LINE | EXIT CODE |
			+----------------+-------+--------------+-----------+
			| list           | -     | app list     | -         |
			| usage          | list  | app          | -         |
			| usage-bad-flag | usage | app -x       | -         |
			+----------------+-------+--------------+-----------+
		`)
	})
}

func TestShow_Dump(t *testing.T) {
	testutil.WithTempWorkingDir(t, func() {
		setupProject(t)
		writeStory(t, "list.yaml", verifiedStory)

		stdout, _, err := testutil.CaptureOutput(func() {
			exitCode := bddclicli.Run("show", "--dump", "list.yaml")
			assert.Equal(t, exitCode, 0)
		})

		assert.NilError(t, err)
		assert.Assert(t, cmp.Contains(stdout, "(yaml.MapSlice)"))
		assert.Assert(t, cmp.Contains(stdout, `"list-bad-flag"`))
	})
}

func TestShow_AppFlagsOverride(t *testing.T) {
	testutil.WithTempWorkingDir(t, func() {
		setupProject(t)
		writeStory(t, "list.yaml", unrecordedStory)

		stdout, _, err := testutil.CaptureOutput(func() {
			exitCode := bddclicli.Run("--app-name", "other", "show", "list.yaml")
			assert.Equal(t, exitCode, 0)
		})

		assert.NilError(t, err)
		assert.Assert(t, cmp.Contains(stdout, "other list"))
	})
}

func TestShow_NoApplication(t *testing.T) {
	testutil.WithTempWorkingDir(t, func() {
		writeStory(t, "list.yaml", unrecordedStory)

		_, stderr, err := testutil.CaptureOutput(func() {
			exitCode := bddclicli.Run("show", "list.yaml")
			assert.Equal(t, exitCode, 1)
		})

		assert.NilError(t, err)
		assert.Assert(t, cmp.Contains(stderr, "specify --app-name and --app-address"))

		_, _, err = testutil.CaptureOutput(func() {
			exitCode := bddclicli.Run("--app-name", "app", "--app-address", "/bin/true", "show", "list.yaml")
			assert.Equal(t, exitCode, 0)
		})
		assert.NilError(t, err)
	})
}
