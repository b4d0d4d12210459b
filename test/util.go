package test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dansimau/bddcli/pkg/bddcli"
	"github.com/dansimau/bddcli/pkg/config"
	"github.com/dansimau/bddcli/pkg/testutil"
	"gotest.tools/v3/assert"
)

const listApp = `
if [ -n "$GREETING" ]; then
	echo "$GREETING"
fi

for arg in "$@"; do
	case "$arg" in
	-*) echo "unknown flag" >&2; exit 2 ;;
	esac
done

if [ "$1" = "list" ]; then
	printf 'a\nb\n'
	exit 0
fi

echo "usage: app list" >&2
exit 1
`

// verifiedStory passes against listApp.
const verifiedStory = `
version: "1.0"
base:
  title: list
  positionals: [list]
  response:
    exit_code: 0
    stdout: "a\nb\n"
    stderr: ""
calls:
- title: list-bad-flag
  flags: [--bogus]
  response:
    exit_code: 2
    stdout: ""
    stderr: "unknown flag\n"
`

// unrecordedStory has no responses yet.
const unrecordedStory = `
version: "1.0"
base:
  title: list
  positionals: [list]
calls:
- title: usage
  positionals: []
- title: usage-bad-flag
  base: usage
  flags: [-x]
`

// setupProject writes listApp, a bootstrapper and a config naming both into
// the working directory, and returns the config.
func setupProject(t *testing.T) config.Config {
	t.Helper()

	wd, err := os.Getwd()
	assert.NilError(t, err)

	cfg := config.Config{
		Bootstrapper: testutil.Bootstrapper(t),
		Application: bddcli.App{
			AppName:    "app",
			AppAddress: testutil.WriteScript(t, wd, "app", listApp),
		},
	}

	assert.NilError(t, config.Write(filepath.Join(wd, config.FileName), cfg))

	return cfg
}

func writeStory(t *testing.T, path, content string) {
	t.Helper()

	assert.NilError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	assert.NilError(t, err)

	return string(b)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

// equalLines asserts that both strings are equal after stripping
// leading/trailing whitespace.
func equalLines(t *testing.T, a, b string) {
	t.Helper()

	assert.Equal(t, stripWhiteSpaceFromLines(a), stripWhiteSpaceFromLines(b))
}

// stripWhiteSpaceFromLines strips leading and trailing whitespace from each
// line, and also from the overall string.
func stripWhiteSpaceFromLines(s string) string {
	lines := []string{}
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		lines = append(lines, strings.TrimSpace(line))
	}

	return strings.Join(lines, "\n")
}
