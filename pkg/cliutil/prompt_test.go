package cliutil_test

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/dansimau/bddcli/pkg/cliutil"
	"gotest.tools/v3/assert"
)

// withStdin feeds input to os.Stdin for the rest of the test.
func withStdin(t *testing.T, input string) {
	t.Helper()

	oldStdin := os.Stdin

	t.Cleanup(func() { os.Stdin = oldStdin })

	r, w, err := os.Pipe()
	assert.NilError(t, err)

	os.Stdin = r

	go func() {
		_, _ = io.WriteString(w, input)
		_ = w.Close()
	}()
}

func notEmpty(input string) error {
	if input == "" {
		return errors.New("answer cannot be empty")
	}

	return nil
}

func TestPrompt_WithDefaultAndValidator_AcceptsEmptyInput(t *testing.T) {
	withStdin(t, "\n")

	result, err := cliutil.Prompt(cliutil.PromptOptions{
		Text:      "Which story?",
		Default:   "list.yaml",
		Validator: notEmpty,
	})
	assert.NilError(t, err)
	assert.Equal(t, result, "list.yaml")
}

func TestPrompt_WithDefaultAndValidator_AcceptsCustomInput(t *testing.T) {
	withStdin(t, "other.yaml\n")

	result, err := cliutil.Prompt(cliutil.PromptOptions{
		Text:      "Which story?",
		Default:   "list.yaml",
		Validator: notEmpty,
	})
	assert.NilError(t, err)
	assert.Equal(t, result, "other.yaml")
}

func TestPrompt_ValidatorRetries(t *testing.T) {
	withStdin(t, "\n\nfinally\n")

	result, err := cliutil.Prompt(cliutil.PromptOptions{
		Text:      "Name:",
		Validator: notEmpty,
	})
	assert.NilError(t, err)
	assert.Equal(t, result, "finally")
}

func TestPrompt_EOFWhileInvalidAborts(t *testing.T) {
	withStdin(t, "")

	_, err := cliutil.Prompt(cliutil.PromptOptions{
		Text:      "Name:",
		Validator: notEmpty,
	})
	assert.ErrorIs(t, err, cliutil.ErrAbort)
}

func TestPrompt_ValidatorAborts(t *testing.T) {
	withStdin(t, "q\n")

	_, err := cliutil.Prompt(cliutil.PromptOptions{
		Validator: func(string) error { return cliutil.ErrAbort },
	})
	assert.ErrorIs(t, err, cliutil.ErrAbort)
}

func TestPrompt_WithoutDefault_NoValidator(t *testing.T) {
	withStdin(t, "\n")

	result, err := cliutil.Prompt(cliutil.PromptOptions{
		Text: "Enter something:",
	})
	assert.NilError(t, err)
	assert.Equal(t, result, "")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"lowercase y", "y\n", true},
		{"uppercase Y", "Y\n", true},
		{"lowercase yes", "yes\n", true},
		{"mixed case Yes", "Yes\n", true},
		{"lowercase n", "n\n", false},
		{"uppercase NO", "NO\n", false},
		{"empty input", "\n", false},
		{"no input", "", false},
		{"whitespace around yes", "  yes  \n", true},
		{"random input", "maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withStdin(t, tt.input)

			assert.Equal(t, cliutil.Confirm("Overwrite?"), tt.expected)
		})
	}
}
