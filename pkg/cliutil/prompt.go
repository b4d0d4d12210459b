package cliutil

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrAbort is returned when input ends before an answer is accepted. A
// validator may also return it to stop prompting.
var ErrAbort = errors.New("aborted")

type PromptOptions struct {
	Text      string
	Default   string
	Validator func(input string) error
}

// Prompt reads one line from stdin, asking again until the validator
// accepts it. The prompt text goes to stderr.
func Prompt(opts PromptOptions) (string, error) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		if opts.Text != "" {
			fmt.Fprint(os.Stderr, opts.Text+" ")
		}

		if opts.Default != "" {
			fmt.Fprintf(os.Stderr, "[%s] ", opts.Default)
		}

		eof := !scanner.Scan()
		if err := scanner.Err(); err != nil {
			return "", err
		}

		input := strings.TrimSpace(scanner.Text())

		// Apply default value if input is empty
		if input == "" && opts.Default != "" {
			input = opts.Default
		}

		if opts.Validator == nil {
			return input, nil
		}

		err := opts.Validator(input)
		if err == nil {
			return input, nil
		}

		if errors.Is(err, ErrAbort) || eof {
			return "", ErrAbort
		}

		fmt.Fprintln(os.Stderr, err)
	}
}

// Confirm prompts the user for a yes/no confirmation.
// Accepts "y", "yes", "Y", "Yes", "YES" (and similar) as true.
// Any other input (including empty) is treated as false.
func Confirm(prompt string) bool {
	response, err := Prompt(PromptOptions{
		Text: prompt,
	})
	if err != nil {
		return false
	}

	switch strings.ToLower(response) {
	case "y", "yes":
		return true
	}

	return false
}
