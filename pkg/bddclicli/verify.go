package bddclicli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dansimau/bddcli/pkg/bddcli"
)

type verifyCmd struct {
	Args storyArgs `positional-args:"yes"`
}

func (c *verifyCmd) Execute(args []string) error {
	for _, path := range c.Args.Stories {
		s, err := cmd.loadStory(path)
		if err != nil {
			return err
		}

		err = s.Verify(cmd.ctx)

		verifyErr := &bddcli.VerifyError{}
		if errors.As(err, &verifyErr) {
			fmt.Fprintf(os.Stderr, "%s: call %q: response mismatch (-expected +observed):\n%s", path, verifyErr.Title, verifyErr.Diff())

			return NewError(fmt.Sprintf("%s: verification failed", path))
		}

		if errors.Is(err, bddcli.ErrNoResponse) {
			return NewError(fmt.Sprintf("%s: %v (hint: run record first)", path, err))
		}

		if err != nil {
			return err
		}

		fmt.Printf("ok\t%s\t%d call(s)\n", path, len(s.All()))
	}

	return nil
}
