package bddclicli

import (
	"fmt"
	"os"

	"github.com/dansimau/bddcli/pkg/cliutil"
)

type recordCmd struct {
	Yes  bool      `description:"Overwrite story files without asking" long:"yes" short:"y"`
	Args storyArgs `positional-args:"yes"`
}

func (c *recordCmd) Execute(args []string) error {
	for _, path := range c.Args.Stories {
		s, err := cmd.loadStory(path)
		if err != nil {
			return err
		}

		n, err := s.Conclude(cmd.ctx)
		if err != nil {
			return err
		}

		if n == 0 {
			fmt.Printf("%s: nothing to record\n", path)

			continue
		}

		if cmd.DryRun {
			fmt.Printf("%s: would record %d response(s):\n", path, n)

			if err := s.Dump(os.Stdout); err != nil {
				return err
			}

			continue
		}

		if !c.Yes {
			if !cliutil.IsInteractive() {
				return NewError(fmt.Sprintf("%s: refusing to overwrite without confirmation (hint: specify --yes)", path))
			}

			if !cliutil.Confirm(fmt.Sprintf("Write %d new response(s) to %s? [y/N]", n, path)) {
				return NewError("Aborted.")
			}
		}

		if err := s.Save(path); err != nil {
			return err
		}

		fmt.Printf("%s: recorded %d response(s)\n", path, n)
	}

	return nil
}
