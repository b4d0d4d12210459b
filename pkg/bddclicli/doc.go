package bddclicli

import (
	"fmt"
	"os"

	"github.com/dansimau/bddcli/pkg/story"
)

type docCmd struct {
	Output string `description:"Write to this file instead of stdout" long:"output" short:"o"`
	Args   struct {
		Story string `description:"Story file" positional-arg-name:"story" required:"yes"`
	} `positional-args:"yes"`
}

func (c *docCmd) Execute(args []string) error {
	s, err := cmd.loadStory(c.Args.Story)
	if err != nil {
		return err
	}

	switch {
	case c.Output == "":
		s.AutoDoc = story.ToWriter(os.Stdout)
	case cmd.DryRun:
		fmt.Printf("would write documentation to %s\n", c.Output)

		return nil
	default:
		s.AutoDoc = story.ToFile(c.Output)
	}

	return s.Close()
}
