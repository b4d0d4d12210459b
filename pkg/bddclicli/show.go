package bddclicli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dansimau/bddcli/pkg/bddcli"
	"github.com/dansimau/bddcli/pkg/xexec"
	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
)

type showCmd struct {
	Dump bool `description:"Dump the raw story instead of a table" long:"dump"`
	Args struct {
		Story string `description:"Story file" positional-arg-name:"story" required:"yes"`
	} `positional-args:"yes"`
}

func (c *showCmd) Execute(args []string) error {
	s, err := cmd.loadStory(c.Args.Story)
	if err != nil {
		return err
	}

	if c.Dump {
		spew.Dump(s.ToDict())

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Title", "Base", "Command line", "Exit code"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, call := range s.All() {
		base := "-"
		if altered, ok := call.(*bddcli.AlteredCall); ok {
			base = altered.Base().Title()
		}

		exitCode := "-"
		if resp := call.Response(); resp != nil {
			exitCode = fmt.Sprint(resp.ExitCode)
		}

		inv := bddcli.Resolve(call, s.Application)
		commandLine := strings.TrimSpace(s.Application.Name() + " " + xexec.QuoteArgs(inv.Args()...))

		table.Append([]string{call.Title(), base, commandLine, exitCode})
	}

	table.Render()

	return nil
}
