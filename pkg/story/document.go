package story

import (
	"fmt"
	"io"
	"strings"

	"github.com/dansimau/bddcli/pkg/bddcli"
	"github.com/dansimau/bddcli/pkg/stringutil"
	"github.com/dansimau/bddcli/pkg/xexec"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const storyHeader = `# {{.Base.Title}}
{{if .Base.Description}}
{{.Base.Description}}
{{end}}
Application: ` + "`{{.App.Name}}`" + ` ({{.App.Address}})

`

const callHeader = `## {{.Title}}
{{if .Description}}
{{.Description}}
{{end}}{{if .BasedOn}}
Based on: {{.BasedOn}}{{if .Overrides}} (overrides {{join .Overrides ", "}}){{end}}
{{end}}
`

const outputBlock = "{{.Name}}:\n\n```\n{{.Text}}```\n\n"

// Document writes Markdown documentation of the story: the base call in full,
// then for each recorded call only what differs from its base.
func (s *Story) Document(w io.Writer) error {
	if s.Application == nil {
		return ErrNoApplication
	}

	header, err := stringutil.Interpolate(storyHeader, map[string]any{
		"Base": s.Base,
		"App":  s.Application,
	})
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	if err := s.documentCall(w, s.Base, "", bddcli.FieldNames); err != nil {
		return err
	}

	for _, c := range s.Calls {
		if err := s.documentCall(w, c, c.Base().Title(), c.Overlay()); err != nil {
			return err
		}
	}

	return nil
}

func (s *Story) documentCall(w io.Writer, c bddcli.Call, basedOn string, shown []bddcli.FieldName) error {
	header, err := stringutil.Interpolate(callHeader, map[string]any{
		"Title":       c.Title(),
		"Description": c.Description(),
		"BasedOn":     basedOn,
		"Overrides":   overrides(c),
	})
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	inv := bddcli.Resolve(c, s.Application)
	rows := [][]string{
		{"Command line", "`" + strings.TrimSpace(s.Application.Name()+" "+xexec.QuoteArgs(inv.Args()...)) + "`"},
	}

	for _, name := range shown {
		if row, ok := fieldRow(c, name); ok {
			rows = append(rows, row)
		}
	}

	resp := c.Response()
	if resp != nil {
		rows = append(rows, []string{"Exit code", fmt.Sprint(resp.ExitCode)})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")

	for _, row := range rows {
		table.Append([]string{row[0], cell(row[1])})
	}

	table.Render()

	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	if resp == nil {
		return nil
	}

	for _, out := range []struct{ Name, Text string }{{"Stdout", resp.Stdout}, {"Stderr", resp.Stderr}} {
		if out.Text == "" {
			continue
		}

		if !strings.HasSuffix(out.Text, "\n") {
			out.Text += "\n"
		}

		block, err := stringutil.Interpolate(outputBlock, out)
		if err != nil {
			return err
		}

		if _, err := io.WriteString(w, block); err != nil {
			return err
		}
	}

	return nil
}

// cell escapes the column separator so values containing pipes stay in one
// Markdown table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// fieldRow describes one field of c for the documentation table.
func fieldRow(c bddcli.Call, name bddcli.FieldName) ([]string, bool) {
	switch name {
	case bddcli.FieldStdin:
		if s, ok := c.Stdin().Get(); ok {
			return []string{"Stdin", fmt.Sprintf("%q", s)}, true
		}

		return []string{"Stdin", "(none)"}, c.Stdin().IsUnset() && isOverlay(c, name)
	case bddcli.FieldPositionals:
		return listRow("Positionals", c.Positionals(), c, name)
	case bddcli.FieldFlags:
		return listRow("Flags", c.Flags(), c, name)
	case bddcli.FieldExtraEnviron:
		env, ok := c.ExtraEnviron().Get()
		if !ok {
			return []string{"Extra environ", "(none)"}, isOverlay(c, name)
		}

		keys := maps.Keys(env)
		slices.Sort(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, "`"+k+"="+env[k]+"`")
		}

		return []string{"Extra environ", strings.Join(pairs, " ")}, true
	}

	return nil, false
}

func listRow(label string, f bddcli.Field[[]string], c bddcli.Call, name bddcli.FieldName) ([]string, bool) {
	list, ok := f.Get()
	if !ok {
		return []string{label, "(none)"}, isOverlay(c, name)
	}

	return []string{label, "`" + xexec.QuoteArgs(list...) + "`"}, true
}

// overrides lists the names of the fields an altered call overrides.
func overrides(c bddcli.Call) []string {
	altered, ok := c.(*bddcli.AlteredCall)
	if !ok {
		return nil
	}

	var names []string
	for _, name := range altered.Overlay() {
		names = append(names, string(name))
	}

	return names
}

// isOverlay reports whether an unset field is worth showing: only when an
// altered call explicitly unsets it.
func isOverlay(c bddcli.Call, name bddcli.FieldName) bool {
	altered, ok := c.(*bddcli.AlteredCall)
	if !ok {
		return false
	}

	for _, n := range altered.Overlay() {
		if n == name {
			return true
		}
	}

	return false
}
