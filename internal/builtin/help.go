package builtin

import (
	"fmt"
	"strings"

	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/namespace"
	"cmdconsole/pkg/params"
)

func help(s Session, topic string, out cmdtypes.Output) error {
	entry, path, err := s.Engine().Lookup(topic)
	if err != nil {
		return err
	}
	var md string
	if entry.IsDirectory() {
		md = DirectoryMarkdown(path, entry.Dir)
	} else {
		md = CommandMarkdown(path, entry.Cmd)
	}
	text, err := s.Renderer().Markdown(md)
	if err != nil {
		return err
	}
	out.Message(text)
	return nil
}

// CommandMarkdown documents cmd, found at path.
func CommandMarkdown(path cmdtypes.Path, cmd *namespace.Command) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", path)
	if d := cmd.Description(); d != "" {
		b.WriteString(d + "\n\n")
	}
	fmt.Fprintf(&b, "Usage: `%s`\n", cmd.Usage())

	defs := cmd.Params()
	if len(defs) == 0 {
		return b.String()
	}
	b.WriteString("\n| Parameter | Type | Required | Description |\n|---|---|---|---|\n")
	for _, def := range defs {
		required := "yes"
		if def.Optional() || def.Kind() == params.KindFlag {
			required = "no"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", def.Name(), def.Kind(), required, def.Identifier().Description)
	}
	return b.String()
}

// DirectoryMarkdown documents the entries of dir, found at path.
func DirectoryMarkdown(path cmdtypes.Path, dir *namespace.Directory) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", path)
	if d := dir.Identifier().Description; d != "" {
		b.WriteString(d + "\n\n")
	}
	if dir.IsEmpty() {
		b.WriteString("This directory is empty.\n")
		return b.String()
	}
	if subs := dir.Directories().Values(); len(subs) > 0 {
		b.WriteString("## Directories\n\n")
		for _, sub := range subs {
			writeItem(&b, sub.Name()+cmdtypes.Delimiter, sub.Identifier().Description)
		}
		b.WriteString("\n")
	}
	if cmds := dir.Commands().Values(); len(cmds) > 0 {
		b.WriteString("## Commands\n\n")
		for _, cmd := range cmds {
			writeItem(&b, cmd.Usage(), cmd.Description())
		}
	}
	return b.String()
}

func writeItem(b *strings.Builder, code, desc string) {
	if desc == "" {
		fmt.Fprintf(b, "- `%s`\n", code)
		return
	}
	fmt.Fprintf(b, "- `%s`: %s\n", code, desc)
}
