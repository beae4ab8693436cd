package namespace

import (
	"fmt"

	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/trie"
)

// Entry is a named child of a directory: either a directory or a command.
type Entry struct {
	Dir *Directory
	Cmd *Command
}

// IsDirectory reports whether the entry is a directory.
func (e Entry) IsDirectory() bool { return e.Dir != nil }

// Name returns the entry name.
func (e Entry) Name() string {
	if e.Dir != nil {
		return e.Dir.Name()
	}
	return e.Cmd.Name()
}

// Description returns the entry description.
func (e Entry) Description() string {
	if e.Dir != nil {
		return e.Dir.id.Description
	}
	return e.Cmd.Description()
}

// Directory is an immutable namespace node. It is produced by Builder.Build
// and may be shared freely between readers.
type Directory struct {
	id      cmdtypes.Identifier
	entries trie.Trie[Entry]
	dirs    trie.Trie[*Directory]
	cmds    trie.Trie[*Command]
}

// Identifier returns the directory identifier. The root has an empty name.
func (d *Directory) Identifier() cmdtypes.Identifier { return d.id }

// Name returns the directory name.
func (d *Directory) Name() string { return d.id.Name }

// Entries returns every child, directories and commands, in one key space.
func (d *Directory) Entries() trie.Trie[Entry] { return d.entries }

// Directories returns the child directories.
func (d *Directory) Directories() trie.Trie[*Directory] { return d.dirs }

// Commands returns the child commands.
func (d *Directory) Commands() trie.Trie[*Command] { return d.cmds }

// IsEmpty reports whether the directory has no children.
func (d *Directory) IsEmpty() bool { return d.entries.IsEmpty() }

// Child returns the child directory called name.
func (d *Directory) Child(name string) (*Directory, bool) {
	return d.dirs.Get(name)
}

// Command returns the child command called name.
func (d *Directory) Command(name string) (*Command, bool) {
	return d.cmds.Get(name)
}

// Resolve follows path from d. "." and ".." segments are not interpreted.
func (d *Directory) Resolve(path cmdtypes.Path) (*Directory, error) {
	cur := d
	for i, seg := range path.Segments() {
		next, ok := cur.Child(seg)
		if !ok {
			return nil, &cmdtypes.AssistError{
				Kind:    cmdtypes.ErrorKindUnknownDirectory,
				Message: fmt.Sprintf("unknown directory %q in %s", seg, pathPrefix(path, i)),
				Token:   seg,
			}
		}
		cur = next
	}
	return cur, nil
}

// Walk visits every command below d depth first in name order. fn receives
// the path of the command's directory relative to d. Returning false stops
// the walk.
func (d *Directory) Walk(fn func(dir cmdtypes.Path, cmd *Command) bool) {
	d.walk(cmdtypes.Root(), fn)
}

func (d *Directory) walk(at cmdtypes.Path, fn func(cmdtypes.Path, *Command) bool) bool {
	for _, e := range d.entries.Entries() {
		if e.Value.IsDirectory() {
			if !e.Value.Dir.walk(at.Child(e.Word), fn) {
				return false
			}
			continue
		}
		if !fn(at, e.Value.Cmd) {
			return false
		}
	}
	return true
}

func pathPrefix(p cmdtypes.Path, n int) string {
	segs := p.Segments()[:n]
	prefix, _ := cmdtypes.NewPath(segs...)
	return prefix.String()
}
