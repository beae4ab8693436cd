// Package namespace composes commands into a hierarchy of directories.
//
// A tree is assembled with a mutable Builder and frozen into an immutable
// Directory with Build. Command and directory names share one key space per
// directory level; collisions are construction errors.
package namespace

import (
	"fmt"
	"sort"

	"cmdconsole/pkg/cmdtypes"
)

// Builder is the mutable form of a directory. It is not safe for concurrent
// use.
type Builder struct {
	id       cmdtypes.Identifier
	children map[string]*Builder
	commands map[string]*Command
	frozen   bool
}

// NewRoot returns a builder for an unnamed root directory.
func NewRoot() *Builder {
	return &Builder{
		children: make(map[string]*Builder),
		commands: make(map[string]*Command),
	}
}

// NewBuilder returns a builder for a named directory.
func NewBuilder(name, description string) (*Builder, error) {
	id, err := cmdtypes.NewIdentifier(name, description)
	if err != nil {
		return nil, fmt.Errorf("directory: %w", err)
	}
	b := NewRoot()
	b.id = id
	return b, nil
}

// Name returns the directory name.
func (b *Builder) Name() string { return b.id.Name }

// GetOrCreateChildDirectory returns the child directory called name, creating
// it when missing. It fails when a command already uses the name.
func (b *Builder) GetOrCreateChildDirectory(name string) (*Builder, error) {
	if b.frozen {
		return nil, cmdtypes.ErrBuilderFrozen
	}
	if child, ok := b.children[name]; ok {
		return child, nil
	}
	if _, ok := b.commands[name]; ok {
		return nil, fmt.Errorf("directory %q in %q: %w (already a command)", name, b.id.Name, cmdtypes.ErrDuplicateName)
	}
	child, err := NewBuilder(name, "")
	if err != nil {
		return nil, err
	}
	b.children[name] = child
	return child, nil
}

// SetDescription sets the directory description.
func (b *Builder) SetDescription(desc string) error {
	if b.frozen {
		return cmdtypes.ErrBuilderFrozen
	}
	b.id.Description = desc
	return nil
}

// AddCommands registers a batch of commands. When any name collides with an
// existing entry or with another command of the batch, nothing is added.
func (b *Builder) AddCommands(cmds ...*Command) error {
	if b.frozen {
		return cmdtypes.ErrBuilderFrozen
	}
	seen := make(map[string]bool, len(cmds))
	for _, cmd := range cmds {
		name := cmd.Name()
		_, isCmd := b.commands[name]
		_, isDir := b.children[name]
		if isCmd || isDir || seen[name] {
			return fmt.Errorf("command %q in %q: %w", name, b.id.Name, cmdtypes.ErrDuplicateName)
		}
		seen[name] = true
	}
	for _, cmd := range cmds {
		b.commands[cmd.Name()] = cmd
	}
	return nil
}

// Register adds cmds to the directory at path, creating intermediate
// directories as needed. This is the entry point for command discovery.
func (b *Builder) Register(path cmdtypes.Path, cmds ...*Command) error {
	target := b
	for _, seg := range path.Segments() {
		next, err := target.GetOrCreateChildDirectory(seg)
		if err != nil {
			return err
		}
		target = next
	}
	return target.AddCommands(cmds...)
}

// Build freezes the builder and returns the immutable tree. The builder
// rejects every mutation afterwards.
func (b *Builder) Build() (*Directory, error) {
	if b.frozen {
		return nil, cmdtypes.ErrBuilderFrozen
	}
	b.frozen = true

	names := make([]string, 0, len(b.children))
	for name := range b.children {
		names = append(names, name)
	}
	sort.Strings(names)

	d := &Directory{id: b.id}
	for _, name := range names {
		child, err := b.children[name].Build()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		d.dirs = d.dirs.Insert(name, child)
		d.entries = d.entries.Insert(name, Entry{Dir: child})
	}
	for name, cmd := range b.commands {
		d.cmds = d.cmds.Insert(name, cmd)
		d.entries = d.entries.Insert(name, Entry{Cmd: cmd})
	}
	return d, nil
}
