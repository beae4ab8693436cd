package render

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdconsole/internal/config"
	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/namespace"
	"cmdconsole/pkg/params"
)

func plainRenderer(maxSuggestions int) *Renderer {
	return New(&bytes.Buffer{}, Options{Color: config.ColorNever, Width: 40, MaxSuggestions: maxSuggestions})
}

func TestRenderer_Error(t *testing.T) {
	r := plainRenderer(2)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "assist error with suggestions",
			err: &cmdtypes.AssistError{
				Kind:        cmdtypes.ErrorKindUnknownCommand,
				Message:     `unknown command "ad"`,
				Suggestions: []string{"abs", "add", "avg"},
			},
			want: "error: unknown command \"ad\" [UnknownCommand]\ndid you mean: abs  add  (+1 more)",
		},
		{
			name: "assist error without suggestions",
			err:  &cmdtypes.AssistError{Kind: cmdtypes.ErrorKindInvalidPath, Message: "invalid path"},
			want: "error: invalid path [InvalidPath]",
		},
		{
			name: "execution error",
			err:  &namespace.ExecutionError{Kind: cmdtypes.ErrorKindExecutionFailed, Command: "deploy", Err: errors.New("no target")},
			want: "ExecutionFailed: deploy: no target",
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: "error: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Error(tt.err))
		})
	}
}

func TestRenderer_Columns(t *testing.T) {
	r := plainRenderer(0)
	got := r.Columns([]string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta"})
	lines := strings.Split(got, "\n")
	// width 40 / column 9 fits four per row
	require.Len(t, lines, 2)
	assert.Equal(t, "alpha    beta     gamma    delta", lines[0])
	assert.Equal(t, "epsilon  zeta     eta", lines[1])

	assert.Empty(t, r.Columns(nil))
	assert.Equal(t, "a  b\n(+1 more)", plainRenderer(2).Columns([]string{"a", "b", "c"}))
}

func TestRenderer_ColumnsMeasureVisibleWidth(t *testing.T) {
	r := New(&bytes.Buffer{}, Options{Color: config.ColorAlways, Width: 40})
	styled := r.Entries(entries(t))
	got := Plain(r.Columns(styled))
	assert.Equal(t, "math/  add", got)
}

func TestRenderer_Entries(t *testing.T) {
	r := plainRenderer(0)
	assert.Equal(t, []string{"math/", "add"}, r.Entries(entries(t)))
}

func TestRenderer_Prompt(t *testing.T) {
	r := plainRenderer(0)
	assert.Equal(t, "/tools > ", r.Prompt(cmdtypes.MustParsePath("/tools"), "> "))
	assert.False(t, r.Colored())
}

func TestRenderer_Markdown(t *testing.T) {
	r := plainRenderer(0)
	out, err := r.Markdown("# add\n\nAdd two numbers.\n")
	require.NoError(t, err)
	assert.Contains(t, out, "add")
	assert.Contains(t, out, "Add two numbers.")
	assert.Equal(t, out, Plain(out), "no escapes without color")
}

func entries(t *testing.T) []namespace.Entry {
	t.Helper()
	root := namespace.NewRoot()
	add := namespace.NewCommand("add", "").Executor(func(_ context.Context, _ params.Args, _ cmdtypes.Output) error { return nil }).MustBuild()
	_, err := root.GetOrCreateChildDirectory("math")
	require.NoError(t, err)
	require.NoError(t, root.AddCommands(add))
	dir, err := root.Build()
	require.NoError(t, err)
	return []namespace.Entry{{Dir: mustChild(t, dir, "math")}, {Cmd: mustCommand(t, dir, "add")}}
}

func mustChild(t *testing.T, d *namespace.Directory, name string) *namespace.Directory {
	t.Helper()
	c, ok := d.Child(name)
	require.True(t, ok)
	return c
}

func mustCommand(t *testing.T, d *namespace.Directory, name string) *namespace.Command {
	t.Helper()
	c, ok := d.Command(name)
	require.True(t, ok)
	return c
}
