package namespace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/params"
)

func noop(context.Context, params.Args, cmdtypes.Output) error { return nil }

func cmd(t *testing.T, name string) *Command {
	t.Helper()
	c, err := NewCommand(name, name+" command").Executor(noop).Build()
	require.NoError(t, err)
	return c
}

func TestCommandBuilder(t *testing.T) {
	c, err := NewCommand("add", "Add numbers").
		Int("a", "first").
		OptionalInt("b", "second", params.Const[int64](1)).
		Flag("verbose", "print steps").
		Executor(noop).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "add", c.Name())
	assert.Equal(t, "Add numbers", c.Description())
	assert.Len(t, c.Params(), 3)
	assert.Equal(t, "add <a:int> [b:int] [verbose]", c.Usage())

	p, ok := c.Param("verbose")
	require.True(t, ok)
	assert.Equal(t, params.KindFlag, p.Kind())
	_, ok = c.Param("nope")
	assert.False(t, ok)
}

func TestCommandBuilder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		builder *CommandBuilder
		wantIs  error
	}{
		{name: "bad command name", builder: NewCommand("1abc", "").Executor(noop), wantIs: cmdtypes.ErrInvalidName},
		{name: "whitespace in name", builder: NewCommand("a b", "").Executor(noop), wantIs: cmdtypes.ErrInvalidName},
		{name: "bad param name", builder: NewCommand("ok", "").Int("2x", "").Executor(noop), wantIs: cmdtypes.ErrInvalidName},
		{name: "duplicate param", builder: NewCommand("ok", "").Int("x", "").Flag("x", "").Executor(noop), wantIs: cmdtypes.ErrDuplicateName},
		{name: "missing executor", builder: NewCommand("ok", "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
	assert.Panics(t, func() { NewCommand("9", "").MustBuild() })
}

func TestCommand_Execute(t *testing.T) {
	failing := NewCommand("fail", "").Executor(func(context.Context, params.Args, cmdtypes.Output) error {
		return errors.New("bad input")
	}).MustBuild()
	crashing := NewCommand("crash", "").Executor(func(context.Context, params.Args, cmdtypes.Output) error {
		panic("boom")
	}).MustBuild()
	talking := NewCommand("say", "").String("text", "").Executor(func(_ context.Context, a params.Args, out cmdtypes.Output) error {
		out.Messagef("said %s", a.String("text"))
		return nil
	}).MustBuild()

	var out cmdtypes.BufferOutput
	ctx := context.Background()

	err := failing.Execute(ctx, params.Args{}, &out)
	var ee *ExecutionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, cmdtypes.ErrorKindExecutionFailed, ee.Kind)
	assert.EqualError(t, err, "fail: bad input")
	assert.False(t, IsUnhandled(err))
	assert.True(t, cmdtypes.KindOf(err).IsExecution())
	var ae *cmdtypes.AssistError
	assert.False(t, errors.As(err, &ae), "execution errors are not assist errors")

	err = crashing.Execute(ctx, params.Args{}, &out)
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, cmdtypes.ErrorKindUnhandled, ee.Kind)
	assert.True(t, IsUnhandled(err))
	assert.Contains(t, err.Error(), "boom")

	text, _ := talking.Param("text")
	args := params.NewArgs([]params.Value{{Def: text, Value: "hi", Explicit: true}})
	require.NoError(t, talking.Execute(ctx, args, &out))
	assert.Equal(t, []string{"said hi"}, out.Lines())
}

func TestBuilder_GetOrCreateChildDirectory(t *testing.T) {
	root := NewRoot()
	a1, err := root.GetOrCreateChildDirectory("tools")
	require.NoError(t, err)
	a2, err := root.GetOrCreateChildDirectory("tools")
	require.NoError(t, err)
	assert.Same(t, a1, a2, "idempotent")

	require.NoError(t, root.AddCommands(cmd(t, "ls")))
	_, err = root.GetOrCreateChildDirectory("ls")
	assert.ErrorIs(t, err, cmdtypes.ErrDuplicateName)

	_, err = root.GetOrCreateChildDirectory("bad name")
	assert.ErrorIs(t, err, cmdtypes.ErrInvalidName)
}

func TestBuilder_AddCommandsIsAtomic(t *testing.T) {
	root := NewRoot()
	_, err := root.GetOrCreateChildDirectory("tools")
	require.NoError(t, err)
	require.NoError(t, root.AddCommands(cmd(t, "ls")))

	tests := []struct {
		name  string
		batch []*Command
	}{
		{name: "collides with command", batch: []*Command{cmd(t, "cat"), cmd(t, "ls")}},
		{name: "collides with directory", batch: []*Command{cmd(t, "cat"), cmd(t, "tools")}},
		{name: "duplicate within batch", batch: []*Command{cmd(t, "cat"), cmd(t, "cat")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := root.AddCommands(tt.batch...)
			assert.ErrorIs(t, err, cmdtypes.ErrDuplicateName)
			_, added := root.commands["cat"]
			assert.False(t, added, "no partial mutation")
		})
	}
}

func TestBuilder_BuildFreezes(t *testing.T) {
	root := NewRoot()
	require.NoError(t, root.Register(cmdtypes.MustParsePath("tools/math"), cmd(t, "add"), cmd(t, "sub")))
	require.NoError(t, root.AddCommands(cmd(t, "ls")))

	tree, err := root.Build()
	require.NoError(t, err)

	assert.ErrorIs(t, root.AddCommands(cmd(t, "cat")), cmdtypes.ErrBuilderFrozen)
	_, err = root.GetOrCreateChildDirectory("more")
	assert.ErrorIs(t, err, cmdtypes.ErrBuilderFrozen)
	_, err = root.Build()
	assert.ErrorIs(t, err, cmdtypes.ErrBuilderFrozen)
	assert.ErrorIs(t, root.SetDescription("x"), cmdtypes.ErrBuilderFrozen)

	assert.ElementsMatch(t, []string{"tools", "ls"}, tree.Entries().Words())
	assert.ElementsMatch(t, []string{"tools"}, tree.Directories().Words())
	assert.ElementsMatch(t, []string{"ls"}, tree.Commands().Words())

	math, err := tree.Resolve(cmdtypes.MustParsePath("tools/math"))
	require.NoError(t, err)
	assert.Equal(t, "math", math.Name())
	_, ok := math.Command("add")
	assert.True(t, ok)

	_, err = tree.Resolve(cmdtypes.MustParsePath("tools/nope"))
	assert.True(t, cmdtypes.IsKind(err, cmdtypes.ErrorKindUnknownDirectory))
}

func TestDirectory_Walk(t *testing.T) {
	root := NewRoot()
	require.NoError(t, root.Register(cmdtypes.MustParsePath("b"), cmd(t, "y"), cmd(t, "x")))
	require.NoError(t, root.Register(cmdtypes.Root(), cmd(t, "a")))
	tree, err := root.Build()
	require.NoError(t, err)

	var seen []string
	tree.Walk(func(dir cmdtypes.Path, c *Command) bool {
		seen = append(seen, dir.Child(c.Name()).String())
		return true
	})
	assert.Equal(t, []string{"/a", "/b/x", "/b/y"}, seen)

	count := 0
	tree.Walk(func(cmdtypes.Path, *Command) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestEntry(t *testing.T) {
	root := NewRoot()
	sub, err := root.GetOrCreateChildDirectory("net")
	require.NoError(t, err)
	require.NoError(t, sub.SetDescription("Networking"))
	require.NoError(t, root.AddCommands(cmd(t, "ping")))
	tree, err := root.Build()
	require.NoError(t, err)

	net, _ := tree.Entries().Get("net")
	ping, _ := tree.Entries().Get("ping")
	assert.True(t, net.IsDirectory())
	assert.False(t, ping.IsDirectory())
	assert.Equal(t, "net", net.Name())
	assert.Equal(t, "Networking", net.Description())
	assert.Equal(t, "ping command", ping.Description())
	assert.False(t, tree.IsEmpty())
}
