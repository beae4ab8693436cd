package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdconsole/pkg/assist"
	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/namespace"
	"cmdconsole/pkg/params"
)

func engineFor(t *testing.T, c *Catalog, env EnvLookup) *assist.Engine {
	t.Helper()
	root := namespace.NewRoot()
	require.NoError(t, c.Register(root, env))
	dir, err := root.Build()
	require.NoError(t, err)
	return assist.New(dir)
}

func run(t *testing.T, e *assist.Engine, line string) ([]string, error) {
	t.Helper()
	inv, err := e.Parse(line)
	require.NoError(t, err, line)
	var out cmdtypes.BufferOutput
	err = inv.Run(context.Background(), &out)
	return out.Lines(), err
}

func noEnv(string) (string, bool) { return "", false }

func TestLoad_FormatsAgree(t *testing.T) {
	y, err := Load("testdata/catalog.yaml")
	require.NoError(t, err)
	tm, err := Load("testdata/catalog.toml")
	require.NoError(t, err)

	assert.Equal(t, 6, y.CommandCount())
	// YAML decodes integers as int, TOML as int64.
	normalize := cmp.Transformer("default", func(v any) string { return fmtAny(v) })
	diff := cmp.Diff(y, tm,
		cmpopts.IgnoreFields(Catalog{}, "Source"),
		cmp.FilterPath(func(p cmp.Path) bool { return p.Last().String() == ".Default" }, normalize),
	)
	assert.Empty(t, diff)
}

func fmtAny(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func TestRegister_RunsCommands(t *testing.T) {
	for _, file := range []string{"testdata/catalog.yaml", "testdata/catalog.toml"} {
		t.Run(filepath.Ext(file), func(t *testing.T) {
			c, err := Load(file)
			require.NoError(t, err)
			e := engineFor(t, c, noEnv)

			lines, err := run(t, e, "ping")
			require.NoError(t, err)
			assert.Equal(t, []string{"pong"}, lines)

			lines, err = run(t, e, "tools/greet")
			require.NoError(t, err)
			assert.Equal(t, []string{"hello world"}, lines)

			lines, err = run(t, e, "tools/math/add 2")
			require.NoError(t, err)
			assert.Equal(t, []string{"2 + 1"}, lines)

			lines, err = run(t, e, "tools/math/scale 2.5")
			require.NoError(t, err)
			assert.Equal(t, []string{"2.5"}, lines)

			lines, err = run(t, e, "tools/deploy prod dry")
			assert.Equal(t, []string{"deploying prod", "dry run: true"}, lines)
			require.Error(t, err)
			assert.Equal(t, cmdtypes.ErrorKindExecutionFailed, cmdtypes.KindOf(err))
			assert.Contains(t, err.Error(), "prod is locked")

			_, err = e.Parse("tools/deploy qa")
			assert.Equal(t, cmdtypes.ErrorKindInvalidParamValue, cmdtypes.KindOf(err))

			dir, _, err := e.Resolve("tools")
			require.NoError(t, err)
			assert.Equal(t, "Everyday tools", dir.Identifier().Description)
		})
	}
}

func TestRegister_EnvironmentBacked(t *testing.T) {
	env := map[string]string{}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	c, err := Load("testdata/catalog.yaml")
	require.NoError(t, err)
	e := engineFor(t, c, lookup)

	lines, err := run(t, e, "tools/greet")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello world"}, lines)

	// Both the default and the value set are read at bind time.
	env["CATALOG_TEST_WHO"] = "there"
	env["CATALOG_TEST_ENVS"] = "qa, dev"
	lines, err = run(t, e, "tools/greet")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello there"}, lines)

	_, err = e.Parse("tools/deploy qa")
	assert.NoError(t, err)
	_, err = e.Parse("tools/deploy prod")
	assert.Equal(t, cmdtypes.ErrorKindInvalidParamValue, cmdtypes.KindOf(err))

	got := e.Complete("tools/deploy de", len("tools/deploy de"))
	assert.Equal(t, "tools/deploy dev ", got.Line)
}

func TestRegister_LazyDefault(t *testing.T) {
	reads := 0
	env := map[string]string{"CATALOG_TEST_USER": "ada"}
	lookup := func(k string) (string, bool) {
		if k == "CATALOG_TEST_USER" {
			reads++
		}
		v, ok := env[k]
		return v, ok
	}
	c, err := Load("testdata/catalog.yaml")
	require.NoError(t, err)
	e := engineFor(t, c, lookup)
	assert.Zero(t, reads, "the variable is not read before the default is needed")

	lines, err := run(t, e, "tools/whoami")
	require.NoError(t, err)
	assert.Equal(t, []string{"ada"}, lines)

	env["CATALOG_TEST_USER"] = "grace"
	lines, err = run(t, e, "tools/whoami")
	require.NoError(t, err)
	assert.Equal(t, []string{"ada"}, lines)

	lines, err = run(t, e, "tools/whoami user=linus")
	require.NoError(t, err)
	assert.Equal(t, []string{"linus"}, lines)
	assert.Equal(t, 1, reads)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		body   string
		want   string
	}{
		{name: "unknown yaml key", format: FormatYAML, body: "commands:\n  - name: x\n    outptu: y\n", want: "outptu"},
		{name: "unknown toml key", format: FormatTOML, body: "[[commands]]\nname = \"x\"\nhelp = \"y\"\n", want: "help"},
		{name: "unsupported version", format: FormatYAML, body: "version: \"2.0\"\n", want: "not supported"},
		{name: "bad yaml", format: FormatYAML, body: "commands: [", want: "decode yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body), tt.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse(nil, FormatYAML)
	require.NoError(t, err)
	assert.Zero(t, c.CommandCount())
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name string
		cmd  CommandSpec
		want string
	}{
		{name: "bad command name", cmd: CommandSpec{Name: "9lives"}, want: "invalid identifier"},
		{name: "unknown type", cmd: CommandSpec{Name: "x", Params: []ParamSpec{{Name: "a", Type: "date"}}}, want: `unknown type "date"`},
		{name: "default without optional", cmd: CommandSpec{Name: "x", Params: []ParamSpec{{Name: "a", Type: "int", Default: 3}}}, want: "requires optional"},
		{name: "bad default", cmd: CommandSpec{Name: "x", Params: []ParamSpec{{Name: "a", Type: "int", Optional: true, Default: "three"}}}, want: "default"},
		{name: "default outside values", cmd: CommandSpec{Name: "x", Params: []ParamSpec{{Name: "a", Optional: true, Default: "c", Values: []string{"a", "b"}}}}, want: "default"},
		{name: "values on int", cmd: CommandSpec{Name: "x", Params: []ParamSpec{{Name: "a", Type: "int", Values: []string{"1"}}}}, want: "string parameters only"},
		{name: "optional flag", cmd: CommandSpec{Name: "x", Params: []ParamSpec{{Name: "f", Type: "flag", Optional: true}}}, want: "flags"},
		{name: "unknown placeholder", cmd: CommandSpec{Name: "x", Output: "${nope}"}, want: "unknown parameters nope"},
		{name: "lazy without env", cmd: CommandSpec{Name: "x", Params: []ParamSpec{{Name: "a", Optional: true, Default: "b", Lazy: true}}}, want: "lazy applies"},
		{name: "duplicate param", cmd: CommandSpec{Name: "x", Params: []ParamSpec{{Name: "a"}, {Name: "a"}}}, want: "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Catalog{Directories: []DirectorySpec{{Name: "d", Commands: []CommandSpec{tt.cmd}}}}
			err := c.Register(namespace.NewRoot(), noEnv)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRegister_Collision(t *testing.T) {
	root := namespace.NewRoot()
	builtin := namespace.NewCommand("ping", "").Executor(func(context.Context, params.Args, cmdtypes.Output) error { return nil }).MustBuild()
	require.NoError(t, root.AddCommands(builtin))

	c, err := Load("testdata/catalog.yaml")
	require.NoError(t, err)
	err = c.Register(root, noEnv)
	assert.ErrorIs(t, err, cmdtypes.ErrDuplicateName)
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("a/b.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	f, err = FormatOf("c.toml")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)
	_, err = FormatOf("c.json")
	assert.Error(t, err)
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("commands:\n  - name: one\n"), 0o600))

	w, err := NewWatcher(path, 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loads := make(chan *Catalog, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(c *Catalog) {
			select {
			case loads <- c:
			default:
			}
		})
	}()

	// An invalid intermediate file is skipped.
	require.NoError(t, os.WriteFile(path, []byte("commands: ["), 0o600))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("commands:\n  - name: one\n  - name: two\n"), 0o600))

	// A write may be observed half done, so wait for the final content.
	deadline := time.After(5 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case c := <-loads:
			reloaded = c.CommandCount() == 2
		case <-deadline:
			t.Fatal("no reload")
		}
	}

	cancel()
	assert.NoError(t, <-done)
}
