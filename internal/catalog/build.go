package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"cmdconsole/internal/logger"
	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/namespace"
	"cmdconsole/pkg/params"
)

// EnvLookup reads an environment variable. config.Config.LookupEnv and
// os.LookupEnv both satisfy it.
type EnvLookup func(key string) (string, bool)

// Register adds every directory and command of c to root. Name collisions
// with entries already in root are errors.
func (c *Catalog) Register(root *namespace.Builder, env EnvLookup) error {
	if env == nil {
		env = os.LookupEnv
	}
	return registerInto(root, cmdtypes.Root(), c.Commands, c.Directories, env)
}

func registerInto(b *namespace.Builder, at cmdtypes.Path, cmds []CommandSpec, dirs []DirectorySpec, env EnvLookup) error {
	built := make([]*namespace.Command, 0, len(cmds))
	for _, spec := range cmds {
		cmd, err := spec.build(env)
		if err != nil {
			return fmt.Errorf("%s: %w", at.Child(spec.Name), err)
		}
		built = append(built, cmd)
	}
	if err := b.AddCommands(built...); err != nil {
		return fmt.Errorf("%s: %w", at, err)
	}

	for _, d := range dirs {
		child, err := b.GetOrCreateChildDirectory(d.Name)
		if err != nil {
			return fmt.Errorf("%s: %w", at, err)
		}
		if d.Description != "" {
			if err := child.SetDescription(d.Description); err != nil {
				return err
			}
		}
		if err := registerInto(child, at.Child(d.Name), d.Commands, d.Directories, env); err != nil {
			return err
		}
	}
	return nil
}

func (s CommandSpec) build(env EnvLookup) (*namespace.Command, error) {
	cb := namespace.NewCommand(s.Name, s.Description)
	names := make(map[string]bool, len(s.Params))
	var errs []error
	for _, p := range s.Params {
		def, err := p.build(env)
		if err != nil {
			errs = append(errs, fmt.Errorf("parameter %q: %w", p.Name, err))
			continue
		}
		names[p.Name] = true
		cb.Param(def)
	}
	for _, tmpl := range []string{s.Output, s.Fail} {
		if unknown := placeholders(tmpl, names); len(unknown) > 0 {
			errs = append(errs, fmt.Errorf("template references unknown parameters %s", strings.Join(unknown, ", ")))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cb.Executor(s.executor()).Build()
}

// executor writes the expanded output template, then fails with the
// expanded fail message if one is declared.
func (s CommandSpec) executor() namespace.Executor {
	return func(ctx context.Context, args params.Args, out cmdtypes.Output) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		expand := func(name string) string {
			v, ok := args.Get(name)
			if !ok {
				return ""
			}
			return fmt.Sprint(v)
		}
		if s.Output != "" {
			for line := range strings.SplitSeq(strings.TrimRight(os.Expand(s.Output, expand), "\n"), "\n") {
				out.Message(line)
			}
		}
		if s.Fail != "" {
			return errors.New(os.Expand(s.Fail, expand))
		}
		return nil
	}
}

// placeholders returns the ${name} references of tmpl missing from known,
// sorted.
func placeholders(tmpl string, known map[string]bool) []string {
	seen := map[string]bool{}
	os.Expand(tmpl, func(name string) string {
		if !known[name] {
			seen[name] = true
		}
		return ""
	})
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (p ParamSpec) build(env EnvLookup) (params.Def, error) {
	id, err := cmdtypes.NewIdentifier(p.Name, p.Description)
	if err != nil {
		return nil, err
	}
	kind := strings.ToLower(p.Type)
	if kind != "" && kind != "string" && (len(p.Values) > 0 || p.ValuesEnv != "") {
		return nil, fmt.Errorf("values apply to string parameters only")
	}
	if !p.Optional && (p.Default != nil || p.DefaultEnv != "") {
		return nil, fmt.Errorf("a default requires optional: true")
	}
	if p.Lazy && p.DefaultEnv == "" {
		return nil, fmt.Errorf("lazy applies to default_env only")
	}

	switch kind {
	case "flag":
		if p.Optional {
			return nil, fmt.Errorf("flags are always optional and take no default")
		}
		return params.NewFlag(id), nil
	case "bool":
		if !p.Optional {
			return params.NewBool(id), nil
		}
		d, err := defaultOf[bool](params.NewBool(id), p, env)
		return params.NewOptionalBool(id, d), err
	case "int":
		if !p.Optional {
			return params.NewInt(id), nil
		}
		d, err := defaultOf[int64](params.NewInt(id), p, env)
		return params.NewOptionalInt(id, d), err
	case "double":
		if !p.Optional {
			return params.NewDouble(id), nil
		}
		d, err := defaultOf[float64](params.NewDouble(id), p, env)
		return params.NewOptionalDouble(id, d), err
	case "", "string":
		src := p.valueSource(env)
		if !p.Optional {
			def := params.NewString(id)
			if src != nil {
				def = def.WithValues(src)
			}
			return def, nil
		}
		probe := params.NewString(id)
		if len(p.Values) > 0 {
			probe = probe.WithValues(params.StaticValues(p.Values...))
		}
		d, err := defaultOf[string](probe, p, env)
		def := params.NewOptionalString(id, d)
		if src != nil {
			def = def.WithValues(src)
		}
		return def, err
	}
	return nil, fmt.Errorf("unknown type %q", p.Type)
}

// defaultOf parses the static default against probe and, when DefaultEnv is
// set, wraps it in a supplier that prefers the variable's value. A lazy
// supplier reads the variable at most once.
func defaultOf[T any](probe params.Def, p ParamSpec, env EnvLookup) (params.Default[T], error) {
	var static T
	if p.Default != nil {
		v, err := params.Parse(probe, fmt.Sprint(p.Default))
		if err != nil {
			return params.Default[T]{}, fmt.Errorf("default: %w", err)
		}
		static = v.(T)
	}
	if p.DefaultEnv == "" {
		return params.Const(static), nil
	}
	supply := params.Supplied[T]
	if p.Lazy {
		supply = params.Lazy[T]
	}
	return supply(func() T {
		raw, ok := env(p.DefaultEnv)
		if !ok {
			return static
		}
		v, err := params.Parse(probe, raw)
		if err != nil {
			logger.Warn("Ignoring environment default", "param", p.Name, "env", p.DefaultEnv, "error", err)
			return static
		}
		return v.(T)
	}), nil
}

func (p ParamSpec) valueSource(env EnvLookup) params.ValueSource {
	if p.ValuesEnv != "" {
		static := append([]string(nil), p.Values...)
		key := p.ValuesEnv
		return func() []string {
			if raw, ok := env(key); ok {
				return splitList(raw)
			}
			return static
		}
	}
	if len(p.Values) > 0 {
		return params.StaticValues(p.Values...)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
