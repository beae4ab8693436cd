// Package builtin provides the commands every console has regardless of its
// catalog: help, ls, cd, pwd, history, echo and exit.
package builtin

import (
	"context"
	"fmt"

	"cmdconsole/internal/render"
	"cmdconsole/pkg/assist"
	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/history"
	"cmdconsole/pkg/namespace"
	"cmdconsole/pkg/params"
)

// Session is the console state the builtins operate on.
type Session interface {
	Engine() *assist.Engine
	History() *history.History
	Renderer() *render.Renderer
	// Exit asks the console to stop after the current line.
	Exit()
}

// Names lists the builtin command names.
var Names = []string{"cd", "echo", "exit", "help", "history", "ls", "pwd"}

// Register adds the builtins to the root directory.
func Register(root *namespace.Builder, s Session) error {
	if err := root.AddCommands(Commands(s)...); err != nil {
		return fmt.Errorf("builtin: %w", err)
	}
	return nil
}

// Commands builds the builtin commands bound to s.
func Commands(s Session) []*namespace.Command {
	none := params.Const("")
	return []*namespace.Command{
		namespace.NewCommand("help", "Describe a command or directory").
			OptionalString("topic", "command or directory path", none).
			Executor(func(_ context.Context, args params.Args, out cmdtypes.Output) error {
				return help(s, args.String("topic"), out)
			}).MustBuild(),

		namespace.NewCommand("ls", "List a directory").
			OptionalString("path", "directory to list", none).
			Executor(func(_ context.Context, args params.Args, out cmdtypes.Output) error {
				dir := s.Engine().Directory()
				if p := args.String("path"); p != "" {
					var err error
					if dir, _, err = s.Engine().Resolve(p); err != nil {
						return err
					}
				}
				if dir.IsEmpty() {
					return nil
				}
				r := s.Renderer()
				out.Message(r.Columns(r.Entries(dir.Entries().Values())))
				return nil
			}).MustBuild(),

		namespace.NewCommand("cd", "Change the working directory").
			OptionalString("path", "target directory; the root when omitted", none).
			Executor(func(_ context.Context, args params.Args, _ cmdtypes.Output) error {
				return s.Engine().ChangeDirectory(args.String("path"))
			}).MustBuild(),

		namespace.NewCommand("pwd", "Print the working directory").
			Executor(func(_ context.Context, _ params.Args, out cmdtypes.Output) error {
				out.Message(s.Engine().WorkingDirectory().String())
				return nil
			}).MustBuild(),

		namespace.NewCommand("history", "List previous lines").
			Executor(func(_ context.Context, _ params.Args, out cmdtypes.Output) error {
				for i, line := range s.History().Entries() {
					out.Messagef("%4d  %s", i+1, line)
				}
				return nil
			}).MustBuild(),

		namespace.NewCommand("echo", "Print a word").
			OptionalString("text", "text to print", none).
			Executor(func(_ context.Context, args params.Args, out cmdtypes.Output) error {
				out.Message(args.String("text"))
				return nil
			}).MustBuild(),

		namespace.NewCommand("exit", "Leave the console").
			Executor(func(context.Context, params.Args, cmdtypes.Output) error {
				s.Exit()
				return nil
			}).MustBuild(),
	}
}
