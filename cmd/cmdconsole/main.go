// Package main is the cmdconsole entry point: an interactive console over a
// hierarchical command namespace, with a batch mode for scripts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cmdconsole/internal/catalog"
	"cmdconsole/internal/config"
	"cmdconsole/internal/logger"
	"cmdconsole/internal/shell"
	"cmdconsole/internal/version"
)

var (
	cfgFile   string
	keepGoing bool
	cursor    int
	detailed  bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cmdconsole",
	Short: "Interactive console over a command catalog",
	Long: `cmdconsole resolves lines such as "tools/math/add 1 b=true" against a
tree of directories and commands, with tab completion, history and
did-you-mean suggestions. Commands come from a YAML or TOML catalog.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShell,
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive console",
	RunE:  runShell,
}

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Execute a file of console lines",
	Long: `Execute one console line per line of the file. Blank lines and lines
starting with # are skipped. Execution stops at the first failing line
unless --keep-going is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var completeCmd = &cobra.Command{
	Use:   "complete <line>",
	Short: "Print the completion of a line",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		if detailed {
			fmt.Println(version.GetDetailedVersion())
			return
		}
		fmt.Println(version.GetFormattedVersion())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/cmdconsole/config.yaml)")
	flags.String("log-level", "", "log level (debug|info|warn|error) [default: warn]")
	flags.String("log-file", "", "write logs to file instead of stderr")
	flags.String("catalog", "", "command catalog file (.yaml or .toml)")
	flags.Bool("test-mode", false, "deterministic output: no color, no .env files")

	for key, flag := range map[string]string{
		config.KeyLogLevel: "log-level",
		config.KeyLogFile:  "log-file",
		config.KeyCatalog:  "catalog",
		config.KeyTestMode: "test-mode",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
			os.Exit(1)
		}
	}

	batchCmd.Flags().BoolVar(&keepGoing, "keep-going", false, "continue after failing lines")
	completeCmd.Flags().IntVar(&cursor, "cursor", -1, "byte offset of the cursor (default end of line)")
	versionCmd.Flags().BoolVar(&detailed, "detailed", false, "show detailed build information")

	rootCmd.AddCommand(shellCmd, batchCmd, completeCmd, versionCmd)
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	var err error
	if cfg, err = config.Load(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile, cfg.TestMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

func newConsole() (*shell.Console, error) {
	var cat *catalog.Catalog
	if cfg.Catalog != "" {
		var err error
		if cat, err = catalog.Load(cfg.Catalog); err != nil {
			return nil, err
		}
		logger.CatalogEvent("loaded", cfg.Catalog, "commands", cat.CommandCount())
	}
	return shell.New(cfg, cat, os.Stdout, os.Stderr)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM)
}

func runShell(_ *cobra.Command, _ []string) error {
	logger.Info("Starting cmdconsole", "version", version.Version)
	c, err := newConsole()
	if err != nil {
		return err
	}
	if !cfg.TestMode {
		fmt.Println(version.GetFormattedVersion())
		fmt.Println("Type 'help' for help, 'ls' to list commands, 'exit' to quit.")
	}

	ctx, stop := signalContext()
	defer stop()
	return c.Run(ctx)
}

func runBatch(_ *cobra.Command, args []string) error {
	path := args[0]
	logger.Info("Starting batch", "version", version.Version, "script", path)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	c, err := newConsole()
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()
	if err := c.RunBatch(ctx, f, keepGoing); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("Batch finished", "script", path)
	return nil
}

func runComplete(_ *cobra.Command, args []string) error {
	c, err := newConsole()
	if err != nil {
		return err
	}
	line := args[0]
	at := cursor
	if at < 0 {
		at = len(line)
	}
	fmt.Print(shell.FormatCompletion(c.Complete(line, at)))
	return nil
}
