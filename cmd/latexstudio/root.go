package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/latexstudio/pkg/latexstudio"
	"github.com/arthur-debert/latexstudio/pkg/latexstudio/commands"
	"github.com/arthur-debert/latexstudio/pkg/latexstudio/config"
	"github.com/arthur-debert/latexstudio/pkg/latexstudio/dispatch"
	"github.com/arthur-debert/latexstudio/pkg/latexstudio/filesystem"
	"github.com/arthur-debert/latexstudio/pkg/latexstudio/host"
	"github.com/arthur-debert/latexstudio/pkg/latexstudio/plugin"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "latexstudio",
	Short: "Native backend for the LaTeX Studio editor",
	Long: `latexstudio is the native side of the LaTeX Studio markdown/LaTeX editor.
It exposes file commands (read_file, write_file, and the dialog stubs) to the
editor front end over a local IPC bridge.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error, off")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newInvokeCommand())
	rootCmd.AddCommand(newCommandsCommand())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the version number of latexstudio`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "latexstudio version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// loadConfig reads --config and applies --log-level on top of it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

// newApp builds the host with the built-in plugins and the file commands
// backed by the OS filesystem.
func newApp(ctx context.Context, cfg config.Config) (*host.App, error) {
	level, err := latexstudio.LogLevelFromString(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := latexstudio.NewLogger(os.Stderr, level)

	b := host.NewBuilder().WithLogger(logger)
	for _, p := range plugin.Builtins() {
		b.Plugin(p)
	}
	fsys := filesystem.NewOSFileSystem()
	return b.
		InvokeHandler(func(reg *dispatch.Registry) { commands.Register(reg, fsys) }).
		Build(ctx)
}

// contextOrBackground guards against commands run without ExecuteContext.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
