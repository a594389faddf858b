package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newInvokeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoke [command] [args-json]",
		Short: "Invoke a command in-process",
		Long: `Invoke a registered command without starting the bridge and print its JSON result.
On failure the command's error message is printed and the exit status is 1.

  latexstudio invoke read_file '{"path":"notes.md"}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw json.RawMessage
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return fmt.Errorf("args for %s are not valid JSON", args[0])
				}
				raw = json.RawMessage(args[1])
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := contextOrBackground(cmd.Context())
			app, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}

			result, err := app.Invoke(ctx, args[0], raw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(result))
			return nil
		},
	}

	return cmd
}

func newCommandsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the commands exposed to the front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, err := newApp(contextOrBackground(cmd.Context()), cfg)
			if err != nil {
				return err
			}
			for _, name := range app.Commands() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
