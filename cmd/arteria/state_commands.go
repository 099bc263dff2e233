package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"arteria/internal/runfolder"
	"arteria/internal/state"
)

func newStateCommand(ctx *commandContext) *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Read or write a runfolder's state",
	}

	stateCmd.AddCommand(newStateGetCommand(ctx))
	stateCmd.AddCommand(newStateSetCommand(ctx))
	return stateCmd
}

func newStateGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get <runfolder>",
		Short: "Print the current state token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(args[0])
			if err != nil {
				return err
			}
			rf, err := ctx.openRunfolder(cmd, path)
			if err != nil {
				return err
			}
			defer rf.close()

			current, err := rf.State()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), current.String())
			return nil
		},
	}
}

func newStateSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "set <runfolder> <state>",
		Short:     "Overwrite the state token",
		Long:      "Overwrite the state token. Valid states: " + stateNames() + ".",
		Args:      cobra.ExactArgs(2),
		ValidArgs: state.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := state.Parse(args[1])
			if err != nil {
				return fmt.Errorf("%w: %q (valid: %s)", runfolder.ErrInvalidState, args[1], stateNames())
			}
			path, err := absPath(args[0])
			if err != nil {
				return err
			}
			rf, err := ctx.openRunfolder(cmd, path)
			if err != nil {
				return err
			}
			defer rf.close()

			if err := rf.SetState(next); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s is now %s\n", rf.Name(), stateLabel(next, shouldColorize(out)))
			return nil
		},
	}
}

func stateNames() string {
	return strings.Join(state.Names(), ", ")
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	return abs, nil
}
