package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arteria/internal/history"
	"arteria/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories and configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.Run(cfg)
			results = append(results, checkHistory(cfg.History.Enabled, func() error {
				store, err := history.Open(cfg)
				if err != nil {
					return err
				}
				return store.Close()
			}))

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			failed := 0
			for _, r := range results {
				fmt.Fprintln(out, renderCheckLine(r.Name, r.Passed, r.Detail, colorize))
				if !r.Passed {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("doctor: %d check(s) failed", failed)
			}
			return nil
		},
	}
}

func checkHistory(enabled bool, open func() error) preflight.Result {
	const name = "History database"
	if !enabled {
		return preflight.Result{Name: name, Passed: true, Detail: "disabled"}
	}
	if err := open(); err != nil {
		return preflight.Result{Name: name, Detail: err.Error()}
	}
	return preflight.Result{Name: name, Passed: true, Detail: "schema ok"}
}
