package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"arteria/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history [runfolder]",
		Short: "Show recorded state transitions",
		Long:  "Show recorded state transitions for one runfolder, or the most recent transitions across all runfolders.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errHistoryDisabled
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			var transitions []history.Transition
			if len(args) == 1 {
				path, err := absPath(args[0])
				if err != nil {
					return err
				}
				transitions, err = store.ForRunfolder(commandCtx(cmd), path, limit)
				if err != nil {
					return err
				}
			} else {
				transitions, err = store.Recent(commandCtx(cmd), limit)
				if err != nil {
					return err
				}
			}

			if asJSON {
				return writeJSON(cmd, transitionsJSON(transitions))
			}

			out := cmd.OutOrStdout()
			if len(transitions) == 0 {
				fmt.Fprintln(out, "No transitions recorded")
				return nil
			}
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(transitions))
			for _, t := range transitions {
				row := []string{
					strconv.FormatInt(t.ID, 10),
					t.At.Local().Format("2006-01-02 15:04:05"),
				}
				if len(args) == 0 {
					row = append(row, t.Runfolder)
				}
				row = append(row, stateLabel(t.From, colorize), stateLabel(t.To, colorize))
				rows = append(rows, row)
			}
			headers := []string{"ID", "When"}
			aligns := []columnAlignment{alignRight, alignLeft}
			if len(args) == 0 {
				headers = append(headers, "Runfolder")
				aligns = append(aligns, alignLeft)
			}
			headers = append(headers, "From", "To")
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of transitions to show (0 for all, runfolder view only)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

type transitionJSON struct {
	ID        int64  `json:"id"`
	Runfolder string `json:"runfolder"`
	From      string `json:"from,omitempty"`
	To        string `json:"to"`
	At        string `json:"at"`
}

func transitionsJSON(transitions []history.Transition) []transitionJSON {
	out := make([]transitionJSON, 0, len(transitions))
	for _, t := range transitions {
		out = append(out, transitionJSON{
			ID:        t.ID,
			Runfolder: t.Runfolder,
			From:      string(t.From),
			To:        string(t.To),
			At:        t.At.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}
	return out
}
