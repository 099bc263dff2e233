package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMetadataCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "metadata <runfolder>",
		Short: "Print identifying metadata from the run parameters",
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

			metadata := rf.Metadata()
			if asJSON {
				return writeJSON(cmd, metadata)
			}

			out := cmd.OutOrStdout()
			if len(metadata) == 0 {
				fmt.Fprintln(out, "No metadata found")
				return nil
			}
			rows := make([][]string, 0, len(metadata))
			for _, key := range metadata.Keys() {
				rows = append(rows, []string{key, metadata[key]})
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
