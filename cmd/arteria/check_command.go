package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arteria/internal/runfolder"
)

type checkReport struct {
	Runfolder        string             `json:"runfolder"`
	ParameterFile    string             `json:"parameter_file"`
	CompletionMarker string             `json:"completion_marker"`
	RunID            string             `json:"run_id,omitempty"`
	Instrument       string             `json:"instrument,omitempty"`
	State            string             `json:"state"`
	Metadata         runfolder.Metadata `json:"metadata"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check <runfolder>",
		Short: "Validate a runfolder and initialize its state sidecar",
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
			params := rf.Parameters()
			runID, _ := params.RunID()
			instrumentType, _ := params.InstrumentType()
			report := checkReport{
				Runfolder:        rf.Path(),
				ParameterFile:    rf.ParameterFile(),
				CompletionMarker: rf.CompletionMarker(),
				RunID:            runID,
				Instrument:       instrumentType,
				State:            current.String(),
				Metadata:         rf.Metadata(),
			}

			if asJSON {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			pairs := [][2]string{
				{"Runfolder", report.Runfolder},
				{"Parameter file", report.ParameterFile},
				{"Completion marker", report.CompletionMarker},
				{"Run ID", valueOrDash(report.RunID)},
				{"Instrument", valueOrDash(report.Instrument)},
				{"State", stateLabel(current, colorize)},
			}
			for _, key := range report.Metadata.Keys() {
				pairs = append(pairs, [2]string{key, report.Metadata[key]})
			}
			fmt.Fprintln(out, renderKeyValues(pairs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
