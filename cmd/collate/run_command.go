package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"collator/internal/collate"
	"collator/internal/failures"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run <object> <job>",
		Short: "Collate a single job into a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			label, err := jobLabel(cfg, args[1])
			if err != nil {
				return err
			}

			c := collate.New(collate.OptionsFromConfig(cfg), logger)
			res, err := c.Run(cmd.Context(), collate.Job{
				Dir:         cfg.Paths.ModelDir,
				Object:      args[0],
				JobID:       label,
				Destination: cfg.Paths.OutputDir,
			})
			if err != nil {
				return fmt.Errorf("collate %s job %s: %w", args[0], label, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s\n", res.Path)
			fmt.Fprintf(out, "Axes: %s\n", res.Axes)
			fmt.Fprintf(out, "Extinction applied: %s\n", yesNo(res.ExtinctionApplied))
			if res.Failed {
				fmt.Fprintf(out, "Failed: yes (%s)\n", failures.JoinReasons(res.Reasons))
			} else {
				fmt.Fprintln(out, "Failed: no")
			}
			return nil
		},
	}
}
