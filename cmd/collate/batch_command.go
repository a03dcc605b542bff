package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"collator/internal/batch"
	"collator/internal/failures"
	"collator/internal/jobid"
	"collator/internal/ledger"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "batch <object> <jobs>",
		Short: "Collate many jobs in parallel",
		Long: "Collate many jobs in parallel. Jobs are given as a list of numbers and\n" +
			"inclusive ranges, for example 1-120,200. Every job is attempted; a job\n" +
			"that fails never stops the others.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			numbers, err := jobid.ParseList(args[1])
			if err != nil {
				return fmt.Errorf("parse job list: %w", err)
			}
			labels, err := jobid.FormatAll(numbers, cfg.Collate.HighLabels)
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.Batch.Workers = workers
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			var opts []batch.Option
			if cfg.Batch.Ledger {
				l, err := ledger.Open(cfg)
				if err != nil {
					return fmt.Errorf("open ledger: %w", err)
				}
				defer l.Close()
				opts = append(opts, batch.WithLedger(l))
			}

			summary, runErr := batch.New(cfg, logger, opts...).Run(cmd.Context(), batch.Request{
				Object: args[0],
				Jobs:   labels,
			})
			if runErr != nil && len(summary.Results) == 0 {
				return runErr
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(summary.Results))
			for _, r := range summary.Results {
				detail := failures.JoinReasons(r.Result.Reasons)
				if r.Err != nil {
					detail = r.Err.Error()
				}
				rows = append(rows, []string{
					r.JobID,
					string(r.Status),
					r.Result.Axes.String(),
					detail,
				})
			}
			writeRows(out, []string{"JOB", "STATUS", "AXES", "DETAIL"}, rows, nil)
			fmt.Fprintf(out, "Batch %s: %d ok, %d degraded, %d fatal\n",
				summary.BatchID,
				summary.Count(ledger.StatusOK),
				summary.Count(ledger.StatusDegraded),
				summary.Count(ledger.StatusFatal),
			)

			if runErr != nil {
				return runErr
			}
			if fatal := summary.Count(ledger.StatusFatal); fatal > 0 {
				return fmt.Errorf("%d of %d jobs wrote no record", fatal, len(summary.Results))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Worker count override")
	return cmd
}
