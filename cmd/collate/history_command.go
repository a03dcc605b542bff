package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"collator/internal/failures"
	"collator/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var batchID, object, status string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show job outcomes recorded by batches",
		Long: "Show job outcomes recorded by batches. Without filters the most recent\n" +
			"batch is shown.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			l, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer l.Close()

			var entries []ledger.Entry
			out := cmd.OutOrStdout()
			switch {
			case strings.TrimSpace(batchID) != "":
				entries, err = l.ListBatch(cmd.Context(), batchID)
			case object != "" || status != "" || limit > 0:
				f := ledger.Filter{Object: object, Limit: limit}
				if status != "" {
					s, ok := ledger.ParseStatus(status)
					if !ok {
						return fmt.Errorf("unknown status %q (want ok, degraded or fatal)", status)
					}
					f.Status = s
				}
				entries, err = l.History(cmd.Context(), f)
			default:
				var latest string
				latest, err = l.LatestBatch(cmd.Context())
				if err == nil && latest != "" {
					fmt.Fprintf(out, "Batch %s\n", latest)
					entries, err = l.ListBatch(cmd.Context(), latest)
				}
			}
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No ledger entries")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				detail := failures.JoinReasons(e.Reasons)
				if e.Error != "" {
					detail = e.ErrorKind + ": " + e.Error
				}
				rows = append(rows, []string{
					e.FinishedAt.Local().Format("2006-01-02 15:04:05"),
					shortID(e.BatchID),
					e.Object,
					e.JobID,
					string(e.Status),
					detail,
				})
			}
			writeRows(out, []string{"FINISHED", "BATCH", "OBJECT", "JOB", "STATUS", "DETAIL"}, rows, nil)
			return nil
		},
	}

	cmd.Flags().StringVarP(&batchID, "batch", "b", "", "Show one batch by id")
	cmd.Flags().StringVarP(&object, "object", "o", "", "Filter by object name")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status: ok, degraded or fatal")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum entries to show")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
