package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"collator/internal/audit"
	"collator/internal/failures"
)

func recordDir(ctx *commandContext, dirFlag string) (string, error) {
	if v := strings.TrimSpace(dirFlag); v != "" {
		return v, nil
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.Paths.OutputDir, nil
}

func newFailcheckCommand(ctx *commandContext) *cobra.Command {
	var dir, kind string

	cmd := &cobra.Command{
		Use:   "failcheck [prefix]",
		Short: "List records flagged as failed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := recordDir(ctx, dir)
			if err != nil {
				return err
			}
			k, err := audit.ParseKind(kind)
			if err != nil {
				return err
			}
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			rep, err := audit.ScanFailures(target, prefix, k)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rep.Failed) > 0 {
				rows := make([][]string, 0, len(rep.Failed))
				for _, f := range rep.Failed {
					rows = append(rows, []string{f.Object, f.JobID, failures.JoinReasons(f.Reasons), f.Path})
				}
				writeRows(out, []string{"OBJECT", "JOB", "REASONS", "PATH"}, rows, nil)
			}
			for _, u := range rep.Unreadable {
				fmt.Fprintf(out, "Unreadable: %s (%v)\n", u.Path, u.Err)
			}
			fmt.Fprintf(out, "%d of %d %s records failed\n", len(rep.Failed), rep.Scanned, k)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Record directory (defaults to output_dir)")
	cmd.Flags().StringVarP(&kind, "kind", "k", "disk", "Record kind: disk or optthin")
	return cmd
}

func newDumpCommand(ctx *commandContext) *cobra.Command {
	var dir, kind, format string

	cmd := &cobra.Command{
		Use:   "dump <object> <job>",
		Short: "Print every tag of one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target, err := recordDir(ctx, dir)
			if err != nil {
				return err
			}
			k, err := audit.ParseKind(kind)
			if err != nil {
				return err
			}
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			label, err := jobLabel(cfg, args[1])
			if err != nil {
				return err
			}
			tags, err := audit.DumpMetadata(target, args[0], label, k)
			if err != nil {
				return err
			}

			if f != formatTable {
				type tagView struct {
					Key     string `json:"key" yaml:"key"`
					Value   any    `json:"value" yaml:"value"`
					Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
				}
				views := make([]tagView, len(tags))
				for i, t := range tags {
					views[i] = tagView{Key: t.Key, Value: t.Value, Comment: t.Comment}
				}
				return writeStructured(cmd, f, views)
			}
			rows := make([][]string, len(tags))
			for i, t := range tags {
				rows[i] = []string{t.Key, fmt.Sprint(t.Value), t.Comment}
			}
			writeRows(cmd.OutOrStdout(), []string{"KEY", "VALUE", "COMMENT"}, rows, nil)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Record directory (defaults to output_dir)")
	cmd.Flags().StringVarP(&kind, "kind", "k", "disk", "Record kind: disk or optthin")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "search <object> KEY=VALUE...",
		Short: "Find disk records whose parameters match every criterion",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := recordDir(ctx, dir)
			if err != nil {
				return err
			}
			criteria, err := audit.ParseCriteria(args[1:])
			if err != nil {
				return err
			}
			jobs, err := audit.Search(target, args[0], criteria)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No matching records")
				return nil
			}
			for _, j := range jobs {
				fmt.Fprintln(out, j)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Record directory (defaults to output_dir)")
	return cmd
}
