package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"collator/internal/audit"
	"collator/internal/components"
	"collator/internal/failures"
	"collator/internal/record"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var dir, kind, total string

	cmd := &cobra.Command{
		Use:   "show <object> <job>",
		Short: "Summarize a record's axes, or print its total spectrum",
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
			label, err := jobLabel(cfg, args[1])
			if err != nil {
				return err
			}
			model, err := record.Read(filepath.Join(target, record.FileName(args[0], label, k == audit.OptThin)))
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("total") {
				return printTotal(cmd, model, total)
			}
			return printSummary(cmd, model)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Record directory (defaults to output_dir)")
	cmd.Flags().StringVarP(&kind, "kind", "k", "disk", "Record kind: disk or optthin")
	cmd.Flags().StringVar(&total, "total", "", "Print wavelength and summed flux of the listed components (all when empty)")
	cmd.Flags().Lookup("total").NoOptDefVal = " "
	return cmd
}

func printSummary(cmd *cobra.Command, m *record.Model) error {
	out := cmd.OutOrStdout()
	h := m.Header
	fmt.Fprintf(out, "Record: %s\n", m.Path)
	fmt.Fprintf(out, "Object: %s  Job: %s\n", h.Object(), h.JobID())
	fmt.Fprintf(out, "Grid size: %d\n", m.Table.GridSize())
	fmt.Fprintf(out, "Optically thin: %s\n", yesNo(h.OptThin()))
	fmt.Fprintf(out, "Extinction applied: %s\n", yesNo(h.ExtinctionApplied()))
	if h.Failed() {
		fmt.Fprintf(out, "Failed: yes (%s)\n", failures.JoinReasons(h.Reasons()))
	} else {
		fmt.Fprintln(out, "Failed: no")
	}

	kinds := m.Table.Axes().Kinds()
	if len(kinds) == 0 {
		fmt.Fprintln(out, "No axes")
		return nil
	}
	rows := make([][]string, 0, len(kinds))
	for i, kind := range kinds {
		row, _ := m.Table.Row(kind)
		lo, hi := bounds(row)
		rows = append(rows, []string{strconv.Itoa(i), kind.String(), formatFloat(lo), formatFloat(hi)})
	}
	writeRows(out, []string{"INDEX", "AXIS", "MIN", "MAX"}, rows, []columnAlignment{alignRight, alignLeft, alignRight, alignRight})
	return nil
}

func printTotal(cmd *cobra.Command, m *record.Model, list string) error {
	var kinds []components.Kind
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		kind, ok := components.ParseKind(strings.ToLower(name))
		if !ok {
			return fmt.Errorf("unknown component %q", name)
		}
		kinds = append(kinds, kind)
	}
	wl, err := m.Column(components.Wavelength)
	if err != nil {
		return err
	}
	sum, err := m.Total(kinds...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i := range wl {
		fmt.Fprintf(out, "%s\t%s\n", formatFloat(wl[i]), formatFloat(sum[i]))
	}
	return nil
}

func bounds(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
