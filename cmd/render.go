package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	service "github.com/okian/medbench/internal/app"
	"github.com/okian/medbench/internal/domain/diagnostics"
)

func newRenderCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Compute every frontier once and write the chart files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx, flags)
			if err != nil {
				return err
			}
			log, err := setupLogging(ctx, cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			c, err := build(cfg, log)
			if err != nil {
				return err
			}

			res, err := c.svc.Run(ctx)
			if res != nil {
				printSummary(cmd.OutOrStdout(), res)
			}
			return err
		},
	}
}

// printSummary writes a human readable run report.
func printSummary(w io.Writer, res *service.Result) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", bold("run"), res.RunID)
	for _, s := range res.Series {
		if s.Empty() {
			fmt.Fprintf(w, "  %-12s %s\n", s.Name, yellow("no data"))
			continue
		}
		sota, _ := s.SOTA()
		fmt.Fprintf(w, "  %-12s %3d records  %2d frontier points  %s %s (%.1f%%, %s)\n",
			s.Name, res.Records[s.Benchmark], len(s.Points),
			green("SOTA"), sota.Model, sota.ScorePercent, sota.Date)
	}

	if n := res.Diagnostics.Len(); n > 0 {
		counts := res.Diagnostics.Counts()
		kinds := make([]string, 0, len(counts))
		for k := range counts {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		fmt.Fprintf(w, "%s %d\n", yellow("diagnostics"), n)
		for _, k := range kinds {
			fmt.Fprintf(w, "  %-22s %d\n", k, counts[diagnostics.Kind(k)])
		}
		for _, d := range res.Diagnostics.Items() {
			fmt.Fprintf(w, "  - %s\n", d.Error())
		}
	}

	for _, a := range res.Artifacts {
		fmt.Fprintf(w, "%s %s\n", cyan("wrote"), a.Path)
	}
}
