package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joshuapare/flagrecon/pkg/recon"
)

func newStatsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <output_file>",
		Short: "Show per-bit frequencies and classifications",
		Long: `The stats command aggregates the samples and prints, for every bit
position, how many samples held a 1, the resulting frequency and the
classification under the configured threshold.

Example:
  flagrecon stats outputs.txt
  flagrecon stats outputs.txt --threshold 0.7 --json`,
		Args: func(cmd *cobra.Command, args []string) error {
			return checkArgs(args, 1, "flagrecon stats <output_file>")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, opts, args[0])
		},
	}
	return cmd
}

// BitStat describes one bit position.
type BitStat struct {
	Position  int     `json:"position"`
	Ones      int     `json:"ones"`
	Frequency float64 `json:"frequency"`
	Class     string  `json:"class"`
}

// StatsReport is the stats command's output.
type StatsReport struct {
	Path      string    `json:"path"`
	Samples   int       `json:"samples"`
	Width     int       `json:"width"`
	Threshold float64   `json:"threshold"`
	Unknown   int       `json:"unknown_bits"`
	Bits      []BitStat `json:"bits"`
}

func runStats(cmd *cobra.Command, opts *globalOptions, path string) error {
	set, res, err := reconstructFile(cmd.Context(), opts.cfg, path)
	if err != nil {
		return err
	}

	report := StatsReport{
		Path:      set.Path,
		Samples:   set.Len(),
		Width:     res.Table.Width(),
		Threshold: res.Threshold,
		Bits:      make([]BitStat, 0, res.Table.Width()),
	}
	for i, c := range res.Classes {
		if c == recon.Unknown {
			report.Unknown++
		}
		report.Bits = append(report.Bits, BitStat{
			Position:  i,
			Ones:      res.Table.Ones(i),
			Frequency: res.Table.Frequency(i),
			Class:     c.String(),
		})
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		return printJSON(out, report)
	}
	return printStats(out, report, opts.quiet)
}

func printStats(out io.Writer, r StatsReport, quiet bool) error {
	if !quiet {
		fmt.Fprintf(out, "File:      %s\n", r.Path)
		fmt.Fprintf(out, "Samples:   %d\n", r.Samples)
		fmt.Fprintf(out, "Width:     %d bits\n", r.Width)
		fmt.Fprintf(out, "Threshold: %.2f\n", r.Threshold)
		fmt.Fprintf(out, "Uncertain: %d of %d bits\n\n", r.Unknown, r.Width)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BIT\tBYTE\tONES\tFREQ\tCLASS")
	for _, b := range r.Bits {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%.4f\t%s\n", b.Position, b.Position/8, b.Ones, b.Frequency, b.Class)
	}
	return tw.Flush()
}
