package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/joshuapare/flagrecon/internal/config"
	"github.com/joshuapare/flagrecon/internal/logger"
	"github.com/joshuapare/flagrecon/internal/render"
	"github.com/joshuapare/flagrecon/internal/samples"
	"github.com/joshuapare/flagrecon/pkg/recon"
)

const usageLine = "flagrecon <output_file>"

// globalOptions holds flags shared by every command.
type globalOptions struct {
	verbose    bool
	quiet      bool
	jsonOut    bool
	configPath string
	threshold  float64
	workers    int

	// cfg is resolved in PersistentPreRunE.
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	var (
		encoding    string
		placeholder string
		showBits    bool
	)

	cmd := &cobra.Command{
		Use:   usageLine,
		Short: "Reconstruct a flag from noisy hexadecimal side-channel samples",
		Long: `flagrecon estimates the most likely value of a fixed-length bit-string from
many noisy hexadecimal observations of it. Each bit position is resolved by
how often it was observed as 1: above the threshold it is 1, below
1-threshold it is 0, and anything in between is uncertain. Bytes holding an
uncertain bit are printed as '?'.

Example:
  flagrecon outputs.txt
  flagrecon outputs.txt --threshold 0.6 --bits
  flagrecon outputs.txt --encoding hex --json`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			return checkArgs(args, 1, usageLine)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd, encoding, placeholder)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconstruct(cmd.Context(), cmd.OutOrStdout(), opts, args[0], showBits)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable diagnostic logging on stderr")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "Print only the result")
	pf.BoolVar(&opts.jsonOut, "json", false, "Output in JSON format")
	pf.StringVar(&opts.configPath, "config", "", "YAML config file (default $"+config.EnvConfig+")")
	pf.Float64VarP(&opts.threshold, "threshold", "t", recon.DefaultThreshold, "Confidence cutoff in (0.5, 1]")
	pf.IntVarP(&opts.workers, "workers", "w", 1, "Aggregate samples across this many goroutines")

	f := cmd.Flags()
	f.StringVarP(&encoding, "encoding", "e", string(render.DefaultEncoding), "Byte presentation: latin1, windows-1252, raw, hex")
	f.StringVar(&placeholder, "placeholder", render.DefaultPlaceholder, "Marker for undetermined bytes")
	f.BoolVar(&showBits, "bits", false, "Also print the per-bit classification")

	cmd.AddCommand(newStatsCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "err", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

// resolve layers explicit flags over the loaded config and sets up logging.
// encoding and placeholder only apply when cmd defines those flags.
func (o *globalOptions) resolve(cmd *cobra.Command, encoding, placeholder string) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.Threshold = o.threshold
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("encoding") {
		cfg.Encoding = encoding
	}
	if flags.Changed("placeholder") {
		cfg.Placeholder = placeholder
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.Init(logger.Options{
		Enabled: o.verbose && !o.quiet,
		Writer:  cmd.ErrOrStderr(),
		Level:   level,
	})
	logger.Debug("configuration resolved",
		"threshold", cfg.Threshold,
		"encoding", cfg.Encoding,
		"workers", cfg.Workers,
	)

	o.cfg = cfg
	return nil
}

// reconstructReport is the --json shape of a reconstruction.
type reconstructReport struct {
	Path         string  `json:"path"`
	Samples      int     `json:"samples"`
	Width        int     `json:"width"`
	Threshold    float64 `json:"threshold"`
	Encoding     string  `json:"encoding"`
	Flag         string  `json:"flag"`
	Bits         string  `json:"bits"`
	UnknownBytes int     `json:"unknown_bytes"`
}

// reconstructFile runs the full pipeline on the samples at path.
func reconstructFile(ctx context.Context, cfg *config.Config, path string) (*samples.Set, *recon.Result, error) {
	set, err := samples.Load(path)
	if err != nil {
		return nil, nil, err
	}
	seqs, err := set.Sequences()
	if err != nil {
		return nil, nil, err
	}
	res, err := recon.Run(ctx, seqs, recon.Options{
		Threshold: cfg.Threshold,
		Workers:   cfg.Workers,
	})
	if err != nil {
		return nil, nil, err
	}
	return set, res, nil
}

func runReconstruct(ctx context.Context, out io.Writer, o *globalOptions, path string, showBits bool) error {
	cfg := o.cfg
	set, res, err := reconstructFile(ctx, cfg, path)
	if err != nil {
		return err
	}

	text, err := render.Text(res.Value, render.Encoding(cfg.Encoding), cfg.Placeholder)
	if err != nil {
		return err
	}
	bitsLine := render.Bits(res.Classes)

	if o.jsonOut {
		return printJSON(out, reconstructReport{
			Path:         set.Path,
			Samples:      set.Len(),
			Width:        set.Width,
			Threshold:    res.Threshold,
			Encoding:     cfg.Encoding,
			Flag:         text,
			Bits:         bitsLine,
			UnknownBytes: res.Value.Unknown(),
		})
	}

	if o.quiet {
		fmt.Fprintln(out, text)
		return nil
	}
	fmt.Fprintf(out, "Reconstructed Flag (Uncertain bits marked as '%s'):\n%s\n", cfg.Placeholder, text)
	if showBits {
		fmt.Fprintf(out, "Bits: %s\n", bitsLine)
	}
	return nil
}

// printJSON outputs data as indented JSON.
func printJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// checkArgs validates that the correct number of arguments were provided
func checkArgs(args []string, expected int, usage string) error {
	if len(args) != expected {
		return fmt.Errorf("expected %d argument(s), got %d\nUsage: %s", expected, len(args), usage)
	}
	return nil
}
