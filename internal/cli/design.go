// internal/cli/design.go
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"grnafinder/internal/config"
	"grnafinder/internal/logging"
	"grnafinder/internal/output"
	"grnafinder/internal/pipeline"
)

var (
	inputFile   string
	guideLength int
	genomePath  string
	mismatches  int
	bulge       int
	stringency  string
	enginePath  string
	device      string
	keepTemp    bool
	outPath     string
	outFormat   string
	noHeader    bool
	threads     int
	timeout     time.Duration
)

var designCmd = &cobra.Command{
	Use:   "design",
	Short: "Design gRNA candidates and filter them by off-target risk",
	Long: `Design scans the target sequence on both strands for NGG-adjacent
protospacers, submits every candidate to Cas-OFFinder against the reference
genome, and keeps only candidates with no off-target site inside the
stringency thresholds. Perfect full-length matches are exempt (flagged 0MM
in the report) as the presumed intended site.

Example:
  grnafinder design -i target.txt -g /ref/hg38.fa
  grnafinder design -i locus.fa -g /ref/mm39.2bit -l 16 -s maximum --format json`,
	Args: cobra.NoArgs,
	RunE: runDesign,
}

func init() {
	rootCmd.AddCommand(designCmd)

	designCmd.Flags().StringVarP(&inputFile, "input", "i", "", "target sequence file, plain text or FASTA ('-' = stdin)")
	designCmd.Flags().StringVarP(&genomePath, "genome", "g", "", "reference genome path (FASTA or 2bit)")
	designCmd.Flags().IntVarP(&guideLength, "length", "l", config.DefaultGuideLength, "guide length upstream of the PAM")
	designCmd.Flags().IntVarP(&mismatches, "mismatches", "m", config.DefaultMismatches, "mismatch tolerance passed to the search engine")
	designCmd.Flags().IntVarP(&bulge, "bulge", "b", config.DefaultBulge, "DNA/RNA bulge size passed to the search engine")
	designCmd.Flags().StringVarP(&stringency, "stringency", "s", config.DefaultStringency, "filtering stringency: high | maximum")
	designCmd.Flags().StringVar(&enginePath, "cas-offinder", "", "Cas-OFFinder executable path")
	designCmd.Flags().StringVar(&device, "device", config.DefaultDevice, "search device: C (CPU) | G (GPU) | A (accelerator)")
	designCmd.Flags().BoolVarP(&keepTemp, "keep-temp", "t", false, "retain intermediate search request/output files")
	designCmd.Flags().StringVarP(&outPath, "output", "o", "", "report path (default: stdout)")
	designCmd.Flags().StringVar(&outFormat, "format", config.DefaultFormat, "report format: text | json")
	designCmd.Flags().BoolVar(&noHeader, "no-header", false, "suppress header line in text/TSV")
	designCmd.Flags().IntVar(&threads, "threads", 0, "worker threads for classification (0 = all CPUs)")
	designCmd.Flags().DurationVar(&timeout, "timeout", 0, "overall run timeout (0 = none)")

	_ = designCmd.MarkFlagRequired("input")
}

func runDesign(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Output.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := pipeline.Run(ctx, inputFile, cfg, log)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if cfg.Output.Path != "" {
		fh, err := os.Create(cfg.Output.Path)
		if err != nil {
			return err
		}
		defer func() { _ = fh.Close() }()
		w = fh
	}

	switch cfg.Output.Format {
	case "json":
		err = output.WriteJSON(w, res.Verdicts)
	default:
		err = output.WriteTSV(w, res.Verdicts, cfg.Output.Header)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// applyFlags lays changed flags over the file/env-derived config, keeping
// the hierarchy flags > env > file > defaults.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, fn func()) {
		if cmd.Flags().Changed(name) {
			fn()
		}
	}
	set("length", func() { cfg.Guide.Length = guideLength })
	set("stringency", func() { cfg.Guide.Stringency = stringency })
	set("genome", func() { cfg.Search.Genome = genomePath })
	set("mismatches", func() { cfg.Search.Mismatches = mismatches })
	set("bulge", func() { cfg.Search.Bulge = bulge })
	set("cas-offinder", func() { cfg.Search.CasOffinder = enginePath })
	set("device", func() { cfg.Search.Device = device })
	set("keep-temp", func() { cfg.Search.KeepTemp = keepTemp })
	set("threads", func() { cfg.Search.Threads = threads })
	set("output", func() { cfg.Output.Path = outPath })
	set("format", func() { cfg.Output.Format = outFormat })
	set("no-header", func() { cfg.Output.Header = !noHeader })
	if verbose {
		cfg.Output.Verbose = true
	}
}
