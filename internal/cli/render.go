package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/phn/lineid-plot/pkg/io"
	"github.com/phn/lineid-plot/pkg/pipeline"
)

// renderFlags holds the figure and layout flags shared by render and
// demo. Only flags set on the command line override a job file.
type renderFlags struct {
	output    string
	formats   string
	backend   string
	width     float64
	height    float64
	labelSize float64
	maxIter   int
	xLabel    string
	yLabel    string
	noCache   bool
	refresh   bool
}

func (f *renderFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.output, "output", "o", "", "output file (single format), base path (several formats) or - for stdout")
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	fs.StringVar(&f.backend, "backend", "", "rendering backend: canvas (default), gonumplot")
	fs.Float64Var(&f.width, "width", 0, "figure width (pixels for canvas, points for gonumplot)")
	fs.Float64Var(&f.height, "height", 0, "figure height")
	fs.Float64Var(&f.labelSize, "label-size", 0, "label font size in points (default 12)")
	fs.IntVar(&f.maxIter, "max-iter", 0, "iteration budget for spreading labels (default 1000)")
	fs.StringVar(&f.xLabel, "x-label", "", "x axis caption (gonumplot)")
	fs.StringVar(&f.yLabel, "y-label", "", "y axis caption (gonumplot)")
	fs.BoolVar(&f.noCache, "no-cache", false, "do not read or write the cache")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

// apply copies the flags that were set onto opts.
func (f *renderFlags) apply(fs *pflag.FlagSet, opts *pipeline.Options) {
	if fs.Changed("format") || len(opts.Formats) == 0 {
		opts.Formats = parseFormats(f.formats)
	}
	if fs.Changed("backend") {
		opts.Backend = f.backend
	}
	if fs.Changed("width") {
		opts.Width = f.width
	}
	if fs.Changed("height") {
		opts.Height = f.height
	}
	if fs.Changed("label-size") {
		opts.LabelSize = f.labelSize
	}
	if fs.Changed("max-iter") {
		n := f.maxIter
		opts.MaxIter = &n
	}
	if fs.Changed("x-label") {
		opts.XLabel = f.xLabel
	}
	if fs.Changed("y-label") {
		opts.YLabel = f.yLabel
	}
	opts.Refresh = f.refresh
}

func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags renderFlags
		lines string
	)

	cmd := &cobra.Command{
		Use:   "render <spectrum.csv | job.toml>",
		Short: "Label lines on a spectrum and write the figure",
		Long: `Render reads a spectrum, labels the given lines and writes the figure.

The input is either a two-column spectrum file, in which case --lines names a
line list (CSV) or a job file (TOML), or a job file that names its spectrum.`,
		Example: `  lineid render spectrum.csv --lines lines.csv -o spectrum.svg
  lineid render job.toml -f svg,png,json
  lineid render spectrum.csv --lines lines.toml --backend gonumplot -f pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, opts, err := loadJob(args[0], lines)
			if err != nil {
				return err
			}
			flags.apply(cmd.Flags(), &opts)
			return c.runRender(cmd.Context(), job, opts, &flags, args[0])
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&lines, "lines", "l", "", "line list (.csv) or job file (.toml)")
	return cmd
}

// loadJob reads the job for input. Job files carry their own options; a
// TOML line list contributes its [layout] table as well.
func loadJob(input, lines string) (pipeline.Job, pipeline.Options, error) {
	if isTOML(input) {
		job, opts, err := io.ReadJob(input)
		if err != nil {
			return job, opts, err
		}
		if len(job.Wave) == 0 {
			return job, opts, fmt.Errorf("%s: job does not name a spectrum", input)
		}
		return job, opts, nil
	}

	wave, flux, err := io.ImportSpectrum(input)
	if err != nil {
		return pipeline.Job{}, pipeline.Options{}, err
	}
	job := pipeline.Job{Wave: wave, Flux: flux}
	if lines == "" {
		return job, pipeline.Options{}, errors.New("--lines is required when the input is a spectrum")
	}
	if !isTOML(lines) {
		job.Lines, err = io.ImportLines(lines)
		return job, pipeline.Options{}, err
	}

	f, err := os.Open(lines)
	if err != nil {
		return job, pipeline.Options{}, err
	}
	defer f.Close()
	jf, err := io.DecodeJob(f)
	if err != nil {
		return job, pipeline.Options{}, fmt.Errorf("%s: %w", lines, err)
	}
	job.Lines = jf.Lines
	return job, jf.Layout, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// runRender executes the job and writes one file per format.
func (c *CLI) runRender(ctx context.Context, job pipeline.Job, opts pipeline.Options, flags *renderFlags, input string) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	runner := c.newRunner(flags.noCache)
	defer runner.Close()

	prog := newProgress(logger)
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Placing %d labels...", len(job.Lines)))
	spin.Start()
	res, err := runner.Execute(ctx, job, opts)
	if err != nil {
		if spin.Cancelled() {
			spin.Stop()
		} else {
			spin.StopWithError("Render failed")
		}
		return err
	}
	spin.Stop()
	prog.done(fmt.Sprintf("Placed %d labels", res.Stats.Features))

	paths, err := writeArtifacts(res.Artifacts, opts.Formats, flags.output, input)
	if err != nil {
		return err
	}
	if len(paths) > 0 {
		printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
		for _, p := range paths {
			printFile(p)
		}
		printStats(res.Stats.Features, res.Stats.Iterations, res.Stats.Converged, res.CacheInfo.RenderHit)
	}
	if !res.Stats.Converged {
		printWarning("Labels still overlap after %d iterations; try --max-iter or a smaller --label-size", res.Stats.Iterations)
	}
	return nil
}

// writeArtifacts writes each format to its own file and returns the
// paths. A single format goes to output verbatim when output has that
// extension, and "-" writes a single format to stdout.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	if output == "-" {
		if len(formats) != 1 {
			return nil, fmt.Errorf("-o - needs exactly one format, got %d", len(formats))
		}
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	base := basePath(output, input)
	var paths []string
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && output != "" && filepath.Ext(output) == "."+format {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
