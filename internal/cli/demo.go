package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phn/lineid-plot/pkg/io"
	"github.com/phn/lineid-plot/pkg/pipeline"
)

// defaultDemoSeed makes repeated demo runs byte-identical.
const defaultDemoSeed = 1

func (c *CLI) demoCommand() *cobra.Command {
	var (
		flags        renderFlags
		seed         uint64
		saveSpectrum string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Render a noisy demo spectrum with a crowded Si II complex",
		Long: `Demo renders 300 samples of Gaussian noise between 1240 and 1270 and labels
N V 1242.80 plus six Si II lines, five of them within 0.7 of each other.`,
		Example: `  lineid demo
  lineid demo -o demo -f svg,png --seed 7
  lineid demo --save-spectrum demo.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			job := pipeline.DemoSpectrum(seed)

			if saveSpectrum != "" {
				if err := io.ExportSpectrum(saveSpectrum, job.Wave, job.Flux); err != nil {
					return fmt.Errorf("save spectrum: %w", err)
				}
				printFile(saveSpectrum)
			}

			var opts pipeline.Options
			flags.apply(cmd.Flags(), &opts)
			if flags.output == "" {
				flags.output = "demo"
			}
			if err := c.runRender(cmd.Context(), job, opts, &flags, "demo"); err != nil {
				return err
			}
			if saveSpectrum != "" {
				fmt.Println()
				printNextStep("Relabel the saved spectrum", "lineid render "+saveSpectrum+" --lines lines.csv")
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().Uint64Var(&seed, "seed", defaultDemoSeed, "random seed for the demo noise")
	cmd.Flags().StringVar(&saveSpectrum, "save-spectrum", "", "also write the demo spectrum as CSV")
	return cmd
}
