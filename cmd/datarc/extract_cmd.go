// cmd/datarc/extract_cmd.go

package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"

	"github.com/creativeyann17/go-datarchive/pkg/decompress"
)

func init() {
	rootCmd.AddCommand(extractCmd())
}

func extractCmd() *cobra.Command {
	var archivePath, outputPath string
	var overwrite, noCRC bool

	cmd := &cobra.Command{
		Use:   "extract [names...]",
		Short: "Extract entries from an archive",
		Long: `Extract every entry of an archive, or only the named ones.

Entry names are split on '/' into directories under the output directory.
Names that would land outside it are refused.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &decompress.Options{
				InputPath:  archivePath,
				OutputPath: outputPath,
				Names:      args,
				SkipCRC:    noCRC,
				Overwrite:  overwrite,
				Verbose:    verbose,
				Quiet:      quiet,
				Logger:     &log.Logger,
			}

			if err := opts.Validate(); err != nil {
				return err
			}

			say("Extracting archive...")
			say("  Archive: %s", opts.InputPath)
			say("  Output:  %s", opts.OutputPath)
			if overwrite {
				say("  Mode:    OVERWRITE (replacing existing files)")
			}
			if noCRC {
				say("  Checks:  CRC-32 validation disabled")
			}
			say("")

			var progressCb decompress.ProgressCallback
			var progress *mpb.Progress

			if !quiet && !verbose {
				progressCb, progress = decompress.ProgressBarCallback()
			} else if verbose {
				progressCb = func(event decompress.ProgressEvent) {
					if event.Type == decompress.EventFileComplete {
						fmt.Printf("  %s (%d bytes)\n", event.FilePath, event.ExtractedSize)
					}
				}
			}

			result, err := decompress.Decompress(opts, progressCb)

			// Wait for progress bars to finish rendering
			if progress != nil {
				if err != nil {
					progress.Shutdown()
				} else {
					progress.Wait()
				}
			}

			if err != nil {
				return err
			}

			if !quiet {
				fmt.Println()
				fmt.Print(decompress.FormatSummary(result))
			}

			if len(result.Errors) > 0 {
				return fmt.Errorf("finished with %d errors", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&archivePath, "archive", "a", "", "Archive file (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", ".", "Output directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&noCRC, "no-crc", false, "Skip CRC-32 validation")

	_ = cmd.MarkFlagRequired("archive")

	return cmd
}
