// cmd/datarc/create_cmd.go

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"

	"github.com/creativeyann17/go-datarchive/pkg/compress"
)

func init() {
	rootCmd.AddCommand(createCmd())
}

func createCmd() *cobra.Command {
	var inputs, exclude []string
	var outputPath, method string
	var level int
	var overwrite, useGitignore bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Pack a file or directory into a new archive",
		Long: `Pack files into a new archive.

A single directory input is packed with names relative to it. Several inputs
are packed side by side, directories keeping their base name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Add .dat extension if missing
			if outputPath != "" && !strings.HasSuffix(outputPath, ".dat") {
				outputPath += ".dat"
			}

			opts := &compress.Options{
				OutputPath:   outputPath,
				Method:       method,
				Level:        level,
				Overwrite:    overwrite,
				UseGitignore: useGitignore,
				Exclude:      exclude,
				Verbose:      verbose,
				Quiet:        quiet,
			}
			setInputs(opts, inputs)

			return runCompress(opts)
		},
	}

	cmd.Flags().StringSliceVarP(&inputs, "input", "i", nil, "Input files or directories (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "archive.dat", "Output archive file")
	cmd.Flags().StringVarP(&method, "method", "m", "deflate", "Compression method: deflate or none")
	cmd.Flags().IntVarP(&level, "level", "l", 5, "Deflate level (1=fastest, 9=smallest)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing archive")
	cmd.Flags().BoolVar(&useGitignore, "gitignore", false, "Skip paths matched by .gitignore files")
	cmd.Flags().StringSliceVarP(&exclude, "exclude", "x", nil, "Extra gitignore-style patterns to skip")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func setInputs(opts *compress.Options, inputs []string) {
	if len(inputs) == 1 {
		opts.InputPath = inputs[0]
		return
	}
	opts.Files = inputs
}

// runCompress validates opts, prints the plan, packs and prints the summary
func runCompress(opts *compress.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	mode := "CREATE"
	if opts.Append {
		mode = "APPEND"
	}

	say("Packing files...")
	if opts.InputPath != "" {
		say("  Input:   %s", opts.InputPath)
	} else {
		say("  Inputs:  %s", strings.Join(opts.Files, ", "))
	}
	say("  Archive: %s", opts.OutputPath)
	say("  Method:  %s (level %d)", opts.Method, opts.Level)
	say("  Mode:    %s", mode)
	if opts.UseGitignore {
		say("  Filter:  .gitignore")
	}
	say("")

	var progressCb compress.ProgressCallback
	var progress *mpb.Progress

	if !quiet && !verbose {
		progressCb, progress = compress.ProgressBarCallback()
	} else if verbose {
		progressCb = func(event compress.ProgressEvent) {
			switch event.Type {
			case compress.EventFileComplete:
				fmt.Printf("  %s (%d -> %d bytes)\n", event.FilePath, event.Total, event.StoredSize)
			case compress.EventError:
				fmt.Fprintf(os.Stderr, "  Error on %s\n", event.FilePath)
			}
		}
	}

	result, err := compress.Compress(opts, progressCb)

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
		fmt.Print(compress.FormatSummary(result))
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("finished with %d errors", len(result.Errors))
	}
	return nil
}
