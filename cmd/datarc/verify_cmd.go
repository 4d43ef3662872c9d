// cmd/datarc/verify_cmd.go
package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-datarchive/pkg/verify"
)

func init() {
	rootCmd.AddCommand(verifyCmd())
}

func verifyCmd() *cobra.Command {
	var archivePath string
	var verifyData bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify archive integrity",
		Long: `Verify the integrity of an archive.

By default, performs structural validation (header, table, entry ranges).
Use --data to also extract every entry, checking CRC-32 and sizes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &verify.Options{
				InputPath:  archivePath,
				VerifyData: verifyData,
				Verbose:    verbose,
				Quiet:      quiet,
				Logger:     &log.Logger,
			}

			if err := opts.Validate(); err != nil {
				return err
			}

			say("Verifying archive: %s", archivePath)
			if verifyData {
				say("Mode: Full data integrity check")
			} else {
				say("Mode: Structural validation only")
			}
			say("")

			var progressCb verify.ProgressCallback
			if !quiet && !verbose {
				lastFile := ""
				progressCb = func(event verify.ProgressEvent) {
					switch event.Type {
					case verify.EventStart:
						fmt.Printf("Checking %d entries...\n", event.Total)
					case verify.EventFileVerify:
						if event.Current%100 == 0 || event.Current == event.Total {
							fmt.Printf("\r  Progress: %d/%d entries", event.Current, event.Total)
						}
						lastFile = event.FilePath
					case verify.EventComplete:
						fmt.Printf("\r  Progress: %d/%d entries\n", event.Current, event.Total)
					case verify.EventError:
						fmt.Printf("\n  Error in: %s\n", lastFile)
					}
				}
			} else if verbose {
				progressCb = func(event verify.ProgressEvent) {
					switch event.Type {
					case verify.EventStart:
						fmt.Printf("Starting verification: %s\n", event.Message)
					case verify.EventFileVerify:
						fmt.Printf("  [%d/%d] %s\n", event.Current, event.Total, event.FilePath)
					case verify.EventComplete:
						fmt.Printf("Verification complete\n")
					}
				}
			}

			result, err := verify.Verify(opts, progressCb)
			if err != nil && result == nil {
				return err
			}

			fmt.Println()
			fmt.Print(result.Summary())

			if err != nil {
				return err
			}
			if !result.IsValid() {
				return fmt.Errorf("archive verification failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&archivePath, "archive", "a", "", "Archive file (required)")
	cmd.Flags().BoolVar(&verifyData, "data", false, "Verify data integrity by extracting all content")

	_ = cmd.MarkFlagRequired("archive")

	return cmd
}
