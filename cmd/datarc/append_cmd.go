// cmd/datarc/append_cmd.go

package main

import (
	"fmt"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-datarchive/pkg/compress"
)

func init() {
	rootCmd.AddCommand(appendCmd())
}

func appendCmd() *cobra.Command {
	var inputs, exclude []string
	var archivePath, method string
	var level int
	var useGitignore bool

	cmd := &cobra.Command{
		Use:   "append",
		Short: "Add files to an existing archive",
		Long: `Add files to an existing archive, keeping every entry already in it.

Files whose name is already in the archive are skipped. A missing archive is
created. Concurrent appends to the same archive are serialized through an
advisory lock file next to it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lock := flock.New(archivePath + ".lock")
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("lock archive: %w", err)
			}
			if !locked {
				return fmt.Errorf("archive %s is locked by another process", archivePath)
			}
			defer func() {
				if err := lock.Unlock(); err != nil {
					log.Warn().Err(err).Str("lock", lock.Path()).Msg("failed to release lock")
				}
			}()
			log.Debug().Str("lock", lock.Path()).Msg("acquired archive lock")

			opts := &compress.Options{
				OutputPath:   archivePath,
				Method:       method,
				Level:        level,
				Append:       true,
				UseGitignore: useGitignore,
				Exclude:      exclude,
				Verbose:      verbose,
				Quiet:        quiet,
			}
			setInputs(opts, inputs)

			return runCompress(opts)
		},
	}

	cmd.Flags().StringVarP(&archivePath, "archive", "a", "", "Archive to extend (required)")
	cmd.Flags().StringSliceVarP(&inputs, "input", "i", nil, "Input files or directories (required)")
	cmd.Flags().StringVarP(&method, "method", "m", "deflate", "Compression method: deflate or none")
	cmd.Flags().IntVarP(&level, "level", "l", 5, "Deflate level (1=fastest, 9=smallest)")
	cmd.Flags().BoolVar(&useGitignore, "gitignore", false, "Skip paths matched by .gitignore files")
	cmd.Flags().StringSliceVarP(&exclude, "exclude", "x", nil, "Extra gitignore-style patterns to skip")

	_ = cmd.MarkFlagRequired("archive")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
