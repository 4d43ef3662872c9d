// cmd/datarc/list_cmd.go

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-datarchive/pkg/datarchive"
	"github.com/creativeyann17/go-datarchive/pkg/datutil"
	"github.com/creativeyann17/go-datarchive/pkg/verify"
)

func init() {
	rootCmd.AddCommand(listCmd())
}

func listCmd() *cobra.Command {
	var archivePath string
	var long, digest bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the entries of an archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := datarchive.OpenReader(archivePath, datarchive.WithLogger(log.Logger))
			if err != nil {
				return err
			}
			defer reader.Close()

			if !long && !digest {
				for _, name := range reader.ListFiles() {
					fmt.Println(name)
				}
				return nil
			}

			// Show entries in payload order
			entries := reader.Table()
			datarchive.SortByDataStart(entries)

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer tw.Flush()

			header := "METHOD\tFLAGS\tCRC32\tSIZE\tSTORED\tOFFSET\tNAME"
			if digest {
				header += "\tBLAKE3"
			}
			fmt.Fprintln(tw, header)

			var failed int
			for _, e := range entries {
				line := fmt.Sprintf("%s\t%s\t%08x\t%s\t%s\t%d\t%s",
					e.CompressionMethod, e.Flags, e.CRC32,
					datutil.FormatSize(e.OriginalSize), datutil.FormatSize(e.SizeInArchive()),
					e.DataStart, e.Name)
				if digest {
					sum, _, err := verify.EntryDigest(reader, e.Name)
					if err != nil {
						failed++
						log.Error().Err(err).Str("entry", e.Name).Msg("digest failed")
						sum = "-"
					}
					line += "\t" + sum
				}
				fmt.Fprintln(tw, line)
			}

			if failed > 0 {
				return fmt.Errorf("%d entries could not be read", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&archivePath, "archive", "a", "", "Archive file (required)")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show method, checksum, sizes and offset")
	cmd.Flags().BoolVar(&digest, "digest", false, "Extract every entry and show its BLAKE3 digest")

	_ = cmd.MarkFlagRequired("archive")

	return cmd
}
