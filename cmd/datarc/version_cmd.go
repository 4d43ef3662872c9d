// cmd/datarc/version_cmd.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-datarchive/internal/format"
)

func init() {
	rootCmd.AddCommand(versionCmd())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("datarc %s\ncommit: %s\nbuilt: %s\ncontainer version: %d\n", version, commit, date, format.Version)
		},
	}
}
