package main

import (
	"os"

	"github.com/flywave/go-meshpipe/export"
	"github.com/flywave/go-meshpipe/report"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the generic export formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var entries []report.FormatEntry
		for _, f := range export.NewRegistry().Formats() {
			entries = append(entries, report.FormatEntry{ID: f.ID, Extension: f.Extension, Description: f.Description})
		}
		return report.Write(os.Stdout, report.FormatList(entries))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
