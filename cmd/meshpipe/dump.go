package main

import (
	"os"

	meshpipe "github.com/flywave/go-meshpipe"
	"github.com/flywave/go-meshpipe/postprocess"
	"github.com/flywave/go-meshpipe/report"

	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <input>",
	Short: "Print a text summary of a scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := meshpipe.ReadFile(args[0], 0, postprocess.StepTriangulate)
		if err != nil {
			return printStatus(os.Stdout, report.Status(err))
		}
		return report.Dump(os.Stdout, s, args[0])
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
