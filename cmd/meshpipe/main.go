package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "meshpipe [flags] <input>",
	Short: "Transform a 3D scene and export it to another format",
	Long: `meshpipe loads one 3D scene (obj, stl, gltf, glb, fbx, 3ds, dae, three.js
binary), applies swizzle, scale, align, translate, matrix and UV flip steps
in that order, and writes the result through the generic exporters or the
specialized glTF exporter (gltfx, glbx).

A JSON status document is printed to stdout when the run ends.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
