package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/flywave/go-meshpipe/scene"
)

// Dump writes a plain text summary of s, one block per mesh.
func Dump(w io.Writer, s *scene.Scene, inputPath string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "File: %s\n", inputPath)
	fmt.Fprintf(bw, "  Meshes:     %d\n", len(s.Meshes))
	fmt.Fprintf(bw, "  Materials:  %d\n", len(s.Materials))
	fmt.Fprintf(bw, "  Textures:   %d\n", len(s.Textures))
	fmt.Fprintf(bw, "  Lights:     %d\n", len(s.Lights))
	fmt.Fprintf(bw, "  Cameras:    %d\n", len(s.Cameras))
	fmt.Fprintf(bw, "  Animations: %d\n\n", len(s.Animations))

	for i, m := range s.Meshes {
		fmt.Fprintf(bw, "  Mesh #%d", i)
		if m.Name != "" {
			fmt.Fprintf(bw, " - %s", m.Name)
		}
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "    Vertices:     %d\n", m.NumVertices())
		fmt.Fprintf(bw, "    Faces:        %d\n", m.NumFaces())
		fmt.Fprintf(bw, "    Has Normals:  %t\n", m.HasNormals())
		fmt.Fprintf(bw, "    Has Tangents: %t\n", m.HasTangentsAndBitangents())
		fmt.Fprintf(bw, "    UV Channels:  %d\n", m.NumUVChannels())
		fmt.Fprintf(bw, "    Col Channels: %d\n\n", m.NumColorChannels())
	}
	return bw.Flush()
}
