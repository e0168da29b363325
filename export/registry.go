// Package export writes scenes through a registry of output formats and
// decides, per run, whether the generic registry or the specialized glTF
// exporter handles the output.
package export

import (
	"github.com/flywave/go-meshpipe/gltfx"
	"github.com/flywave/go-meshpipe/pipeerr"
	"github.com/flywave/go-meshpipe/postprocess"
	"github.com/flywave/go-meshpipe/scene"
)

type FormatDesc struct {
	ID          string
	Extension   string
	Description string
}

// Flags select export-side post-processing.
type Flags struct {
	JoinIdenticalVertices bool
}

// WriterFunc writes s to path. The scene it receives may be mutated.
type WriterFunc func(s *scene.Scene, path string) error

type entry struct {
	desc  FormatDesc
	write WriterFunc
}

// Registry maps format ids to writers. Formats keeps registration order.
type Registry struct {
	entries []entry
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(FormatDesc{"obj", "obj", "Wavefront OBJ format"}, WriteObj)
	r.Register(FormatDesc{"stl", "stl", "Stereolithography"}, WriteStlASCII)
	r.Register(FormatDesc{"stlb", "stl", "Stereolithography (binary)"}, WriteStlBinary)
	r.Register(FormatDesc{"gltf2", "gltf", "GL Transmission Format v. 2"}, gltfWriter(false))
	r.Register(FormatDesc{"glb2", "glb", "GL Transmission Format v. 2 (binary)"}, gltfWriter(true))
	r.Register(FormatDesc{"mst", "mst", "Flywave mesh store"}, WriteMst)
	return r
}

// Register adds a format, replacing any earlier writer with the same id.
func (r *Registry) Register(desc FormatDesc, w WriterFunc) {
	for i := range r.entries {
		if r.entries[i].desc.ID == desc.ID {
			r.entries[i] = entry{desc: desc, write: w}
			return
		}
	}
	r.entries = append(r.entries, entry{desc: desc, write: w})
}

func (r *Registry) Formats() []FormatDesc {
	out := make([]FormatDesc, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.desc
	}
	return out
}

// Lookup returns the descriptor for id.
func (r *Registry) Lookup(id string) (FormatDesc, bool) {
	for _, e := range r.entries {
		if e.desc.ID == id {
			return e.desc, true
		}
	}
	return FormatDesc{}, false
}

// Export writes s as format id. The caller's scene is never modified.
func (r *Registry) Export(s *scene.Scene, id, path string, flags Flags) error {
	var w WriterFunc
	for _, e := range r.entries {
		if e.desc.ID == id {
			w = e.write
			break
		}
	}
	if w == nil {
		return pipeerr.Config("invalid output format id: %s", id)
	}

	out := s.Clone()
	for _, m := range out.Meshes {
		postprocess.Triangulate(m)
		if flags.JoinIdenticalVertices {
			postprocess.JoinIdenticalVertices(m)
		}
	}
	if err := w(out, path); err != nil {
		return pipeerr.Export("failed to write output file: %s, reason: %v", path, err)
	}
	return nil
}

func gltfWriter(binary bool) WriterFunc {
	return func(s *scene.Scene, path string) error {
		opts := gltfx.PlainOptions(binary)
		doc, err := gltfx.NewExporter(opts).Build(s)
		if err != nil {
			return err
		}
		return gltfx.Save(doc, path, binary)
	}
}
