package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flywave/go-meshpipe/scene"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// WriteObj writes s as Wavefront OBJ with a companion .mtl file next to it.
// Indices are global and 1-based across all meshes.
func WriteObj(s *scene.Scene, path string) (err error) {
	mtlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"
	if len(s.Materials) > 0 {
		if err := writeMtl(s, mtlPath); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "# flywave go-meshpipe")
	if len(s.Materials) > 0 {
		fmt.Fprintf(w, "mtllib %s\n", filepath.Base(mtlPath))
	}

	var vBase, vtBase, vnBase int
	for i, m := range s.Meshes {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("mesh_%d", i)
		}
		fmt.Fprintf(w, "\no %s\n", name)
		if m.MaterialIndex >= 0 && m.MaterialIndex < len(s.Materials) {
			fmt.Fprintf(w, "usemtl %s\n", materialName(s.Materials[m.MaterialIndex], m.MaterialIndex))
		}

		for _, p := range m.Positions {
			fmt.Fprintf(w, "v %s %s %s\n", ff(p[0]), ff(p[1]), ff(p[2]))
		}
		hasUV := m.HasTexCoords(0)
		if hasUV {
			for _, uv := range m.TexCoords[0] {
				fmt.Fprintf(w, "vt %s %s\n", ff(uv[0]), ff(uv[1]))
			}
		}
		hasN := m.HasNormals()
		if hasN {
			for _, n := range m.Normals {
				fmt.Fprintf(w, "vn %s %s %s\n", ff(n[0]), ff(n[1]), ff(n[2]))
			}
		}

		for _, face := range m.Faces {
			switch len(face.Indices) {
			case 0:
				continue
			case 1:
				w.WriteString("p")
			case 2:
				w.WriteString("l")
			default:
				w.WriteString("f")
			}
			for _, idx := range face.Indices {
				v := int(idx) + 1
				w.WriteByte(' ')
				w.WriteString(strconv.Itoa(vBase + v))
				if len(face.Indices) < 3 {
					continue
				}
				switch {
				case hasUV && hasN:
					fmt.Fprintf(w, "/%d/%d", vtBase+v, vnBase+v)
				case hasUV:
					fmt.Fprintf(w, "/%d", vtBase+v)
				case hasN:
					fmt.Fprintf(w, "//%d", vnBase+v)
				}
			}
			w.WriteByte('\n')
		}

		vBase += len(m.Positions)
		if hasUV {
			vtBase += len(m.Positions)
		}
		if hasN {
			vnBase += len(m.Positions)
		}
	}
	return errors.Wrap(w.Flush(), "flush obj")
}

func writeMtl(s *scene.Scene, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	w := bufio.NewWriter(f)
	for i, m := range s.Materials {
		fmt.Fprintf(w, "newmtl %s\n", materialName(m, i))
		fmt.Fprintf(w, "Kd %s %s %s\n", ff(m.BaseColor[0]), ff(m.BaseColor[1]), ff(m.BaseColor[2]))
		fmt.Fprintf(w, "d %s\n", ff(m.BaseColor[3]))
		if m.DiffuseTexture != "" {
			fmt.Fprintf(w, "map_Kd %s\n", filepath.ToSlash(m.DiffuseTexture))
		}
		w.WriteByte('\n')
	}
	return errors.Wrap(w.Flush(), "flush mtl")
}

func materialName(m *scene.Material, i int) string {
	if m.Name != "" {
		return strings.ReplaceAll(m.Name, " ", "_")
	}
	return fmt.Sprintf("material_%d", i)
}

func ff(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
