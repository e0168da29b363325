// Package gltfx writes scenes as glTF 2.0 documents, with optional attribute
// quantization and texture maps taken from image files.
package gltfx

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/flywave/go-meshpipe/internal/logger"
	"github.com/flywave/go-meshpipe/pipeerr"
	"github.com/flywave/go-meshpipe/scene"

	"github.com/flywave/go3d/vec3"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

const (
	extTextureWebP = "EXT_texture_webp"
	generator      = "flywave/go-meshpipe"
)

type Exporter struct {
	opts *Options
}

func NewExporter(opts *Options) *Exporter {
	if opts == nil {
		opts = PlainOptions(false)
	}
	return &Exporter{opts: opts}
}

// Validate rejects option combinations that cannot produce a usable file.
func (e *Exporter) Validate() error {
	o := e.opts
	if o.Maps.Any() && o.StripTexCoords {
		return pipeerr.Export("texture maps can not be used when texture coordinates are stripped")
	}
	if o.Maps.Normal != "" && o.StripNormals && !o.ObjectSpaceNormals {
		return pipeerr.Export("a tangent space normal map requires normals, use object space normals or keep normals")
	}
	if o.MapFormat != MapFormatKeep && o.MapFormat != MapFormatPNG && o.MapFormat != MapFormatWebP {
		return pipeerr.Export("unsupported map format %q", o.MapFormat)
	}
	if o.UseCompression {
		if err := o.Compression.Validate(); err != nil {
			return pipeerr.Config("invalid compression settings: %v", err)
		}
	}
	return nil
}

// Export builds the document for s and writes it to path.
func (e *Exporter) Export(s *scene.Scene, path string) error {
	log := logger.Debug
	if e.opts.Verbose {
		log = logger.Info
	}
	log("exporting glTF",
		zap.String("path", path),
		zap.Bool("binary", e.opts.WriteBinary),
		zap.Bool("compression", e.opts.UseCompression))

	doc, err := e.Build(s)
	if err != nil {
		return err
	}
	if err := Save(doc, path, e.opts.WriteBinary); err != nil {
		return pipeerr.Export("failed to write output file: %s, reason: %v", path, err)
	}
	return nil
}

// Save writes doc as a .glb container or as a single .gltf file with its
// buffers embedded.
func Save(doc *gltf.Document, path string, binary bool) error {
	if binary {
		return gltf.SaveBinary(doc, path)
	}
	for _, b := range doc.Buffers {
		if b.ByteLength > 0 && b.URI == "" {
			b.EmbeddedResource()
		}
	}
	return gltf.Save(doc, path)
}

// Build converts s into an in-memory glTF document.
func (e *Exporter) Build(s *scene.Scene) (*gltf.Document, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	o := e.opts

	doc := gltf.NewDocument()
	doc.Asset.Generator = generator
	if len(doc.Scenes) == 0 {
		doc.Scenes = append(doc.Scenes, &gltf.Scene{Name: "Root Scene"})
		doc.Scene = gltf.Index(0)
	}

	src := s
	if o.UseCompression {
		src = compress(s, o.Compression)
		doc.Asset.Extras = compressionExtras(o.Compression)
	}

	maps, err := e.writeMaps(doc)
	if err != nil {
		return nil, err
	}
	e.writeMaterials(doc, src, maps)

	for i, m := range src.Meshes {
		if len(m.Positions) == 0 {
			logger.Debug("skipping mesh without vertices", zap.Int("mesh", i), zap.String("name", m.Name))
			continue
		}
		mat := uint32(0)
		if m.MaterialIndex >= 0 && m.MaterialIndex < len(doc.Materials) {
			mat = uint32(m.MaterialIndex)
		}
		mesh := &gltf.Mesh{Name: m.Name}
		attrs := e.writeAttributes(doc, m)
		for _, prim := range splitFaces(m.Faces) {
			mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
				Attributes: attrs,
				Indices:    gltf.Index(modeler.WriteIndices(doc, prim.indices)),
				Material:   gltf.Index(mat),
				Mode:       prim.mode,
			})
		}
		if len(mesh.Primitives) == 0 {
			mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
				Attributes: attrs,
				Material:   gltf.Index(mat),
				Mode:       gltf.PrimitivePoints,
			})
		}
		doc.Meshes = append(doc.Meshes, mesh)
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: m.Name, Mesh: gltf.Index(uint32(len(doc.Meshes) - 1))})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	}
	return doc, nil
}

func (e *Exporter) writeAttributes(doc *gltf.Document, m *scene.Mesh) gltf.Attributes {
	attrs := gltf.Attributes{
		gltf.POSITION: modeler.WritePosition(doc, toVec3s(m.Positions)),
	}
	if m.HasNormals() && !e.opts.StripNormals {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, toVec3s(m.Normals))
		if len(m.Tangents) == len(m.Positions) {
			attrs[gltf.TANGENT] = modeler.WriteTangent(doc, tangents(m))
		}
	}
	if !e.opts.StripTexCoords {
		for ch := 0; ch < m.NumUVChannels(); ch++ {
			uvs := make([][2]float32, len(m.TexCoords[ch]))
			for i, uv := range m.TexCoords[ch] {
				uvs[i] = [2]float32(uv)
			}
			attrs[fmt.Sprintf("TEXCOORD_%d", ch)] = modeler.WriteTextureCoord(doc, uvs)
		}
	}
	for ch := 0; ch < m.NumColorChannels(); ch++ {
		cols := make([][4]float32, len(m.Colors[ch]))
		for i, c := range m.Colors[ch] {
			cols[i] = [4]float32(c)
		}
		attrs[fmt.Sprintf("COLOR_%d", ch)] = modeler.WriteColor(doc, cols)
	}
	return attrs
}

// tangents packs tangent and handedness into the vec4 layout glTF expects.
func tangents(m *scene.Mesh) [][4]float32 {
	out := make([][4]float32, len(m.Tangents))
	for i, t := range m.Tangents {
		w := float32(1)
		if len(m.Bitangents) == len(m.Tangents) {
			c := vec3.Cross(&m.Normals[i], &t)
			if vec3.Dot(&c, &m.Bitangents[i]) < 0 {
				w = -1
			}
		}
		out[i] = [4]float32{t[0], t[1], t[2], w}
	}
	return out
}

type primitive struct {
	mode    gltf.PrimitiveMode
	indices []uint32
}

// splitFaces groups faces by arity into points, lines and triangles.
// Polygons still larger than a triangle are fanned.
func splitFaces(faces []scene.Face) []primitive {
	var points, lines, tris []uint32
	for _, f := range faces {
		switch n := len(f.Indices); {
		case n == 1:
			points = append(points, f.Indices[0])
		case n == 2:
			lines = append(lines, f.Indices...)
		case n >= 3:
			for k := 1; k+1 < n; k++ {
				tris = append(tris, f.Indices[0], f.Indices[k], f.Indices[k+1])
			}
		}
	}
	var out []primitive
	if len(tris) > 0 {
		out = append(out, primitive{mode: gltf.PrimitiveTriangles, indices: tris})
	}
	if len(lines) > 0 {
		out = append(out, primitive{mode: gltf.PrimitiveLines, indices: lines})
	}
	if len(points) > 0 {
		out = append(out, primitive{mode: gltf.PrimitivePoints, indices: points})
	}
	return out
}

// mapTextures holds the texture index of every configured map slot.
type mapTextures struct {
	diffuse, occlusion, emissive, metallicRoughness, zone, normal *uint32
}

func (e *Exporter) writeMaps(doc *gltf.Document) (*mapTextures, error) {
	out := &mapTextures{}
	m := e.opts.Maps
	if !m.Any() {
		return out, nil
	}
	doc.Samplers = append(doc.Samplers, &gltf.Sampler{WrapS: gltf.WrapRepeat, WrapT: gltf.WrapRepeat})
	sampler := uint32(len(doc.Samplers) - 1)

	slots := []struct {
		name string
		path string
		dst  **uint32
	}{
		{"diffuse", m.Diffuse, &out.diffuse},
		{"occlusion", m.Occlusion, &out.occlusion},
		{"emissive", m.Emissive, &out.emissive},
		{"metallicRoughness", m.MetallicRoughness, &out.metallicRoughness},
		{"zone", m.Zone, &out.zone},
		{"normal", m.Normal, &out.normal},
	}
	for _, slot := range slots {
		if slot.path == "" {
			continue
		}
		idx, err := e.writeTexture(doc, slot.name, slot.path, sampler)
		if err != nil {
			return nil, err
		}
		*slot.dst = gltf.Index(idx)
	}
	return out, nil
}

func (e *Exporter) writeTexture(doc *gltf.Document, name, path string, sampler uint32) (uint32, error) {
	var (
		img  uint32
		mime string
	)
	if e.opts.EmbedMaps {
		mi, err := loadMap(path, e.opts.MapFormat)
		if err != nil {
			return 0, pipeerr.Wrap(pipeerr.KindExport, err, fmt.Sprintf("failed to embed %s map", name))
		}
		img, err = modeler.WriteImage(doc, name, mi.MimeType, bytes.NewReader(mi.Data))
		if err != nil {
			return 0, pipeerr.Wrap(pipeerr.KindExport, err, fmt.Sprintf("failed to embed %s map", name))
		}
		mime = mi.MimeType
	} else {
		mime = mimeFromPath(path)
		doc.Images = append(doc.Images, &gltf.Image{
			Name:     name,
			URI:      filepath.ToSlash(path),
			MimeType: mime,
		})
		img = uint32(len(doc.Images) - 1)
	}

	tex := &gltf.Texture{Name: name, Sampler: gltf.Index(sampler)}
	if mime == mimeWebP {
		tex.Extensions = gltf.Extensions{extTextureWebP: map[string]interface{}{"source": img}}
		addExtension(doc, extTextureWebP)
	} else {
		tex.Source = gltf.Index(img)
	}
	doc.Textures = append(doc.Textures, tex)
	return uint32(len(doc.Textures) - 1), nil
}

func addExtension(doc *gltf.Document, ext string) {
	for _, e := range doc.ExtensionsUsed {
		if e == ext {
			return
		}
	}
	doc.ExtensionsUsed = append(doc.ExtensionsUsed, ext)
	doc.ExtensionsRequired = append(doc.ExtensionsRequired, ext)
}

func (e *Exporter) writeMaterials(doc *gltf.Document, s *scene.Scene, maps *mapTextures) {
	mats := s.Materials
	if len(mats) == 0 {
		mats = []*scene.Material{scene.DefaultMaterial()}
	}
	for _, m := range mats {
		doc.Materials = append(doc.Materials, e.material(m, maps))
	}
}

func (e *Exporter) material(m *scene.Material, maps *mapTextures) *gltf.Material {
	metallic, roughness := m.Metallic, m.Roughness
	if e.opts.MetallicFactor >= 0 {
		metallic = e.opts.MetallicFactor
	}
	if e.opts.RoughnessFactor >= 0 {
		roughness = e.opts.RoughnessFactor
	}
	base := m.BaseColor
	if maps.diffuse != nil {
		base = [4]float32{1, 1, 1, base[3]}
	}

	out := &gltf.Material{
		Name: m.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &base,
			MetallicFactor:  gltf.Float(metallic),
			RoughnessFactor: gltf.Float(roughness),
		},
	}
	if base[3] < 1 {
		out.AlphaMode = gltf.AlphaBlend
	}
	if maps.diffuse != nil {
		out.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: *maps.diffuse}
	}
	if maps.metallicRoughness != nil {
		out.PBRMetallicRoughness.MetallicRoughnessTexture = &gltf.TextureInfo{Index: *maps.metallicRoughness}
	}
	if maps.occlusion != nil {
		out.OcclusionTexture = &gltf.OcclusionTexture{Index: gltf.Index(*maps.occlusion)}
	}
	if maps.emissive != nil {
		out.EmissiveTexture = &gltf.TextureInfo{Index: *maps.emissive}
		out.EmissiveFactor = [3]float32{1, 1, 1}
	}
	if maps.normal != nil {
		out.NormalTexture = &gltf.NormalTexture{Index: gltf.Index(*maps.normal)}
	}

	extras := map[string]interface{}{}
	if maps.zone != nil {
		extras["zoneTexture"] = *maps.zone
	}
	if maps.normal != nil && e.opts.ObjectSpaceNormals {
		extras["objectSpaceNormals"] = true
	}
	if len(extras) > 0 {
		out.Extras = extras
	}
	return out
}

func toVec3s(vs []vec3.T) [][3]float32 {
	out := make([][3]float32, len(vs))
	for i, v := range vs {
		out[i] = [3]float32(v)
	}
	return out
}
