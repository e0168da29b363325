// Package report builds the JSON documents a pipeline run prints: the scene
// statistics report, the status document and the format list.
package report

import (
	"strings"

	"github.com/flywave/go-meshpipe/geom"
	"github.com/flywave/go-meshpipe/scene"
)

type Box struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// Geometry is null-valued throughout when the underlying range is invalid.
type Geometry struct {
	BoundingBox *Box        `json:"boundingBox"`
	Size        *[3]float64 `json:"size"`
	Center      *[3]float64 `json:"center"`
}

type MeshStatistics struct {
	NumVertices              int  `json:"numVertices"`
	NumFaces                 int  `json:"numFaces"`
	HasNormals               bool `json:"hasNormals"`
	HasTangentsAndBitangents bool `json:"hasTangentsAndBitangents"`
	HasBones                 bool `json:"hasBones"`
	HasTexCoords             bool `json:"hasTexCoords"`
	NumTexCoordChannels      int  `json:"numTexCoordChannels"`
	HasVertexColors          bool `json:"hasVertexColors"`
	NumColorChannels         int  `json:"numColorChannels"`
}

type MeshReport struct {
	Statistics MeshStatistics `json:"statistics"`
	Geometry   Geometry       `json:"geometry"`
}

type SceneStatistics struct {
	NumVertices   int `json:"numVertices"`
	NumFaces      int `json:"numFaces"`
	NumMeshes     int `json:"numMeshes"`
	NumMaterials  int `json:"numMaterials"`
	NumTextures   int `json:"numTextures"`
	NumLights     int `json:"numLights"`
	NumCameras    int `json:"numCameras"`
	NumAnimations int `json:"numAnimations"`
}

type SceneReport struct {
	Statistics SceneStatistics `json:"statistics"`
	Geometry   Geometry        `json:"geometry"`
}

type Report struct {
	Type     string       `json:"type"`
	FilePath string       `json:"filePath"`
	Meshes   []MeshReport `json:"meshes"`
	Scene    SceneReport  `json:"scene"`
}

// Build gathers per-mesh and scene-wide statistics. It does not modify s.
func Build(s *scene.Scene, inputPath string) *Report {
	r := &Report{
		Type:     "report",
		FilePath: strings.ReplaceAll(inputPath, "\\", "/"),
		Meshes:   make([]MeshReport, 0, len(s.Meshes)),
	}

	bounds := geom.Invalid()
	stats := SceneStatistics{
		NumMeshes:     len(s.Meshes),
		NumMaterials:  len(s.Materials),
		NumTextures:   len(s.Textures),
		NumLights:     len(s.Lights),
		NumCameras:    len(s.Cameras),
		NumAnimations: len(s.Animations),
	}

	for _, m := range s.Meshes {
		box := geom.BoundingBox(m)
		bounds = geom.Union(bounds, box)
		stats.NumVertices += m.NumVertices()
		stats.NumFaces += m.NumFaces()

		r.Meshes = append(r.Meshes, MeshReport{
			Statistics: MeshStatistics{
				NumVertices:              m.NumVertices(),
				NumFaces:                 m.NumFaces(),
				HasNormals:               m.HasNormals(),
				HasTangentsAndBitangents: m.HasTangentsAndBitangents(),
				HasBones:                 m.HasBones(),
				HasTexCoords:             m.HasTexCoords(0),
				NumTexCoordChannels:      m.NumUVChannels(),
				HasVertexColors:          m.HasVertexColors(0),
				NumColorChannels:         m.NumColorChannels(),
			},
			Geometry: geometryOf(box),
		})
	}

	r.Scene = SceneReport{Statistics: stats, Geometry: geometryOf(bounds)}
	return r
}

func geometryOf(r geom.Range3) Geometry {
	if !r.IsValid() {
		return Geometry{}
	}
	size := [3]float64(r.Size())
	center := [3]float64(r.Center())
	return Geometry{
		BoundingBox: &Box{Min: [3]float64(r.Min), Max: [3]float64(r.Max)},
		Size:        &size,
		Center:      &center,
	}
}
