// Package postprocess implements the scene clean-up steps run right after
// import and, for vertex joining, right before a generic export.
package postprocess

import (
	"github.com/flywave/go-meshpipe/scene"
)

// Component selects parts of a scene removed by RemoveComponents.
type Component uint32

const (
	ComponentNormals Component = 1 << iota
	ComponentTangentsAndBitangents
	ComponentColors
	ComponentTexCoords
	ComponentBoneWeights
	ComponentAnimations
	ComponentTextures
	ComponentLights
	ComponentCameras
	ComponentMaterials
)

// DefaultStrip is always removed on import; only geometry survives.
const DefaultStrip = ComponentMaterials | ComponentTextures | ComponentLights |
	ComponentCameras | ComponentAnimations | ComponentBoneWeights | ComponentColors

// Step selects post-processing passes.
type Step uint32

const (
	StepRemoveComponent Step = 1 << iota
	StepJoinIdenticalVertices
	StepTriangulate
)

// ImportSteps is the fixed pass set requested on every import.
const ImportSteps = StepRemoveComponent | StepJoinIdenticalVertices | StepTriangulate

// Apply runs the selected passes in the order remove, triangulate, join.
func Apply(s *scene.Scene, strip Component, steps Step) {
	if steps&StepRemoveComponent != 0 {
		RemoveComponents(s, strip)
	}
	if steps&StepTriangulate != 0 {
		for _, m := range s.Meshes {
			Triangulate(m)
		}
	}
	if steps&StepJoinIdenticalVertices != 0 {
		for _, m := range s.Meshes {
			JoinIdenticalVertices(m)
		}
	}
}

// RemoveComponents drops the selected attributes and scene entities.
// Removing materials leaves a single default material so every mesh still
// has one.
func RemoveComponents(s *scene.Scene, strip Component) {
	if strip&ComponentMaterials != 0 {
		s.Materials = []*scene.Material{scene.DefaultMaterial()}
		for _, m := range s.Meshes {
			m.MaterialIndex = 0
		}
	}
	if strip&ComponentTextures != 0 {
		s.Textures = nil
	}
	if strip&ComponentLights != 0 {
		s.Lights = nil
	}
	if strip&ComponentCameras != 0 {
		s.Cameras = nil
	}
	if strip&ComponentAnimations != 0 {
		s.Animations = nil
	}
	for _, m := range s.Meshes {
		if strip&ComponentNormals != 0 {
			m.Normals = nil
		}
		if strip&ComponentTangentsAndBitangents != 0 {
			m.Tangents = nil
			m.Bitangents = nil
		}
		if strip&ComponentColors != 0 {
			m.Colors = nil
		}
		if strip&ComponentTexCoords != 0 {
			m.TexCoords = nil
		}
		if strip&ComponentBoneWeights != 0 {
			m.Bones = nil
		}
	}
}

// Triangulate fan-splits every polygon with more than three corners. Points
// and lines are left alone.
func Triangulate(m *scene.Mesh) {
	needed := false
	for _, f := range m.Faces {
		if len(f.Indices) > 3 {
			needed = true
			break
		}
	}
	if !needed {
		return
	}
	faces := make([]scene.Face, 0, len(m.Faces))
	for _, f := range m.Faces {
		if len(f.Indices) <= 3 {
			faces = append(faces, f)
			continue
		}
		for i := 1; i < len(f.Indices)-1; i++ {
			faces = append(faces, scene.Face{Indices: []uint32{f.Indices[0], f.Indices[i], f.Indices[i+1]}})
		}
	}
	m.Faces = faces
}
