package main

import (
	"github.com/sirupsen/logrus"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/engine"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/kernel"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/logging"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

var log = logging.NamedLogger("csgbox")

// App runs scripts through the engine and a kernel.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData is the JSON-serializable mesh format written by the CLI.
type MeshData struct {
	Vertices  []float32      `json:"vertices"`
	Normals   []float32      `json:"normals"`
	UVs       []float32      `json:"uvs,omitempty"`
	Indices   []uint32       `json:"indices"`
	Groups    []kernel.Group `json:"groups,omitempty"`
	PartName  string         `json:"partName"`
	Color     string         `json:"color"`
	Triangles int            `json:"triangles"`
	Volume    float64        `json:"volume"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App evaluating with k.
func NewApp(k kernel.Kernel) *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: k,
	}
}

func newMeshData(m *kernel.Mesh, color string) MeshData {
	return MeshData{
		Vertices:  m.Vertices,
		Normals:   m.Normals,
		UVs:       m.UVs,
		Indices:   m.Indices,
		Groups:    m.Groups,
		PartName:  m.PartName,
		Color:     color,
		Triangles: m.TriangleCount(),
		Volume:    m.Volume(),
	}
}

// Evaluate takes Lisp source and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a validated scene graph.
	res, err := a.engine.Run(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.WithError(err).Error("evaluate failed")
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Line:    w.Line,
			Col:     w.Col,
			Message: w.Message,
		})
	}

	// Step 2: Convert eval errors to the output format.
	if !res.OK() {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: Tessellate the scene graph into triangle meshes.
	meshes, err := tessellate.Tessellate(res.Graph, a.kernel)
	if err != nil {
		log.WithError(err).Error("tessellate failed")
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	// Step 4: Convert kernel meshes to the output format.
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, newMeshData(m, colorPalette[i%len(colorPalette)]))
	}

	log.WithFields(logrus.Fields{
		"meshes":   len(result.Meshes),
		"warnings": len(result.Warnings),
	}).Debug("script evaluated")

	return result
}
