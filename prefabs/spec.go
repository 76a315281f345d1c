package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/metalgearsloth/tickphys/physics"
)

// LoadSpec reads and unmarshals a yaml spec file, preferring a disk copy
// over the embedded one.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SceneSpec describes a whole simulation scene.
type SceneSpec struct {
	Name      string          `yaml:"name"`
	Tuning    *physics.Tuning `yaml:"tuning"`
	Seed      int64           `yaml:"seed"`
	Camera    *CameraSpec     `yaml:"camera"`
	TileGrids []TileGridSpec  `yaml:"tile_grids"`
	Bounds    []BoundsSpec    `yaml:"bounds"`
	Bodies    []BodySpec      `yaml:"bodies"`
}

func LoadSceneSpec(filename string) (*SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type CameraSpec struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Zoom float64 `yaml:"zoom"`
}

type BodySpec struct {
	Name     string      `yaml:"name"`
	Type     string      `yaml:"type"`
	Hard     *bool       `yaml:"hard"`
	Friction float64     `yaml:"friction"`
	X        float64     `yaml:"x"`
	Y        float64     `yaml:"y"`
	Rotation float64     `yaml:"rotation"`
	Map      uint32      `yaml:"map"`
	Grid     *uint32     `yaml:"grid"`
	Shapes   []ShapeSpec `yaml:"shapes"`
	// Script names a tengo controller file under scripts/.
	Script string `yaml:"script"`
	// ContainedBy names another body in the scene that holds this one.
	ContainedBy string `yaml:"contained_by"`
}

type ShapeSpec struct {
	Circle  bool    `yaml:"circle"`
	Radius  float64 `yaml:"radius"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
	Density float64 `yaml:"density"`
	Layer   uint32  `yaml:"layer"`
	Mask    uint32  `yaml:"mask"`
}

type TileGridSpec struct {
	Map      uint32      `yaml:"map"`
	Grid     *uint32     `yaml:"grid"`
	TileSize float64     `yaml:"tile_size"`
	OriginX  float64     `yaml:"origin_x"`
	OriginY  float64     `yaml:"origin_y"`
	Gravity  bool        `yaml:"gravity"`
	Rows     [][]float64 `yaml:"rows"`
}

type BoundsSpec struct {
	Map  uint32  `yaml:"map"`
	Grid *uint32 `yaml:"grid"`
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// LoadTuning reads solver constants from a yaml file, filling unset fields
// from the defaults.
func LoadTuning(filename string) (physics.Tuning, error) {
	tuning := physics.DefaultTuning()
	data, err := Load(filename)
	if err != nil {
		return tuning, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return tuning, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return tuning, nil
}
