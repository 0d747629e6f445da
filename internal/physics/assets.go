package physics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/scadsim/internal/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// DataPath is the search path entry holding the built-in assets.
const DataPath = "builtin:scadsim_data"

var builtinAssets = map[string]Plane{
	"plane.urdf":    {Normal: r3.Vec{Z: 1}},
	"plane100.urdf": {Normal: r3.Vec{Z: 1}},
}

// BuiltinAssets lists the assets available under DataPath.
func BuiltinAssets() []string {
	names := make([]string, 0, len(builtinAssets))
	for name := range builtinAssets {
		names = append(names, name)
	}
	return names
}

// loadAsset resolves name against the search paths in order. Built-in
// planes come from DataPath; STL files in directories load as static
// scenery meshes.
func loadAsset(w *World, searchPaths []string, name string) (*Body, error) {
	for _, dir := range searchPaths {
		if dir == DataPath {
			if p, ok := builtinAssets[name]; ok {
				return newPlaneBody(w.nextID(), name, p), nil
			}
			continue
		}
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if !strings.EqualFold(filepath.Ext(path), ".stl") {
			return nil, fmt.Errorf("%w: %s: unsupported asset type", ErrAssetNotFound, path)
		}
		m, err := readSTL(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		return newMeshBody(w.nextID(), BodySpec{Name: name, Mesh: m, Colour: builtinSceneryColour, Static: true})
	}
	return nil, fmt.Errorf("%w: %s (search path: %s)", ErrAssetNotFound, name, strings.Join(searchPaths, ", "))
}

func readSTL(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := mesh.Decode(f)
	if err != nil {
		return nil, err
	}
	return m.Orient(), nil
}
