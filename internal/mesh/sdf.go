package mesh

import (
	"fmt"

	"github.com/soypat/sdf"
	"github.com/soypat/sdf/render"
)

// DefaultCells is the octree resolution used when callers pass zero.
const DefaultCells = 64

// FromSDF renders a signed distance function into a mesh.
func FromSDF(s sdf.SDF3, cells int) (*Mesh, error) {
	if cells <= 0 {
		cells = DefaultCells
	}
	rendered, err := render.RenderAll(render.NewOctreeRenderer(s, cells))
	if err != nil {
		return nil, fmt.Errorf("mesh: render: %w", err)
	}

	tris := make([]Triangle, 0, len(rendered))
	for _, t := range rendered {
		tri := Triangle{t[0], t[1], t[2]}
		if tri.Area() == 0 {
			continue
		}
		tris = append(tris, tri)
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("mesh: render: solid produced no triangles")
	}
	return New(tris).Orient(), nil
}
