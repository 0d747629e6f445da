package shapes

import (
	"fmt"
	"strings"
)

// Selector narrows the parts of a built shape. Nil fields do not filter.
type Selector struct {
	Part     *string
	Material *string
	Physical *bool
}

func (s Selector) Select(parts []Part) ([]Part, error) {
	if s.Part != nil {
		found := false
		for _, p := range parts {
			if p.Name == *s.Part {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q (available: %s)", ErrPartNotFound, *s.Part, strings.Join(PartNames(parts), ", "))
		}
	}

	out := make([]Part, 0, len(parts))
	for _, p := range parts {
		if s.Part != nil && p.Name != *s.Part {
			continue
		}
		if s.Material != nil && p.Material.Name != *s.Material {
			continue
		}
		if s.Physical != nil && p.Material.Physical != *s.Physical {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func PartNames(parts []Part) []string {
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.Name
	}
	return names
}
