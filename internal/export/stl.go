package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/san-kum/scadsim/internal/mesh"
)

// WriteSTL writes m to path as binary STL.
func WriteSTL(path string, m *mesh.Mesh) error {
	if m == nil || m.Len() == 0 {
		return fmt.Errorf("export: empty mesh")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := mesh.EncodeBinary(w, m); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteFile writes an SVG document produced by this package.
func WriteFile(path, doc string) error {
	return os.WriteFile(path, []byte(doc), 0644)
}
