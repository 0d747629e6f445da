package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/scadsim/internal/physics"
)

// DefaultStride records every tenth step.
const DefaultStride = 10

var poseFields = []string{"x", "y", "z", "qw", "qx", "qy", "qz"}

// Recorder samples the pose of every dynamic body. It is a sim observer.
type Recorder struct {
	Stride int

	ids    []int
	names  []string
	times  []float64
	states [][]float64
}

func NewRecorder(stride int) *Recorder {
	if stride < 1 {
		stride = DefaultStride
	}
	return &Recorder{Stride: stride}
}

func (r *Recorder) OnStep(f physics.Frame) {
	if f.Step%r.Stride != 0 {
		return
	}
	if r.ids == nil {
		for _, b := range f.Bodies {
			if b.Kind == physics.KindMesh && !b.Static {
				r.ids = append(r.ids, b.ID)
				r.names = append(r.names, b.Name)
			}
		}
	}

	row := make([]float64, 0, len(r.ids)*len(poseFields))
	for _, id := range r.ids {
		if id >= len(f.Bodies) {
			row = append(row, make([]float64, len(poseFields))...)
			continue
		}
		b := f.Bodies[id]
		q := b.Orientation
		row = append(row, b.Position.X, b.Position.Y, b.Position.Z, q.Real, q.Imag, q.Jmag, q.Kmag)
	}
	r.times = append(r.times, f.Time)
	r.states = append(r.states, row)
}

func (r *Recorder) Len() int { return len(r.times) }

func (r *Recorder) Bodies() []string {
	return append([]string{}, r.names...)
}

// Columns names the state columns, one group of pose fields per body.
func (r *Recorder) Columns() []string {
	cols := make([]string, 0, len(r.ids)*len(poseFields))
	for _, id := range r.ids {
		for _, f := range poseFields {
			cols = append(cols, fmt.Sprintf("b%d_%s", id, f))
		}
	}
	return cols
}

func (r *Recorder) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"time"}, r.Columns()...)); err != nil {
		return err
	}
	for i, st := range r.states {
		row := make([]string, 0, len(st)+1)
		row = append(row, strconv.FormatFloat(r.times[i], 'f', 6, 64))
		for _, v := range st {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// HeightColumn is the column holding the height of the first dynamic body.
func (r *Recorder) HeightColumn() string {
	if len(r.ids) == 0 {
		return ""
	}
	return fmt.Sprintf("b%d_z", r.ids[0])
}
