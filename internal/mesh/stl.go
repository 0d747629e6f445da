package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

var ErrFormat = errors.New("mesh: not an STL stream")

// short name, for convenience
var le = binary.LittleEndian

const (
	headerSize   = 80
	triangleSize = 50
)

// Decode reads a binary or ASCII STL stream.
func Decode(r io.Reader) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) >= headerSize+4 {
		n := int(le.Uint32(data[headerSize:]))
		if headerSize+4+n*triangleSize == len(data) {
			return decodeBinary(data[headerSize+4:], n), nil
		}
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid")) {
		return decodeASCII(data)
	}
	return nil, ErrFormat
}

func decodeBinary(buf []byte, n int) *Mesh {
	tris := make([]Triangle, n)
	for i := range tris {
		rec := buf[i*triangleSize : (i+1)*triangleSize]
		// skip the 12 byte facet normal, it is recomputed from winding
		for v := 0; v < 3; v++ {
			off := 12 + v*12
			tris[i][v] = r3.Vec{
				X: float64(math.Float32frombits(le.Uint32(rec[off:]))),
				Y: float64(math.Float32frombits(le.Uint32(rec[off+4:]))),
				Z: float64(math.Float32frombits(le.Uint32(rec[off+8:]))),
			}
		}
	}
	return New(tris)
}

func decodeASCII(data []byte) (*Mesh, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	var (
		tris []Triangle
		cur  Triangle
		nv   int
		line int
	)
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("mesh: line %d: malformed vertex", line)
		}
		var xyz [3]float64
		for i := range xyz {
			f, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("mesh: line %d: %w", line, err)
			}
			xyz[i] = f
		}
		cur[nv] = r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}
		nv++
		if nv == 3 {
			tris = append(tris, cur)
			nv = 0
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if nv != 0 {
		return nil, fmt.Errorf("mesh: dangling vertices at end of stream")
	}
	return New(tris), nil
}

// EncodeBinary writes m as a binary STL stream.
func EncodeBinary(w io.Writer, m *Mesh) error {
	var header [headerSize]byte
	copy(header[:], "scadsim")
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, le, uint32(len(m.Triangles))); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	var rec [triangleSize]byte
	for _, t := range m.Triangles {
		putVec(rec[0:], t.Normal())
		putVec(rec[12:], t[0])
		putVec(rec[24:], t[1])
		putVec(rec[36:], t[2])
		le.PutUint16(rec[48:], 0)
		if _, err := bw.Write(rec[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func putVec(b []byte, v r3.Vec) {
	le.PutUint32(b[0:], math.Float32bits(float32(v.X)))
	le.PutUint32(b[4:], math.Float32bits(float32(v.Y)))
	le.PutUint32(b[8:], math.Float32bits(float32(v.Z)))
}
