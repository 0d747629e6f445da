package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrNoColumn = errors.New("storage: no such column")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Module    string             `json:"module"`
	Shape     string             `json:"shape"`
	Example   string             `json:"example"`
	Part      *string            `json:"part,omitempty"`
	Material  *string            `json:"material,omitempty"`
	Physical  *bool              `json:"physical,omitempty"`
	Mode      string             `json:"mode"`
	Timestamp time.Time          `json:"timestamp"`
	TimeStep  float64            `json:"time_step"`
	Steps     int                `json:"steps"`
	Stride    int                `json:"stride"`
	Samples   int                `json:"samples"`
	Closed    bool               `json:"closed,omitempty"`
	Bodies    []string           `json:"bodies"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Save writes the metadata and the recorded samples into a new run
// directory and returns the run id.
func (s *Store) Save(meta RunMetadata, rec *Recorder) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Shape, now.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Stride = rec.Stride
	meta.Samples = rec.Len()
	meta.Bodies = rec.Bodies()

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := rec.WriteCSV(csvFile); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadStates returns the header, the state rows and their times of a run.
func (s *Store) LoadStates(runID string) ([]string, [][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) == 0 {
		return nil, [][]float64{}, []float64{}, nil
	}

	header := records[0][1:]
	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		state := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}
		states = append(states, state)
	}
	return header, states, times, nil
}

// LoadSeries returns one named column of a run.
func (s *Store) LoadSeries(runID, column string) ([]float64, []float64, error) {
	header, states, times, err := s.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	col := -1
	for i, h := range header {
		if h == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, nil, fmt.Errorf("%w: %q in run %s", ErrNoColumn, column, runID)
	}

	values := make([]float64, 0, len(states))
	for _, st := range states {
		if col < len(st) {
			values = append(values, st[col])
		}
	}
	return times[:len(values)], values, nil
}

// HeightColumn returns the first body height column of header, or "" when
// the run recorded no dynamic body.
func HeightColumn(header []string) string {
	for _, h := range header {
		if strings.HasSuffix(h, "_z") {
			return h
		}
	}
	return ""
}

type exportData struct {
	Meta    *RunMetadata `json:"meta"`
	Columns []string     `json:"columns"`
	Times   []float64    `json:"times"`
	States  [][]float64  `json:"states"`
}

// ExportJSON writes a whole run as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	header, states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData{Meta: meta, Columns: header, Times: times, States: states})
}
