package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportBody struct {
	Name     string       `json:"name"`
	Parent   string       `json:"parent,omitempty"`
	Times    []float64    `json:"times"`
	Position [][3]float64 `json:"position"`
	Velocity [][3]float64 `json:"velocity"`
	Trail    [][3]float64 `json:"trail,omitempty"`
}

type ExportData struct {
	Run    RunMetadata  `json:"run"`
	Bodies []ExportBody `json:"bodies"`
}

// NewExport groups samples by body in the order the run listed them.
func NewExport(meta RunMetadata, result *Result) ExportData {
	data := ExportData{Run: meta, Bodies: make([]ExportBody, 0, len(result.Bodies))}
	index := make(map[string]int, len(result.Bodies))
	for _, name := range result.Bodies {
		index[name] = len(data.Bodies)
		data.Bodies = append(data.Bodies, ExportBody{Name: name})
	}

	for _, s := range result.Samples {
		i, ok := index[s.Body]
		if !ok {
			index[s.Body] = len(data.Bodies)
			i = len(data.Bodies)
			data.Bodies = append(data.Bodies, ExportBody{Name: s.Body})
		}
		b := &data.Bodies[i]
		b.Parent = s.Parent
		b.Times = append(b.Times, s.Time)
		b.Position = append(b.Position, [3]float64{s.Position.X, s.Position.Y, s.Position.Z})
		b.Velocity = append(b.Velocity, [3]float64{s.Velocity.X, s.Velocity.Y, s.Velocity.Z})
	}

	for i := range data.Bodies {
		for _, p := range result.Trails[data.Bodies[i].Name] {
			data.Bodies[i].Trail = append(data.Bodies[i].Trail, [3]float64{p.X, p.Y, p.Z})
		}
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

// LoadResult reassembles a stored run.
func (s *Store) LoadResult(runID string) (*RunMetadata, *Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	trails, err := s.LoadTrails(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &Result{Bodies: meta.Bodies, Samples: samples, Trails: trails, Metrics: meta.Metrics}, nil
}
