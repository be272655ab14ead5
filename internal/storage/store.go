package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	trailsFile   = "trails.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	log     *slog.Logger
}

func New(baseDir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{baseDir: baseDir, log: log}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Scenario       string             `json:"scenario"`
	Title          string             `json:"title"`
	Timestamp      time.Time          `json:"timestamp"`
	Speed          float64            `json:"speed"`
	Duration       float64            `json:"duration"`
	MaxStep        float64            `json:"max_step"`
	MaxIterations  int                `json:"max_iterations"`
	Scheme         string             `json:"scheme"`
	SampleEvery    int                `json:"sample_every"`
	SimulationTime float64            `json:"simulation_time"`
	Steps          int                `json:"steps"`
	Bodies         []string           `json:"bodies"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Save writes a run directory and returns its ID. meta.ID, Timestamp,
// Bodies and Metrics are filled in from the result.
func (s *Store) Save(meta RunMetadata, result *Result) (string, error) {
	meta.Timestamp = time.Now()
	meta.Bodies = result.Bodies
	meta.Metrics = result.Metrics

	runDir, err := s.newRunDir(slug(meta.Scenario), meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = filepath.Base(runDir)

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), result.Samples); err != nil {
		return "", err
	}
	if err := writeTrails(filepath.Join(runDir, trailsFile), result.Trails); err != nil {
		return "", err
	}

	s.log.Info("run saved", "id", meta.ID, "samples", len(result.Samples), "dir", runDir)
	return meta.ID, nil
}

func (s *Store) newRunDir(prefix string, ts time.Time) (string, error) {
	base := fmt.Sprintf("%s_%d", prefix, ts.Unix())
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
	}
}

func slug(name string) string {
	name = strings.ToLower(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '-'
	}, name)
	if name == "" {
		return "run"
	}
	return name
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

var sampleHeader = []string{"time", "body", "parent", "x", "y", "z", "vx", "vy", "vz", "px", "py", "pz"}

func writeSamples(path string, samples []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			formatFloat(s.Time), s.Body, s.Parent,
			formatFloat(s.Position.X), formatFloat(s.Position.Y), formatFloat(s.Position.Z),
			formatFloat(s.Velocity.X), formatFloat(s.Velocity.Y), formatFloat(s.Velocity.Z),
			formatFloat(s.ParentPosition.X), formatFloat(s.ParentPosition.Y), formatFloat(s.ParentPosition.Z),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeTrails(path string, trails map[string][]dynamo.Vector3d) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	names := make([]string, 0, len(trails))
	for name := range trails {
		names = append(names, name)
	}
	sort.Strings(names)

	w := csv.NewWriter(f)
	if err := w.Write([]string{"body", "index", "x", "y", "z"}); err != nil {
		return err
	}
	for _, name := range names {
		for i, p := range trails[name] {
			row := []string{name, strconv.Itoa(i), formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every run, newest first. Directories without
// readable metadata are skipped.
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
			s.log.Debug("skipping run directory", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

// Latest returns the ID of the newest run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", ErrRunNotFound
	}
	return runs[0].ID, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, nil
	}
	return records[1:], nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, len(records))
	for i, record := range records {
		if len(record) != len(sampleHeader) {
			return nil, fmt.Errorf("%s line %d: %d fields", samplesFile, i+2, len(record))
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", samplesFile, i+2, err)
		}
		v, err := parseFloats(record[3:])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", samplesFile, i+2, err)
		}
		samples = append(samples, Sample{
			Time:           t,
			Body:           record[1],
			Parent:         record[2],
			Position:       dynamo.Vec(v[0], v[1], v[2]),
			Velocity:       dynamo.Vec(v[3], v[4], v[5]),
			ParentPosition: dynamo.Vec(v[6], v[7], v[8]),
		})
	}
	return samples, nil
}

func (s *Store) LoadTrails(runID string) (map[string][]dynamo.Vector3d, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, trailsFile))
	if err != nil {
		return nil, err
	}

	trails := make(map[string][]dynamo.Vector3d)
	for i, record := range records {
		if len(record) != 5 {
			return nil, fmt.Errorf("%s line %d: %d fields", trailsFile, i+2, len(record))
		}
		v, err := parseFloats(record[2:])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", trailsFile, i+2, err)
		}
		trails[record[0]] = append(trails[record[0]], dynamo.Vec(v[0], v[1], v[2]))
	}
	return trails, nil
}
