// Package storage persists completed runs to disk: one directory per run
// holding metadata.json, observables.csv and rdf.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/mdlab/internal/analysis"
	"github.com/san-kum/mdlab/internal/config"
	"github.com/san-kum/mdlab/internal/experiment"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Label     string             `json:"label"`
	Timestamp time.Time          `json:"timestamp"`
	Config    *config.Config     `json:"config"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a finished run under a fresh directory and returns its id.
func (s *Store) Save(label string, cfg *config.Config, res *experiment.Result, eng *analysis.Engine) (string, error) {
	runID := fmt.Sprintf("%s_%d", label, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Label:     label,
		Timestamp: time.Now(),
		Config:    cfg,
		Metrics: map[string]float64{
			"steps":            float64(res.Steps),
			"temperature":      res.Temperature,
			"pressure":         res.Pressure,
			"kinetic_energy":   res.KineticEnergy,
			"potential_energy": res.PotentialEnergy,
			"total_energy":     res.TotalEnergy,
			"density":          res.Density,
			"box_width":        res.BoxWidth,
			"box_height":       res.BoxHeight,
			"elapsed_sec":      res.Elapsed.Seconds(),
		},
	}

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

	if eng != nil {
		if err := writeObservables(filepath.Join(runDir, "observables.csv"), eng); err != nil {
			return "", err
		}
		if err := writeRDF(filepath.Join(runDir, "rdf.csv"), eng.RDF()); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeObservables(path string, eng *analysis.Engine) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	names := eng.Names()
	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	if len(names) == 0 {
		return nil
	}
	n := eng.History(names[0]).Len()
	for i := 0; i < n; i++ {
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatFloat(eng.History(names[0]).At(i).Time, 'f', 6, 64))
		for _, name := range names {
			series := eng.History(name)
			v := 0.0
			if i < series.Len() {
				v = series.At(i).Value
			}
			row = append(row, strconv.FormatFloat(v, 'g', 8, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeRDF(path string, rdf *analysis.RDF) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	pairs := rdf.Pairs()
	header := []string{"r", "g"}
	for _, p := range pairs {
		header = append(header, fmt.Sprintf("g_%d_%d", p.A, p.B))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	global := rdf.Global()
	for i := 0; i < rdf.Bins(); i++ {
		row := []string{
			strconv.FormatFloat(rdf.R(i), 'f', 4, 64),
			strconv.FormatFloat(global[i], 'g', 6, 64),
		}
		for _, p := range pairs {
			row = append(row, strconv.FormatFloat(rdf.Pair(p.A, p.B)[i], 'g', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
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

// LoadSeries reads observables.csv back as named columns plus the time axis.
func (s *Store) LoadSeries(runID string) (map[string][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "observables.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return map[string][]float64{}, []float64{}, nil
	}

	header := records[0]
	times := make([]float64, 0, len(records)-1)
	cols := make(map[string][]float64, len(header)-1)
	for _, name := range header[1:] {
		cols[name] = make([]float64, 0, len(records)-1)
	}

	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		for j, name := range header[1:] {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				v = 0
			}
			cols[name] = append(cols[name], v)
		}
	}
	return cols, times, nil
}

// LoadRDF reads rdf.csv back as (r, g) slices, global column only.
func (s *Store) LoadRDF(runID string) ([]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "rdf.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []float64{}, nil
	}

	rs := make([]float64, 0, len(records)-1)
	gs := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		r, err1 := strconv.ParseFloat(record[0], 64)
		g, err2 := strconv.ParseFloat(record[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		rs = append(rs, r)
		gs = append(gs, g)
	}
	return rs, gs, nil
}
