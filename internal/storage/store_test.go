package storage

import (
	"context"
	"testing"

	"github.com/san-kum/mdlab/internal/config"
	"github.com/san-kum/mdlab/internal/experiment"
)

func runQuick(t *testing.T) (*config.Config, *experiment.Experiment, *experiment.Result) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.NumParticles = 20
	cfg.BoxWidth, cfg.BoxHeight = 30, 30
	cfg.Steps = 100
	cfg.Sampling.Interval = 0.01
	cfg.Relax.MaxSteps = 100

	e, err := experiment.Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return cfg, e, res
}

func TestSaveAndLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	cfg, e, res := runQuick(t)
	runID, err := store.Save("test", cfg, res, e.Engine())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if runID == "" {
		t.Fatal("expected a run id")
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("expected id %s, got %s", runID, meta.ID)
	}
	if meta.Config.NumParticles != 20 {
		t.Errorf("config echo: expected 20 particles, got %d", meta.Config.NumParticles)
	}
	if meta.Metrics["steps"] != 100 {
		t.Errorf("expected 100 steps in metrics, got %g", meta.Metrics["steps"])
	}
}

func TestList(t *testing.T) {
	store := New(t.TempDir())

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list on missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	cfg, e, res := runQuick(t)
	if _, err := store.Save("a", cfg, res, e.Engine()); err != nil {
		t.Fatal(err)
	}

	runs, err = store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestLoadSeriesRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	cfg, e, res := runQuick(t)
	runID, err := store.Save("series", cfg, res, e.Engine())
	if err != nil {
		t.Fatal(err)
	}

	cols, times, err := store.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series: %v", err)
	}
	if len(times) == 0 {
		t.Fatal("expected sampled rows")
	}
	temps, ok := cols["temperature"]
	if !ok {
		t.Fatal("expected a temperature column")
	}
	if len(temps) != len(times) {
		t.Errorf("column length %d != time length %d", len(temps), len(times))
	}

	want := e.Engine().History("temperature")
	if want.Len() != len(temps) {
		t.Fatalf("expected %d samples, got %d", want.Len(), len(temps))
	}
	diff := temps[len(temps)-1] - want.Last().Value
	if diff < 0 {
		diff = -diff
	}
	if diff > 1e-4 {
		t.Errorf("last temperature %g differs from engine %g", temps[len(temps)-1], want.Last().Value)
	}
}

func TestLoadRDF(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	cfg, e, res := runQuick(t)
	runID, err := store.Save("rdf", cfg, res, e.Engine())
	if err != nil {
		t.Fatal(err)
	}

	rs, gs, err := store.LoadRDF(runID)
	if err != nil {
		t.Fatalf("load rdf: %v", err)
	}
	if len(rs) != e.Engine().RDF().Bins() {
		t.Errorf("expected %d bins, got %d", e.Engine().RDF().Bins(), len(rs))
	}
	if len(gs) != len(rs) {
		t.Error("r and g columns should match")
	}
	for i := 1; i < len(rs); i++ {
		if rs[i] <= rs[i-1] {
			t.Fatal("r column should be increasing")
		}
	}
}

func TestLoadMissingRun(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, _, err := store.LoadSeries("nope"); err == nil {
		t.Error("expected error for missing series")
	}
}
