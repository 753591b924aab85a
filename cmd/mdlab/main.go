package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/mdlab/internal/analysis"
	"github.com/san-kum/mdlab/internal/config"
	"github.com/san-kum/mdlab/internal/experiment"
	"github.com/san-kum/mdlab/internal/export"
	"github.com/san-kum/mdlab/internal/field"
	"github.com/san-kum/mdlab/internal/storage"
	"github.com/san-kum/mdlab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string

	numParticles int
	temperature  float64
	boxWidth     float64
	boxHeight    float64
	dt           float64
	steps        int
	seed         int64
	layout       string
	boundaryKind string
	thermoKind   string
	baroKind     string
	pressure     float64
	cutoff       float64
	noRelax      bool
	snapshotSVG  bool
	gravity      float64
	vortex       float64
	efieldX      float64

	// relax
	forceTol      float64
	maxRelaxSteps int

	// export-svg
	outFile  string
	plotRDF  bool
	svgWidth int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mdlab",
		Short: "interactive 2d molecular dynamics lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mdlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation headless and store the results",
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of integration steps")
	runCmd.Flags().BoolVar(&snapshotSVG, "snapshot", false, "write a final-frame SVG into the run directory")
	runCmd.Flags().Float64Var(&gravity, "gravity", 0, "uniform downward force per particle (eV/A)")
	runCmd.Flags().Float64Var(&vortex, "vortex", 0, "tangential swirl force strength (eV/A)")
	runCmd.Flags().Float64Var(&efieldX, "efield", 0, "uniform electric field along x (V/A)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenario presets",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [observable]",
		Short: "plot stored observables",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  plotRun,
	}

	rdfCmd := &cobra.Command{
		Use:   "rdf [run_id]",
		Short: "plot the radial distribution function",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRDFCmd,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id] [observable]",
		Short: "frequency analysis of an observable",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run series to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [observable]",
		Short: "export an observable or RDF curve as SVG",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outFile, "out", "plot.svg", "output file")
	exportSVGCmd.Flags().BoolVar(&plotRDF, "rdf", false, "export g(r) instead of a time series")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width in pixels")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark steps per second over particle counts",
		RunE:  benchSizes,
	}
	benchCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")

	relaxCmd := &cobra.Command{
		Use:   "relax",
		Short: "minimize the initial configuration and report convergence",
		RunE:  relaxOnly,
	}
	addConfigFlags(relaxCmd)
	relaxCmd.Flags().Float64Var(&forceTol, "ftol", 5e-3, "force tolerance (eV/A)")
	relaxCmd.Flags().IntVar(&maxRelaxSteps, "max-steps", 2000, "maximum minimizer steps")

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, listCmd, plotCmd, rdfCmd,
		analyzeCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, benchCmd, relaxCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "scenario preset")
	cmd.Flags().IntVarP(&numParticles, "particles", "n", 100, "number of particles")
	cmd.Flags().Float64Var(&temperature, "temp", 90, "target temperature (K)")
	cmd.Flags().Float64Var(&boxWidth, "box-w", 60, "box width (A)")
	cmd.Flags().Float64Var(&boxHeight, "box-h", 60, "box height (A)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (internal units)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVar(&layout, "layout", "random", "initial layout")
	cmd.Flags().StringVar(&boundaryKind, "boundary", "periodic", "boundary condition")
	cmd.Flags().StringVar(&thermoKind, "thermostat", "none", "thermostat kind")
	cmd.Flags().StringVar(&baroKind, "barostat", "none", "barostat kind")
	cmd.Flags().Float64Var(&pressure, "pressure", 1e-4, "target pressure (eV/A2)")
	cmd.Flags().Float64Var(&cutoff, "cutoff", config.DefaultCutoff, "interaction cutoff (A)")
	cmd.Flags().BoolVar(&noRelax, "no-relax", false, "skip initial minimization")
}

// buildConfig resolves preset, config file and flags, in that order of
// increasing precedence. Flags only override when explicitly set.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("particles") {
		cfg.NumParticles = numParticles
	}
	if flags.Changed("temp") {
		cfg.Temperature = temperature
	}
	if flags.Changed("box-w") {
		cfg.BoxWidth = boxWidth
	}
	if flags.Changed("box-h") {
		cfg.BoxHeight = boxHeight
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("layout") {
		cfg.Layout = layout
	}
	if flags.Changed("boundary") {
		cfg.Boundary = boundaryKind
	}
	if flags.Changed("thermostat") {
		cfg.Thermostat.Kind = thermoKind
	}
	if flags.Changed("barostat") {
		cfg.Barostat.Kind = baroKind
	}
	if flags.Changed("pressure") {
		cfg.Barostat.Pressure = pressure
	}
	if flags.Changed("cutoff") {
		cfg.Potential.Cutoff = cutoff
	}
	if noRelax {
		cfg.Relax.Enabled = false
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if gravity != 0 && vortex != 0 {
		return fmt.Errorf("--gravity and --vortex are mutually exclusive")
	}

	e, err := experiment.Build(cfg)
	if err != nil {
		return err
	}

	if gravity != 0 || vortex != 0 {
		grid := field.NewForceGrid(32, 32, e.System().Box)
		if gravity != 0 {
			grid.FillUniform(0, -gravity)
		} else {
			grid.FillVortex(vortex)
		}
		e.Integrator().SetForceField(grid)
	}
	if efieldX != 0 {
		if !cfg.Charged() {
			return fmt.Errorf("--efield requires a nonzero per-type charge (try --preset salt)")
		}
		eg := field.NewElectricGrid(32, 32, e.System().Box)
		eg.FillUniform(efieldX, 0)
		e.Integrator().SetElectricField(eg, cfg.Potential.Charges)
	}

	label := preset
	if label == "" {
		label = "run"
	}

	fmt.Printf("running %d particles for %d steps...\n", cfg.NumParticles, cfg.Steps)
	res, err := e.Run(context.Background())
	if err != nil {
		return err
	}

	runID, err := st.Save(label, cfg, res, e.Engine())
	if err != nil {
		return err
	}

	if snapshotSVG {
		svg := export.SnapshotToSVG(e.System(), 800)
		path := filepath.Join(dataDir, runID, "snapshot.svg")
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("snapshot: %s\n", path)
	}

	fmt.Printf("completed in %v\n", res.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	if cfg.Relax.Enabled {
		fmt.Printf("relaxation: converged=%v steps=%d\n", res.Relaxed, res.RelaxSteps)
	}
	fmt.Println("\nfinal state:")
	fmt.Printf("  temperature: %.2f K\n", res.Temperature)
	fmt.Printf("  pressure: %.4g eV/A2\n", res.Pressure)
	fmt.Printf("  total energy: %.6f eV\n", res.TotalEnergy)
	fmt.Printf("  density: %.5f /A2\n", res.Density)
	fmt.Printf("  box: %.2f x %.2f\n", res.BoxWidth, res.BoxHeight)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	e, err := experiment.Build(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(e))
	_, err = p.Run()
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tTYPES\tTEMP\tBOUNDARY\tTHERMOSTAT\tBAROSTAT")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0fK\t%s\t%s\t%s\n",
			name, cfg.NumParticles, cfg.NumTypes, cfg.Temperature,
			cfg.Boundary, cfg.Thermostat.Kind, cfg.Barostat.Kind)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPARTICLES\tSTEPS\tTEMP\tENERGY")
	for _, run := range runs {
		n := 0
		if run.Config != nil {
			n = run.Config.NumParticles
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.0f\t%.1fK\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			n,
			run.Metrics["steps"],
			run.Metrics["temperature"],
			run.Metrics["total_energy"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	cols, _, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return fmt.Errorf("no data to plot")
	}

	names := make([]string, 0, len(cols))
	if len(args) == 2 {
		if _, ok := cols[args[1]]; !ok {
			return fmt.Errorf("unknown observable: %s", args[1])
		}
		names = append(names, args[1])
	} else {
		for name := range cols {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(cols[names[0]]))

	for _, name := range names {
		data := cols[name]
		if len(data) < 2 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func plotRDFCmd(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rs, gs, err := st.LoadRDF(args[0])
	if err != nil {
		return err
	}
	if len(gs) < 2 {
		return fmt.Errorf("no rdf data")
	}

	graph := asciigraph.Plot(gs,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("g(r)"),
	)
	fmt.Println(graph)

	peakG, peakR := 0.0, 0.0
	for i := range gs {
		if gs[i] > peakG {
			peakG, peakR = gs[i], rs[i]
		}
	}
	fmt.Printf("\nrange: %.2f - %.2f A\n", rs[0], rs[len(rs)-1])
	fmt.Printf("first peak: g=%.2f at r=%.2f A\n", peakG, peakR)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	cols, times, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	name := analysis.ObsTotalEnergy
	if len(args) == 2 {
		name = args[1]
	}
	data, ok := cols[name]
	if !ok || len(data) < 4 {
		return fmt.Errorf("not enough %s samples", name)
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/4]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", name)),
	)
	fmt.Println(graph)
	fmt.Println()

	maxPower, maxIdx := 0.0, 0
	for i := 1; i < len(plotData); i++ {
		if plotData[i] > maxPower {
			maxPower, maxIdx = plotData[i], i
		}
	}

	span := times[len(times)-1] - times[0]
	if span > 0 && maxIdx > 0 {
		freq := float64(maxIdx) / span
		fmt.Printf("dominant frequency: %.4f per time unit (period %.3f)\n", freq, 1/freq)
	} else {
		fmt.Println("no dominant frequency found")
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	cols, times, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.ExportCSVStdout(cols, times)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	cols, times, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSONStdout(meta, cols, times)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	var svg string
	if plotRDF {
		rs, gs, err := st.LoadRDF(args[0])
		if err != nil {
			return err
		}
		svg = export.RDFToSVG(rs, gs, svgWidth, svgWidth*3/5)
	} else {
		cols, times, err := st.LoadSeries(args[0])
		if err != nil {
			return err
		}
		name := analysis.ObsTemperature
		if len(args) == 2 {
			name = args[1]
		}
		data, ok := cols[name]
		if !ok {
			return fmt.Errorf("unknown observable: %s", name)
		}
		svg = export.SeriesToSVG(times, data, svgWidth, svgWidth*3/5)
	}
	if svg == "" {
		return fmt.Errorf("not enough data to plot")
	}

	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func benchSizes(cmd *cobra.Command, args []string) error {
	counts := []int{50, 100, 250, 500}
	const benchSteps = 500

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range counts {
		cfg := config.DefaultConfig()
		cfg.NumParticles = n
		cfg.BoxWidth = 12 * float64(n) / 10 // keep density roughly fixed
		cfg.BoxHeight = cfg.BoxWidth
		cfg.Dt = dt
		cfg.Steps = benchSteps
		cfg.Relax.Enabled = false

		e, err := experiment.Build(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		if _, err := e.Run(context.Background()); err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n",
			n, benchSteps, elapsed.Round(time.Millisecond),
			float64(benchSteps)/elapsed.Seconds())
	}
	return w.Flush()
}

func relaxOnly(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Relax.Enabled = true
	cfg.Relax.ForceTol = forceTol
	cfg.Relax.MaxSteps = maxRelaxSteps

	e, err := experiment.Build(cfg)
	if err != nil {
		return err
	}

	converged, n := e.Relaxed()
	snap := e.Snapshot()
	fmt.Printf("minimization: converged=%v after %d steps\n", converged, n)
	fmt.Printf("potential energy: %.6f eV\n", snap.PotentialEnergy)
	fmt.Printf("pressure: %.4g eV/A2\n", snap.Pressure)
	return nil
}
