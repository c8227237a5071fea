package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math/rand"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/physics2d/internal/config"
	"github.com/san-kum/physics2d/internal/engine"
	"github.com/san-kum/physics2d/internal/export"
	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/metrics"
	"github.com/san-kum/physics2d/internal/optim"
	"github.com/san-kum/physics2d/internal/scene"
	"github.com/san-kum/physics2d/internal/sim"
	"github.com/san-kum/physics2d/internal/storage"
	"github.com/san-kum/physics2d/internal/viz"
	"github.com/spf13/cobra"
)

// bodies farther than this from the origin count as unstable
const stabilityBound = 1e5

var (
	dataDir     string
	configFile  string
	preset      string
	dt          float64
	duration    float64
	seed        int64
	broadPhase  string
	iterations  int
	recordEvery int
	theme       string
	field       string
	plotBody    int
	exportBody  int
	format      string
	outFile     string
	numRuns     int
	objective   string

	scenes = scene.NewRegistry()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "physics2d",
		Short: "2D rigid-body physics sandbox",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".physics2d", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().IntVar(&recordEvery, "record", 5, "record a frame every n steps")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name, "color theme")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded quantity over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&field, "field", "kinetic", "x, y, vx, vy, angle or kinetic")
	plotCmd.Flags().IntVar(&plotBody, "body", -1, "body index in the first frame (-1 aggregates all bodies)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata, final frame or a trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json, frames, svg or path")
	exportCmd.Flags().IntVar(&exportBody, "body", 0, "body index in the first frame (path format)")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list scenes, or the presets of one scene",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, name := range scenes.List() {
					fmt.Printf("%s\t%v\n", name, config.ListPresets(name))
				}
				return nil
			}
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scene: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "compare broad phases on a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	addSceneFlags(benchCmd)
	benchCmd.Flags().IntVar(&numRuns, "runs", 4, "parallel runs per broad phase")

	tuneCmd := &cobra.Command{
		Use:   "tune [scene]",
		Short: "grid search solver iterations and bias factor",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneScene,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&objective, "metric", "max_penetration", "metric to minimise")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, presetsCmd, benchCmd, tuneCmd)
	return rootCmd
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().StringVar(&broadPhase, "broad-phase", config.DefaultBroadPhase, "sweep or brute")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "solver iterations (0 keeps the configured value)")
}

// resolveConfig layers defaults, a preset, a config file and finally the
// flags the user set explicitly.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	name := cfg.Scene
	if len(args) > 0 {
		name = args[0]
	}

	if preset != "" {
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) == 0 {
			name = cfg.Scene
		}
	}
	cfg.Scene = name

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("broad-phase") {
		cfg.BroadPhase = broadPhase
	}
	if flags.Changed("iterations") {
		cfg.Solver.Iterations = iterations
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newSetup builds the configured scene into a fresh engine for each seed.
func newSetup(cfg *config.Config) sim.Setup {
	return func(seed int64) (*engine.PhysicsEngine, error) {
		ec, err := cfg.EngineConfig()
		if err != nil {
			return nil, err
		}
		e, err := engine.New(ec)
		if err != nil {
			return nil, err
		}
		opts := scene.Options{
			Gravity: cfg.Gravity.Vector(),
			Rand:    rand.New(rand.NewSource(seed)),
		}
		if err := scenes.Build(cfg.Scene, e, opts); err != nil {
			return nil, err
		}
		return e, nil
	}
}

func defaultMetrics(g geometry.Vector2D) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(g),
		metrics.NewEnergyDrift(g),
		metrics.NewContacts(),
		metrics.NewPenetration(),
		metrics.NewStability(stabilityBound),
	}
}

func simConfig(cfg *config.Config, record int) sim.Config {
	return sim.Config{
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		Seed:          cfg.Seed,
		RecordEvery:   record,
		ValidateState: true,
	}
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s := sim.New(newSetup(cfg))
	for _, m := range defaultMetrics(cfg.Gravity.Vector()) {
		s.AddMetric(m)
	}

	fmt.Printf("running %s simulation...\n", cfg.Scene)
	start := time.Now()

	result, err := s.Run(context.Background(), simConfig(cfg, recordEvery))
	if err != nil {
		return fmt.Errorf("run %s: %w", cfg.Scene, err)
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Scene:      cfg.Scene,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		BroadPhase: cfg.BroadPhase,
		Solver:     cfg.Solver,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("bodies: %d  joints: %d  contacts: %d\n", result.Stats.Bodies, result.Stats.Joints, result.Stats.ContactPoints)
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	for _, name := range slices.Sorted(maps.Keys(result.Metrics)) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(cfg.Scene, newSetup(cfg), cfg.Seed, cfg.Dt, cfg.Gravity.Vector())
	if err != nil {
		return err
	}
	m.SetTheme(theme)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tBROAD\tSTEPS\tBODIES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.BroadPhase,
			run.Steps,
			run.Bodies,
		)
	}

	return w.Flush()
}

// series extracts one quantity per frame. A negative index sums kinetic
// energy over all bodies and averages every other field.
func series(frames []sim.Frame, field string, index int) ([]float64, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no data to plot")
	}
	pick, ok := map[string]func(sim.BodyState) float64{
		"x":       func(b sim.BodyState) float64 { return b.X },
		"y":       func(b sim.BodyState) float64 { return b.Y },
		"vx":      func(b sim.BodyState) float64 { return b.VX },
		"vy":      func(b sim.BodyState) float64 { return b.VY },
		"angle":   func(b sim.BodyState) float64 { return b.Angle },
		"kinetic": func(b sim.BodyState) float64 { return b.Kinetic },
	}[field]
	if !ok {
		return nil, fmt.Errorf("unknown field: %s", field)
	}

	if index >= 0 {
		if index >= len(frames[0].Bodies) {
			return nil, fmt.Errorf("body index %d out of range (%d bodies)", index, len(frames[0].Bodies))
		}
		id := frames[0].Bodies[index].ID
		var out []float64
		for _, f := range frames {
			for _, b := range f.Bodies {
				if b.ID == id {
					out = append(out, pick(b))
					break
				}
			}
		}
		return out, nil
	}

	out := make([]float64, len(frames))
	for i, f := range frames {
		sum := 0.0
		for _, b := range f.Bodies {
			sum += pick(b)
		}
		if field != "kinetic" && len(f.Bodies) > 0 {
			sum /= float64(len(f.Bodies))
		}
		out[i] = sum
	}
	return out, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	data, err := series(frames, field, plotBody)
	if err != nil {
		return err
	}
	if len(data) < 2 {
		return fmt.Errorf("not enough frames to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("frames: %d\n\n", len(data))

	caption := field
	if plotBody >= 0 {
		caption = fmt.Sprintf("%s of body %d", field, plotBody)
	}
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(70),
		asciigraph.Caption(caption),
	))
	return nil
}

// shapeIndex rebuilds the recorded scene and pairs its bodies with the
// first frame by position in the body list.
func shapeIndex(meta *storage.RunMetadata, first sim.Frame) (export.ShapeIndex, error) {
	cfg := config.DefaultConfig()
	cfg.Scene = meta.Scene
	cfg.BroadPhase = meta.BroadPhase
	cfg.Solver = meta.Solver
	e, err := newSetup(cfg)(meta.Seed)
	if err != nil {
		return nil, err
	}
	index := make(export.ShapeIndex)
	for i, b := range e.Bodies() {
		if i < len(first.Bodies) {
			index[first.Bodies[i].ID] = b.Shape()
		}
	}
	return index, nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	case "svg", "path", "frames":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", runID)
	}

	switch format {
	case "frames":
		return export.WriteJSON(out, export.ExportData{
			Scene:    meta.Scene,
			Seed:     meta.Seed,
			Dt:       meta.Dt,
			Duration: meta.Duration,
			Steps:    meta.Steps,
			Frames:   frames,
			Metrics:  meta.Metrics,
		})
	case "path":
		if exportBody < 0 || exportBody >= len(frames[0].Bodies) {
			return fmt.Errorf("body index %d out of range (%d bodies)", exportBody, len(frames[0].Bodies))
		}
		path := export.Trajectory(frames, frames[0].Bodies[exportBody].ID)
		_, err = io.WriteString(out, export.TrajectoryToSVG(path, 800, 600, "#00ffff"))
		return err
	}

	index, err := shapeIndex(meta, frames[0])
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, export.FrameToSVG(frames[len(frames)-1], index, viz.DefaultWorld))
	return err
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}

	fmt.Printf("benchmarking %s\n\n", cfg.Scene)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BROAD\tRUNS\tSTEPS\tTIME\tSTEPS/SEC\tPAIRS\tMAX DEPTH")

	for _, bp := range []string{"sweep", "brute"} {
		c := *cfg
		c.BroadPhase = bp
		ens := sim.NewEnsemble(newSetup(&c), func() []sim.Metric { return []sim.Metric{metrics.NewPenetration()} }, numRuns, c.Seed)

		start := time.Now()
		results, err := ens.Run(context.Background(), simConfig(&c, 0))
		if err != nil {
			return fmt.Errorf("bench %s: %w", bp, err)
		}
		elapsed := time.Since(start)

		steps, pairs, depth := 0, 0, 0.0
		for _, r := range results {
			steps += r.StepsTaken
			pairs += r.Stats.CandidatePairs
			depth = max(depth, r.Metrics["max_penetration"])
		}

		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\t%d\t%.4f\n",
			bp,
			numRuns,
			steps,
			elapsed.Round(time.Millisecond),
			float64(steps)/elapsed.Seconds(),
			pairs/len(results),
			depth,
		)
	}

	return w.Flush()
}

var (
	tuneIterations = []float64{5, 10, 13, 20}
	tuneBias       = []float64{0.2, 0.5, 0.7}
)

func tuneScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	grid, err := optim.NewGridSearch([]string{"iterations", "bias_factor"}, [][]float64{tuneIterations, tuneBias})
	if err != nil {
		return err
	}
	run := func(ctx context.Context, params map[string]float64) (*sim.Result, error) {
		c := *cfg
		c.Solver.Iterations = int(params["iterations"])
		c.Solver.BiasFactor = params["bias_factor"]
		if err := c.Validate(); err != nil {
			return nil, err
		}
		s := sim.New(newSetup(&c))
		for _, m := range defaultMetrics(c.Gravity.Vector()) {
			s.AddMetric(m)
		}
		return s.Run(ctx, simConfig(&c, 0))
	}

	fmt.Printf("tuning %s on %s\n\n", cfg.Scene, objective)
	best, value, trials, err := grid.Search(context.Background(), run, objective)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITERATIONS\tBIAS\tVALUE")
	for _, tr := range trials {
		val := fmt.Sprintf("%.6f", tr.Value)
		if tr.Err != nil {
			val = "error: " + tr.Err.Error()
		}
		fmt.Fprintf(w, "%.0f\t%.2f\t%s\n", tr.Params["iterations"], tr.Params["bias_factor"], val)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest: iterations=%.0f bias_factor=%.2f (%s %.6f)\n", best["iterations"], best["bias_factor"], objective, value)
	return nil
}
