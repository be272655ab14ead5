package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scenario"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logFormat  string
	verbose    bool

	speed       float64
	duration    float64
	fps         int
	maxStep     float64
	maxIters    int
	scheme      string
	sampleEvery int
	theme       string

	addr       string
	trails     bool
	maxClients int

	body         string
	outFile      string
	date         string
	stepSizes    []float64
	perturbation float64
	divStep      float64

	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "orbitsim",
		Short:         "n-body orbit simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(os.Stderr)
		},
		RunE: runPicker,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".orbitsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().StringVar(&theme, "theme", "deep-space", "color theme")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a simulation headless and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "record every n-th frame")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "deep-space", "color theme")

	serveCmd := &cobra.Command{
		Use:   "serve [scenario]",
		Short: "stream a simulation over websocket",
		Args:  cobra.MaximumNArgs(1),
		RunE:  serve,
	}
	addSimFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultStreamAddr, "listen address")
	serveCmd.Flags().BoolVar(&trails, "trails", false, "include trails in frames")
	serveCmd.Flags().IntVar(&maxClients, "max-clients", 0, "client limit (0 = unlimited)")

	compareCmd := &cobra.Command{
		Use:   "compare [scenario] [scheme...]",
		Short: "compare integration schemes on the same scenario",
		Args:  cobra.ArbitraryArgs,
		RunE:  compareSchemes,
	}
	addSimFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "energy drift against maximum time step",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepStepSizes,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&stepSizes, "steps", []float64{600, 3600, 6 * 3600, 24 * 3600}, "maximum time steps to try (s)")
	sweepCmd.Flags().StringVar(&body, "body", "", "also estimate divergence for this body")
	sweepCmd.Flags().Float64Var(&perturbation, "perturbation", 1000, "initial displacement for divergence (m)")
	sweepCmd.Flags().Float64Var(&divStep, "div-step", dynamo.SecondsInDay, "renormalization interval for divergence (s)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body's distance and path",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&body, "body", "", "body to plot (default: first body with a parent)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbital period and shape analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&body, "body", "", "body to analyze (default: first body with a parent)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a run's trails as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scenario.NewRegistry(logger).List() {
				fmt.Println(name)
			}
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-18s %s\n", name, strings.TrimPrefix(viz.FormatSpeed(p.Speed), "Speed: "))
			}
			return nil
		},
	}

	ephemerisCmd := &cobra.Command{
		Use:   "ephemeris",
		Short: "heliocentric planet positions for a date",
		Args:  cobra.NoArgs,
		RunE:  printEphemeris,
	}
	ephemerisCmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD, default now)")

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, compareCmd, sweepCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportSVGCmd, scenariosCmd, presetsCmd, ephemerisCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// addSimFlags registers the flags that override config and preset values.
func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&speed, "speed", config.DefaultSpeed, "simulated seconds per real second")
	f.Float64Var(&duration, "time", config.DefaultDuration, "simulated duration (s)")
	f.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	f.Float64Var(&maxStep, "max-step", physics.DefaultMaxSimulationTimeStep, "maximum time step (s)")
	f.IntVar(&maxIters, "max-iterations", physics.DefaultMaxIterations, "sub-steps per frame before the step is stretched")
	f.StringVar(&scheme, "scheme", physics.SemiImplicitEuler.String(), "integration scheme")
}

func setupLogger(w io.Writer) error {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	switch logFormat {
	case "text":
		logger = slog.New(slog.NewTextHandler(w, opts))
	case "json":
		logger = slog.New(slog.NewJSONHandler(w, opts))
	default:
		return fmt.Errorf("unknown log format %q (text, json)", logFormat)
	}
	slog.SetDefault(logger)
	return nil
}

// logToFile sends logs to the data directory while a TUI owns the terminal.
func logToFile() (func(), error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dataDir, "orbitsim.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	if err := setupLogger(f); err != nil {
		f.Close()
		return nil, err
	}
	return func() { f.Close() }, nil
}

// resolveConfig layers defaults, the preset, the config file, the scenario
// argument and finally any flag the user set.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Merge(p)
	}

	if configFile != "" {
		file, err := config.Read(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg.Merge(file)
	}

	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
		cfg.Stream.FPS = fps
	}
	if flags.Changed("max-step") {
		cfg.MaxStep = maxStep
	}
	if flags.Changed("max-iterations") {
		cfg.MaxIterations = maxIters
	}
	if flags.Changed("scheme") {
		cfg.Scheme = scheme
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("addr") {
		cfg.Stream.Addr = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("config resolved", "scenario", cfg.Scenario, "speed", cfg.Speed, "duration", cfg.Duration, "scheme", cfg.Scheme)
	return cfg, nil
}

func buildScenario(cfg *config.Config) (scenario.Scenario, error) {
	scn, err := scenario.NewRegistry(logger).Get(cfg.Scenario)
	if err != nil {
		return nil, err
	}
	return scenario.Retrack(scn, cfg.TrackerOptions())
}

// stepSettings prefers step flags, then the scenario's own settings, then
// the config.
func stepSettings(cmd *cobra.Command, cfg *config.Config, scn scenario.Scenario) physics.StepSettings {
	if cmd.Flags().Changed("max-step") || cmd.Flags().Changed("max-iterations") {
		return cfg.StepSettings()
	}
	if s, ok := scn.StepSettings(); ok {
		return s
	}
	return cfg.StepSettings()
}

func runPicker(cmd *cobra.Command, args []string) error {
	closeLog, err := logToFile()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	p := viz.NewPicker(scenario.NewRegistry(logger), viz.Options{
		FPS:      cfg.FPS,
		Theme:    theme,
		Snapshot: saveSnapshot,
	})
	_, err = tea.NewProgram(p, tea.WithAltScreen()).Run()
	return err
}

func runLive(cmd *cobra.Command, args []string) error {
	closeLog, err := logToFile()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	scn, err := buildScenario(cfg)
	if err != nil {
		return err
	}
	sch, err := physics.ParseScheme(cfg.Scheme)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(scn, viz.Options{
		Speed:    cfg.Speed,
		FPS:      cfg.FPS,
		Settings: stepSettings(cmd, cfg, scn),
		Scheme:   sch,
		Theme:    theme,
		Snapshot: saveSnapshot,
	})
	if err != nil {
		return err
	}

	logger.Info("live view started", "scenario", cfg.Scenario, "speed", cfg.Speed, "fps", cfg.FPS)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// saveSnapshot writes the live view's canvas under the data directory.
func saveSnapshot(c *viz.Canvas) error {
	dir := filepath.Join(dataDir, "snapshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, time.Now().Format("20060102-150405.000")+".svg")
	if err := os.WriteFile(path, []byte(export.CanvasToSVG(c, 4, "#ffffff")), 0o644); err != nil {
		return err
	}
	logger.Info("snapshot saved", "path", path)
	return nil
}
