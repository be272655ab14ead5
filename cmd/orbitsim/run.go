package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
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
	settings := stepSettings(cmd, cfg, scn)

	st := storage.New(dataDir, logger)
	if err := st.Init(); err != nil {
		return err
	}

	s := sim.New(scn)
	for _, m := range metrics.Standard() {
		s.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("running simulation", "scenario", cfg.Scenario, "duration", cfg.Duration, "speed", cfg.Speed, "scheme", sch)
	out, err := s.Run(ctx, sim.Config{
		Duration:    cfg.Duration,
		Frame:       cfg.FrameTime(),
		Settings:    settings,
		Scheme:      sch,
		SampleEvery: cfg.SampleEvery,
	})
	switch {
	case errors.Is(err, context.Canceled) && out != nil:
		logger.Warn("interrupted, saving partial run", "simulation_time", out.SimulationTime)
	case err != nil:
		return err
	}
	if n := out.Rollbacks(); n > 0 {
		logger.Warn("bodies were rolled back", "count", n, "first", out.Errors[0])
	}

	runID, err := st.Save(storage.RunMetadata{
		Scenario:       cfg.Scenario,
		Title:          scn.Name(),
		Speed:          cfg.Speed,
		Duration:       cfg.Duration,
		MaxStep:        settings.MaxStep,
		MaxIterations:  settings.MaxIterations,
		Scheme:         sch.String(),
		SampleEvery:    cfg.SampleEvery,
		SimulationTime: out.SimulationTime,
		Steps:          out.Steps,
	}, out.Result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", out.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("simulated: %s\n", viz.FormatSimulationTime(out.SimulationTime))
	fmt.Printf("steps: %d (%d frames)\n", out.Steps, out.Frames)
	fmt.Println("\nmetrics:")
	printMetrics(out.Result.Metrics)

	return nil
}

func printMetrics(values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, values[name])
	}
}

func compareSchemes(cmd *cobra.Command, args []string) error {
	var names []string
	if len(args) > 1 {
		names = args[1:]
		args = args[:1]
	} else {
		names = []string{physics.SemiImplicitEuler.String(), physics.Leapfrog.String()}
	}

	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	scn, err := buildScenario(cfg)
	if err != nil {
		return err
	}
	settings := stepSettings(cmd, cfg, scn)

	// only metrics are compared, so sampling is effectively off
	configs := make([]sim.Config, len(names))
	for i, name := range names {
		sch, err := physics.ParseScheme(name)
		if err != nil {
			return err
		}
		configs[i] = sim.Config{
			Duration:    cfg.Duration,
			Frame:       cfg.FrameTime(),
			Settings:    settings,
			Scheme:      sch,
			SampleEvery: math.MaxInt32,
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("comparing schemes for %s (max step %.0fs, duration %s)\n\n",
		cfg.Scenario, settings.MaxStep, strings.TrimPrefix(viz.FormatSimulationTime(cfg.Duration), "+"))

	outs, err := sim.NewEnsemble(scn, metrics.Standard).Run(ctx, configs...)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCHEME\tENERGY DRIFT\tMOMENTUM DRIFT\tANG. MOMENTUM DRIFT\tROLLBACKS\tTIME")
	for i, out := range outs {
		m := out.Result.Metrics
		fmt.Fprintf(w, "%s\t%.3e\t%.3e\t%.3e\t%d\t%v\n",
			names[i],
			m["energy_drift"],
			m["momentum_drift"],
			m["angular_momentum_drift"],
			out.Rollbacks(),
			out.Elapsed.Round(time.Millisecond),
		)
	}
	return w.Flush()
}

func sweepStepSizes(cmd *cobra.Command, args []string) error {
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

	build := func() (*physics.Engine, error) {
		eng := physics.NewEngine()
		eng.SetScheme(sch)
		if err := scn.Setup(eng); err != nil {
			return nil, err
		}
		return eng, nil
	}

	logger.Info("sweeping time steps", "scenario", cfg.Scenario, "steps", stepSizes, "duration", cfg.Duration)
	points, err := analysis.StepSweep(build, stepSizes, cfg.Duration)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MAX STEP\tENERGY DRIFT\tSTEPS")
	for _, p := range points {
		fmt.Fprintf(w, "%.0fs\t%.3e\t%d\n", p.MaxStep, p.EnergyDrift, p.Steps)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if body == "" {
		return nil
	}

	lambda, err := analysis.Divergence(build, body, perturbation, divStep, cfg.Duration)
	if err != nil {
		return err
	}
	fmt.Printf("\ndivergence of %s: %.3e 1/s\n", body, lambda)
	if lambda > 0 {
		fmt.Printf("e-folding time: %.1f days\n", 1/lambda/dynamo.SecondsInDay)
	}
	return nil
}
