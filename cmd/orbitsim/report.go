package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ephemeris"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
)

// loadRun accepts a run ID or "latest".
func loadRun(runID string) (*storage.RunMetadata, *storage.Result, error) {
	st := storage.New(dataDir, logger)
	if runID == "latest" {
		id, err := st.Latest()
		if err != nil {
			return nil, nil, err
		}
		runID = id
	}
	return st.LoadResult(runID)
}

// pickBody returns name if set, else the first body that orbits something.
func pickBody(result *storage.Result, name string) (string, error) {
	if name != "" {
		for _, b := range result.Bodies {
			if b == name {
				return name, nil
			}
		}
		return "", fmt.Errorf("%w: %q (bodies: %v)", dynamo.ErrUnknownBody, name, result.Bodies)
	}
	for _, s := range result.Samples {
		if s.Parent != "" {
			return s.Body, nil
		}
	}
	if len(result.Bodies) == 0 {
		return "", fmt.Errorf("no data")
	}
	return result.Bodies[0], nil
}

func parentOf(result *storage.Result, name string) string {
	for _, s := range result.Samples {
		if s.Body == name {
			if s.Parent == "" {
				return "origin"
			}
			return s.Parent
		}
	}
	return "origin"
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSIMULATED\tMAX STEP\tSCHEME\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fd\t%.0fs\t%s\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.SimulationTime/dynamo.SecondsInDay,
			run.MaxStep,
			run.Scheme,
			run.Steps,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	name, err := pickBody(result, body)
	if err != nil {
		return err
	}

	_, rel := result.Series(name)
	if len(rel) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Title)
	fmt.Printf("samples: %d\n\n", len(rel))

	dist := make([]float64, len(rel))
	for i, r := range rel {
		dist[i] = r.Length() / dynamo.AstronomicalUnit
	}

	graph := asciigraph.Plot(dist,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s distance from %s (AU)", name, parentOf(result, name))),
	)
	fmt.Println(graph)
	fmt.Println()

	fmt.Printf("%s path relative to %s (x-y plane)\n", name, parentOf(result, name))
	fmt.Println(analysis.PathToASCII(rel, 70, 20))

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	name, err := pickBody(result, body)
	if err != nil {
		return err
	}

	times, rel := result.Series(name)
	if len(rel) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("orbit analysis: %s\n", meta.ID)
	fmt.Printf("body: %s around %s\n\n", name, parentOf(result, name))

	peri, apo := analysis.Apsides(rel)
	fmt.Printf("periapsis:    %s\n", viz.FormatDistance(peri))
	fmt.Printf("apoapsis:     %s\n", viz.FormatDistance(apo))
	fmt.Printf("eccentricity: %.4f\n", analysis.Eccentricity(peri, apo))

	if period, err := analysis.PeriodByReturn(times, rel); err != nil {
		fmt.Printf("period:       n/a (%v)\n", err)
	} else {
		fmt.Printf("period:       %.2f days\n", period/dynamo.SecondsInDay)
	}

	dist := make([]float64, len(rel))
	for i, r := range rel {
		dist[i] = r.Length()
	}
	dt := times[1] - times[0]

	ps := analysis.Spectrum(dist)
	if len(ps) > 2 {
		graph := asciigraph.Plot(ps[1:],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("amplitude spectrum (distance)"),
		)
		fmt.Println()
		fmt.Println(graph)
		fmt.Println()
	}

	if period, err := analysis.DominantPeriod(dist, dt); err == nil {
		fmt.Printf("dominant period: %.2f days\n", period/dynamo.SecondsInDay)
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	data := storage.NewExport(*meta, result)
	if outFile == "" {
		return storage.WriteJSON(os.Stdout, data)
	}
	if err := storage.ExportJSON(outFile, data); err != nil {
		return err
	}
	logger.Info("run exported", "id", meta.ID, "path", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	svg := export.TrailsToSVG(result.Trails, result.Bodies, 800, 800)
	if outFile == "" {
		_, err := fmt.Fprint(os.Stdout, svg)
		return err
	}
	if err := os.WriteFile(outFile, []byte(svg), 0o644); err != nil {
		return err
	}
	logger.Info("trails exported", "id", meta.ID, "path", outFile)
	return nil
}

func printEphemeris(cmd *cobra.Command, args []string) error {
	t := time.Now().UTC()
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return fmt.Errorf("bad date %q: %w", date, err)
		}
		t = parsed
	}

	a := ephemeris.New()
	a.UpdateTime(t)

	fmt.Printf("heliocentric ecliptic positions for %s (day %.2f)\n\n", t.Format("2006-01-02 15:04"), a.DayNumber)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLANET\tLON\tLAT\tDIST (AU)\tX\tY\tZ")
	for _, p := range a.Planets() {
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.5f\t%.5f\t%.5f\t%.5f\n",
			p.Name, p.Longitude, p.Latitude, p.Distance, p.X, p.Y, p.Z)
	}
	return w.Flush()
}
