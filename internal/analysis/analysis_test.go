package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

func circle(period float64, n int, retrograde bool) ([]float64, []dynamo.Vector3d) {
	times := make([]float64, n)
	rel := make([]dynamo.Vector3d, n)
	for i := range times {
		t := float64(i)
		theta := 2 * math.Pi * t / period
		if retrograde {
			theta = -theta
		}
		times[i] = t
		rel[i] = dynamo.Vec(math.Cos(theta), math.Sin(theta), 0)
	}
	return times, rel
}

func TestPeriodByReturn(t *testing.T) {
	tests := []struct {
		name       string
		period     float64
		retrograde bool
	}{
		{"prograde", 100, false},
		{"retrograde", 100, true},
		{"non-integer", 37.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			times, rel := circle(tt.period, int(tt.period*1.5), tt.retrograde)
			got, err := PeriodByReturn(times, rel)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.period) > 1e-9 {
				t.Errorf("expected period %g, got %g", tt.period, got)
			}
		})
	}
}

func TestPeriodByReturn_Errors(t *testing.T) {
	times, rel := circle(100, 50, false)
	if _, err := PeriodByReturn(times, rel); !errors.Is(err, dynamo.ErrNotConverged) {
		t.Errorf("half a revolution: expected ErrNotConverged, got %v", err)
	}
	if _, err := PeriodByReturn(times[:2], rel[:2]); !errors.Is(err, dynamo.ErrNotConverged) {
		t.Errorf("two samples: expected ErrNotConverged, got %v", err)
	}
	if _, err := PeriodByReturn(times, rel[:10]); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("length mismatch: expected ErrParameterBounds, got %v", err)
	}
	still := []dynamo.Vector3d{dynamo.UnitX, dynamo.UnitX, dynamo.UnitX}
	if _, err := PeriodByReturn(times[:3], still); !errors.Is(err, dynamo.ErrNotConverged) {
		t.Errorf("no motion: expected ErrNotConverged, got %v", err)
	}
}

func TestApsides(t *testing.T) {
	rel := []dynamo.Vector3d{dynamo.Vec(3, 0, 0), dynamo.Vec(0, 2, 0), dynamo.Vec(-1, 0, 0)}
	peri, apo := Apsides(rel)
	if peri != 1 || apo != 3 {
		t.Errorf("expected (1, 3), got (%g, %g)", peri, apo)
	}
	if e := Eccentricity(peri, apo); e != 0.5 {
		t.Errorf("expected e=0.5, got %g", e)
	}
	if p, a := Apsides(nil); p != 0 || a != 0 {
		t.Errorf("empty input: got (%g, %g)", p, a)
	}
}

func TestDominantPeriod(t *testing.T) {
	values := make([]float64, 1000)
	for i := range values {
		values[i] = 7 + math.Sin(2*math.Pi*float64(i)/50) + 0.2*math.Sin(2*math.Pi*float64(i)/10)
	}

	if ps := Spectrum(values); len(ps) != 501 {
		t.Errorf("expected 501 bins, got %d", len(ps))
	}

	got, err := DominantPeriod(values, 2)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-100) > 1e-9 {
		t.Errorf("expected period 100, got %g", got)
	}
}

func TestDominantPeriod_Flat(t *testing.T) {
	values := []float64{4, 4, 4, 4, 4, 4, 4, 4}
	if _, err := DominantPeriod(values, 1); !errors.Is(err, dynamo.ErrNotConverged) {
		t.Errorf("expected ErrNotConverged, got %v", err)
	}
	if _, err := DominantPeriod(nil, 1); !errors.Is(err, dynamo.ErrNotConverged) {
		t.Errorf("expected ErrNotConverged for no samples, got %v", err)
	}
}

func sunAndEarth() (*physics.Engine, error) {
	eng := physics.NewEngine()
	sun := &physics.CelestialBody{MassBody: physics.MassBody{Name: "Sun", Mass: dynamo.MassOfSun}, Kind: physics.Star}
	earth := &physics.CelestialBody{
		MassBody:            physics.MassBody{Name: "Earth", Mass: dynamo.MassOfEarth},
		Kind:                physics.Planet,
		OrbitRadius:         dynamo.AstronomicalUnit,
		OrbitalEccentricity: 0.0167,
		Parent:              sun,
	}
	if err := earth.PlaceOnOrbit(); err != nil {
		return nil, err
	}
	for _, b := range []*physics.CelestialBody{sun, earth} {
		b.Initialize()
		if err := eng.AddBody(b); err != nil {
			return nil, err
		}
	}
	return eng, nil
}

func TestEarthYear(t *testing.T) {
	eng, err := sunAndEarth()
	if err != nil {
		t.Fatal(err)
	}
	earth, _ := eng.Body("Earth")
	e := earth.(*physics.CelestialBody)

	var times []float64
	var rel []dynamo.Vector3d
	var radius []float64
	record := func() {
		r := e.Position.Sub(e.Parent.Position)
		times = append(times, eng.SimulationTime())
		rel = append(rel, r)
		radius = append(radius, r.Length())
	}

	record()
	for i := 0; i < 3*366; i++ {
		if err := eng.Simulate(dynamo.SecondsInDay); err != nil {
			t.Fatal(err)
		}
		record()
	}

	year := 365.256 * dynamo.SecondsInDay
	period, err := PeriodByReturn(times, rel)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(period-year)/year > 0.01 {
		t.Errorf("period %g days", period/dynamo.SecondsInDay)
	}

	spectral, err := DominantPeriod(radius, dynamo.SecondsInDay)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(spectral-year)/year > 0.05 {
		t.Errorf("spectral period %g days", spectral/dynamo.SecondsInDay)
	}

	peri, apo := Apsides(rel)
	if ecc := Eccentricity(peri, apo); math.Abs(ecc-0.0167) > 0.002 {
		t.Errorf("eccentricity %g", ecc)
	}
}

func TestDivergence(t *testing.T) {
	lambda, err := Divergence(sunAndEarth, "Earth", 1e3, dynamo.SecondsInDay, 365*dynamo.SecondsInDay)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(lambda) || math.Abs(lambda) > 1e-6 {
		t.Errorf("a two-body orbit should not diverge exponentially, got %g /s", lambda)
	}

	if _, err := Divergence(sunAndEarth, "Vulcan", 1e3, 1, 10); !errors.Is(err, dynamo.ErrUnknownBody) {
		t.Errorf("expected ErrUnknownBody, got %v", err)
	}
	if _, err := Divergence(sunAndEarth, "Earth", 0, 1, 10); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestStepSweep(t *testing.T) {
	points, err := StepSweep(sunAndEarth, []float64{6 * 3600, 3600}, 365*dynamo.SecondsInDay)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	coarse, fine := points[0], points[1]
	if fine.Steps < 8760 || fine.Steps > 8760+sweepFrames {
		t.Errorf("expected about 8760 steps at 1h, got %d", fine.Steps)
	}
	if !(fine.EnergyDrift < coarse.EnergyDrift) {
		t.Errorf("drift should fall with the step: 6h %g, 1h %g", coarse.EnergyDrift, fine.EnergyDrift)
	}

	if _, err := StepSweep(sunAndEarth, []float64{-1}, 1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestPathToASCII(t *testing.T) {
	_, rel := circle(60, 60, false)
	out := PathToASCII(rel, 40, 20)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("expected 20 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != 40 {
			t.Errorf("row %d has %d columns", i, n)
		}
	}
	if !strings.Contains(out, "•") || !strings.Contains(out, "┼") {
		t.Errorf("missing path or origin:\n%s", out)
	}
	if PathToASCII(nil, 10, 10) != "" {
		t.Error("expected empty output for no points")
	}
}
