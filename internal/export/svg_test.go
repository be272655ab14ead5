package export

import (
	"strings"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.SetColor(0, 0, "#ff0000")
	c.Set(3, 3)

	svg := CanvasToSVG(c, 2, "#00ff00")
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("got %d circles, want 2", n)
	}
	if !strings.Contains(svg, `fill="#ff0000"`) || !strings.Contains(svg, `fill="#00ff00"`) {
		t.Errorf("missing dot colours:\n%s", svg)
	}
	if !strings.Contains(svg, `width="8" height="8"`) {
		t.Errorf("wrong size:\n%s", svg)
	}

	if CanvasToSVG(nil, 1, "") != "" {
		t.Error("nil canvas should give empty output")
	}
}

func TestTrailsToSVG(t *testing.T) {
	au := dynamo.AstronomicalUnit
	trails := map[string][]dynamo.Vector3d{
		"Sun":   {dynamo.Zero},
		"Earth": {dynamo.Vec(au, 0, 0), dynamo.Vec(0, au, 0), dynamo.Vec(-au, 0, 0)},
		"Moon":  nil,
	}

	svg := TrailsToSVG(trails, []string{"Sun", "Earth", "Moon"}, 200, 100)
	if n := strings.Count(svg, "<path"); n != 1 {
		t.Errorf("got %d paths, want 1", n)
	}
	if n := strings.Count(svg, "<circle"); n != 1 {
		t.Errorf("got %d circles, want 1", n)
	}
	// the sun sits in the middle
	if !strings.Contains(svg, `cx="100.0" cy="50.0"`) {
		t.Errorf("sun not centred:\n%s", svg)
	}
	if !strings.Contains(svg, "<title>Earth</title>") {
		t.Error("trail not labelled")
	}
}

func TestPalette(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 6; i++ {
		c := Palette(i, 6)
		if len(c) != 7 || c[0] != '#' {
			t.Fatalf("Palette(%d) = %q", i, c)
		}
		seen[c] = true
	}
	if len(seen) != 6 {
		t.Errorf("colours repeat: %v", seen)
	}
	if Palette(0, 0) == "" {
		t.Error("n = 0 should still give a colour")
	}
}
