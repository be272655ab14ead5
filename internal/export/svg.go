package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/viz"
)

const background = "#0a0a0a"

// CanvasToSVG converts a braille canvas to SVG, one circle per dot. Dots
// keep their cell colour; uncoloured cells use fallback.
func CanvasToSVG(canvas *viz.Canvas, scale float64, fallback string) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.PixelSize()
	width := float64(pw) * scale
	height := float64(ph) * scale

	var sb strings.Builder
	header(&sb, width, height)

	dotRadius := scale * 0.4
	canvas.Each(func(x, y int, color string) {
		if color == "" {
			color = fallback
		}
		cx := float64(x)*scale + scale/2
		cy := float64(y)*scale + scale/2
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", cx, cy, dotRadius, color)
	})

	sb.WriteString("</svg>\n")
	return sb.String()
}

// TrailsToSVG draws trails seen from above the x-y plane, in the order of
// names, centred on the origin. Bodies with fewer than two points get a dot.
func TrailsToSVG(trails map[string][]dynamo.Vector3d, names []string, width, height int) string {
	extent := 0.0
	for _, name := range names {
		for _, p := range trails[name] {
			extent = math.Max(extent, math.Max(math.Abs(p.X), math.Abs(p.Y)))
		}
	}
	if extent == 0 {
		extent = 1
	}
	extent *= 1.1

	size := float64(min(width, height))
	scale := size / 2 / extent
	cx, cy := float64(width)/2, float64(height)/2
	project := func(p dynamo.Vector3d) (float64, float64) {
		return cx + p.X*scale, cy - p.Y*scale
	}

	var sb strings.Builder
	header(&sb, float64(width), float64(height))

	for i, name := range names {
		points := trails[name]
		if len(points) == 0 {
			continue
		}
		color := Palette(i, len(names))

		if len(points) == 1 {
			x, y := project(points[0])
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"2\" fill=\"%s\"><title>%s</title></circle>\n", x, y, color, name)
			continue
		}

		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", color)
		for j, p := range points {
			x, y := project(p)
			if j == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		fmt.Fprintf(&sb, "\"><title>%s</title></path>\n", name)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// Palette spreads n colours evenly around the hue circle.
func Palette(i, n int) string {
	if n <= 0 {
		n = 1
	}
	return colorful.Hcl(360*float64(i)/float64(n), 0.6, 0.75).Clamped().Hex()
}

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}
