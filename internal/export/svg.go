package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/mdlab/internal/md"
)

var typeColors = []string{"#00ff00", "#ff5f5f", "#5fafff", "#ffd700", "#ff87ff", "#5fffaf"}

// SnapshotToSVG renders the particle positions as filled circles, one
// color per species, preserving the box aspect ratio.
func SnapshotToSVG(s *md.System, width int) string {
	if s == nil || s.N == 0 || s.Box.W <= 0 {
		return ""
	}

	scale := float64(width) / s.Box.W
	height := int(s.Box.H * scale)
	radius := 1.7 * scale
	if radius < 1 {
		radius = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i := 0; i < s.N; i++ {
		x := s.Pos[2*i] * scale
		y := float64(height) - s.Pos[2*i+1]*scale
		color := typeColors[s.Type[i]%len(typeColors)]
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, radius, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CurveToSVG plots an (x, y) polyline with auto-scaled, padded bounds.
func CurveToSVG(xs, ys []float64, width, height int, strokeColor string) string {
	if len(xs) < 2 || len(xs) != len(ys) {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range xs {
		if xs[i] < minX {
			minX = xs[i]
		}
		if xs[i] > maxX {
			maxX = xs[i]
		}
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range xs {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// SeriesToSVG plots a sampled observable against time.
func SeriesToSVG(times, values []float64, width, height int) string {
	return CurveToSVG(times, values, width, height, "#00ff00")
}

// RDFToSVG plots g(r) against r.
func RDFToSVG(rs, gs []float64, width, height int) string {
	return CurveToSVG(rs, gs, width, height, "#5fafff")
}
