package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skywindow/internal/visibility"
)

// SparklineWidth is the fixed width of the airmass sparkline.
const SparklineWidth = 48

// sparklineBlocks are the Unicode block characters for sparkline (0 = lowest, 7 = highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

var (
	airmassColorPoor = [3]uint8{0x1b, 0x2b, 0x4b}
	airmassColorMid  = [3]uint8{0x34, 0x78, 0xc0}
	airmassColorBest = [3]uint8{0x8b, 0xe9, 0xff}
)

// RenderAirmassSparkline renders an airmass series as a sparkline. Lower
// airmass draws taller: airmass 1 fills the cell, maxAirmass is the
// lowest block.
func RenderAirmassSparkline(s visibility.AirmassSeries, maxAirmass float64, width int) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	samples := resampleAirmass(s.Airmasses, width)
	if len(samples) == 0 {
		return dimStyle.Render("  No airmass samples")
	}

	var sb strings.Builder
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	sb.WriteString(labelStyle.Render("  AIRMASS "))

	for _, a := range samples {
		t := airmassQuality(a, maxAirmass)

		blockIdx := int(t * 7.0)
		if blockIdx > 7 {
			blockIdx = 7
		}

		r, g, b := interpolateAirmassColor(t)
		color := fmt.Sprintf("#%02x%02x%02x", r, g, b)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(sparklineBlocks[blockIdx])))
	}

	best := s.Airmasses[0]
	for _, a := range s.Airmasses[1:] {
		if a < best {
			best = a
		}
	}
	sb.WriteString(dimStyle.Render(fmt.Sprintf(" min %.2f · %d samples", best, s.Len())))
	return sb.String()
}

// airmassQuality maps an airmass to [0, 1], 1 being the zenith.
func airmassQuality(a, maxAirmass float64) float64 {
	if maxAirmass <= 1 {
		return 1
	}
	t := (maxAirmass - a) / (maxAirmass - 1)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// interpolateAirmassColor returns RGB color for quality t in [0, 1].
func interpolateAirmassColor(t float64) (uint8, uint8, uint8) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	lo, hi, s := airmassColorPoor, airmassColorMid, t*2
	if t >= 0.5 {
		lo, hi, s = airmassColorMid, airmassColorBest, (t-0.5)*2
	}
	mix := func(i int) uint8 {
		return uint8(float64(lo[i])*(1-s) + float64(hi[i])*s)
	}
	return mix(0), mix(1), mix(2)
}

// resampleAirmass averages samples into width buckets. Series shorter
// than width are returned as is.
func resampleAirmass(samples []float64, width int) []float64 {
	if len(samples) == 0 || width <= 0 {
		return nil
	}
	if len(samples) <= width {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out
	}

	result := make([]float64, width)
	perBucket := float64(len(samples)) / float64(width)

	for i := 0; i < width; i++ {
		startIdx := int(float64(i) * perBucket)
		endIdx := int(float64(i+1) * perBucket)
		if endIdx > len(samples) {
			endIdx = len(samples)
		}
		if startIdx >= endIdx {
			startIdx = endIdx - 1
		}

		sum := 0.0
		for _, a := range samples[startIdx:endIdx] {
			sum += a
		}
		result[i] = sum / float64(endIdx-startIdx)
	}
	return result
}
