package viz

import (
	"github.com/guptarohit/asciigraph"
)

// PlotSeries charts values with asciigraph. Long series are downsampled to
// width points.
func PlotSeries(values []float64, width, height int, caption string) string {
	if len(values) == 0 {
		return Subtle.Render("(no samples)")
	}
	return asciigraph.Plot(downsample(values, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.Caption(caption))
}

func downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = values[i*len(values)/n]
	}
	return out
}
