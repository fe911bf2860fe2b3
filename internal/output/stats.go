package output

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/mutannot/mutannot/internal/somatic"
)

// WriteStats writes the background mutation report. somaticPath is the
// location the somatic calls were written to.
func WriteStats(w io.Writer, stats *somatic.Stats, somaticPath string) error {
	_, err := fmt.Fprintf(w,
		"Total somatic mutations: %d\n"+
			"Median background mutation level (AF in normal tissue): %s\n"+
			"Reads per million threshold for confident mutation calling: %s\n"+
			"Somatic mutations details saved to: %s\n",
		stats.SomaticCount(),
		FormatFloat(stats.BackgroundMedian),
		FormatFloat(stats.RPMThreshold),
		somaticPath)
	return err
}

// FormatFloat formats f with the fewest digits that round-trip; NaN is "nan".
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		s = strconv.FormatFloat(f, 'f', 1, 64)
	}
	return s
}
