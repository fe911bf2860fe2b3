// Package somatic classifies somatic calls in paired tumor/normal VCFs and
// estimates the background allele frequency of the normal sample.
package somatic

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/mutannot/mutannot/internal/vcf"
)

// FilterPass is the FILTER value of calls that passed all caller filters.
const FilterPass = "PASS"

// NormalReferenceGT is the homozygous reference genotype required of the
// normal sample for a somatic call.
const NormalReferenceGT = "0/0"

// TumorVariantGTs are the tumor genotypes that count as carrying the variant.
var TumorVariantGTs = []string{"0/1", "1/1"}

const (
	// MaxNormalAF is the exclusive upper bound on normal AF for a call to
	// count towards the background level.
	MaxNormalAF = 0.1

	// DefaultRPMMultiplier scales the background median into the RPM threshold.
	DefaultRPMMultiplier = 10.0
)

// IsSomatic reports whether c passed filters with the variant in the tumor
// and a homozygous reference normal.
func IsSomatic(c *vcf.Call) bool {
	return c.Filter == FilterPass &&
		slices.Contains(TumorVariantGTs, c.TumorGT()) &&
		c.NormalGT() == NormalReferenceGT
}

// FilterSomatic returns the somatic calls in input order.
func FilterSomatic(calls []*vcf.Call) []*vcf.Call {
	var somatic []*vcf.Call
	for _, c := range calls {
		if IsSomatic(c) {
			somatic = append(somatic, c)
		}
	}
	return somatic
}

// Background is the set of low-frequency normal calls and their median AF.
type Background struct {
	Calls   []*vcf.Call
	AFs     []float64   // normal AF of each call in Calls
	Median  float64     // NaN if Calls is empty
	Skipped []*vcf.Call // calls whose normal sample has no AF field
}

// EstimateBackground computes the median normal AF over PASS calls whose
// normal AF is below maxAF. Calls whose normal sample has no AF field are
// left out and collected in Skipped. An AF field that is present but not a
// number is an error, including on calls that are filtered out.
func EstimateBackground(calls []*vcf.Call, maxAF float64) (*Background, error) {
	bg := &Background{}
	for _, c := range calls {
		af, err := c.NormalAF()
		if errors.Is(err, vcf.ErrNoNormalAF) {
			bg.Skipped = append(bg.Skipped, c)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("normal allele frequency: %w", err)
		}
		if c.Filter == FilterPass && af < maxAF {
			bg.Calls = append(bg.Calls, c)
			bg.AFs = append(bg.AFs, af)
		}
	}
	bg.Median = Median(bg.AFs)
	return bg, nil
}

// Median returns the median of values, averaging the two middle values for
// even-length input. It returns NaN for empty input. values is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// RPMThreshold returns the reads-per-million threshold for confident calling.
func RPMThreshold(backgroundMedian, multiplier float64) float64 {
	return multiplier * backgroundMedian
}

// Stats is the outcome of a background mutation run.
type Stats struct {
	Somatic          []*vcf.Call
	Background       *Background
	BackgroundMedian float64
	RPMThreshold     float64
}

// SomaticCount returns the number of somatic calls.
func (s *Stats) SomaticCount() int {
	return len(s.Somatic)
}

// Calculator runs somatic extraction and background estimation.
type Calculator struct {
	maxNormalAF   float64
	rpmMultiplier float64
	logger        *zap.Logger
}

// NewCalculator creates a calculator using MaxNormalAF and DefaultRPMMultiplier.
func NewCalculator() *Calculator {
	return &Calculator{
		maxNormalAF:   MaxNormalAF,
		rpmMultiplier: DefaultRPMMultiplier,
		logger:        zap.NewNop(),
	}
}

// SetLogger sets the logger for debug and info messages.
func (c *Calculator) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Summarize classifies calls and estimates the background level. Nothing is
// returned unless both steps succeed.
func (c *Calculator) Summarize(calls []*vcf.Call) (*Stats, error) {
	somatic := FilterSomatic(calls)

	bg, err := EstimateBackground(calls, c.maxNormalAF)
	if err != nil {
		return nil, err
	}
	for _, call := range bg.Skipped {
		c.logger.Debug("normal sample has no AF field; left out of background",
			zap.String("chrom", call.Chrom),
			zap.Int64("pos", call.Pos))
	}
	if len(bg.Calls) == 0 {
		c.logger.Warn("no PASS calls with low normal allele frequency; background median is undefined",
			zap.Float64("max_normal_af", c.maxNormalAF))
	}

	stats := &Stats{
		Somatic:          somatic,
		Background:       bg,
		BackgroundMedian: bg.Median,
		RPMThreshold:     RPMThreshold(bg.Median, c.rpmMultiplier),
	}

	c.logger.Info("summarized calls",
		zap.Int("calls", len(calls)),
		zap.Int("somatic", stats.SomaticCount()),
		zap.Int("background_calls", len(bg.Calls)),
		zap.Int("no_normal_af", len(bg.Skipped)),
		zap.Float64("background_median", stats.BackgroundMedian),
		zap.Float64("rpm_threshold", stats.RPMThreshold))

	return stats, nil
}
