// Package vcf provides parsing for paired tumor/normal VCF files.
package vcf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Columns is the fixed column order of a paired tumor/normal VCF body.
var Columns = []string{
	"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT", "TUMOR", "NORMAL",
}

// Sample field positions within a GT:AD:AF:... sample column.
const (
	fieldGT = 0
	fieldAF = 2
)

// ErrNoNormalAF is returned by NormalAF when the normal sample column stops
// before its AF field.
var ErrNoNormalAF = errors.New("normal sample has no AF field")

// Call represents a single variant call with tumor and normal sample columns.
type Call struct {
	Chrom  string // Chromosome name (e.g., "12", "chr12")
	Pos    int64  // 1-based genomic position
	ID     string // Variant identifier (e.g., rs ID)
	Ref    string // Reference allele
	Alt    string // Alternate allele(s), verbatim
	Qual   string // Quality score, verbatim
	Filter string // Filter status (PASS or filter name)
	Info   string // INFO column, verbatim
	Format string // FORMAT column (e.g., GT:AD:AF)
	Tumor  string // Tumor sample column
	Normal string // Normal sample column
}

// TumorGT returns the genotype code of the tumor sample.
func (c *Call) TumorGT() string {
	return sampleField(c.Tumor, fieldGT)
}

// NormalGT returns the genotype code of the normal sample.
func (c *Call) NormalGT() string {
	return sampleField(c.Normal, fieldGT)
}

// NormalAF returns the first allele frequency reported for the normal sample.
// A sample with fewer than three fields yields an error wrapping
// ErrNoNormalAF; an AF field that is present but not a number is an error of
// its own.
func (c *Call) NormalAF() (float64, error) {
	raw, ok := lookupSampleField(c.Normal, fieldAF)
	if !ok {
		return 0, fmt.Errorf("%s:%d: normal sample %q: %w", c.Chrom, c.Pos, c.Normal, ErrNoNormalAF)
	}
	first, _, _ := strings.Cut(raw, ",")
	af, err := strconv.ParseFloat(first, 64)
	if err != nil {
		return 0, fmt.Errorf("%s:%d: invalid normal AF %q", c.Chrom, c.Pos, first)
	}
	return af, nil
}

// Fields returns the call as its 11 VCF columns.
func (c *Call) Fields() []string {
	return []string{
		c.Chrom,
		strconv.FormatInt(c.Pos, 10),
		c.ID,
		c.Ref,
		c.Alt,
		c.Qual,
		c.Filter,
		c.Info,
		c.Format,
		c.Tumor,
		c.Normal,
	}
}

// sampleField returns the idx-th colon-delimited field of a sample column,
// or "" if the column has fewer fields.
func sampleField(sample string, idx int) string {
	field, _ := lookupSampleField(sample, idx)
	return field
}

// lookupSampleField is like sampleField but reports whether the column has
// an idx-th field at all.
func lookupSampleField(sample string, idx int) (string, bool) {
	for i := 0; i < idx; i++ {
		_, rest, ok := strings.Cut(sample, ":")
		if !ok {
			return "", false
		}
		sample = rest
	}
	field, _, _ := strings.Cut(sample, ":")
	return field, true
}
