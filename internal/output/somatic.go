package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/mutannot/mutannot/internal/vcf"
)

// SomaticColumns is the header of the somatic call table: the VCF columns
// followed by the derived tumor and normal genotypes.
var SomaticColumns = append(append([]string{}, vcf.Columns...), "TUMOR_GT", "NORMAL_GT")

// SomaticWriter writes somatic calls in tab-delimited format.
type SomaticWriter struct {
	w *bufio.Writer
}

// NewSomaticWriter creates a new somatic call writer.
func NewSomaticWriter(w io.Writer) *SomaticWriter {
	return &SomaticWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line.
func (sw *SomaticWriter) WriteHeader() error {
	_, err := sw.w.WriteString(strings.Join(SomaticColumns, "\t") + "\n")
	return err
}

// Write writes a single call.
func (sw *SomaticWriter) Write(c *vcf.Call) error {
	values := append(c.Fields(), c.TumorGT(), c.NormalGT())
	_, err := sw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// WriteAll writes the header, every call, and flushes.
func (sw *SomaticWriter) WriteAll(calls []*vcf.Call) error {
	if err := sw.WriteHeader(); err != nil {
		return err
	}
	for _, c := range calls {
		if err := sw.Write(c); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (sw *SomaticWriter) Flush() error {
	return sw.w.Flush()
}
