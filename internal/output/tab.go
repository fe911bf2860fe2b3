// Package output provides writers for annotated mutations, somatic calls and
// background statistics.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/mutannot/mutannot/internal/annotate"
)

// AnnotationColumns is the header of the annotated mutation table.
var AnnotationColumns = []string{
	"Chr",
	"Position",
	"Mutation",
	"Gene",
	"Region",
	"Reference Sequence",
}

// TabWriter writes annotated mutations in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w:       bufio.NewWriter(w),
		columns: AnnotationColumns,
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single annotation. Unmatched mutations carry
// annotate.NotFound in the region columns.
func (tw *TabWriter) Write(ann *annotate.Annotation) error {
	m := ann.Mutation
	values := []string{
		m.Chrom,
		strconv.FormatInt(m.Pos, 10),
		m.Change(),
		ann.Gene(),
		ann.RegionID(),
		ann.Sequence(),
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
