package annotate

import (
	"go.uber.org/zap"

	"github.com/mutannot/mutannot/internal/mutation"
	"github.com/mutannot/mutannot/internal/region"
)

// Annotator annotates mutations with the reference regions that contain them.
type Annotator struct {
	regions []*region.Region
	logger  *zap.Logger
}

// NewAnnotator creates a new annotator over the given reference regions.
// The regions are not modified.
func NewAnnotator(regions []*region.Region) *Annotator {
	return &Annotator{
		regions: regions,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for debug and info messages.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Annotate returns one annotation per reference region containing m, in
// reference table order. If no region contains m, it returns a single
// annotation with a nil Region.
//
// Every region is scanned for every mutation.
func (a *Annotator) Annotate(m *mutation.Mutation) []*Annotation {
	var annotations []*Annotation
	for _, r := range a.regions {
		if r.Contains(m.Chrom, m.Pos) {
			annotations = append(annotations, &Annotation{Mutation: m, Region: r})
		}
	}

	if len(annotations) == 0 {
		a.logger.Debug("no reference region for mutation",
			zap.String("chrom", m.Chrom),
			zap.Int64("pos", m.Pos))
		return []*Annotation{{Mutation: m}}
	}

	return annotations
}

// Summary counts the work done by AnnotateAll.
// Rows is always at least Mutations.
type Summary struct {
	Mutations int // input mutations
	Rows      int // output annotations
	Unmatched int // mutations without any containing region
}

// AnnotateAll annotates every mutation, preserving input order.
func (a *Annotator) AnnotateAll(mutations []*mutation.Mutation) ([]*Annotation, Summary) {
	var (
		all     []*Annotation
		summary Summary
	)

	for _, m := range mutations {
		anns := a.Annotate(m)
		if !anns[0].Found() {
			summary.Unmatched++
		}
		all = append(all, anns...)
		summary.Mutations++
	}
	summary.Rows = len(all)

	if summary.Mutations == 0 {
		a.logger.Info("0 mutations processed")
	} else {
		a.logger.Info("annotated mutations",
			zap.Int("mutations", summary.Mutations),
			zap.Int("rows", summary.Rows),
			zap.Int("unmatched", summary.Unmatched),
			zap.Int("regions", len(a.regions)))
	}

	return all, summary
}

// AnnotationWriter defines the interface for writing annotations.
type AnnotationWriter interface {
	WriteHeader() error
	Write(ann *Annotation) error
	Flush() error
}

// WriteAll writes a header followed by every annotation and flushes w.
func WriteAll(w AnnotationWriter, anns []*Annotation) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	for _, ann := range anns {
		if err := w.Write(ann); err != nil {
			return err
		}
	}
	return w.Flush()
}
