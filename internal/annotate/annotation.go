// Package annotate maps point mutations onto reference regions.
package annotate

import (
	"github.com/mutannot/mutannot/internal/mutation"
	"github.com/mutannot/mutannot/internal/region"
)

// NotFound is reported in place of region fields when no reference region
// contains a mutation.
const NotFound = "Not Found"

// Annotation pairs a mutation with one reference region containing it.
type Annotation struct {
	Mutation *mutation.Mutation
	Region   *region.Region // nil if no region contains the mutation
}

// Found reports whether the annotation matched a reference region.
func (a *Annotation) Found() bool {
	return a.Region != nil
}

// Gene returns the matched gene symbol, or NotFound.
func (a *Annotation) Gene() string {
	if a.Region == nil {
		return NotFound
	}
	return a.Region.Gene
}

// RegionID returns the matched region label, or NotFound.
func (a *Annotation) RegionID() string {
	if a.Region == nil {
		return NotFound
	}
	return a.Region.ID
}

// Sequence returns the matched reference sequence, or NotFound.
func (a *Annotation) Sequence() string {
	if a.Region == nil {
		return NotFound
	}
	return a.Region.Sequence
}
