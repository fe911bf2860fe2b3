package duckdb

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"math"

	"github.com/mutannot/mutannot/internal/annotate"
	"github.com/mutannot/mutannot/internal/mutation"
	"github.com/mutannot/mutannot/internal/region"
	"github.com/mutannot/mutannot/internal/somatic"
	"github.com/mutannot/mutannot/internal/vcf"
)

// WriteAnnotations appends annotated mutations for a run, preserving order.
// Unmatched annotations are stored with found=false and NULL region fields.
func (s *Store) WriteAnnotations(runID string, anns []*annotate.Annotation) error {
	return s.appendRows("annotated_mutations", len(anns), func(i int) []driver.Value {
		a := anns[i]
		m := a.Mutation
		var gene, regionID, sequence driver.Value
		if a.Found() {
			gene, regionID, sequence = a.Region.Gene, a.Region.ID, a.Region.Sequence
		}
		return []driver.Value{
			runID, int64(i), m.Chrom, m.Pos, m.Ref, m.Alt,
			a.Found(), gene, regionID, sequence,
		}
	})
}

// AnnotationsByGene returns matched annotations for a gene across all runs.
// The returned regions carry only the fields stored per annotation.
func (s *Store) AnnotationsByGene(gene string) ([]*annotate.Annotation, error) {
	rows, err := s.db.Query(`SELECT chrom, pos, ref, alt, gene, region_id, sequence
		FROM annotated_mutations
		WHERE found AND gene=?
		ORDER BY run_id, row_num`, gene)
	if err != nil {
		return nil, fmt.Errorf("query by gene: %w", err)
	}
	defer rows.Close()

	var anns []*annotate.Annotation
	for rows.Next() {
		var m mutation.Mutation
		var r region.Region
		if err := rows.Scan(&m.Chrom, &m.Pos, &m.Ref, &m.Alt, &r.Gene, &r.ID, &r.Sequence); err != nil {
			return nil, fmt.Errorf("scan annotation: %w", err)
		}
		r.Chr = m.Chrom
		anns = append(anns, &annotate.Annotation{Mutation: &m, Region: &r})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate annotations: %w", err)
	}
	return anns, nil
}

// UnmatchedMutations returns the mutations of a run that had no reference region.
func (s *Store) UnmatchedMutations(runID string) ([]*mutation.Mutation, error) {
	rows, err := s.db.Query(`SELECT chrom, pos, ref, alt
		FROM annotated_mutations
		WHERE run_id=? AND NOT found
		ORDER BY row_num`, runID)
	if err != nil {
		return nil, fmt.Errorf("query unmatched: %w", err)
	}
	defer rows.Close()

	var mutations []*mutation.Mutation
	for rows.Next() {
		var m mutation.Mutation
		if err := rows.Scan(&m.Chrom, &m.Pos, &m.Ref, &m.Alt); err != nil {
			return nil, fmt.Errorf("scan mutation: %w", err)
		}
		mutations = append(mutations, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mutations: %w", err)
	}
	return mutations, nil
}

// WriteSomaticCalls appends the somatic calls of a run, preserving order.
func (s *Store) WriteSomaticCalls(runID string, calls []*vcf.Call) error {
	return s.appendRows("somatic_calls", len(calls), func(i int) []driver.Value {
		c := calls[i]
		return []driver.Value{
			runID, int64(i), c.Chrom, c.Pos, c.ID, c.Ref, c.Alt, c.Qual,
			c.Filter, c.Info, c.Format, c.Tumor, c.Normal,
			c.TumorGT(), c.NormalGT(),
		}
	})
}

// SomaticCalls returns the somatic calls stored for a run.
func (s *Store) SomaticCalls(runID string) ([]*vcf.Call, error) {
	rows, err := s.db.Query(`SELECT chrom, pos, id, ref, alt, qual, filter,
		info, format, tumor, normal
		FROM somatic_calls
		WHERE run_id=?
		ORDER BY row_num`, runID)
	if err != nil {
		return nil, fmt.Errorf("query somatic calls: %w", err)
	}
	defer rows.Close()

	var calls []*vcf.Call
	for rows.Next() {
		var c vcf.Call
		if err := rows.Scan(&c.Chrom, &c.Pos, &c.ID, &c.Ref, &c.Alt, &c.Qual, &c.Filter,
			&c.Info, &c.Format, &c.Tumor, &c.Normal); err != nil {
			return nil, fmt.Errorf("scan somatic call: %w", err)
		}
		calls = append(calls, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate somatic calls: %w", err)
	}
	return calls, nil
}

// BackgroundStats is the persisted summary of a background mutation run.
type BackgroundStats struct {
	SomaticCount     int64
	BackgroundCalls  int64
	BackgroundMedian float64 // NaN if undefined
	RPMThreshold     float64 // NaN if undefined
}

// WriteBackgroundStats stores the summary of a run. An undefined median is
// stored as NULL.
func (s *Store) WriteBackgroundStats(runID string, stats *somatic.Stats) error {
	var bgCalls int
	if stats.Background != nil {
		bgCalls = len(stats.Background.Calls)
	}
	_, err := s.db.Exec(`INSERT INTO background_stats VALUES (?, ?, ?, ?, ?)`,
		runID, int64(stats.SomaticCount()), int64(bgCalls),
		nullFloat(stats.BackgroundMedian), nullFloat(stats.RPMThreshold))
	if err != nil {
		return fmt.Errorf("insert background stats: %w", err)
	}
	return nil
}

// LookupBackgroundStats returns the summary of a run, or nil if none was stored.
func (s *Store) LookupBackgroundStats(runID string) (*BackgroundStats, error) {
	var (
		st             BackgroundStats
		median, thresh sql.NullFloat64
	)
	err := s.db.QueryRow(`SELECT somatic_count, background_calls, background_median, rpm_threshold
		FROM background_stats WHERE run_id=?`, runID).
		Scan(&st.SomaticCount, &st.BackgroundCalls, &median, &thresh)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query background stats: %w", err)
	}

	st.BackgroundMedian = fromNullFloat(median)
	st.RPMThreshold = fromNullFloat(thresh)
	return &st, nil
}

func nullFloat(f float64) sql.NullFloat64 {
	if math.IsNaN(f) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func fromNullFloat(n sql.NullFloat64) float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Float64
}
