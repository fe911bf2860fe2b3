// Package region loads reference genomic regions used for mutation annotation.
package region

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mutannot/mutannot/internal/input"
)

// Reference table column names.
const (
	ColChr      = "Chr"
	ColStart    = "Absolute Start"
	ColEnd      = "Absolute End"
	ColGene     = "Gene"
	ColID       = "ID"
	ColSequence = "Sequence"
)

// Region is a labelled reference span on a chromosome.
type Region struct {
	Chr      string
	Start    int64 // inclusive
	End      int64 // inclusive
	Gene     string
	ID       string
	Sequence string
}

// Contains reports whether pos on chrom falls within the region.
func (r *Region) Contains(chrom string, pos int64) bool {
	return r.Chr == chrom && r.Start <= pos && pos <= r.End
}

type columnIndices struct {
	chr, start, end, gene, id, sequence int
}

// Load reads a reference table from a CSV file with a header row.
func Load(path string) ([]*Region, error) {
	r, err := input.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference file: %w", err)
	}
	defer r.Close()

	return Read(r)
}

// Read parses a reference table in CSV format.
func Read(rd io.Reader) ([]*Region, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Line: 1, Message: "no header line found"}
	}
	if err != nil {
		return nil, fmt.Errorf("read reference header: %w", err)
	}

	cols, err := parseColumnIndices(header)
	if err != nil {
		return nil, err
	}

	var regions []*Region
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return regions, nil
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line, Message: csvErr.Err.Error()}
			}
			return nil, fmt.Errorf("read reference row: %w", err)
		}

		line, _ := cr.FieldPos(0)
		reg, err := parseRecord(record, cols, line)
		if err != nil {
			return nil, err
		}
		regions = append(regions, reg)
	}
}

func parseColumnIndices(header []string) (columnIndices, error) {
	cols := columnIndices{-1, -1, -1, -1, -1, -1}
	for i, col := range header {
		switch strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")) {
		case ColChr:
			cols.chr = i
		case ColStart:
			cols.start = i
		case ColEnd:
			cols.end = i
		case ColGene:
			cols.gene = i
		case ColID:
			cols.id = i
		case ColSequence:
			cols.sequence = i
		}
	}

	var missing []string
	for _, c := range []struct {
		name string
		idx  int
	}{
		{ColChr, cols.chr},
		{ColStart, cols.start},
		{ColEnd, cols.end},
		{ColGene, cols.gene},
		{ColID, cols.id},
		{ColSequence, cols.sequence},
	} {
		if c.idx < 0 {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return cols, &ParseError{
			Line:    1,
			Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		}
	}
	return cols, nil
}

func parseRecord(record []string, cols columnIndices, line int) (*Region, error) {
	get := func(idx int) string {
		if idx < len(record) {
			return record[idx]
		}
		return ""
	}

	start, err := strconv.ParseInt(strings.TrimSpace(get(cols.start)), 10, 64)
	if err != nil {
		return nil, &ParseError{Line: line, Message: fmt.Sprintf("invalid %s: %q", ColStart, get(cols.start))}
	}
	end, err := strconv.ParseInt(strings.TrimSpace(get(cols.end)), 10, 64)
	if err != nil {
		return nil, &ParseError{Line: line, Message: fmt.Sprintf("invalid %s: %q", ColEnd, get(cols.end))}
	}

	return &Region{
		Chr:      get(cols.chr),
		Start:    start,
		End:      end,
		Gene:     get(cols.gene),
		ID:       get(cols.id),
		Sequence: get(cols.sequence),
	}, nil
}

// ParseError represents an error in the reference table with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("reference parse error at line %d: %s", e.Line, e.Message)
}
