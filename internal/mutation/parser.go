// Package mutation provides parsing for tab-delimited point mutation tables.
package mutation

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mutannot/mutannot/internal/input"
)

// Mutation table column names
const (
	ColChrom = "CHROM"
	ColPos   = "POS"
	ColRef   = "REF"
	ColAlt   = "ALT"
)

// Mutation is a single point mutation.
type Mutation struct {
	Chrom string
	Pos   int64
	Ref   string
	Alt   string
}

// Change returns the mutation as "REF->ALT".
func (m *Mutation) Change() string {
	return m.Ref + "->" + m.Alt
}

// ColumnIndices holds the indices of the mutation table columns.
type ColumnIndices struct {
	Chrom int
	Pos   int
	Ref   int
	Alt   int
}

// Parser reads mutations from a TSV file with a header row.
type Parser struct {
	reader     *input.Reader
	lineNumber int
	columns    ColumnIndices
	headerLine string
}

// NewParser creates a new mutation parser for the given file.
// Supports both plain and gzipped files.
func NewParser(path string) (*Parser, error) {
	r, err := input.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mutation file: %w", err)
	}

	p := &Parser{reader: r}
	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{reader: input.FromReader(r)}

	if err := p.parseHeader(); err != nil {
		return nil, err
	}

	return p, nil
}

// readLine returns the next line without its terminator, or io.EOF.
func (p *Parser) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if line == "" && err == io.EOF {
		return "", io.EOF
	}
	p.lineNumber++
	return strings.TrimRight(line, "\r\n"), nil
}

// parseHeader reads the header line, skipping leading comments and blank lines.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.readLine()
		if err == io.EOF {
			return &ParseError{
				Line:    p.lineNumber,
				Message: "no header line found",
			}
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p.headerLine = line
		return p.parseColumnIndices(line)
	}
}

// parseColumnIndices locates the required columns by name.
func (p *Parser) parseColumnIndices(headerLine string) error {
	p.columns = ColumnIndices{Chrom: -1, Pos: -1, Ref: -1, Alt: -1}

	for i, col := range strings.Split(headerLine, "\t") {
		switch strings.TrimSpace(col) {
		case ColChrom:
			p.columns.Chrom = i
		case ColPos:
			p.columns.Pos = i
		case ColRef:
			p.columns.Ref = i
		case ColAlt:
			p.columns.Alt = i
		}
	}

	for _, c := range []struct {
		name string
		idx  int
	}{
		{ColChrom, p.columns.Chrom},
		{ColPos, p.columns.Pos},
		{ColRef, p.columns.Ref},
		{ColAlt, p.columns.Alt},
	} {
		if c.idx == -1 {
			return &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("required column '%s' not found in header", c.name),
			}
		}
	}

	return nil
}

// Next reads the next mutation.
// Returns nil, nil when there are no more mutations.
func (p *Parser) Next() (*Mutation, error) {
	for {
		line, err := p.readLine()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read mutation line: %w", err)
		}
		if line == "" {
			continue
		}
		return p.parseLine(line)
	}
}

// ReadAll reads every remaining mutation.
func (p *Parser) ReadAll() ([]*Mutation, error) {
	var mutations []*Mutation
	for {
		m, err := p.Next()
		if err != nil {
			return nil, err
		}
		if m == nil {
			return mutations, nil
		}
		mutations = append(mutations, m)
	}
}

// parseLine parses a single data line into a Mutation.
func (p *Parser) parseLine(line string) (*Mutation, error) {
	fields := strings.Split(line, "\t")

	minCols := max(p.columns.Chrom, p.columns.Pos, p.columns.Ref, p.columns.Alt)
	if len(fields) <= minCols {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", minCols+1, len(fields)),
		}
	}

	pos, err := strconv.ParseInt(strings.TrimSpace(fields[p.columns.Pos]), 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[p.columns.Pos]),
		}
	}

	return &Mutation{
		Chrom: fields[p.columns.Chrom],
		Pos:   pos,
		Ref:   fields[p.columns.Ref],
		Alt:   fields[p.columns.Alt],
	}, nil
}

// Header returns the header line.
func (p *Parser) Header() string {
	return p.headerLine
}

// Columns returns the parsed column indices.
func (p *Parser) Columns() ColumnIndices {
	return p.columns
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	return p.reader.Close()
}

// ParseError represents an error during mutation table parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mutation parse error at line %d: %s", e.Line, e.Message)
}
