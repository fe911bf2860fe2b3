package vcf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mutannot/mutannot/internal/input"
)

// Parser reads calls from a paired tumor/normal VCF file.
// Every line starting with '#' is skipped; the body is expected to carry
// exactly the columns listed in Columns, in that order.
type Parser struct {
	reader     *input.Reader
	lineNumber int
	header     []string
}

// NewParser creates a new VCF parser for the given file.
// Supports both plain VCF and gzipped VCF (.vcf.gz) files.
func NewParser(path string) (*Parser, error) {
	r, err := input.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}
	return &Parser{reader: r}, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: input.FromReader(r)}
}

// Next reads the next call from the VCF file.
// Returns nil, nil when there are no more calls.
func (p *Parser) Next() (*Call, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read vcf line: %w", err)
		}
		if line == "" && err == io.EOF {
			return nil, nil
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, "#") {
			p.header = append(p.header, line)
			continue
		}
		if line == "" {
			continue
		}

		return p.parseLine(line)
	}
}

// ReadAll reads every remaining call.
func (p *Parser) ReadAll() ([]*Call, error) {
	var calls []*Call
	for {
		c, err := p.Next()
		if err != nil {
			return nil, err
		}
		if c == nil {
			return calls, nil
		}
		calls = append(calls, c)
	}
}

// parseLine parses a single VCF data line into a Call.
func (p *Parser) parseLine(line string) (*Call, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != len(Columns) {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected %d columns, found %d", len(Columns), len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	return &Call{
		Chrom:  fields[0],
		Pos:    pos,
		ID:     fields[2],
		Ref:    fields[3],
		Alt:    fields[4],
		Qual:   fields[5],
		Filter: fields[6],
		Info:   fields[7],
		Format: fields[8],
		Tumor:  fields[9],
		Normal: fields[10],
	}, nil
}

// Header returns the comment lines seen so far.
func (p *Parser) Header() []string {
	return p.header
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	return p.reader.Close()
}

// ParseError represents an error during VCF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
