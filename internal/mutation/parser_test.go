package mutation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ParseMutations(t *testing.T) {
	parser, err := NewParser(findTestFile(t, "mutations.tsv"))
	require.NoError(t, err)
	defer parser.Close()

	cols := parser.Columns()
	assert.Equal(t, ColumnIndices{Chrom: 0, Pos: 1, Ref: 2, Alt: 3}, cols)
	assert.Equal(t, "CHROM\tPOS\tREF\tALT\tSAMPLE", parser.Header())

	m, err := parser.Next()
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, &Mutation{Chrom: "chr1", Pos: 150, Ref: "A", Alt: "G"}, m)
	assert.Equal(t, "A->G", m.Change())

	rest, err := parser.ReadAll()
	require.NoError(t, err)
	require.Len(t, rest, 3)
	assert.Equal(t, "chr2", rest[0].Chrom)
	assert.Equal(t, int64(50), rest[0].Pos)

	m, err = parser.Next()
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestParser_ColumnOrder(t *testing.T) {
	data := "## produced by caller\n\nSAMPLE\tALT\tREF\tPOS\tCHROM\nS1\tT\tC\t7577120\tchr17\n\n"

	parser, err := NewParserFromReader(strings.NewReader(data))
	require.NoError(t, err)

	mutations, err := parser.ReadAll()
	require.NoError(t, err)
	require.Len(t, mutations, 1)
	assert.Equal(t, &Mutation{Chrom: "chr17", Pos: 7577120, Ref: "C", Alt: "T"}, mutations[0])
	assert.Equal(t, 5, parser.LineNumber())
}

func TestParser_CRLF(t *testing.T) {
	data := "CHROM\tPOS\tREF\tALT\r\nchr1\t10\tA\tT\r\n"

	parser, err := NewParserFromReader(strings.NewReader(data))
	require.NoError(t, err)

	mutations, err := parser.ReadAll()
	require.NoError(t, err)
	require.Len(t, mutations, 1)
	assert.Equal(t, "T", mutations[0].Alt)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		line int
		msg  string
	}{
		{"empty", "", 0, "no header line found"},
		{"comments only", "# nothing here\n", 1, "no header line found"},
		{"missing column", "CHROM\tPOS\tREF\nchr1\t1\tA\n", 1, "required column 'ALT' not found in header"},
		{"non-numeric position", "CHROM\tPOS\tREF\tALT\nchr1\tabc\tA\tG\n", 2, "invalid position: abc"},
		{"short row", "CHROM\tPOS\tREF\tALT\nchr1\t10\tA\n", 2, "expected at least 4 columns, found 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser, err := NewParserFromReader(strings.NewReader(tt.data))
			if err == nil {
				_, err = parser.ReadAll()
			}

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
			assert.Equal(t, tt.line, perr.Line)
			assert.Equal(t, tt.msg, perr.Message)
		})
	}
}

func TestNewParser_MissingFile(t *testing.T) {
	_, err := NewParser(filepath.Join(t.TempDir(), "missing.tsv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseError(t *testing.T) {
	err := &ParseError{Line: 3, Message: "invalid position: x"}
	assert.Equal(t, "mutation parse error at line 3: invalid position: x", err.Error())
}

// findTestFile locates a test file in the testdata directory.
func findTestFile(t *testing.T, name string) string {
	t.Helper()

	paths := []string{
		filepath.Join("testdata", name),
		filepath.Join("..", "..", "testdata", name),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	t.Fatalf("Test file not found: %s", name)
	return ""
}
