package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutannot/mutannot/internal/vcf"
)

func TestSomaticWriter_WriteAll(t *testing.T) {
	calls := []*vcf.Call{
		{
			Chrom: "chr1", Pos: 100, ID: ".", Ref: "A", Alt: "G", Qual: "50",
			Filter: "PASS", Info: "DP=40", Format: "GT:AD:AF",
			Tumor: "0/1:30,10:0.25", Normal: "0/0:50,1:0.02",
		},
		{
			Chrom: "chr1", Pos: 200, ID: "rs7", Ref: "C", Alt: "T", Qual: ".",
			Filter: "PASS", Info: ".", Format: "GT:AD:AF",
			Tumor: "1/1:0,40:1.0", Normal: "0/0:55,3:0.05",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewSomaticWriter(&buf).WriteAll(calls))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tTUMOR\tNORMAL\tTUMOR_GT\tNORMAL_GT", lines[0])
	assert.Equal(t, "chr1\t100\t.\tA\tG\t50\tPASS\tDP=40\tGT:AD:AF\t0/1:30,10:0.25\t0/0:50,1:0.02\t0/1\t0/0", lines[1])
	assert.Equal(t, "chr1\t200\trs7\tC\tT\t.\tPASS\t.\tGT:AD:AF\t1/1:0,40:1.0\t0/0:55,3:0.05\t1/1\t0/0", lines[2])
}

func TestSomaticWriter_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSomaticWriter(&buf).WriteAll(nil))
	assert.Equal(t, strings.Join(SomaticColumns, "\t")+"\n", buf.String())
}

func TestSomaticColumns_DoesNotAliasVCFColumns(t *testing.T) {
	assert.Len(t, vcf.Columns, 11)
	assert.Len(t, SomaticColumns, 13)
}
