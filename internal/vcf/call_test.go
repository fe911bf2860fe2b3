package vcf

import (
	"errors"
	"strings"
	"testing"
)

func TestCall_Genotypes(t *testing.T) {
	tests := []struct {
		name     string
		tumor    string
		normal   string
		tumorGT  string
		normalGT string
	}{
		{"het tumor, ref normal", "0/1:30,10:0.25", "0/0:50,1:0.02", "0/1", "0/0"},
		{"hom alt tumor", "1/1:0,40:1.0", "0/0:55,3:0.05", "1/1", "0/0"},
		{"phased", "0|1:20,20:0.5", "0|0:40,0:0.0", "0|1", "0|0"},
		{"GT only", "0/1", "0/0", "0/1", "0/0"},
		{"missing", ".", "./.", ".", "./."},
		{"empty", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Call{Tumor: tt.tumor, Normal: tt.normal}
			if got := c.TumorGT(); got != tt.tumorGT {
				t.Errorf("TumorGT() = %q, want %q", got, tt.tumorGT)
			}
			if got := c.NormalGT(); got != tt.normalGT {
				t.Errorf("NormalGT() = %q, want %q", got, tt.normalGT)
			}
		})
	}
}

func TestCall_NormalAF(t *testing.T) {
	tests := []struct {
		name   string
		normal string
		want   float64
	}{
		{"single AF", "0/0:50,1:0.02", 0.02},
		{"multi-allelic AF takes first", "0/0:50,1,1:0.02,0.01", 0.02},
		{"trailing fields", "0/0:50,1:0.07:35", 0.07},
		{"zero", "0/0:58,0:0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Call{Chrom: "chr1", Pos: 100, Normal: tt.normal}
			got, err := c.NormalAF()
			if err != nil {
				t.Fatalf("NormalAF() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalAF() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCall_NormalAF_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		normal string
		msg    string
	}{
		{"missing value", "0/0:50,1:.", "invalid normal AF"},
		{"empty value", "0/0:50,1:", "invalid normal AF"},
		{"not a number", "0/0:50,1:abc", "invalid normal AF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Call{Chrom: "chr1", Pos: 100, Normal: tt.normal}
			_, err := c.NormalAF()
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.msg) || !strings.Contains(err.Error(), "chr1:100") {
				t.Errorf("Unexpected error %q", err)
			}
		})
	}
}

func TestCall_NormalAF_NoField(t *testing.T) {
	for _, normal := range []string{"0/0", "0/0:50,1", ""} {
		c := &Call{Chrom: "chr1", Pos: 200, Format: "GT", Normal: normal}
		_, err := c.NormalAF()
		if !errors.Is(err, ErrNoNormalAF) {
			t.Errorf("NormalAF(%q): expected ErrNoNormalAF, got %v", normal, err)
		}
		if err != nil && !strings.Contains(err.Error(), "chr1:200") {
			t.Errorf("NormalAF(%q): error %q lacks position", normal, err)
		}
	}
}

func TestCall_Fields(t *testing.T) {
	c := &Call{
		Chrom: "chr1", Pos: 100, ID: ".", Ref: "A", Alt: "G", Qual: "50",
		Filter: "PASS", Info: "DP=40", Format: "GT:AD:AF",
		Tumor: "0/1:30,10:0.25", Normal: "0/0:50,1:0.02",
	}

	got := strings.Join(c.Fields(), "\t")
	want := "chr1\t100\t.\tA\tG\t50\tPASS\tDP=40\tGT:AD:AF\t0/1:30,10:0.25\t0/0:50,1:0.02"
	if got != want {
		t.Errorf("Fields() = %q, want %q", got, want)
	}
	if len(c.Fields()) != len(Columns) {
		t.Errorf("Fields() has %d columns, want %d", len(c.Fields()), len(Columns))
	}
}
