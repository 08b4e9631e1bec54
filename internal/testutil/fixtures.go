package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path. Fails the test on error.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// FASTA renders id/sequence pairs as FASTA text.
//
//	FASTA("r1", "ACGT", "r2", "GG")
func FASTA(pairs ...string) string {
	if len(pairs)%2 != 0 {
		panic("testutil.FASTA: odd number of arguments")
	}
	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		b.WriteString(">" + pairs[i] + "\n" + pairs[i+1] + "\n")
	}
	return b.String()
}

// FASTQ renders id/sequence pairs as FASTQ text with every base at Phred 40
// in the Sanger encoding.
func FASTQ(pairs ...string) string {
	if len(pairs)%2 != 0 {
		panic("testutil.FASTQ: odd number of arguments")
	}
	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		seq := pairs[i+1]
		b.WriteString("@" + pairs[i] + "\n" + seq + "\n+\n" + strings.Repeat("I", len(seq)) + "\n")
	}
	return b.String()
}
