// Package seqio reads sequence records from FASTA, FASTQ and FASTA quality
// files.
//
// Every reader implements Reader: Read returns one Record per call and io.EOF
// once the input is exhausted. Sequences are uppercased; when an alphabet is
// configured, bytes outside it are dropped (for FASTQ the matching quality
// score is dropped with its base so the two stay aligned).
//
// FASTA and FASTQ parsing is delegated to biogo. FASTA quality files (">id"
// lines followed by whitespace-separated integer scores) are parsed here, and
// WithQuality pairs them with a FASTA stream record by record.
package seqio
