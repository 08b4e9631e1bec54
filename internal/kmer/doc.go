// Package kmer builds order-k conditional frequency models over k-mers.
//
// The package covers the whole statistical core:
//
//   - Alphabet inference from an existing count table
//   - Lazy enumeration of every k-mer of a given order (the k-mer space),
//     including the boundary partials that appear next to sequence ends
//   - Pseudocount injection over that space
//   - Sequence padding with start/stop context markers
//   - Sliding-window splitting and counting of sequences
//   - Per-context probability estimation reported as code lengths in bits
//
// # Context Markers
//
// Two bytes are reserved and can never be alphabet symbols:
//
//	^  Start, padding before the first real symbol
//	$  Stop, padding after the last real symbol
//
// Padding, boundary partials and the order-0 sentinel keys all use this one
// scheme, so a window counted from a padded sequence always has a matching
// key in the smoothed space.
//
// # Resource Ceiling
//
// The k-mer space grows as |alphabet|^order. Inject refuses to enumerate a
// space larger than the configured limit (DefaultMaxSpace when unset) and
// returns a *SpaceLimitError before any key is generated.
//
// # Usage
//
//	alpha, _ := kmer.NewAlphabet("ACGT")
//	counter, _ := kmer.NewCounter(3, alpha)
//	_ = counter.Add("ACGTTGCA")
//	smoothed, _ := kmer.Inject(counter.Counts(), 1, 3, alpha, 0)
//	bits, _ := kmer.Estimate(smoothed, 3)
package kmer
