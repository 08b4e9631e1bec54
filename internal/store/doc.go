// Package store provides SQLite-backed durable storage for k-mer count tables
// and the models estimated from them.
//
// The store holds four tables:
//   - count_tables: one row per distinct table, keyed by its content hash
//   - counts: the k-mer rows of each table
//   - models: one row per (table, precision) estimate
//   - code_lengths: the per-k-mer bits of each model
//
// # Identity and Ordering
//
// Table and model IDs are content addressed (see internal/ident), so writing
// the same table twice is a no-op that reports the existing row. Ordering uses
// a logical clock column (seq) shared by tables and models, never timestamps:
// listings sort by seq, then id compared bytewise, and k-mer rows sort
// bytewise by kmer.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
