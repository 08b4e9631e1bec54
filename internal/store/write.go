package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// WriteCountTable inserts a count table and its rows in one transaction.
//
// Writes are idempotent on t.ID: writing a table whose ID already exists leaves
// the stored row untouched (including its name and run id) and returns its seq
// with created=false. Otherwise the table gets the next logical seq.
func (s *Store) WriteCountTable(ctx context.Context, t CountTable) (seq int64, created bool, err error) {
	if t.ID == "" {
		return 0, false, fmt.Errorf("write count table: empty id")
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		existing, found, err := existingSeq(ctx, tx, "count_tables", t.ID)
		if err != nil {
			return err
		}
		if found {
			seq = existing
			return nil
		}

		last, err := lastSeq(ctx, tx)
		if err != nil {
			return err
		}
		seq = last + 1

		_, err = tx.ExecContext(ctx, `
			INSERT INTO count_tables
			(id, run_id, name, kmer_order, alphabet, pseudocount, total, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			t.ID,
			t.RunID,
			t.Name,
			t.Order,
			string(t.Alphabet),
			t.Pseudocount,
			t.Counts.Total(),
			seq,
		)
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO counts (table_id, kmer, count) VALUES (?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, k := range t.Counts.Keys() {
			if _, err := stmt.ExecContext(ctx, t.ID, k, t.Counts[k]); err != nil {
				return fmt.Errorf("k-mer %q: %w", k, err)
			}
		}
		created = true
		return nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("write count table: %w", err)
	}
	return seq, created, nil
}

// WriteModel inserts a model and its code lengths in one transaction.
// The referenced count table must exist (foreign key constraint).
// Idempotent on m.ID like WriteCountTable.
func (s *Store) WriteModel(ctx context.Context, m Model) (seq int64, created bool, err error) {
	if m.ID == "" {
		return 0, false, fmt.Errorf("write model: empty id")
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		existing, found, err := existingSeq(ctx, tx, "models", m.ID)
		if err != nil {
			return err
		}
		if found {
			seq = existing
			return nil
		}

		last, err := lastSeq(ctx, tx)
		if err != nil {
			return err
		}
		seq = last + 1

		_, err = tx.ExecContext(ctx, `
			INSERT INTO models (id, table_id, digits, seq)
			VALUES (?, ?, ?, ?)
		`, m.ID, m.TableID, m.Precision, seq)
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO code_lengths (model_id, kmer, bits) VALUES (?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, k := range m.CodeLengths.Keys() {
			if _, err := stmt.ExecContext(ctx, m.ID, k, m.CodeLengths[k]); err != nil {
				return fmt.Errorf("k-mer %q: %w", k, err)
			}
		}
		created = true
		return nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("write model: %w", err)
	}
	return seq, created, nil
}

// withTx runs fn in a transaction, committing on nil and rolling back otherwise.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// existingSeq looks up the seq of id in table. table is always a constant
// from this package.
func existingSeq(ctx context.Context, tx *sql.Tx, table, id string) (int64, bool, error) {
	var seq int64
	err := tx.QueryRowContext(ctx, "SELECT seq FROM "+table+" WHERE id = ?", id).Scan(&seq)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	default:
		return seq, true, nil
	}
}
