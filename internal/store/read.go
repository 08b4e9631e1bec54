package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/kmarkov/internal/kmer"
)

const countTableColumns = `
	t.id, t.run_id, t.name, t.kmer_order, t.alphabet, t.pseudocount, t.total, t.seq,
	(SELECT COUNT(*) FROM counts c WHERE c.table_id = t.id)
`

// ReadCountTable retrieves a count table and its rows by ID.
// Returns an error wrapping sql.ErrNoRows if not found.
func (s *Store) ReadCountTable(ctx context.Context, id string) (CountTable, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+countTableColumns+`
		FROM count_tables t
		WHERE t.id = ?
	`, id)
	return s.loadCountTable(ctx, row, "read count table "+id)
}

// LatestCountTable retrieves the most recently written table with the given
// name. Returns an error wrapping sql.ErrNoRows if no table has that name.
func (s *Store) LatestCountTable(ctx context.Context, name string) (CountTable, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+countTableColumns+`
		FROM count_tables t
		WHERE t.name = ?
		ORDER BY t.seq DESC
		LIMIT 1
	`, name)
	return s.loadCountTable(ctx, row, "latest count table "+name)
}

// ResolveCountTable accepts either a table ID or a name. IDs win over names.
func (s *Store) ResolveCountTable(ctx context.Context, ref string) (CountTable, error) {
	t, err := s.ReadCountTable(ctx, ref)
	if err == nil || !errors.Is(err, sql.ErrNoRows) {
		return t, err
	}
	return s.LatestCountTable(ctx, ref)
}

// ListCountTables returns every stored table without its rows.
// Results are ordered by seq, then by id compared bytewise.
func (s *Store) ListCountTables(ctx context.Context) ([]CountTable, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+countTableColumns+`
		FROM count_tables t
		ORDER BY t.seq ASC, t.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list count tables: %w", err)
	}
	defer rows.Close()

	var tables []CountTable
	for rows.Next() {
		t, err := scanCountTable(rows)
		if err != nil {
			return nil, fmt.Errorf("list count tables: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list count tables: %w", err)
	}
	return tables, nil
}

// ReadModel retrieves a model and its code lengths by ID.
// Returns an error wrapping sql.ErrNoRows if not found.
func (s *Store) ReadModel(ctx context.Context, id string) (Model, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, table_id, digits, seq
		FROM models
		WHERE id = ?
	`, id)
	return s.loadModel(ctx, row, "read model "+id)
}

// ModelForTable retrieves the most recent model estimated from tableID.
// Returns an error wrapping sql.ErrNoRows if the table has no model.
func (s *Store) ModelForTable(ctx context.Context, tableID string) (Model, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, table_id, digits, seq
		FROM models
		WHERE table_id = ?
		ORDER BY seq DESC
		LIMIT 1
	`, tableID)
	return s.loadModel(ctx, row, "model for table "+tableID)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCountTable(sc scanner) (CountTable, error) {
	var t CountTable
	var alphabet string
	if err := sc.Scan(
		&t.ID, &t.RunID, &t.Name, &t.Order, &alphabet,
		&t.Pseudocount, &t.Total, &t.Seq, &t.Size,
	); err != nil {
		return CountTable{}, err
	}
	t.Alphabet = kmer.Alphabet(alphabet)
	return t, nil
}

func (s *Store) loadCountTable(ctx context.Context, row *sql.Row, op string) (CountTable, error) {
	t, err := scanCountTable(row)
	if err != nil {
		return CountTable{}, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kmer, count
		FROM counts
		WHERE table_id = ?
		ORDER BY kmer COLLATE BINARY
	`, t.ID)
	if err != nil {
		return CountTable{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	t.Counts = make(kmer.Counts, t.Size)
	for rows.Next() {
		var k string
		var n int64
		if err := rows.Scan(&k, &n); err != nil {
			return CountTable{}, fmt.Errorf("%s: %w", op, err)
		}
		t.Counts[k] = n
	}
	if err := rows.Err(); err != nil {
		return CountTable{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

func (s *Store) loadModel(ctx context.Context, row *sql.Row, op string) (Model, error) {
	var m Model
	if err := row.Scan(&m.ID, &m.TableID, &m.Precision, &m.Seq); err != nil {
		return Model{}, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kmer, bits
		FROM code_lengths
		WHERE model_id = ?
		ORDER BY kmer COLLATE BINARY
	`, m.ID)
	if err != nil {
		return Model{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	m.CodeLengths = make(kmer.CodeLengths)
	for rows.Next() {
		var k string
		var bits float64
		if err := rows.Scan(&k, &bits); err != nil {
			return Model{}, fmt.Errorf("%s: %w", op, err)
		}
		m.CodeLengths[k] = bits
	}
	if err := rows.Err(); err != nil {
		return Model{}, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}
