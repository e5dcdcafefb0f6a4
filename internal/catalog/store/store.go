package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/sversluys/walleto/internal/catalog"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// tableFor maps a kind to its table. Kinds are validated by the service, but
// the mapping stays a closed switch so no caller input ever reaches SQL.
func tableFor(kind catalog.Kind) (string, error) {
	switch kind {
	case catalog.KindPayee:
		return "payees", nil
	case catalog.KindCategory:
		return "categories", nil
	case catalog.KindFormOfPayment:
		return "forms_of_payment", nil
	}

	return "", fmt.Errorf("unknown catalog kind %q", kind)
}

func (s *Store) CreateEntry(ctx context.Context, kind catalog.Kind, e *catalog.Entry) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (name, created_at)
		VALUES ($1, NOW())
		RETURNING id
	`, table)

	if err := s.db.QueryRowContext(ctx, query, e.Name).Scan(&e.ID); err != nil {
		return fmt.Errorf("creating %s: %w", kind, err)
	}

	return nil
}

func (s *Store) ListEntries(ctx context.Context, kind catalog.Kind) ([]*catalog.Entry, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name`, table))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}
	defer rows.Close()

	var entries []*catalog.Entry

	for rows.Next() {
		var e catalog.Entry
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

func (s *Store) DeleteEntry(ctx context.Context, kind catalog.Kind, id uuid.UUID) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", kind, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.ErrNotFound
	}

	return nil
}
