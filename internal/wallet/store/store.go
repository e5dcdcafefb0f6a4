// Package store persists wallet aggregates in Postgres. Aggregates are
// loaded and saved whole: the wallet row, its accepted forms of payment and
// every movement with its attachments travel together, so the core's
// lifecycle flags round-trip losslessly.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sversluys/walleto/internal/movement"
	"github.com/sversluys/walleto/internal/operation"
	"github.com/sversluys/walleto/internal/wallet"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectMovementColumns = `
	m.id, m.name, m.description, m.amount, m.due_date, m.payment_method_id,
	m.payee_id, m.category_id, m.type, m.frequency, m.group_id,
	m.active, m.accomplished, m.accomplish_date
`

// movementRow holds one scanned movements row before attachments are joined in.
type movementRow struct {
	params movement.RestoreParams
}

func scanMovement(s scanner) (*movementRow, error) {
	var (
		op             operation.RestoreParams
		amount         decimal.Decimal
		typeStr        string
		freqStr        string
		groupID        uuid.UUID
		active         bool
		accomplished   bool
		accomplishDate sql.NullTime
		description    sql.NullString
	)

	if err := s.Scan(
		&op.ID, &op.Name, &description, &amount, &op.DueDate, &op.PaymentMethod,
		&op.Payee, &op.Category, &typeStr, &freqStr, &groupID,
		&active, &accomplished, &accomplishDate,
	); err != nil {
		return nil, err
	}

	op.Description = description.String
	op.Amount = amount

	row := &movementRow{params: movement.RestoreParams{
		Operation:    op,
		Type:         movement.Type(typeStr),
		Frequency:    movement.Frequency(freqStr),
		GroupID:      groupID,
		Active:       active,
		Accomplished: accomplished,
	}}

	if accomplishDate.Valid {
		d := accomplishDate.Time
		row.params.AccomplishDate = &d
	}

	return row, nil
}

func (s *Store) CreateWallet(ctx context.Context, w *wallet.Wallet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO wallets (id, name, description, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`

	if _, err := tx.ExecContext(ctx, query, w.ID(), w.Name(), w.Description(), w.Currency()); err != nil {
		return fmt.Errorf("creating wallet: %w", err)
	}

	if err := saveAcceptedMethods(ctx, tx, w); err != nil {
		return err
	}

	if err := saveMovements(ctx, tx, w); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing wallet: %w", err)
	}

	return nil
}

func (s *Store) GetWallet(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	query := `SELECT id, name, description, currency FROM wallets WHERE id = $1`

	var (
		walletID    uuid.UUID
		name        string
		description sql.NullString
		currency    string
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(&walletID, &name, &description, &currency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wallet.ErrNotFound
		}

		return nil, fmt.Errorf("getting wallet: %w", err)
	}

	methods, err := s.acceptedMethods(ctx, walletID)
	if err != nil {
		return nil, err
	}

	movements, err := s.walletMovements(ctx, walletID)
	if err != nil {
		return nil, err
	}

	return wallet.Restore(wallet.RestoreParams{
		ID:             walletID,
		Name:           name,
		Description:    description.String,
		Currency:       currency,
		PaymentMethods: methods,
		Movements:      movements,
	}), nil
}

func (s *Store) SaveWallet(ctx context.Context, w *wallet.Wallet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE wallets
		SET name = $2, description = $3, currency = $4, updated_at = NOW()
		WHERE id = $1
	`

	res, err := tx.ExecContext(ctx, query, w.ID(), w.Name(), w.Description(), w.Currency())
	if err != nil {
		return fmt.Errorf("saving wallet: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return wallet.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM wallet_payment_methods WHERE wallet_id = $1`, w.ID()); err != nil {
		return fmt.Errorf("clearing forms of payment: %w", err)
	}

	if err := saveAcceptedMethods(ctx, tx, w); err != nil {
		return err
	}

	if err := saveMovements(ctx, tx, w); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing wallet: %w", err)
	}

	return nil
}

func (s *Store) ListWallets(ctx context.Context) ([]*wallet.Wallet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM wallets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing wallets: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning wallet id: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing wallets: %w", err)
	}

	wallets := make([]*wallet.Wallet, 0, len(ids))

	for _, id := range ids {
		w, err := s.GetWallet(ctx, id)
		if err != nil {
			return nil, err
		}

		wallets = append(wallets, w)
	}

	return wallets, nil
}

func (s *Store) DeleteWallet(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM wallets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting wallet: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return wallet.ErrNotFound
	}

	return nil
}

func (s *Store) acceptedMethods(ctx context.Context, walletID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT form_of_payment_id FROM wallet_payment_methods WHERE wallet_id = $1`, walletID)
	if err != nil {
		return nil, fmt.Errorf("loading forms of payment: %w", err)
	}
	defer rows.Close()

	var methods []uuid.UUID

	for rows.Next() {
		var pm uuid.UUID
		if err := rows.Scan(&pm); err != nil {
			return nil, fmt.Errorf("scanning form of payment: %w", err)
		}

		methods = append(methods, pm)
	}

	return methods, rows.Err()
}

func (s *Store) walletMovements(ctx context.Context, walletID uuid.UUID) ([]*movement.Movement, error) {
	query := `SELECT ` + selectMovementColumns + ` FROM movements m WHERE m.wallet_id = $1`

	rows, err := s.db.QueryContext(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("loading movements: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*movementRow)

	var order []uuid.UUID

	for rows.Next() {
		row, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}

		byID[row.params.Operation.ID] = row
		order = append(order, row.params.Operation.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading movements: %w", err)
	}

	if err := s.attachTo(ctx, walletID, byID); err != nil {
		return nil, err
	}

	movements := make([]*movement.Movement, 0, len(order))
	for _, id := range order {
		movements = append(movements, movement.Restore(byID[id].params))
	}

	return movements, nil
}

func (s *Store) attachTo(ctx context.Context, walletID uuid.UUID, byID map[uuid.UUID]*movementRow) error {
	query := `
		SELECT a.movement_id, a.uri, a.name
		FROM movement_attachments a
		JOIN movements m ON m.id = a.movement_id
		WHERE m.wallet_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, walletID)
	if err != nil {
		return fmt.Errorf("loading attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			movementID uuid.UUID
			uri        string
			name       sql.NullString
		)

		if err := rows.Scan(&movementID, &uri, &name); err != nil {
			return fmt.Errorf("scanning attachment: %w", err)
		}

		row, ok := byID[movementID]
		if !ok {
			continue
		}

		row.params.Operation.Attachments = append(row.params.Operation.Attachments, operation.Attachment{
			Name: name.String,
			URI:  uri,
		})
	}

	return rows.Err()
}

func saveAcceptedMethods(ctx context.Context, tx *sql.Tx, w *wallet.Wallet) error {
	query := `
		INSERT INTO wallet_payment_methods (wallet_id, form_of_payment_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	for _, pm := range w.PaymentMethods() {
		if _, err := tx.ExecContext(ctx, query, w.ID(), pm); err != nil {
			return fmt.Errorf("saving form of payment: %w", err)
		}
	}

	return nil
}

func saveMovements(ctx context.Context, tx *sql.Tx, w *wallet.Wallet) error {
	query := `
		INSERT INTO movements (
			id, wallet_id, name, description, amount, due_date, payment_method_id,
			payee_id, category_id, type, frequency, group_id,
			active, accomplished, accomplish_date, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			amount = EXCLUDED.amount,
			due_date = EXCLUDED.due_date,
			payment_method_id = EXCLUDED.payment_method_id,
			payee_id = EXCLUDED.payee_id,
			category_id = EXCLUDED.category_id,
			type = EXCLUDED.type,
			frequency = EXCLUDED.frequency,
			group_id = EXCLUDED.group_id,
			active = EXCLUDED.active,
			accomplished = EXCLUDED.accomplished,
			accomplish_date = EXCLUDED.accomplish_date,
			updated_at = NOW()
	`

	attachmentQuery := `
		INSERT INTO movement_attachments (movement_id, uri, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (movement_id, uri) DO UPDATE SET name = EXCLUDED.name
	`

	for _, m := range w.Movements() {
		var accomplishDate any
		if d, ok := m.AccomplishDate(); ok {
			accomplishDate = d
		}

		if _, err := tx.ExecContext(ctx, query,
			m.ID(), w.ID(), m.Name(), m.Description(), m.Amount(), m.DueDate(),
			m.PaymentMethod(), m.Payee(), m.Category(),
			string(m.Type()), string(m.Frequency()), m.GroupID(),
			m.Active(), m.Accomplished(), accomplishDate,
		); err != nil {
			return fmt.Errorf("saving movement %s: %w", m.ID(), err)
		}

		for _, a := range m.Attachments() {
			if _, err := tx.ExecContext(ctx, attachmentQuery, m.ID(), a.URI, a.Name); err != nil {
				return fmt.Errorf("saving attachment %s: %w", a.URI, err)
			}
		}
	}

	return nil
}
