package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/tracker/internal/encounter"
)

// EncounterRepository stores encounter documents as JSONB rows.
// It implements encounter.Store.
type EncounterRepository struct {
	db *pgxpool.Pool
}

// NewEncounterRepository creates an EncounterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with the encounters table migrated.
func NewEncounterRepository(db *pgxpool.Pool) *EncounterRepository {
	return &EncounterRepository{db: db}
}

// Exists implements encounter.Store.
func (r *EncounterRepository) Exists(ctx context.Context, id string) (bool, error) {
	if err := encounter.ValidateID(id); err != nil {
		return false, err
	}
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM encounters WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking encounter %q: %w", id, err)
	}
	return exists, nil
}

// Read implements encounter.Store.
//
// Postcondition: Returns the stored document or an error wrapping encounter.ErrFileNotFound.
func (r *EncounterRepository) Read(ctx context.Context, id string) ([]byte, error) {
	if err := encounter.ValidateID(id); err != nil {
		return nil, err
	}
	var doc []byte
	err := r.db.QueryRow(ctx, `SELECT document FROM encounters WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("encounter %q: %w", id, encounter.ErrFileNotFound)
		}
		return nil, fmt.Errorf("reading encounter %q: %w", id, err)
	}
	return doc, nil
}

// Write implements encounter.Store by upserting the document.
//
// Precondition: data must be valid JSON.
func (r *EncounterRepository) Write(ctx context.Context, id string, data []byte) error {
	if err := encounter.ValidateID(id); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO encounters (id, document)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (id) DO UPDATE
		SET document = EXCLUDED.document, updated_at = NOW()`,
		id, string(data),
	)
	if err != nil {
		return fmt.Errorf("writing encounter %q: %w", id, err)
	}
	return nil
}

// List implements encounter.Store.
func (r *EncounterRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM encounters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing encounters: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning encounter ids: %w", err)
	}
	return ids, nil
}
