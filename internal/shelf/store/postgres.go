package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"malkhana/internal/shelf/models"
	id "malkhana/pkg/domain"
	"malkhana/pkg/platform/sentinel"
)

// Postgres persists shelves in PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed shelf store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Create(ctx context.Context, shelf *models.Shelf) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO shelves (id, unit_id, name, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, shelf.ID.String(), shelf.UnitID.String(), shelf.Name, shelf.Location, shelf.CreatedAt, shelf.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert shelf: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, shelfID id.ShelfID) (*models.Shelf, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, unit_id, name, location, created_at, updated_at
		FROM shelves WHERE id = $1
	`, shelfID.String())
	shelf, err := scanShelf(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find shelf: %w", err)
	}
	return shelf, nil
}

func (s *Postgres) ListByUnit(ctx context.Context, scope id.UnitScope) ([]*models.Shelf, error) {
	query := `
		SELECT id, unit_id, name, location, created_at, updated_at
		FROM shelves`
	args := []any{}
	if unitID, ok := scope.UnitID(); ok {
		query += ` WHERE unit_id = $1`
		args = append(args, unitID.String())
	}
	query += ` ORDER BY name`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shelves: %w", err)
	}
	defer rows.Close()

	var out []*models.Shelf
	for rows.Next() {
		shelf, err := scanShelf(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shelf: %w", err)
		}
		out = append(out, shelf)
	}
	return out, rows.Err()
}

func scanShelf(row pgx.Row) (*models.Shelf, error) {
	var (
		shelf           models.Shelf
		shelfID, unitID string
	)
	if err := row.Scan(&shelfID, &unitID, &shelf.Name, &shelf.Location, &shelf.CreatedAt, &shelf.UpdatedAt); err != nil {
		return nil, err
	}
	parsedShelfID, err := id.ParseShelfID(shelfID)
	if err != nil {
		return nil, err
	}
	parsedUnitID, err := id.ParseUnitID(unitID)
	if err != nil {
		return nil, err
	}
	shelf.ID = parsedShelfID
	shelf.UnitID = parsedUnitID
	return &shelf, nil
}
