package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"malkhana/internal/registry/models"
	id "malkhana/pkg/domain"
	"malkhana/pkg/platform/sentinel"
)

const itemColumns = `
	id::text, mother_year, mother_seq, registry_type, registry_number,
	registry_year, unit_id::text, status, shelf_id::text, case_number,
	description, category, received_from, disposed_at, disposal_reason,
	disposal_approved_by, created_by::text, created_at, updated_at`

// Postgres persists evidence items and their renumber history in PostgreSQL.
// RunInTx wraps fn in a real transaction carried through the context, so the
// multi-step renumbering and year-transition batches commit or roll back as
// one unit.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed item store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// q returns the active transaction when inside RunInTx, the pool otherwise.
func (s *Postgres) q(ctx context.Context) querier {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return s.pool
}

func (s *Postgres) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFrom(ctx); ok {
		// Already inside a transaction; nesting joins it.
		return fn(ctx)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(withTx(ctx, tx))
	})
}

func (s *Postgres) Create(ctx context.Context, item *models.EvidenceItem) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO evidence_items (
			id, mother_year, mother_seq, registry_type, registry_number,
			registry_year, unit_id, status, shelf_id, case_number,
			description, category, received_from, disposed_at, disposal_reason,
			disposal_approved_by, created_by, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		item.ID.String(), item.MotherYear, item.MotherSeq, string(item.RegistryType), item.RegistryNumber,
		item.RegistryYear, item.UnitID.String(), string(item.Status), shelfIDParam(item.ShelfID), item.Details.CaseNumber,
		item.Details.Description, item.Details.Category, item.Details.ReceivedFrom, item.DisposedAt, item.DisposalReason,
		item.DisposalApprovedBy, item.CreatedBy.String(), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, itemID id.ItemID) (*models.EvidenceItem, error) {
	row := s.q(ctx).QueryRow(ctx, `SELECT `+itemColumns+` FROM evidence_items WHERE id = $1`, itemID.String())
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find item: %w", err)
	}
	if err := s.attachHistory(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Postgres) FindByMotherNumber(ctx context.Context, year, seq int) (*models.EvidenceItem, error) {
	row := s.q(ctx).QueryRow(ctx, `
		SELECT `+itemColumns+` FROM evidence_items
		WHERE mother_year = $1 AND mother_seq = $2
	`, year, seq)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find item by mother number: %w", err)
	}
	if err := s.attachHistory(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Postgres) Update(ctx context.Context, item *models.EvidenceItem) error {
	tag, err := s.q(ctx).Exec(ctx, `
		UPDATE evidence_items SET
			registry_type = $2, registry_number = $3, registry_year = $4,
			status = $5, shelf_id = $6, case_number = $7, description = $8,
			category = $9, received_from = $10, disposed_at = $11,
			disposal_reason = $12, disposal_approved_by = $13, updated_at = $14
		WHERE id = $1
	`,
		item.ID.String(), string(item.RegistryType), item.RegistryNumber, item.RegistryYear,
		string(item.Status), shelfIDParam(item.ShelfID), item.Details.CaseNumber, item.Details.Description,
		item.Details.Category, item.Details.ReceivedFrom, item.DisposedAt,
		item.DisposalReason, item.DisposalApprovedBy, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) MaxMotherSeq(ctx context.Context, unitID id.UnitID, year int) (int, error) {
	var max int
	err := s.q(ctx).QueryRow(ctx, `
		SELECT COALESCE(MAX(mother_seq), 0) FROM evidence_items
		WHERE unit_id = $1 AND mother_year = $2
	`, unitID.String(), year).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max mother seq: %w", err)
	}
	return max, nil
}

func (s *Postgres) MaxRedInkNumber(ctx context.Context, unitID id.UnitID) (int, error) {
	var max int
	err := s.q(ctx).QueryRow(ctx, `
		SELECT COALESCE(MAX(registry_number), 0) FROM evidence_items
		WHERE unit_id = $1 AND registry_type = $2
	`, unitID.String(), string(models.RegistryTypeRedInk)).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max red ink number: %w", err)
	}
	return max, nil
}

func (s *Postgres) ListRegistry(ctx context.Context, scope id.UnitScope, registryType models.RegistryType, registryYear int) ([]*models.EvidenceItem, error) {
	query := `SELECT ` + itemColumns + ` FROM evidence_items WHERE registry_type = $1`
	args := []any{string(registryType)}
	if registryYear != 0 {
		args = append(args, registryYear)
		query += fmt.Sprintf(` AND registry_year = $%d`, len(args))
	}
	if unitID, ok := scope.UnitID(); ok {
		args = append(args, unitID.String())
		query += fmt.Sprintf(` AND unit_id = $%d`, len(args))
	}
	query += ` ORDER BY registry_number, created_at`

	items, err := s.queryItems(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list registry: %w", err)
	}
	if err := s.attachHistories(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Postgres) ListActiveRedInkAbove(ctx context.Context, unitID id.UnitID, number int) ([]*models.EvidenceItem, error) {
	items, err := s.queryItems(ctx, `
		SELECT `+itemColumns+` FROM evidence_items
		WHERE unit_id = $1 AND registry_type = $2 AND status = $3 AND registry_number > $4
		ORDER BY registry_number, created_at
	`, unitID.String(), string(models.RegistryTypeRedInk), string(models.StatusActive), number)
	if err != nil {
		return nil, fmt.Errorf("list active red ink: %w", err)
	}
	return items, nil
}

func (s *Postgres) ListActiveBlackInk(ctx context.Context, unitID id.UnitID, registryYear int) ([]*models.EvidenceItem, error) {
	items, err := s.queryItems(ctx, `
		SELECT `+itemColumns+` FROM evidence_items
		WHERE unit_id = $1 AND registry_type = $2 AND status = $3 AND registry_year = $4
		ORDER BY registry_number, created_at
	`, unitID.String(), string(models.RegistryTypeBlackInk), string(models.StatusActive), registryYear)
	if err != nil {
		return nil, fmt.Errorf("list active black ink: %w", err)
	}
	return items, nil
}

func (s *Postgres) Search(ctx context.Context, scope id.UnitScope, query string) ([]*models.EvidenceItem, error) {
	pattern := "%" + query + "%"
	sql := `
		SELECT ` + itemColumns + ` FROM evidence_items
		WHERE (
			mother_year::text || '-' || lpad(mother_seq::text, 5, '0') ILIKE $1
			OR case_number ILIKE $1
			OR description ILIKE $1
			OR category ILIKE $1
			OR received_from ILIKE $1
		)`
	args := []any{pattern}
	if unitID, ok := scope.UnitID(); ok {
		args = append(args, unitID.String())
		sql += ` AND unit_id = $2`
	}
	sql += ` ORDER BY registry_number, created_at`

	items, err := s.queryItems(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	if err := s.attachHistories(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Postgres) Stats(ctx context.Context, scope id.UnitScope, currentYear int, since time.Time) (models.Stats, error) {
	sql := `
		SELECT
			COUNT(*) FILTER (WHERE registry_type = 'BLACK_INK' AND registry_year = $1),
			COUNT(*) FILTER (WHERE registry_type = 'RED_INK'),
			COUNT(*) FILTER (WHERE status = 'DISPOSED'),
			COUNT(*) FILTER (WHERE created_at >= $2)
		FROM evidence_items`
	args := []any{currentYear, since}
	if unitID, ok := scope.UnitID(); ok {
		args = append(args, unitID.String())
		sql += ` WHERE unit_id = $3`
	}

	var stats models.Stats
	err := s.q(ctx).QueryRow(ctx, sql, args...).Scan(
		&stats.BlackInkCount, &stats.RedInkCount, &stats.DisposedCount, &stats.RecentCount,
	)
	if err != nil {
		return models.Stats{}, fmt.Errorf("stats: %w", err)
	}
	return stats, nil
}

func (s *Postgres) AppendRenumberEvent(ctx context.Context, event *models.RenumberEvent) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO renumber_events (id, item_id, year, red_ink_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, event.ID.String(), event.ItemID.String(), event.Year, event.RedInkID, event.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert renumber event: %w", err)
	}
	return nil
}

func (s *Postgres) queryItems(ctx context.Context, sql string, args ...any) ([]*models.EvidenceItem, error) {
	rows, err := s.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.EvidenceItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Postgres) attachHistory(ctx context.Context, item *models.EvidenceItem) error {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT id::text, item_id::text, year, red_ink_id, created_at
		FROM renumber_events WHERE item_id = $1 ORDER BY created_at, id
	`, item.ID.String())
	if err != nil {
		return fmt.Errorf("load renumber history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return fmt.Errorf("scan renumber event: %w", err)
		}
		item.RedInkHistory = append(item.RedInkHistory, *event)
	}
	return rows.Err()
}

func (s *Postgres) attachHistories(ctx context.Context, items []*models.EvidenceItem) error {
	if len(items) == 0 {
		return nil
	}
	byID := make(map[id.ItemID]*models.EvidenceItem, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		byID[item.ID] = item
		ids = append(ids, item.ID.String())
	}

	rows, err := s.q(ctx).Query(ctx, `
		SELECT id::text, item_id::text, year, red_ink_id, created_at
		FROM renumber_events WHERE item_id = ANY($1::uuid[]) ORDER BY created_at, id
	`, ids)
	if err != nil {
		return fmt.Errorf("load renumber histories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return fmt.Errorf("scan renumber event: %w", err)
		}
		if item, ok := byID[event.ItemID]; ok {
			item.RedInkHistory = append(item.RedInkHistory, *event)
		}
	}
	return rows.Err()
}

func shelfIDParam(shelfID *id.ShelfID) *string {
	if shelfID == nil {
		return nil
	}
	s := shelfID.String()
	return &s
}

func scanItem(row pgx.Row) (*models.EvidenceItem, error) {
	var (
		item                      models.EvidenceItem
		itemID, unitID, createdBy string
		registryType, status      string
		shelfID                   *string
	)
	err := row.Scan(
		&itemID, &item.MotherYear, &item.MotherSeq, &registryType, &item.RegistryNumber,
		&item.RegistryYear, &unitID, &status, &shelfID, &item.Details.CaseNumber,
		&item.Details.Description, &item.Details.Category, &item.Details.ReceivedFrom,
		&item.DisposedAt, &item.DisposalReason, &item.DisposalApprovedBy,
		&createdBy, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsedItemID, err := id.ParseItemID(itemID)
	if err != nil {
		return nil, err
	}
	parsedUnitID, err := id.ParseUnitID(unitID)
	if err != nil {
		return nil, err
	}
	parsedCreatedBy, err := id.ParseUserID(createdBy)
	if err != nil {
		return nil, err
	}
	item.ID = parsedItemID
	item.UnitID = parsedUnitID
	item.CreatedBy = parsedCreatedBy
	item.RegistryType = models.RegistryType(registryType)
	item.Status = models.ItemStatus(status)
	if shelfID != nil {
		parsedShelfID, err := id.ParseShelfID(*shelfID)
		if err != nil {
			return nil, err
		}
		item.ShelfID = &parsedShelfID
	}
	return &item, nil
}

func scanEvent(row pgx.Row) (*models.RenumberEvent, error) {
	var (
		event          models.RenumberEvent
		eventID, owner string
	)
	if err := row.Scan(&eventID, &owner, &event.Year, &event.RedInkID, &event.CreatedAt); err != nil {
		return nil, err
	}
	parsedItemID, err := id.ParseItemID(owner)
	if err != nil {
		return nil, err
	}
	parsedEventID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, err
	}
	event.ID = id.EventID(parsedEventID)
	event.ItemID = parsedItemID
	return &event, nil
}
