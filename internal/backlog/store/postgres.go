package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"voxlab/internal/backlog"
	id "voxlab/pkg/domain"
	"voxlab/pkg/platform/sentinel"
)

// PostgresStore persists backlog items in researcher_backlog_items with
// comments and links in child tables keyed by item id.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const itemColumns = `id, item_type, status, priority, title, description,
	display_order, response_id, created_at, updated_at`

func (s *PostgresStore) CreateItem(ctx context.Context, item *backlog.Item) error {
	var responseID *uuid.UUID
	if item.ResponseID != nil {
		u := uuid.UUID(*item.ResponseID)
		responseID = &u
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO researcher_backlog_items (`+itemColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		uuid.UUID(item.ID), string(item.Type), string(item.Status),
		string(item.Priority), item.Title, item.Description,
		item.DisplayOrder, responseID, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert backlog item: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindItem(ctx context.Context, itemID id.BacklogItemID) (*backlog.Item, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM researcher_backlog_items WHERE id = $1`,
		uuid.UUID(itemID))
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find backlog item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) UpdateItem(ctx context.Context, item *backlog.Item) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE researcher_backlog_items
		SET status = $2, priority = $3, title = $4, description = $5,
		    display_order = $6, updated_at = $7
		WHERE id = $1`,
		uuid.UUID(item.ID), string(item.Status), string(item.Priority),
		item.Title, item.Description, item.DisplayOrder, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update backlog item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteItem(ctx context.Context, itemID id.BacklogItemID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM researcher_backlog_items WHERE id = $1`, uuid.UUID(itemID))
	if err != nil {
		return fmt.Errorf("delete backlog item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListLane(ctx context.Context, itemType backlog.ItemType, status backlog.Status) ([]*backlog.Item, error) {
	return s.listItems(ctx, `
		SELECT `+itemColumns+` FROM researcher_backlog_items
		WHERE item_type = $1 AND status = $2
		ORDER BY display_order`, string(itemType), string(status))
}

func (s *PostgresStore) ListByType(ctx context.Context, itemType backlog.ItemType) ([]*backlog.Item, error) {
	return s.listItems(ctx, `
		SELECT `+itemColumns+` FROM researcher_backlog_items
		WHERE item_type = $1
		ORDER BY status, display_order`, string(itemType))
}

// ReplaceLaneOrder rewrites one lane's display order densely inside a single
// transaction so a half-applied reorder never persists.
func (s *PostgresStore) ReplaceLaneOrder(ctx context.Context, itemType backlog.ItemType, status backlog.Status, orderedIDs []id.BacklogItemID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback(ctx)

	for order, itemID := range orderedIDs {
		tag, err := tx.Exec(ctx, `
			UPDATE researcher_backlog_items
			SET display_order = $2
			WHERE id = $1 AND item_type = $3 AND status = $4`,
			uuid.UUID(itemID), order, string(itemType), string(status))
		if err != nil {
			return fmt.Errorf("reorder item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return sentinel.ErrInvalidState
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) AddComment(ctx context.Context, comment *backlog.Comment) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO researcher_backlog_comments (item_id, author, body, created_at)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		uuid.UUID(comment.ItemID), uuid.UUID(comment.Author), comment.Body,
		comment.CreatedAt).Scan(&comment.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListComments(ctx context.Context, itemID id.BacklogItemID) ([]*backlog.Comment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, item_id, author, body, created_at
		FROM researcher_backlog_comments
		WHERE item_id = $1 ORDER BY created_at`, uuid.UUID(itemID))
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var out []*backlog.Comment
	for rows.Next() {
		var c backlog.Comment
		var itemUUID, author uuid.UUID
		if err := rows.Scan(&c.ID, &itemUUID, &author, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.ItemID = id.BacklogItemID(itemUUID)
		c.Author = id.ResearcherID(author)
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AddLink(ctx context.Context, link *backlog.Link) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO researcher_backlog_links (item_id, url, label, created_at)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		uuid.UUID(link.ItemID), link.URL, link.Label, link.CreatedAt).Scan(&link.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert link: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListLinks(ctx context.Context, itemID id.BacklogItemID) ([]*backlog.Link, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, item_id, url, label, created_at
		FROM researcher_backlog_links
		WHERE item_id = $1 ORDER BY created_at`, uuid.UUID(itemID))
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var out []*backlog.Link
	for rows.Next() {
		var l backlog.Link
		var itemUUID uuid.UUID
		if err := rows.Scan(&l.ID, &itemUUID, &l.URL, &l.Label, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		l.ItemID = id.BacklogItemID(itemUUID)
		out = append(out, &l)
	}
	return out, rows.Err()
}

func scanItem(row pgx.Row) (*backlog.Item, error) {
	var (
		item       backlog.Item
		itemUUID   uuid.UUID
		itemType   string
		status     string
		priority   string
		responseID *uuid.UUID
	)
	err := row.Scan(&itemUUID, &itemType, &status, &priority, &item.Title,
		&item.Description, &item.DisplayOrder, &responseID, &item.CreatedAt,
		&item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.ID = id.BacklogItemID(itemUUID)
	item.Type = backlog.ItemType(itemType)
	item.Status = backlog.Status(status)
	item.Priority = backlog.Priority(priority)
	if responseID != nil {
		rid := id.ResponseID(*responseID)
		item.ResponseID = &rid
	}
	return &item, nil
}

func (s *PostgresStore) listItems(ctx context.Context, query string, args ...any) ([]*backlog.Item, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list backlog items: %w", err)
	}
	defer rows.Close()

	var out []*backlog.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backlog item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
