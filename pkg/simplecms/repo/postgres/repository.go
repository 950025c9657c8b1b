package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simplecms.Repository using PostgreSQL.
//
// Every operation is a single statement, so each one is atomic and reads a
// consistent snapshot without explicit transactions.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS content_item (
	seq        BIGSERIAL,
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	type       TEXT NOT NULL CHECK (type IN ('page', 'post', 'announcement')),
	status     TEXT NOT NULL CHECK (status IN ('draft', 'published')),
	author     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	CHECK (created_at <= updated_at)
);
CREATE INDEX IF NOT EXISTS content_item_seq_idx ON content_item (seq);`

const itemColumns = `id, title, content, type, status, author, created_at, updated_at`

// Migrate creates the content_item table when it does not exist
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return r.handlePostgresError("migrate", err)
	}
	return nil
}

// Seed inserts items when the table is empty. Existing rows are left alone.
func (r *Repository) Seed(ctx context.Context, items []*simplecms.Item) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM content_item`).Scan(&count); err != nil {
		return 0, r.handlePostgresError("seed", err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, item := range items {
		tag, err := r.db.Exec(ctx, `
			INSERT INTO content_item (`+itemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING`,
			item.ID, item.Title, item.Content, string(item.Type), string(item.Status),
			item.Author, item.CreatedAt, item.UpdatedAt)
		if err != nil {
			return inserted, r.handlePostgresError("seed", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("content already exists: %w", err)
		case "23514": // check_violation
			return fmt.Errorf("content violates constraint %s: %w", pgErr.ConstraintName, err)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing: %w", pgErr.ColumnName, err)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required: %w", err)
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return simplecms.ErrItemNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func scanItem(row pgx.Row) (*simplecms.Item, error) {
	var item simplecms.Item
	var itemType, status string
	err := row.Scan(&item.ID, &item.Title, &item.Content, &itemType, &status,
		&item.Author, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.Type = simplecms.ItemType(itemType)
	item.Status = simplecms.ItemStatus(status)
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	return &item, nil
}

func (r *Repository) ListItems(ctx context.Context) ([]*simplecms.Item, error) {
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM content_item ORDER BY seq`)
	if err != nil {
		return nil, r.handlePostgresError("list items", err)
	}
	defer rows.Close()

	result := []*simplecms.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, r.handlePostgresError("list items", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list items", err)
	}
	return result, nil
}

func (r *Repository) GetItem(ctx context.Context, id string) (*simplecms.Item, error) {
	item, err := scanItem(r.db.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM content_item WHERE id = $1`, id))
	if err != nil {
		return nil, r.handlePostgresError("get item", err)
	}
	return item, nil
}

func (r *Repository) CreateItem(ctx context.Context, fields simplecms.ItemFields) (*simplecms.Item, error) {
	item, err := scanItem(r.db.QueryRow(ctx, `
		INSERT INTO content_item (id, title, content, type, status, author, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING `+itemColumns,
		uuid.NewString(), fields.Title, fields.Content, string(fields.Type),
		string(fields.Status), fields.Author))
	if err != nil {
		return nil, r.handlePostgresError("create item", err)
	}
	return item, nil
}

func (r *Repository) UpdateItem(ctx context.Context, id string, patch simplecms.ItemPatch) (*simplecms.Item, error) {
	item, err := scanItem(r.db.QueryRow(ctx, `
		UPDATE content_item SET
			title      = COALESCE($2, title),
			content    = COALESCE($3, content),
			type       = COALESCE($4, type),
			status     = COALESCE($5, status),
			author     = COALESCE($6, author),
			updated_at = GREATEST(now(), updated_at)
		WHERE id = $1
		RETURNING `+itemColumns,
		id, patch.Title, patch.Content, enumArg(patch.Type), enumArg(patch.Status), patch.Author))
	if err != nil {
		return nil, r.handlePostgresError("update item", err)
	}
	return item, nil
}

func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM content_item WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return simplecms.ErrItemNotFound
	}
	return nil
}

func (r *Repository) Stats(ctx context.Context) (*simplecms.Stats, error) {
	var s simplecms.Stats
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'published'),
			COUNT(*) FILTER (WHERE status = 'draft'),
			COUNT(*) FILTER (WHERE type = 'page'),
			COUNT(*) FILTER (WHERE type = 'post'),
			COUNT(*) FILTER (WHERE type = 'announcement')
		FROM content_item`).Scan(
		&s.Total, &s.Published, &s.Drafts, &s.Pages, &s.Posts, &s.Announcements)
	if err != nil {
		return nil, r.handlePostgresError("stats", err)
	}
	return &s, nil
}

// enumArg converts a typed enum pointer to a nullable text argument.
func enumArg[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

var _ simplecms.Repository = (*Repository)(nil)
