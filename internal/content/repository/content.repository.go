package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"contentlib/internal/content/model"
	"contentlib/pkg/logger"
)

const (
	createContentsTableQuery = `
	CREATE TABLE IF NOT EXISTS contents (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`

	contentColumns = `id, title, description, created_at, updated_at`

	listContentsQuery = `SELECT ` + contentColumns + ` FROM contents ORDER BY created_at DESC, id DESC`

	getContentQuery = `SELECT ` + contentColumns + ` FROM contents WHERE id = $1`

	createContentQuery = `
		INSERT INTO contents (title, description, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING ` + contentColumns

	deleteContentQuery = `DELETE FROM contents WHERE id = $1`

	deleteAllContentsQuery = `DELETE FROM contents`
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// Migrate creates the contents table when it does not exist yet.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, createContentsTableQuery); err != nil {
		logger.Sugar.Errorf("Failed to ensure contents table exists: %v", err)
		return fmt.Errorf("ensure contents table: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContent(row rowScanner) (*model.Content, error) {
	var c model.Content
	var description sql.NullString
	if err := row.Scan(&c.ID, &c.Title, &description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		d := description.String
		c.Description = &d
	}
	return &c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]model.Content, error) {
	rows, err := r.DB.QueryContext(ctx, listContentsQuery)
	if err != nil {
		logger.Sugar.Errorf("Failed to list contents: %v", err)
		return nil, err
	}
	defer rows.Close()

	contents := []model.Content{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			logger.Sugar.Errorf("Failed to scan content row: %v", err)
			return nil, err
		}
		contents = append(contents, *c)
	}
	return contents, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, id int) (*model.Content, error) {
	c, err := scanContent(r.DB.QueryRowContext(ctx, getContentQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content %d: %w", id, ErrNotFound)
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get content %d: %v", id, err)
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, in model.NewContent) (*model.Content, error) {
	c, err := scanContent(r.DB.QueryRowContext(ctx, createContentQuery, in.Title, in.Description))
	if err != nil {
		logger.Sugar.Errorf("Failed to create content: %v", err)
		return nil, err
	}
	return c, nil
}

// buildUpdateQuery renders the UPDATE statement for patch. updated_at is
// always refreshed, even when the patch changes nothing else.
func buildUpdateQuery(id int, patch model.Patch) (string, []interface{}) {
	var sets []string
	var args []interface{}
	if patch.Title != nil {
		args = append(args, *patch.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if patch.SetDescription {
		args = append(args, patch.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE contents SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), contentColumns)
	return query, args
}

func (r *PostgresRepository) Update(ctx context.Context, id int, patch model.Patch) (*model.Content, error) {
	query, args := buildUpdateQuery(id, patch)
	c, err := scanContent(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content %d: %w", id, ErrNotFound)
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to update content %d: %v", id, err)
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, deleteContentQuery, id)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete content %d: %v", id, err)
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("content %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, deleteAllContentsQuery); err != nil {
		logger.Sugar.Errorf("Failed to clear contents: %v", err)
		return err
	}
	return nil
}
