package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fwojciec/catalog"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ catalog.CategoryService = (*CategoryService)(nil)

// CategoryService implements catalog.CategoryService using SQLite.
type CategoryService struct {
	db *DB
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *DB) *CategoryService {
	return &CategoryService{db: db}
}

// FindCategories returns all categories ordered by name.
func (s *CategoryService) FindCategories(ctx context.Context) ([]*catalog.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, parent_id FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*catalog.Category{}
	for rows.Next() {
		var c catalog.Category
		var parentID sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &parentID); err != nil {
			return nil, err
		}
		if parentID.Valid {
			c.ParentID = &parentID.String
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// ensureCategories returns the IDs of the named categories in order,
// creating the missing ones. A new category gets the preceding name of the
// path as its parent; existing categories keep theirs.
func ensureCategories(ctx context.Context, tx *sql.Tx, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	var parent any
	for _, name := range names {
		var id string
		err := tx.QueryRowContext(ctx, "SELECT id FROM categories WHERE name = ?", name).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			id = uuid.New().String()
			_, err = tx.ExecContext(ctx,
				"INSERT INTO categories (id, name, parent_id) VALUES (?, ?, ?)", id, name, parent)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve category %q: %w", name, err)
		}
		ids = append(ids, id)
		parent = id
	}
	return ids, nil
}
