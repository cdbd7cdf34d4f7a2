package repositories

import (
	"context"
	"fmt"

	"farmmarket/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AttributeRepository interface {
	// InsertBatch writes the attributes inside the caller's transaction, in
	// the order given. It never begins or commits a transaction of its own.
	InsertBatch(ctx context.Context, tx pgx.Tx, categoryID uuid.UUID, attributes []*models.Attribute) error
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Attribute, error)
	Update(ctx context.Context, attribute *models.Attribute) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type attributeRepo struct {
	db Database
}

func NewAttributeRepo(db Database) AttributeRepository {
	return &attributeRepo{db: db}
}

func (r *attributeRepo) InsertBatch(ctx context.Context, tx pgx.Tx, categoryID uuid.UUID, attributes []*models.Attribute) error {
	// Empty batch is a no-op, not an error.
	for _, attribute := range attributes {
		if attribute.Name == "" {
			return fmt.Errorf("%w: attribute name is required", ErrValidation)
		}
		id := attribute.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		query := `
			INSERT INTO attributes (id, name, is_required, category_id)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.Exec(ctx, query, id, attribute.Name, attribute.IsRequired, categoryID); err != nil {
			return fmt.Errorf("insert attribute %q: %w", attribute.Name, err)
		}
		attribute.ID = id
		attribute.CategoryID = categoryID
	}
	return nil
}

func (r *attributeRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Attribute, error) {
	query := `
		SELECT id, name, is_required, category_id
		FROM attributes
		WHERE category_id = $1
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attributes []*models.Attribute
	for rows.Next() {
		attribute := &models.Attribute{}
		if err := rows.Scan(&attribute.ID, &attribute.Name, &attribute.IsRequired, &attribute.CategoryID); err != nil {
			return nil, err
		}
		attributes = append(attributes, attribute)
	}
	return attributes, rows.Err()
}

func (r *attributeRepo) Update(ctx context.Context, attribute *models.Attribute) error {
	query := `
		UPDATE attributes
		SET name = $1, is_required = $2
		WHERE id = $3
	`
	tag, err := r.db.Exec(ctx, query, attribute.Name, attribute.IsRequired, attribute.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *attributeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM attributes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
