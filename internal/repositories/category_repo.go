package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"farmmarket/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CategoryRepository interface {
	// CreateWithAttributes inserts the category and its attributes as one
	// atomic unit. The name uniqueness check runs inside the same
	// transaction as the insert.
	CreateWithAttributes(ctx context.Context, category *models.Category, attributes []*models.Attribute) error
	// UpdateWithAttributes updates the category row and appends the supplied
	// attributes. Existing attributes are never removed by an update; callers
	// that want a different set must delete the old rows explicitly.
	UpdateWithAttributes(ctx context.Context, category *models.Category, attributes []*models.Attribute) error
	// Delete removes the category and every attribute scoped to it, as one
	// atomic unit.
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context, limit, offset int) ([]*models.Category, error)
	// GetHierarchy materializes the full subtree rooted at id, children
	// ordered by name, with each node's attributes attached.
	GetHierarchy(ctx context.Context, id uuid.UUID) (*models.CategoryNode, error)
}

type categoryRepo struct {
	db         Database
	attributes AttributeRepository
}

func NewCategoryRepo(db Database, attributes AttributeRepository) CategoryRepository {
	return &categoryRepo{db: db, attributes: attributes}
}

func (r *categoryRepo) CreateWithAttributes(ctx context.Context, category *models.Category, attributes []*models.Attribute) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransaction, err)
	}
	defer tx.Rollback(ctx)

	taken, err := nameTaken(ctx, tx, category.Name, nil)
	if err != nil {
		return fmt.Errorf("%w: name check: %v", ErrTransaction, err)
	}
	if taken {
		return ErrDuplicateName
	}

	query := `
		INSERT INTO categories (id, name, parent_id, is_approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, query, category.ID, category.Name, category.ParentID, category.IsApproved); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("%w: insert category: %v", ErrTransaction, err)
	}

	if err := r.attributes.InsertBatch(ctx, tx, category.ID, attributes); err != nil {
		return fmt.Errorf("%w: %v", ErrTransaction, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTransaction, err)
	}
	return nil
}

func (r *categoryRepo) UpdateWithAttributes(ctx context.Context, category *models.Category, attributes []*models.Attribute) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransaction, err)
	}
	defer tx.Rollback(ctx)

	taken, err := nameTaken(ctx, tx, category.Name, &category.ID)
	if err != nil {
		return fmt.Errorf("%w: name check: %v", ErrTransaction, err)
	}
	if taken {
		return ErrDuplicateName
	}

	if category.ParentID != nil {
		inSubtree, err := r.parentInSubtree(ctx, tx, category.ID, *category.ParentID)
		if err != nil {
			return fmt.Errorf("%w: cycle check: %v", ErrTransaction, err)
		}
		if inSubtree {
			return fmt.Errorf("%w: parent_id would create a cycle", ErrValidation)
		}
	}

	query := `
		UPDATE categories
		SET name = $1, parent_id = $2, is_approved = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := tx.Exec(ctx, query, category.Name, category.ParentID, category.IsApproved, category.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("%w: update category: %v", ErrTransaction, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := r.attributes.InsertBatch(ctx, tx, category.ID, attributes); err != nil {
		return fmt.Errorf("%w: %v", ErrTransaction, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTransaction, err)
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransaction, err)
	}
	defer tx.Rollback(ctx)

	var exists int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE id = $1`, id).Scan(&exists); err != nil {
		return fmt.Errorf("%w: existence check: %v", ErrTransaction, err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM attributes WHERE category_id = $1`, id); err != nil {
		return fmt.Errorf("%w: delete attributes: %v", ErrTransaction, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%w: delete category: %v", ErrTransaction, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTransaction, err)
	}
	return nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category := &models.Category{}
	query := `
		SELECT id, name, parent_id, is_approved, created_at, updated_at
		FROM categories
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&category.ID, &category.Name, &category.ParentID,
		&category.IsApproved, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) List(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	query := `
		SELECT id, name, parent_id, is_approved, created_at, updated_at
		FROM categories
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.ParentID,
			&category.IsApproved, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *categoryRepo) GetHierarchy(ctx context.Context, id uuid.UUID) (*models.CategoryNode, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id, name, parent_id, is_approved, created_at, updated_at
			FROM categories
			WHERE id = $1
			UNION ALL
			SELECT c.id, c.name, c.parent_id, c.is_approved, c.created_at, c.updated_at
			FROM categories c
			JOIN subtree s ON c.parent_id = s.id
		)
		SELECT id, name, parent_id, is_approved, created_at, updated_at
		FROM subtree
	`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nodes := map[uuid.UUID]*models.CategoryNode{}
	var order []uuid.UUID
	for rows.Next() {
		node := &models.CategoryNode{Attributes: []*models.Attribute{}, Children: []*models.CategoryNode{}}
		if err := rows.Scan(&node.ID, &node.Name, &node.ParentID,
			&node.IsApproved, &node.CreatedAt, &node.UpdatedAt); err != nil {
			return nil, err
		}
		nodes[node.ID] = node
		order = append(order, node.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, ErrNotFound
	}

	if err := r.attachAttributes(ctx, nodes, order); err != nil {
		return nil, err
	}

	root := nodes[id]
	for _, nodeID := range order {
		if nodeID == id {
			continue
		}
		node := nodes[nodeID]
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
			}
		}
	}
	sortChildren(root)
	return root, nil
}

func (r *categoryRepo) attachAttributes(ctx context.Context, nodes map[uuid.UUID]*models.CategoryNode, order []uuid.UUID) error {
	query := `
		SELECT id, name, is_required, category_id
		FROM attributes
		WHERE category_id = ANY($1)
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query, order)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		attribute := &models.Attribute{}
		if err := rows.Scan(&attribute.ID, &attribute.Name, &attribute.IsRequired, &attribute.CategoryID); err != nil {
			return err
		}
		if node, ok := nodes[attribute.CategoryID]; ok {
			node.Attributes = append(node.Attributes, attribute)
		}
	}
	return rows.Err()
}

func sortChildren(node *models.CategoryNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		return node.Children[i].Name < node.Children[j].Name
	})
	for _, child := range node.Children {
		sortChildren(child)
	}
}

// nameTaken reports whether another category already uses name. excludeID is
// the row updating its own name, which does not count as a collision.
func nameTaken(ctx context.Context, tx pgx.Tx, name string, excludeID *uuid.UUID) (bool, error) {
	var count int
	var err error
	if excludeID != nil {
		err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE name = $1 AND id != $2`, name, *excludeID).Scan(&count)
	} else {
		err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE name = $1`, name).Scan(&count)
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// parentInSubtree reports whether parentID lies inside the subtree rooted at
// categoryID (including the category itself). Re-parenting onto a descendant
// would cut a cycle into the tree.
func (r *categoryRepo) parentInSubtree(ctx context.Context, tx pgx.Tx, categoryID, parentID uuid.UUID) (bool, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM categories WHERE id = $1
			UNION ALL
			SELECT c.id FROM categories c JOIN subtree s ON c.parent_id = s.id
		)
		SELECT COUNT(*) FROM subtree WHERE id = $2
	`
	var count int
	if err := tx.QueryRow(ctx, query, categoryID, parentID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
