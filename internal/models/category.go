package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	ParentID   *uuid.UUID `json:"parent_id" db:"parent_id"`
	IsApproved bool       `json:"is_approved" db:"is_approved"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// CategoryNode is one node of the materialized category subtree. Children are
// ordered by name; Attributes carry the node's own attributes.
type CategoryNode struct {
	Category
	Attributes []*Attribute    `json:"attributes"`
	Children   []*CategoryNode `json:"children"`
}
