package models

import "github.com/google/uuid"

// Attribute belongs to exactly one category. Rows are only ever written as
// part of a category transaction and are removed when the category goes away.
type Attribute struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	IsRequired bool      `json:"is_required" db:"is_required"`
	CategoryID uuid.UUID `json:"category_id" db:"category_id"`
}
