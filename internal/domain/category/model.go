package category

import (
	"time"
)

// CategoryType represents the kind of transactions a category labels
type CategoryType string

const (
	// Income categories label money coming in
	Income CategoryType = "INCOME"
	// Expense categories label money going out
	Expense CategoryType = "EXPENSE"
	// Transfer categories label movements between accounts
	Transfer CategoryType = "TRANSFER"
)

// Valid reports whether t is a known category type.
func (t CategoryType) Valid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

// Category is a user-defined transaction label, optionally nested under a
// parent category.
type Category struct {
	BusinessID       string       `json:"businessId"`
	CategoryID       string       `json:"categoryId"`
	Name             string       `json:"name"`
	Type             CategoryType `json:"type"`
	ParentID         string       `json:"parentId,omitempty"`
	Active           bool         `json:"active"`
	TransactionCount int64        `json:"transactionCount"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// CreateCategoryRequest represents the data needed to create a category
type CreateCategoryRequest struct {
	Name     string       `json:"name"`
	Type     CategoryType `json:"type"`
	ParentID string       `json:"parentId,omitempty"`
}
