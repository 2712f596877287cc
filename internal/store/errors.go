package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound signals that a referenced product, order or detail does not exist.
var ErrNotFound = errors.New("not found")

// StockError aggregates every product that came up short during one
// add/update pass. It always triggers a full rollback of the enclosing
// transaction.
type StockError struct {
	Products []string // product names, in processing order
}

func (e *StockError) Error() string {
	entity := "Product"
	if len(e.Products) > 1 {
		entity += "s"
	}
	return fmt.Sprintf("%s %s do not have enough stock", entity, strings.Join(e.Products, ", "))
}

// DuplicateProductError is raised before any mutation when a submitted
// detail set references the same product more than once.
type DuplicateProductError struct {
	ProductIDs []string // each duplicated id once, first-seen order
}

func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("products with ids %s are repeated", strings.Join(e.ProductIDs, ", "))
}

// ValidationError rejects structurally malformed input before a
// transaction is opened.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}
