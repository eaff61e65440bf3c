package services

import (
	"errors"
	"fmt"
)

// NotFoundError indicates that an entity id did not resolve
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Entity, e.ID)
}

// InactiveError indicates that an entity exists but is disabled
type InactiveError struct {
	Entity string
	Name   string
}

func (e *InactiveError) Error() string {
	return fmt.Sprintf("%s '%s' is inactive", e.Entity, e.Name)
}

// InsufficientStockError indicates that a requested quantity exceeds
// the available stock
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insufficient for product '%s': requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// DuplicateKeyError indicates a unique constraint violation (e.g. SKU,
// category name, username)
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s '%s' already exists", e.Field, e.Value)
}

// InvalidStatusError indicates an unrecognized order status transition target
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("status '%s' is not valid", e.Status)
}

// InvalidInputError indicates a business-rule validation failure on input
// (non-positive quantity, empty remarks where required, and so on)
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsInsufficientStock reports whether err is an InsufficientStockError
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}

// IsDuplicateKey reports whether err is a DuplicateKeyError
func IsDuplicateKey(err error) bool {
	var target *DuplicateKeyError
	return errors.As(err, &target)
}
