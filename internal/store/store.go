// Package store provides data storage interfaces and implementations.
package store

import (
	"context"
	"errors"

	"bookshelf/internal/model"
)

// Store errors.
var (
	ErrNotFound  = errors.New("book not found")
	ErrInvalidID = errors.New("invalid book ID")
)

// Store defines the interface for book storage operations.
//
// Update and Delete report the number of affected rows. A zero count is the
// only signal that the identifier matched no record; callers translate it
// into a not-found outcome.
type Store interface {
	// List returns all books from the store.
	List(ctx context.Context) ([]model.Book, error)

	// Get retrieves a book by its ID.
	Get(ctx context.Context, id int64) (*model.Book, error)

	// Insert adds a new book and returns it with the store-assigned ID.
	Insert(ctx context.Context, title, author string, year int) (*model.Book, error)

	// Update modifies an existing book and returns the affected row count.
	Update(ctx context.Context, id int64, title, author string, year int) (int64, error)

	// Delete removes a book by its ID and returns the affected row count.
	Delete(ctx context.Context, id int64) (int64, error)
}

// seedBook is a canonical sample row inserted on first bootstrap.
type seedBook struct {
	title  string
	author string
	year   int
}

// seedBooks are inserted exactly once, when the books table is empty.
func seedBooks() []seedBook {
	return []seedBook{
		{title: "The Go Programming Language", author: "Alan A. A. Donovan", year: 2015},
		{title: "The Pragmatic Programmer", author: "Andrew Hunt", year: 1999},
		{title: "Clean Code", author: "Robert C. Martin", year: 2008},
	}
}
