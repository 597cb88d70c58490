// Package model defines data structures used throughout the application.
package model

import "errors"

// Validation errors for book input.
var (
	ErrEmptyTitle  = errors.New("title cannot be empty")
	ErrEmptyAuthor = errors.New("author cannot be empty")
	ErrMissingYear = errors.New("year is required")
)

// Book represents a single book record.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}

// BookInput is the request body for update operations. Year is a pointer so
// an absent field can be told apart from a legitimate zero value.
type BookInput struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   *int   `json:"year"`
}

// Validate checks that all required fields are present.
func (in *BookInput) Validate() error {
	if in.Title == "" {
		return ErrEmptyTitle
	}

	if in.Author == "" {
		return ErrEmptyAuthor
	}

	if in.Year == nil {
		return ErrMissingYear
	}

	return nil
}

// ErrorResponse represents an error response structure.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
