package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"bookshelf/internal/model"
)

// mode is the controller state tag. A selection and form buffer exist only
// while editing, so "editing with no selection" is unrepresentable through
// the Controller API.
type mode int

const (
	modeBrowsing mode = iota
	modeEditing
)

// FormBuffer holds the string-typed field values being edited. Values are
// not validated until submission and are discarded on cancel or on a
// successful commit.
type FormBuffer struct {
	Title  string
	Author string
	Year   string
}

// Controller keeps a local book list synchronized with the server. After
// every successful mutation it refetches the full list instead of patching
// the local copy, so the view always reflects the store's authoritative
// state.
//
// A Controller is not safe for concurrent use; it issues at most one request
// at a time in direct response to a caller action.
type Controller struct {
	api *Client

	books    []model.Book
	mode     mode
	selected model.Book
	form     FormBuffer
	errMsg   string
}

// NewController creates a Controller backed by the given API client.
func NewController(api *Client) *Controller {
	return &Controller{api: api}
}

// Books returns the last fetched list.
func (c *Controller) Books() []model.Book {
	return c.books
}

// Editing reports whether a form is currently open.
func (c *Controller) Editing() bool {
	return c.mode == modeEditing
}

// Selected returns the book being edited. The second result is false while
// browsing.
func (c *Controller) Selected() (model.Book, bool) {
	if c.mode != modeEditing {
		return model.Book{}, false
	}
	return c.selected, true
}

// Form returns a pointer to the form buffer for in-place edits, or nil while
// browsing.
func (c *Controller) Form() *FormBuffer {
	if c.mode != modeEditing {
		return nil
	}
	return &c.form
}

// Err returns the most recent error message, or the empty string. The slot
// is single-valued: each failure overwrites it and each new fetch attempt
// clears it.
func (c *Controller) Err() string {
	return c.errMsg
}

// Refresh replaces the local list with the server's. On failure the previous
// list is kept and the error slot is set.
func (c *Controller) Refresh(ctx context.Context) error {
	c.errMsg = ""

	books, err := c.api.ListBooks(ctx)
	if err != nil {
		c.errMsg = errMessage(err)
		return err
	}

	c.books = books
	return nil
}

// Select transitions from browsing to editing, seeding the form buffer from
// the given book's current field values.
func (c *Controller) Select(book model.Book) {
	c.mode = modeEditing
	c.selected = book
	c.form = FormBuffer{
		Title:  book.Title,
		Author: book.Author,
		Year:   strconv.Itoa(book.Year),
	}
	c.errMsg = ""
}

// Cancel discards the form buffer and selection without contacting the
// server.
func (c *Controller) Cancel() {
	c.mode = modeBrowsing
	c.selected = model.Book{}
	c.form = FormBuffer{}
}

// Submit sends the form buffer as an update for the selected book. On
// success the edit state is cleared and the list is refetched from the
// server. On failure the controller stays in editing mode with the buffer
// intact and the error slot set.
func (c *Controller) Submit(ctx context.Context) error {
	if c.mode != modeEditing {
		return fmt.Errorf("controller: no book selected")
	}

	year, err := strconv.Atoi(c.form.Year)
	if err != nil {
		c.errMsg = fmt.Sprintf("year must be an integer: %q", c.form.Year)
		return fmt.Errorf("controller: parse year: %w", err)
	}

	input := model.BookInput{
		Title:  c.form.Title,
		Author: c.form.Author,
		Year:   &year,
	}

	if _, err := c.api.UpdateBook(ctx, c.selected.ID, input); err != nil {
		c.errMsg = errMessage(err)
		return err
	}

	c.Cancel()
	return c.Refresh(ctx)
}

// Delete removes a book by ID. On success the list is refetched; on failure
// the error slot is set and the list stays as last fetched.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.api.DeleteBook(ctx, id); err != nil {
		c.errMsg = errMessage(err)
		return err
	}

	return c.Refresh(ctx)
}

// errMessage produces the single human-readable message shown for a failed
// operation.
func errMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
