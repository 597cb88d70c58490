package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"bookshelf/internal/model"
)

// schema creates the books table. Idempotent by construction.
const schema = `
CREATE TABLE IF NOT EXISTS books (
    id     INTEGER PRIMARY KEY AUTOINCREMENT,
    title  TEXT NOT NULL,
    author TEXT NOT NULL,
    year   INTEGER NOT NULL
);
`

// Parameterized statements for all book operations. Queries are const and
// never built from user input.
const (
	queryListBooks  = `SELECT id, title, author, year FROM books ORDER BY id`
	queryGetBook    = `SELECT id, title, author, year FROM books WHERE id = ?`
	queryCountBooks = `SELECT COUNT(*) FROM books`
	execInsertBook  = `INSERT INTO books (title, author, year) VALUES (?, ?, ?)`
	execUpdateBook  = `UPDATE books SET title = ?, author = ?, year = ? WHERE id = ?`
	execDeleteBook  = `DELETE FROM books WHERE id = ?`
)

// SQLiteStore implements Store backed by a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at the given path and bootstraps
// it: the parent directory is created if absent, the schema is applied, and
// the seed rows are inserted if the table is empty.
//
// Open is idempotent - calling it again against the same path never
// duplicates seed rows or fails because the table already exists. Any failure
// leaves no partially constructed store.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// SQLite supports a single writer; keep one connection to avoid
	// SQLITE_BUSY under concurrent mutations.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := bootstrap(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	return nil
}

// bootstrap applies the schema and seeds the table if it holds no rows.
// The seed insert runs in a transaction so a partial seed never survives.
func bootstrap(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}

	var count int
	if err := db.QueryRow(queryCountBooks).Scan(&count); err != nil {
		return fmt.Errorf("count books: %w", err)
	}

	if count > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}

	for _, b := range seedBooks() {
		if _, err := tx.Exec(execInsertBook, b.title, b.author, b.year); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed book %q: %w", b.title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}

	return nil
}

// List returns all books ordered by ID.
func (s *SQLiteStore) List(ctx context.Context) ([]model.Book, error) {
	rows, err := s.db.QueryContext(ctx, queryListBooks)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Year); err != nil {
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate book rows: %w", err)
	}

	return books, nil
}

// Get retrieves a book by its ID.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*model.Book, error) {
	var b model.Book
	err := s.db.QueryRowContext(ctx, queryGetBook, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.Year)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}

	return &b, nil
}

// Insert adds a new book and returns it with the store-assigned ID.
func (s *SQLiteStore) Insert(ctx context.Context, title, author string, year int) (*model.Book, error) {
	res, err := s.db.ExecContext(ctx, execInsertBook, title, author, year)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert book: last insert id: %w", err)
	}

	return &model.Book{ID: id, Title: title, Author: author, Year: year}, nil
}

// Update modifies an existing book and returns the affected row count.
func (s *SQLiteStore) Update(ctx context.Context, id int64, title, author string, year int) (int64, error) {
	res, err := s.db.ExecContext(ctx, execUpdateBook, title, author, year, id)
	if err != nil {
		return 0, fmt.Errorf("update book %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update book %d: rows affected: %w", id, err)
	}

	return affected, nil
}

// Delete removes a book by its ID and returns the affected row count.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, execDeleteBook, id)
	if err != nil {
		return 0, fmt.Errorf("delete book %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete book %d: rows affected: %w", id, err)
	}

	return affected, nil
}
