package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bookshelf/internal/model"
)

// MemoryStore implements Store with in-memory storage. IDs are assigned
// monotonically, mirroring the SQLite AUTOINCREMENT behaviour.
type MemoryStore struct {
	mu     sync.RWMutex
	books  map[int64]model.Book
	nextID int64
}

// NewMemoryStore creates a new MemoryStore instance.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		books:  make(map[int64]model.Book),
		nextID: 1,
	}
}

// Seed inserts the canonical sample rows if the store is empty. Calling it
// again is a no-op, matching the SQLite bootstrap contract.
func (s *MemoryStore) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.books) > 0 {
		return
	}

	for _, b := range seedBooks() {
		book := model.Book{ID: s.nextID, Title: b.title, Author: b.author, Year: b.year}
		s.books[book.ID] = book
		s.nextID++
	}
}

// List returns all books ordered by ID.
func (s *MemoryStore) List(ctx context.Context) ([]model.Book, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list books: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]model.Book, 0, len(s.books))
	for _, b := range s.books {
		books = append(books, b)
	}

	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })

	return books, nil
}

// Get retrieves a book by its ID.
func (s *MemoryStore) Get(ctx context.Context, id int64) (*model.Book, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("get book: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, exists := s.books[id]
	if !exists {
		return nil, ErrNotFound
	}

	return &b, nil
}

// Insert adds a new book and returns it with a freshly assigned ID.
func (s *MemoryStore) Insert(ctx context.Context, title, author string, year int) (*model.Book, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("insert book: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book := model.Book{ID: s.nextID, Title: title, Author: author, Year: year}
	s.books[book.ID] = book
	s.nextID++

	return &book, nil
}

// Update modifies an existing book and returns the affected row count.
func (s *MemoryStore) Update(ctx context.Context, id int64, title, author string, year int) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("update book: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.books[id]; !exists {
		return 0, nil
	}

	s.books[id] = model.Book{ID: id, Title: title, Author: author, Year: year}

	return 1, nil
}

// Delete removes a book by its ID and returns the affected row count.
func (s *MemoryStore) Delete(ctx context.Context, id int64) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("delete book: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.books[id]; !exists {
		return 0, nil
	}

	delete(s.books, id)

	return 1, nil
}
