package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"bookshelf/internal/model"
	"bookshelf/internal/store"
)

// mockStore implements store.Store for testing. It records how many store
// calls were made so tests can prove validation rejects requests before any
// store access.
type mockStore struct {
	books     map[int64]model.Book
	nextID    int64
	calls     int
	listErr   error
	getErr    error
	updateErr error
	deleteErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		books:  make(map[int64]model.Book),
		nextID: 1,
	}
}

func (m *mockStore) put(b model.Book) {
	m.books[b.ID] = b
	if b.ID >= m.nextID {
		m.nextID = b.ID + 1
	}
}

func (m *mockStore) List(_ context.Context) ([]model.Book, error) {
	m.calls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	books := make([]model.Book, 0, len(m.books))
	for _, b := range m.books {
		books = append(books, b)
	}
	return books, nil
}

func (m *mockStore) Get(_ context.Context, id int64) (*model.Book, error) {
	m.calls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	b, exists := m.books[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

func (m *mockStore) Insert(_ context.Context, title, author string, year int) (*model.Book, error) {
	m.calls++
	b := model.Book{ID: m.nextID, Title: title, Author: author, Year: year}
	m.books[b.ID] = b
	m.nextID++
	return &b, nil
}

func (m *mockStore) Update(_ context.Context, id int64, title, author string, year int) (int64, error) {
	m.calls++
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	if _, exists := m.books[id]; !exists {
		return 0, nil
	}
	m.books[id] = model.Book{ID: id, Title: title, Author: author, Year: year}
	return 1, nil
}

func (m *mockStore) Delete(_ context.Context, id int64) (int64, error) {
	m.calls++
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	if _, exists := m.books[id]; !exists {
		return 0, nil
	}
	delete(m.books, id)
	return 1, nil
}

func newTestRouter(s store.Store) *mux.Router {
	router := mux.NewRouter()
	NewRESTHandler(s, zap.NewNop()).RegisterRoutes(router)
	return router
}

func seedMock() *mockStore {
	m := newMockStore()
	m.put(model.Book{ID: 1, Title: "The Go Programming Language", Author: "Alan A. A. Donovan", Year: 2015})
	m.put(model.Book{ID: 2, Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Year: 1999})
	m.put(model.Book{ID: 3, Title: "Clean Code", Author: "Robert C. Martin", Year: 2008})
	return m
}

func updateBody(t *testing.T, title, author string, year *int) *bytes.Reader {
	t.Helper()

	body := map[string]any{"title": title, "author": author}
	if year != nil {
		body["year"] = *year
	}
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(data)
}

func intPtr(v int) *int { return &v }

func TestRESTHandler_HealthCheck(t *testing.T) {
	router := newTestRouter(newMockStore())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
}

func TestRESTHandler_ListBooks(t *testing.T) {
	router := newTestRouter(seedMock())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var books []model.Book
	if err := json.NewDecoder(rec.Body).Decode(&books); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(books) != 3 {
		t.Errorf("got %d books, want 3", len(books))
	}
}

func TestRESTHandler_ListBooks_StoreError(t *testing.T) {
	m := newMockStore()
	m.listErr = errors.New("disk on fire")
	router := newTestRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	// Raw store error details must never reach the caller.
	if strings.Contains(rec.Body.String(), "disk on fire") {
		t.Error("response leaked internal store error details")
	}
}

func TestRESTHandler_GetBook(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{name: "existing book", target: "/api/v1/books/2", wantStatus: http.StatusOK},
		{name: "missing book", target: "/api/v1/books/99", wantStatus: http.StatusNotFound},
		{name: "non-integer id", target: "/api/v1/books/abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(seedMock())

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRESTHandler_GetBook_BadIDSkipsStore(t *testing.T) {
	m := seedMock()
	router := newTestRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/not-a-number", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if m.calls != 0 {
		t.Errorf("store accessed %d times for malformed id, want 0", m.calls)
	}
}

func TestRESTHandler_UpdateBook(t *testing.T) {
	m := seedMock()
	router := newTestRouter(m)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/books/2",
		updateBody(t, "The Pragmatic Programmer", "Andrew Hunt", intPtr(2000)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var book model.Book
	if err := json.NewDecoder(rec.Body).Decode(&book); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if book.ID != 2 || book.Year != 2000 {
		t.Errorf("updated book = %+v, want id 2 with year 2000", book)
	}
}

func TestRESTHandler_UpdateBook_Validation(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		author string
		year   *int
	}{
		{name: "missing title", title: "", author: "Andrew Hunt", year: intPtr(1999)},
		{name: "missing author", title: "The Pragmatic Programmer", author: "", year: intPtr(1999)},
		{name: "missing year", title: "The Pragmatic Programmer", author: "Andrew Hunt", year: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := seedMock()
			router := newTestRouter(m)
			before := m.books[2]

			req := httptest.NewRequest(http.MethodPut, "/api/v1/books/2",
				updateBody(t, tt.title, tt.author, tt.year))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if m.calls != 0 {
				t.Errorf("store accessed %d times for invalid body, want 0", m.calls)
			}
			if m.books[2] != before {
				t.Errorf("store mutated by rejected update: %+v", m.books[2])
			}
		})
	}
}

func TestRESTHandler_UpdateBook_ZeroYearAccepted(t *testing.T) {
	router := newTestRouter(seedMock())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/books/1",
		updateBody(t, "Undated", "Anonymous", intPtr(0)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d: zero year is a legal value", rec.Code, http.StatusOK)
	}
}

func TestRESTHandler_UpdateBook_NotFound(t *testing.T) {
	router := newTestRouter(seedMock())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/books/99",
		updateBody(t, "Ghost", "Nobody", intPtr(1900)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRESTHandler_UpdateBook_InvalidBody(t *testing.T) {
	m := seedMock()
	router := newTestRouter(m)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/books/1", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if m.calls != 0 {
		t.Errorf("store accessed %d times for malformed body, want 0", m.calls)
	}
}

func TestRESTHandler_UpdateBook_StoreError(t *testing.T) {
	m := seedMock()
	m.updateErr = errors.New("database locked")
	router := newTestRouter(m)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/books/1",
		updateBody(t, "Title", "Author", intPtr(2000)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rec.Body.String(), "database locked") {
		t.Error("response leaked internal store error details")
	}
}

func TestRESTHandler_DeleteBook(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{name: "existing book", target: "/api/v1/books/1", wantStatus: http.StatusNoContent},
		{name: "missing book", target: "/api/v1/books/99", wantStatus: http.StatusNotFound},
		{name: "non-integer id", target: "/api/v1/books/xyz", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(seedMock())

			req := httptest.NewRequest(http.MethodDelete, tt.target, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRESTHandler_DeleteBook_RemovesExactlyOne(t *testing.T) {
	m := seedMock()
	router := newTestRouter(m)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/books/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if len(m.books) != 2 {
		t.Errorf("got %d remaining books, want 2", len(m.books))
	}
	if _, exists := m.books[1]; exists {
		t.Error("book 1 still present after delete")
	}
}

func TestRESTHandler_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(seedMock())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}

	allow := rec.Header().Get("Allow")
	for _, method := range AllowedMethods {
		if !strings.Contains(allow, method) {
			t.Errorf("Allow header %q missing %s", allow, method)
		}
	}

	var resp model.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != http.StatusMethodNotAllowed {
		t.Errorf("body code = %d, want %d", resp.Code, http.StatusMethodNotAllowed)
	}
}
