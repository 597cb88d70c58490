package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"bookshelf/internal/model"
	"bookshelf/internal/store"
)

// Version is the application version.
const Version = "1.0.0"

// AllowedMethods is the full method set of the books resource, advertised in
// 405 responses.
var AllowedMethods = []string{http.MethodGet, http.MethodPut, http.MethodDelete}

// RESTHandler handles REST API requests for books.
type RESTHandler struct {
	store  store.Store
	logger *zap.Logger
}

// NewRESTHandler creates a new RESTHandler instance.
func NewRESTHandler(s store.Store, logger *zap.Logger) *RESTHandler {
	return &RESTHandler{
		store:  s,
		logger: logger,
	}
}

// RegisterRoutes registers the REST API routes with the router.
func (h *RESTHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/books", h.ListBooks).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/books/{id}", h.GetBook).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/books/{id}", h.UpdateBook).Methods(http.MethodPut)
	router.HandleFunc("/api/v1/books/{id}", h.DeleteBook).Methods(http.MethodDelete)
	router.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)
}

// HealthCheck handles GET /health requests.
func (h *RESTHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: Version,
	})
}

// ListBooks handles GET /api/v1/books requests.
func (h *RESTHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	books, err := h.store.List(ctx)
	if err != nil {
		h.logger.Error("failed to list books", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, books)
}

// GetBook handles GET /api/v1/books/{id} requests.
func (h *RESTHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.bookID(w, r)
	if !ok {
		return
	}

	book, err := h.store.Get(ctx, id)
	if err != nil {
		h.handleStoreError(w, err, "get book")
		return
	}

	h.writeJSON(w, http.StatusOK, book)
}

// UpdateBook handles PUT /api/v1/books/{id} requests.
func (h *RESTHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.bookID(w, r)
	if !ok {
		return
	}

	var input model.BookInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := input.Validate(); err != nil {
		h.logger.Warn("validation failed", zap.Int64("id", id), zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	affected, err := h.store.Update(ctx, id, input.Title, input.Author, *input.Year)
	if err != nil {
		h.handleStoreError(w, err, "update book")
		return
	}

	if affected == 0 {
		h.writeError(w, http.StatusNotFound, "book not found")
		return
	}

	book, err := h.store.Get(ctx, id)
	if err != nil {
		h.handleStoreError(w, err, "get updated book")
		return
	}

	h.writeJSON(w, http.StatusOK, book)
}

// DeleteBook handles DELETE /api/v1/books/{id} requests.
func (h *RESTHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.bookID(w, r)
	if !ok {
		return
	}

	affected, err := h.store.Delete(ctx, id)
	if err != nil {
		h.handleStoreError(w, err, "delete book")
		return
	}

	if affected == 0 {
		h.writeError(w, http.StatusNotFound, "book not found")
		return
	}

	h.writeJSON(w, http.StatusNoContent, nil)
}

// MethodNotAllowed rejects unsupported methods, advertising the supported
// set in the Allow header and the response body.
func (h *RESTHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	allowed := strings.Join(AllowedMethods, ", ")
	w.Header().Set("Allow", allowed)
	h.logger.Warn("method not allowed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	h.writeError(w, http.StatusMethodNotAllowed, "method not allowed, allowed: "+allowed)
}

// bookID parses the {id} path variable. A non-integer token is rejected with
// a 400 before any store access.
func (h *RESTHandler) bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.Warn("invalid book ID", zap.String("id", raw))
		h.writeError(w, http.StatusBadRequest, "invalid book ID")
		return 0, false
	}

	return id, true
}

// handleStoreError maps store errors to HTTP responses. Anything other than
// a not-found is reported as a generic internal error; details are logged,
// never surfaced to the caller.
func (h *RESTHandler) handleStoreError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "book not found")
	case errors.Is(err, store.ErrInvalidID):
		h.writeError(w, http.StatusBadRequest, "invalid book ID")
	default:
		h.logger.Error("store operation failed", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *RESTHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError writes an error response with the given status code and message.
func (h *RESTHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, model.ErrorResponse{
		Code:    status,
		Message: message,
	})
}
