package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arefin/blog-api/internal/auth"
	"github.com/arefin/blog-api/internal/service"
)

// PostHandler serves the post CRUD endpoints. All routes sit behind
// RequireAuth, so a userID is always present in the context.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		posts:  posts,
		logger: logger,
	}
}

type createPostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// updatePostRequest uses pointer fields to distinguish "field absent —
// keep the current value" from "field present but empty" (a validation
// error).
type updatePostRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// HandleList returns posts newest-first.
//
// HTTP: GET /api/posts?limit=20&offset=0 (RequireAuth)
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	posts, err := h.posts.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleGet returns a single post.
//
// HTTP: GET /api/posts/{id} (RequireAuth)
// 200 post | 404
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleCreate creates a post owned by the authenticated user.
//
// HTTP: POST /api/posts (RequireAuth)
// Body: {"title":..., "body":...}
// 200 created post | 422 empty fields
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	post, err := h.posts.Create(r.Context(), userID, req.Title, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleUpdate updates the provided fields of a post the authenticated
// user owns.
//
// HTTP: PUT /api/posts/{id} (RequireAuth, owner only)
// 200 updated post | 404 | 401 non-owner | 422
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	post, err := h.posts.Update(r.Context(), userID, chi.URLParam(r, "id"), req.Title, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleDelete removes a post the authenticated user owns.
//
// HTTP: DELETE /api/posts/{id} (RequireAuth, owner only)
// 200 {"msg":...} | 404 | 401 non-owner
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.posts.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": "post removed"})
}
