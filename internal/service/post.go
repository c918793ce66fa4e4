package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arefin/blog-api/internal/apperror"
	"github.com/arefin/blog-api/internal/model"
	"github.com/arefin/blog-api/internal/repository"
)

// Validation constants for post content.
const (
	MaxTitleLength   = 200
	MaxBodyLength    = 100000 // ~100KB
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// PostService handles business logic for blog posts, including the
// ownership guard: only a post's owner may update or delete it.
type PostService struct {
	repo   repository.PostRepository
	logger *slog.Logger
}

// NewPostService creates a PostService.
func NewPostService(repo repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{
		repo:   repo,
		logger: logger,
	}
}

// canModify is the ownership guard. It fails closed: an empty owner or
// requester ID denies, and only an exact match allows.
func canModify(ownerID, requesterID string) bool {
	return ownerID != "" && requesterID != "" && ownerID == requesterID
}

// Create validates and saves a new post owned by userID.
func (s *PostService) Create(ctx context.Context, userID, title, body string) (*model.Post, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("authentication required")
	}

	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)

	var verr apperror.Errors
	if title == "" {
		verr.Add("title", "title is required")
	}
	if len(title) > MaxTitleLength {
		verr.Add("title", fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if body == "" {
		verr.Add("body", "body is required")
	}
	if len(body) > MaxBodyLength {
		verr.Add("body", fmt.Sprintf("body must be %d characters or less", MaxBodyLength))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID: userID,
		Title:  title,
		Body:   body,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("userID", userID),
	)

	return post, nil
}

// GetByID retrieves a post by its ID.
// Returns apperror.ErrNotFound if the post doesn't exist.
func (s *PostService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}

	return s.repo.GetByID(ctx, id)
}

// List retrieves posts newest-first with pagination. The limit is clamped
// to 1-100 (default 20) so a caller can't request the whole table.
func (s *PostService) List(ctx context.Context, limit, offset int) ([]model.Post, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := s.repo.List(ctx, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	return posts, nil
}

// Update modifies an existing post owned by userID.
//
// Partial update semantics: a nil title or body means "keep the current
// value"; a present-but-empty one is a validation error. The post is
// fetched first so the not-found and ownership checks run before any
// field is touched — a non-owner learns nothing beyond 401 and the post
// is left unchanged.
func (s *PostService) Update(ctx context.Context, userID, id string, title, body *string) (*model.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canModify(post.UserID, userID) {
		s.logger.Info("post update denied",
			slog.String("postID", id),
			slog.String("requesterID", userID),
		)
		return nil, apperror.Unauthorized("you are not the owner of this post")
	}

	var verr apperror.Errors
	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			verr.Add("title", "title must not be empty")
		} else if len(t) > MaxTitleLength {
			verr.Add("title", fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
		} else {
			post.Title = t
		}
	}
	if body != nil {
		b := strings.TrimSpace(*body)
		if b == "" {
			verr.Add("body", "body must not be empty")
		} else if len(b) > MaxBodyLength {
			verr.Add("body", fmt.Sprintf("body must be %d characters or less", MaxBodyLength))
		} else {
			post.Body = b
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, post); err != nil {
		s.logger.Error("failed to update post",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating post: %w", err)
	}

	s.logger.Info("post updated", slog.String("id", id))

	return post, nil
}

// Delete removes a post owned by userID.
// Returns apperror.ErrNotFound for a missing post and
// apperror.ErrUnauthorized when the requester is not the owner.
func (s *PostService) Delete(ctx context.Context, userID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "post ID is required")
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !canModify(post.UserID, userID) {
		s.logger.Info("post delete denied",
			slog.String("postID", id),
			slog.String("requesterID", userID),
		)
		return apperror.Unauthorized("you are not the owner of this post")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("post deleted", slog.String("id", id))
	return nil
}
