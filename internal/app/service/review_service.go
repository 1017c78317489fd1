package service

import (
	"context"
	"fmt"

	"bookreview/internal/common"
	"bookreview/internal/domain/model"
	"bookreview/internal/domain/repository"

	"github.com/gosimple/slug"
)

type ReviewService struct {
	reviewRepo repository.ReviewRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo}
}

type CreateReviewRequest struct {
	BookTitle  string      `json:"book_title"`
	Author     string      `json:"author"`
	Rating     int         `json:"rating"`
	ReviewText string      `json:"review_text"`
	Genre      model.Genre `json:"genre"`
}

type UpdateReviewRequest struct {
	BookTitle  *string      `json:"book_title,omitempty"`
	Author     *string      `json:"author,omitempty"`
	Rating     *int         `json:"rating,omitempty"`
	ReviewText *string      `json:"review_text,omitempty"`
	Genre      *model.Genre `json:"genre,omitempty"`
}

type ListReviewsRequest struct {
	Search   string
	Genre    model.Genre
	Rating   int
	OnlyMine bool
	Skip     int
	Limit    int
}

// List applies the caller's visibility: archived reviews only show up for
// admins.
func (s *ReviewService) List(ctx context.Context, caller *model.User, req ListReviewsRequest) ([]model.Review, error) {
	if req.Genre != "" && !req.Genre.Valid() {
		return nil, common.Errorf("unknown genre %q: %w", req.Genre, common.ErrBadRequest)
	}
	if req.Rating < 0 || req.Rating > 5 {
		return nil, common.Errorf("rating filter must be 1-5: %w", common.ErrBadRequest)
	}

	filter := repository.ReviewFilter{
		Search:          req.Search,
		Genre:           req.Genre,
		Rating:          req.Rating,
		IncludeArchived: caller.IsAdmin(),
		Offset:          req.Skip,
		Limit:           req.Limit,
	}
	if req.OnlyMine {
		filter.UserID = caller.ID
	}

	reviews, err := s.reviewRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) Create(ctx context.Context, caller *model.User, req CreateReviewRequest) (*model.Review, error) {
	if req.BookTitle == "" || req.Author == "" || req.ReviewText == "" {
		return nil, common.Errorf("book_title, author and review_text are required: %w", common.ErrBadRequest)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, common.Errorf("rating must be 1-5: %w", common.ErrBadRequest)
	}
	if !req.Genre.Valid() {
		return nil, common.Errorf("unknown genre %q: %w", req.Genre, common.ErrBadRequest)
	}

	review := &model.Review{
		UserID:     caller.ID,
		BookTitle:  req.BookTitle,
		Author:     req.Author,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
		Genre:      req.Genre,
		Slug:       slug.Make(req.BookTitle),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	review.UserName = caller.FullName
	return review, nil
}

// Update lets the owner or an admin edit a review.
func (s *ReviewService) Update(ctx context.Context, caller *model.User, reviewID int64, req UpdateReviewRequest) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != caller.ID && !caller.IsAdmin() {
		return nil, common.Errorf("you can only edit your own reviews: %w", common.ErrForbidden)
	}

	if req.BookTitle != nil {
		review.BookTitle = *req.BookTitle
		review.Slug = slug.Make(*req.BookTitle)
	}
	if req.Author != nil {
		review.Author = *req.Author
	}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, common.Errorf("rating must be 1-5: %w", common.ErrBadRequest)
		}
		review.Rating = *req.Rating
	}
	if req.ReviewText != nil {
		review.ReviewText = *req.ReviewText
	}
	if req.Genre != nil {
		if !req.Genre.Valid() {
			return nil, common.Errorf("unknown genre %q: %w", *req.Genre, common.ErrBadRequest)
		}
		review.Genre = *req.Genre
	}
	if review.BookTitle == "" || review.Author == "" || review.ReviewText == "" {
		return nil, common.Errorf("book_title, author and review_text cannot be empty: %w", common.ErrBadRequest)
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return s.reviewRepo.FindByID(ctx, reviewID)
}

// Delete lets the owner or an admin remove a review.
func (s *ReviewService) Delete(ctx context.Context, caller *model.User, reviewID int64) error {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != caller.ID && !caller.IsAdmin() {
		return common.Errorf("you can only delete your own reviews: %w", common.ErrForbidden)
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}

// Archive soft-deletes a review; the admin gate sits at the route level.
func (s *ReviewService) Archive(ctx context.Context, reviewID int64) error {
	return s.reviewRepo.Archive(ctx, reviewID)
}
