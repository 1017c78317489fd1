package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bookreview/internal/common"
	"bookreview/internal/domain/model"
)

// ReviewFilter narrows List results. Zero values mean "no filter".
type ReviewFilter struct {
	Search          string      // matches title, author or review text
	Genre           model.Genre //
	Rating          int         // exact star match, 1-5
	UserID          int64       // only this user's reviews
	IncludeArchived bool        // admins see archived reviews too
	Offset          int
	Limit           int
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id int64) (*model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id int64) error
	Archive(ctx context.Context, id int64) error
	List(ctx context.Context, filter ReviewFilter) ([]model.Review, error)
}

type pgReviewRepository struct {
	db *sql.DB
}

func NewPgReviewRepository(db *sql.DB) ReviewRepository {
	return &pgReviewRepository{db: db}
}

func (r *pgReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `INSERT INTO reviews (user_id, book_title, author, rating, review_text, genre, slug)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, is_archived, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		review.UserID, review.BookTitle, review.Author, review.Rating,
		review.ReviewText, review.Genre, review.Slug,
	).Scan(&review.ID, &review.IsArchived, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgReviewRepository.Create: %w", err)
	}
	return nil
}

func (r *pgReviewRepository) FindByID(ctx context.Context, id int64) (*model.Review, error) {
	query := `SELECT r.id, r.user_id, r.book_title, r.author, r.rating, r.review_text,
	                 r.genre, r.slug, r.is_archived, r.created_at, r.updated_at, u.full_name
	          FROM reviews r
	          JOIN users u ON r.user_id = u.id
	          WHERE r.id = $1`
	review := &model.Review{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&review.ID, &review.UserID, &review.BookTitle, &review.Author, &review.Rating,
		&review.ReviewText, &review.Genre, &review.Slug, &review.IsArchived,
		&review.CreatedAt, &review.UpdatedAt, &review.UserName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgReviewRepository.FindByID: %w", err)
	}
	return review, nil
}

func (r *pgReviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `UPDATE reviews SET
	            book_title = $1, author = $2, rating = $3, review_text = $4,
	            genre = $5, slug = $6, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $7`
	_, err := r.db.ExecContext(ctx, query,
		review.BookTitle, review.Author, review.Rating, review.ReviewText,
		review.Genre, review.Slug, review.ID,
	)
	if err != nil {
		return fmt.Errorf("pgReviewRepository.Update: %w", err)
	}
	return nil
}

func (r *pgReviewRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgReviewRepository.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgReviewRepository.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgReviewRepository) Archive(ctx context.Context, id int64) error {
	query := `UPDATE reviews SET is_archived = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("pgReviewRepository.Archive: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgReviewRepository.Archive rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgReviewRepository) List(ctx context.Context, filter ReviewFilter) ([]model.Review, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT r.id, r.user_id, r.book_title, r.author, r.rating, r.review_text,
	                       r.genre, r.slug, r.is_archived, r.created_at, r.updated_at, u.full_name
	                FROM reviews r
	                JOIN users u ON r.user_id = u.id
	                WHERE 1=1`)

	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if !filter.IncludeArchived {
		sb.WriteString(" AND r.is_archived = FALSE")
	}
	if filter.UserID != 0 {
		sb.WriteString(" AND r.user_id = " + arg(filter.UserID))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		sb.WriteString(" AND (r.book_title ILIKE " + p +
			" OR r.author ILIKE " + p +
			" OR r.review_text ILIKE " + p + ")")
	}
	if filter.Genre != "" {
		sb.WriteString(" AND r.genre = " + arg(string(filter.Genre)))
	}
	if filter.Rating != 0 {
		sb.WriteString(" AND r.rating = " + arg(filter.Rating))
	}

	sb.WriteString(" ORDER BY r.created_at DESC, r.id DESC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(filter.Offset))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("pgReviewRepository.List: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.BookTitle, &rv.Author, &rv.Rating, &rv.ReviewText,
			&rv.Genre, &rv.Slug, &rv.IsArchived, &rv.CreatedAt, &rv.UpdatedAt, &rv.UserName,
		); err != nil {
			return nil, fmt.Errorf("pgReviewRepository.List scan: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgReviewRepository.List rows: %w", err)
	}
	return reviews, nil
}
