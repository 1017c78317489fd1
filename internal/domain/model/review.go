package model

import (
	"time"
)

type Genre string

const (
	GenreFiction        Genre = "Fiction"
	GenreNonFiction     Genre = "Non-Fiction"
	GenreMystery        Genre = "Mystery"
	GenreRomance        Genre = "Romance"
	GenreScienceFiction Genre = "Science Fiction"
	GenreFantasy        Genre = "Fantasy"
	GenreBiography      Genre = "Biography"
	GenreHistory        Genre = "History"
	GenreSelfHelp       Genre = "Self-Help"
	GenreYoungAdult     Genre = "Young Adult"
)

func (g Genre) Valid() bool {
	switch g {
	case GenreFiction, GenreNonFiction, GenreMystery, GenreRomance,
		GenreScienceFiction, GenreFantasy, GenreBiography, GenreHistory,
		GenreSelfHelp, GenreYoungAdult:
		return true
	}
	return false
}

type Review struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	BookTitle  string    `json:"book_title"`
	Author     string    `json:"author"`
	Rating     int       `json:"rating"` // 1-5 stars
	ReviewText string    `json:"review_text"`
	Genre      Genre     `json:"genre"`
	Slug       string    `json:"slug"`
	IsArchived bool      `json:"is_archived"` // Admin soft delete
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Populated by joins for responses.
	UserName string `json:"user_name,omitempty"`
}
