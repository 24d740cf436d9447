package types

import "time"

// BlogPost represents a published article on the patient-facing site
type BlogPost struct {
	ID        string    `json:"id" db:"id"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Tags      []string  `json:"tags" db:"tags"`
	Published bool      `json:"published" db:"published"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BlogPostRequest represents a create/update request for a post
type BlogPostRequest struct {
	Title     string   `json:"title" binding:"required"`
	Body      string   `json:"body" binding:"required"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
}
