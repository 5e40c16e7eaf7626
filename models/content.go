package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ContentStatus represents the publishing state of a content row.
// Only published rows are ever served by the public API.
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
)

// BlogPost is a row in the blog_posts table, enriched at read time with
// category and author summary fields from their joins.
type BlogPost struct {
	ID          uuid.UUID      `json:"id"`
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Excerpt     *string        `json:"excerpt,omitempty"`
	Body        string         `json:"body"`
	Status      ContentStatus  `json:"-"`
	CategoryID  *uuid.UUID     `json:"category_id,omitempty"`
	Tags        pq.StringArray `json:"tags"`
	AuthorName  *string        `json:"author_name,omitempty"`
	ViewCount   int64          `json:"view_count"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// Populated from the categories join.
	CategorySlug *string `json:"category_slug,omitempty"`
	CategoryName *string `json:"category_name,omitempty"`
}

// CaseStudy is a row in the case_studies table.
type CaseStudy struct {
	ID         uuid.UUID     `json:"id"`
	Slug       string        `json:"slug"`
	Title      string        `json:"title"`
	ClientName string        `json:"client_name"`
	Industry   string        `json:"industry"`
	Summary    *string       `json:"summary,omitempty"`
	Body       string        `json:"body"`
	IsFeatured bool          `json:"is_featured"`
	Status     ContentStatus `json:"-"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// ServiceModule is a row in the modules table (the "what we do" blocks
// on the services page).
type ServiceModule struct {
	ID          uuid.UUID     `json:"id"`
	Slug        string        `json:"slug"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Category    string        `json:"category"`
	Icon        *string       `json:"icon,omitempty"`
	SortOrder   int           `json:"sort_order"`
	Status      ContentStatus `json:"-"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Category is a row in the categories table. PostCount is derived at
// read time from the published posts join, never stored.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	PostCount int64     `json:"post_count"`
}

// Pagination is the listing metadata block returned next to the data.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// NewPagination computes the derived fields from a total row count.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}
