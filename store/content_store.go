package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"brightlane/api/models"
)

// ErrNotFound is returned when no published row matches the lookup.
// Draft rows are deliberately indistinguishable from missing ones.
var ErrNotFound = errors.New("not found")

type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore instance.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// Ping checks database connectivity for the health endpoint.
func (s *ContentStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// BlogPostFilter narrows ListBlogPosts. Zero values mean "no filter".
type BlogPostFilter struct {
	CategoryID string
	Tags       []string
	Page       int
	Limit      int
}

const blogPostColumns = `
	p.id, p.slug, p.title, p.excerpt, p.body, p.status, p.category_id, p.tags,
	p.view_count, p.published_at, p.created_at, p.updated_at,
	c.slug AS category_slug, c.name AS category_name, a.name AS author_name`

const blogPostJoins = `
	FROM blog_posts p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN authors a ON a.id = p.author_id`

// ListBlogPosts returns one page of published posts ordered by
// published_at descending, plus the total matching row count.
func (s *ContentStore) ListBlogPosts(ctx context.Context, f BlogPostFilter) ([]models.BlogPost, int64, error) {
	where := "WHERE p.status = 'published'"
	args := []interface{}{}

	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where += " AND p.category_id = $" + strconv.Itoa(len(args))
	}
	if len(f.Tags) > 0 {
		args = append(args, pq.Array(f.Tags))
		where += " AND p.tags && $" + strconv.Itoa(len(args))
	}

	var total int64
	countQuery := "SELECT count(*) FROM blog_posts p " + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count blog posts: %w", err)
	}

	offset := (f.Page - 1) * f.Limit
	args = append(args, f.Limit, offset)
	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY p.published_at DESC LIMIT $%d OFFSET $%d`,
		blogPostColumns, blogPostJoins, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list blog posts: %w", err)
	}
	defer rows.Close()

	var posts []models.BlogPost
	for rows.Next() {
		post, err := scanBlogPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row error listing blog posts: %w", err)
	}

	return posts, total, nil
}

// GetBlogPostBySlug returns a single published post or ErrNotFound.
func (s *ContentStore) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE p.slug = $1 AND p.status = 'published'`,
		blogPostColumns, blogPostJoins)

	post, err := scanBlogPost(s.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blog post by slug: %w", err)
	}
	return post, nil
}

// IncrementViewCount bumps a post's view counter by one, addressed by
// slug. The update is atomic on the database side, so concurrent
// detail-page views never lose increments.
func (s *ContentStore) IncrementViewCount(ctx context.Context, slug string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE blog_posts SET view_count = view_count + 1 WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("failed to increment view count for %q: %w", slug, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlogPost(row rowScanner) (*models.BlogPost, error) {
	post := &models.BlogPost{}
	var categoryID uuid.NullUUID
	err := row.Scan(
		&post.ID,
		&post.Slug,
		&post.Title,
		&post.Excerpt,
		&post.Body,
		&post.Status,
		&categoryID,
		&post.Tags,
		&post.ViewCount,
		&post.PublishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.CategorySlug,
		&post.CategoryName,
		&post.AuthorName,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		post.CategoryID = &categoryID.UUID
	}
	return post, nil
}

// CaseStudyFilter narrows ListCaseStudies. A nil IsFeatured means the
// flag is not filtered on.
type CaseStudyFilter struct {
	Industry   string
	IsFeatured *bool
}

// ListCaseStudies returns all published case studies ordered by
// created_at descending.
func (s *ContentStore) ListCaseStudies(ctx context.Context, f CaseStudyFilter) ([]models.CaseStudy, error) {
	query := `
		SELECT id, slug, title, client_name, industry, summary, body, is_featured,
		       status, created_at, updated_at
		FROM case_studies
		WHERE status = 'published'`
	args := []interface{}{}

	if f.Industry != "" {
		args = append(args, f.Industry)
		query += " AND industry = $" + strconv.Itoa(len(args))
	}
	if f.IsFeatured != nil {
		args = append(args, *f.IsFeatured)
		query += " AND is_featured = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list case studies: %w", err)
	}
	defer rows.Close()

	var cases []models.CaseStudy
	for rows.Next() {
		var cs models.CaseStudy
		if err := rows.Scan(&cs.ID, &cs.Slug, &cs.Title, &cs.ClientName, &cs.Industry,
			&cs.Summary, &cs.Body, &cs.IsFeatured, &cs.Status, &cs.CreatedAt, &cs.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan case study: %w", err)
		}
		cases = append(cases, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error listing case studies: %w", err)
	}

	return cases, nil
}

// GetCaseStudyBySlug returns a single published case study or ErrNotFound.
func (s *ContentStore) GetCaseStudyBySlug(ctx context.Context, slug string) (*models.CaseStudy, error) {
	cs := &models.CaseStudy{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, slug, title, client_name, industry, summary, body, is_featured,
		       status, created_at, updated_at
		FROM case_studies
		WHERE slug = $1 AND status = 'published'`, slug).
		Scan(&cs.ID, &cs.Slug, &cs.Title, &cs.ClientName, &cs.Industry,
			&cs.Summary, &cs.Body, &cs.IsFeatured, &cs.Status, &cs.CreatedAt, &cs.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get case study by slug: %w", err)
	}
	return cs, nil
}

// ListModules returns all published service modules ordered by
// sort_order ascending, optionally filtered by category.
func (s *ContentStore) ListModules(ctx context.Context, category string) ([]models.ServiceModule, error) {
	query := `
		SELECT id, slug, name, description, category, icon, sort_order, status,
		       created_at, updated_at
		FROM modules
		WHERE status = 'published'`
	args := []interface{}{}

	if category != "" {
		args = append(args, category)
		query += " AND category = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY sort_order ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	defer rows.Close()

	var mods []models.ServiceModule
	for rows.Next() {
		var m models.ServiceModule
		if err := rows.Scan(&m.ID, &m.Slug, &m.Name, &m.Description, &m.Category,
			&m.Icon, &m.SortOrder, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		mods = append(mods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error listing modules: %w", err)
	}

	return mods, nil
}

// GetModuleBySlug returns a single published module or ErrNotFound.
func (s *ContentStore) GetModuleBySlug(ctx context.Context, slug string) (*models.ServiceModule, error) {
	m := &models.ServiceModule{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, slug, name, description, category, icon, sort_order, status,
		       created_at, updated_at
		FROM modules
		WHERE slug = $1 AND status = 'published'`, slug).
		Scan(&m.ID, &m.Slug, &m.Name, &m.Description, &m.Category,
			&m.Icon, &m.SortOrder, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get module by slug: %w", err)
	}
	return m, nil
}

// ListCategoriesWithCounts returns every category ordered by sort_order
// ascending, each with its count of published posts. Draft posts are
// excluded from the count by the FILTER clause.
func (s *ContentStore) ListCategoriesWithCounts(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.slug, c.name, c.sort_order,
		       count(p.id) FILTER (WHERE p.status = 'published') AS post_count
		FROM categories c
		LEFT JOIN blog_posts p ON p.category_id = c.id
		GROUP BY c.id, c.slug, c.name, c.sort_order
		ORDER BY c.sort_order ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.SortOrder, &c.PostCount); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error listing categories: %w", err)
	}

	return categories, nil
}
