package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"brightlane/api/models"
	"brightlane/api/store"
	"brightlane/api/utils"
)

// ContentStore is the slice of the Postgres store the content handlers
// need. Declared here so tests can substitute a fake.
type ContentStore interface {
	ListBlogPosts(ctx context.Context, f store.BlogPostFilter) ([]models.BlogPost, int64, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	IncrementViewCount(ctx context.Context, slug string) error
	ListCaseStudies(ctx context.Context, f store.CaseStudyFilter) ([]models.CaseStudy, error)
	GetCaseStudyBySlug(ctx context.Context, slug string) (*models.CaseStudy, error)
	ListModules(ctx context.Context, category string) ([]models.ServiceModule, error)
	GetModuleBySlug(ctx context.Context, slug string) (*models.ServiceModule, error)
	ListCategoriesWithCounts(ctx context.Context) ([]models.Category, error)
	Ping(ctx context.Context) error
}

type ContentHandlers struct {
	Store ContentStore
}

func NewContentHandlers(s ContentStore) *ContentHandlers {
	return &ContentHandlers{Store: s}
}

// ListBlogPosts handles GET /api/blog.
func (h *ContentHandlers) ListBlogPosts(c *gin.Context) {
	page, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"))

	filter := store.BlogPostFilter{
		CategoryID: c.Query("category_id"),
		Page:       page,
		Limit:      limit,
	}
	if tags := c.Query("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filter.Tags = append(filter.Tags, t)
			}
		}
	}

	posts, total, err := h.Store.ListBlogPosts(c.Request.Context(), filter)
	if err != nil {
		log.Printf("Error listing blog posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blog posts"})
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       posts,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// GetBlogPost handles GET /api/blog/:slug. A successful lookup
// dispatches the view-count increment without awaiting it; its failure
// is logged and never reaches the client.
func (h *ContentHandlers) GetBlogPost(c *gin.Context) {
	slug := c.Param("slug")

	post, err := h.Store.GetBlogPostBySlug(c.Request.Context(), slug)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("Error fetching blog post %q: %v", slug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blog post"})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Store.IncrementViewCount(ctx, slug); err != nil {
			log.Printf("Error incrementing view count for %q: %v", slug, err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"data": post})
}

// GetBlogCategories handles GET /api/blog/categories.
func (h *ContentHandlers) GetBlogCategories(c *gin.Context) {
	categories, err := h.Store.ListCategoriesWithCounts(c.Request.Context())
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// ListCaseStudies handles GET /api/cases.
func (h *ContentHandlers) ListCaseStudies(c *gin.Context) {
	filter := store.CaseStudyFilter{
		Industry: c.Query("industry"),
	}
	if raw := c.Query("is_featured"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.IsFeatured = &v
		}
	}

	cases, err := h.Store.ListCaseStudies(c.Request.Context(), filter)
	if err != nil {
		log.Printf("Error listing case studies: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch case studies"})
		return
	}
	if cases == nil {
		cases = []models.CaseStudy{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cases,
		"count":   len(cases),
	})
}

// GetCaseStudy handles GET /api/cases/:slug.
func (h *ContentHandlers) GetCaseStudy(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug is required"})
		return
	}

	cs, err := h.Store.GetCaseStudyBySlug(c.Request.Context(), slug)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Case study not found"})
			return
		}
		log.Printf("Error fetching case study %q: %v", slug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch case study"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": cs})
}

// ListModules handles GET /api/modules.
func (h *ContentHandlers) ListModules(c *gin.Context) {
	mods, err := h.Store.ListModules(c.Request.Context(), c.Query("category"))
	if err != nil {
		log.Printf("Error listing modules: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch modules"})
		return
	}
	if mods == nil {
		mods = []models.ServiceModule{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    mods,
		"count":   len(mods),
	})
}

// GetModule handles GET /api/modules/:slug.
func (h *ContentHandlers) GetModule(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug is required"})
		return
	}

	m, err := h.Store.GetModuleBySlug(c.Request.Context(), slug)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Module not found"})
			return
		}
		log.Printf("Error fetching module %q: %v", slug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch module"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": m})
}

// Health handles GET /health.
func (h *ContentHandlers) Health(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
