package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/mforum/middleware"
	"github.com/cppla/mforum/models"
	"github.com/cppla/mforum/repository"
	"github.com/cppla/mforum/utils"
)

var (
	errMissingPostFields = fmt.Errorf("%w: Missing required fields", utils.ErrValidation)
	errMissingContent    = fmt.Errorf("%w: Missing content", utils.ErrValidation)
	errNotPostAuthor     = fmt.Errorf("%w: you can only delete your own posts", utils.ErrAuthorization)
)

// PostController manages posts, comments and categories.
type PostController struct {
	posts repository.PostRepository
}

// NewPostController creates a new PostController instance.
func NewPostController(posts repository.PostRepository) *PostController {
	return &PostController{posts: posts}
}

// ListPosts returns a page of posts newest first, optionally filtered by category.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page := queryInt(ctx, "page", 1)
	perPage := queryInt(ctx, "per_page", repository.DefaultPerPage)
	category := strings.TrimSpace(ctx.Query("category"))

	result, err := p.posts.List(ctx.Request.Context(), page, perPage, category)
	if err != nil {
		utils.Fail(ctx, 20, err)
		return
	}

	utils.Success(ctx, gin.H{
		"posts":        result.Items,
		"total":        result.Total,
		"pages":        result.PageCount,
		"current_page": result.Page,
		"per_page":     result.PerPage,
	})
}

// GetPost returns a single post.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, 21, repository.ErrPostNotFound)
		return
	}
	post, err := p.posts.Get(ctx.Request.Context(), postID)
	if err != nil {
		utils.Fail(ctx, 22, err)
		return
	}
	utils.Success(ctx, post)
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Category string `json:"category"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, 23, errMissingPostFields)
		return
	}

	// stored as sent; escaping belongs to whatever renders it
	title, content := req.Title, req.Content
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		utils.Fail(ctx, 24, errMissingPostFields)
		return
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), userID, title, content, category)
	if err != nil {
		utils.Fail(ctx, 25, err)
		return
	}
	utils.Created(ctx, post)
}

// DeletePost allows the author to delete their post together with its comments.
func (p *PostController) DeletePost(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, 26, repository.ErrPostNotFound)
		return
	}
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "unauthorized")
		return
	}

	post, err := p.posts.Get(ctx.Request.Context(), postID)
	if err != nil {
		utils.Fail(ctx, 27, err)
		return
	}
	if post.AuthorID != userID {
		utils.Fail(ctx, 28, errNotPostAuthor)
		return
	}

	if err := p.posts.Delete(ctx.Request.Context(), postID); err != nil {
		utils.Fail(ctx, 29, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// ListComments returns a post's comments oldest first.
func (p *PostController) ListComments(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, 30, repository.ErrPostNotFound)
		return
	}
	comments, err := p.posts.ListComments(ctx.Request.Context(), postID)
	if err != nil {
		utils.Fail(ctx, 31, err)
		return
	}
	utils.Success(ctx, comments)
}

// CreateComment allows authenticated users to comment on posts.
func (p *PostController) CreateComment(ctx *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, 32, errMissingContent)
		return
	}
	content := req.Content
	if strings.TrimSpace(content) == "" {
		utils.Fail(ctx, 33, errMissingContent)
		return
	}

	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, 34, repository.ErrPostNotFound)
		return
	}
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40122, "unauthorized")
		return
	}

	comment, err := p.posts.CreateComment(ctx.Request.Context(), postID, userID, content)
	if err != nil {
		utils.Fail(ctx, 35, err)
		return
	}
	utils.Created(ctx, comment)
}

// ListCategories returns every category currently used by a post.
func (p *PostController) ListCategories(ctx *gin.Context) {
	categories, err := p.posts.Categories(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, 36, err)
		return
	}
	utils.Success(ctx, categories)
}

// queryInt reads an integer query parameter, falling back to def when absent or malformed.
func queryInt(ctx *gin.Context, key string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(ctx.Query(key))); err == nil && n > 0 {
		return n
	}
	return def
}

// parseID parses a positive numeric path identifier.
func parseID(raw string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
