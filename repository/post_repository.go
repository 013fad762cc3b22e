package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/mforum/models"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// PostRepository is the content store for posts and their comments. Every mutation runs in
// a transaction; referential integrity is left to the foreign keys.
type PostRepository interface {
	Create(ctx context.Context, authorID uint, title, content, category string) (*models.Post, error)
	List(ctx context.Context, page, perPage int, category string) (*models.PostPage, error)
	Get(ctx context.Context, id uint) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
	ListComments(ctx context.Context, postID uint) ([]models.Comment, error)
	CreateComment(ctx context.Context, postID, authorID uint, content string) (*models.Comment, error)
	Categories(ctx context.Context) ([]string, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a gorm-backed PostRepository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, authorID uint, title, content, category string) (*models.Post, error) {
	if category == "" {
		category = models.DefaultCategory
	}
	post := models.Post{
		AuthorID: authorID,
		Title:    title,
		Content:  content,
		Category: category,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(&post).Error
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, persistenceError("create post", err)
	}
	return &post, nil
}

// List returns a page of posts newest first. Pages are 1-indexed; a page past the end is empty.
func (r *postRepository) List(ctx context.Context, page, perPage int, category string) (*models.PostPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	query := r.db.WithContext(ctx).Model(&models.Post{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, persistenceError("count posts", err)
	}

	posts := make([]models.Post, 0, perPage)
	err := query.Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&posts).Error
	if err != nil {
		return nil, persistenceError("list posts", err)
	}

	return &models.PostPage{
		Items:     posts,
		Total:     total,
		PageCount: int((total + int64(perPage) - 1) / int64(perPage)),
		Page:      page,
		PerPage:   perPage,
	}, nil
}

func (r *postRepository) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, notFoundOr(err, ErrPostNotFound, "get post")
	}
	return &post, nil
}

// Delete removes a post and every comment on it in one transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return notFoundOr(err, ErrPostNotFound, "delete post")
	}
	return nil
}

// ListComments returns a post's comments oldest first, or ErrPostNotFound if the post is absent.
func (r *postRepository) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	db := r.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, persistenceError("check post", err)
	}
	if count == 0 {
		return nil, ErrPostNotFound
	}

	comments := []models.Comment{}
	err := db.Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, persistenceError("list comments", err)
	}
	return comments, nil
}

func (r *postRepository) CreateComment(ctx context.Context, postID, authorID uint, content string) (*models.Comment, error) {
	comment := models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(&comment).Error
	})
	if err != nil {
		// a foreign-key failure here means the post vanished between the check and the insert
		if isForeignKeyViolation(err) {
			return nil, ErrPostNotFound
		}
		return nil, notFoundOr(err, ErrPostNotFound, "create comment")
	}
	return &comment, nil
}

// Categories returns each category in use once, in no particular order.
func (r *postRepository) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Distinct().Pluck("category", &categories).Error; err != nil {
		return nil, persistenceError("list categories", err)
	}
	return categories, nil
}
