package models

// DefaultCategory is assigned to posts created without a category.
const DefaultCategory = "General"

// Post represents a forum post created by a user. Deleting a post cascades to its comments.
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	AuthorID  uint   `gorm:"index;not null" json:"authorId"`
	Title     string `gorm:"size:200;not null" json:"title"`
	Content   string `gorm:"type:text;not null" json:"content"`
	Category  string `gorm:"size:50;index;default:'General'" json:"category"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;index" json:"createdAt"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli" json:"updatedAt"`
	Author    User   `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

// PostPage is one page of posts ordered newest first.
type PostPage struct {
	Items     []Post
	Total     int64
	PageCount int
	Page      int
	PerPage   int
}
