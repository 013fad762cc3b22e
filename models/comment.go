package models

// Comment represents a reply to a post.
type Comment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PostID    uint   `gorm:"index;not null" json:"postId"`
	AuthorID  uint   `gorm:"index;not null" json:"authorId"`
	Content   string `gorm:"type:text;not null" json:"content"`
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"createdAt"`
	Post      Post   `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Author    User   `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}
