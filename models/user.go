package models

// User represents a forum account. Passwords are stored as bcrypt hashes only and never serialised.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:80;not null;uniqueIndex:idx_users_username" json:"username"`
	Email        string `gorm:"size:120;not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string `gorm:"column:password;size:255;not null" json:"-"`
	AvatarURL    string `gorm:"size:255;default:''" json:"avatarUrl"`
	AvatarType   string `gorm:"size:50;default:''" json:"avatarType"`
	// AvatarRef points at the current blob in the avatar store.
	AvatarRef string `gorm:"size:255;default:''" json:"-"`
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"createdAt"`
	LastLogin int64  `json:"lastLogin"`
}

// HasAvatar reports whether an avatar has been uploaded for the user.
func (u *User) HasAvatar() bool {
	return u.AvatarRef != ""
}
