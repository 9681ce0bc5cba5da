package models

import "time"

// Like represents a user's like on a post.
// The combination of UserID and PostID is the primary key.
type Like struct {
	UserID    string    `gorm:"primaryKey;type:varchar(36)" json:"userId"`
	PostID    string    `gorm:"primaryKey;type:varchar(36);index:idx_likes_post" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}
