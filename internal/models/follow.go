package models

import "time"

// Follow is a directed edge: FollowerID follows FollowingID.
// The pair is the primary key, so a second insert of the same edge is a unique violation.
type Follow struct {
	FollowerID  string    `gorm:"primaryKey;type:varchar(36);check:chk_follows_not_self,follower_id <> following_id" json:"followerId"`
	FollowingID string    `gorm:"primaryKey;type:varchar(36);index:idx_follows_following" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`

	Follower  User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
