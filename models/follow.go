package models

import "time"

// Follow - направленная подписка user -> author. Составной уникальный
// индекс гарантирует не больше одного ребра на пару даже при
// конкурентных подписках.
type Follow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index:idx_follow_pair,unique;not null" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  int64     `gorm:"index:idx_follow_pair,unique;index;not null" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
