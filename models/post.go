package models

import "time"

// Group - тематическое сообщество, на которое может ссылаться пост
type Group struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:70;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

func (Group) TableName() string {
	return "groups"
}

// Post - публикация пользователя. PubDate выставляется один раз при
// создании и не меняется; все выборки сортируются по pub_date DESC,
// id DESC (id - детерминированный tie-break при равных pub_date).
type Post struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorID int64     `gorm:"index;not null" json:"author_id"`
	Author   User      `gorm:"constraint:OnDelete:CASCADE" json:"author"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	GroupID  *int64    `gorm:"index" json:"group_id,omitempty"`
	Group    *Group    `gorm:"constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image    string    `gorm:"size:255" json:"image,omitempty"`
	PubDate  time.Time `gorm:"index;not null" json:"pub_date"`
}

func (Post) TableName() string {
	return "posts"
}

// Comment - комментарий к посту, удаляется вместе с постом или автором
type Comment struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID   int64     `gorm:"index;not null" json:"post_id"`
	Post     Post      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuthorID int64     `gorm:"index;not null" json:"author_id"`
	Author   User      `gorm:"constraint:OnDelete:CASCADE" json:"author"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Created  time.Time `gorm:"index;not null" json:"created"`
}

func (Comment) TableName() string {
	return "comments"
}
