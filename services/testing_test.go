package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"yatube/db"
	"yatube/models"
)

// setupTestDB поднимает изолированную sqlite-базу в памяти с
// включенными внешними ключами: каскады и уникальные пары должны
// работать на уровне хранилища, как в боевом postgres.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"),
	)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	db.ORM = database
}

func createTestUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:  username,
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Password:  "x",
	}
	require.NoError(t, db.ORM.Create(user).Error)
	return user
}

func createTestGroup(t *testing.T, slug string) *models.Group {
	t.Helper()
	group := &models.Group{
		Title:       gofakeit.BookTitle(),
		Slug:        slug,
		Description: gofakeit.Sentence(5),
	}
	require.NoError(t, db.ORM.Create(group).Error)
	return group
}

func createTestPost(t *testing.T, author *models.User, text string, group *models.Group, pubDate time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID: author.ID,
		Text:     text,
		PubDate:  pubDate,
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, db.ORM.Create(post).Error)
	return post
}

func createTestComment(t *testing.T, post *models.Post, author *models.User, text string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: author.ID,
		Text:     text,
		Created:  time.Now(),
	}
	require.NoError(t, db.ORM.Create(comment).Error)
	return comment
}
