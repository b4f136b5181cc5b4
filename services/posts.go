package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yatube/config"
	"yatube/db"
	"yatube/logging"
	"yatube/models"
)

type PostService struct{}

func NewPostService() *PostService {
	return &PostService{}
}

// CreatePost сохраняет новый пост. PubDate выставляется здесь один раз
// и больше не обновляется.
func (ps *PostService) CreatePost(ctx context.Context, authorID int64, text string, groupID *int64, image string) (*models.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}

	post := &models.Post{
		AuthorID: authorID,
		Text:     text,
		GroupID:  groupID,
		Image:    image,
		PubDate:  time.Now(),
	}
	if err := db.GetWriteDB(ctx).Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	logging.L().Infow("post created", "post_id", post.ID, "author_id", authorID)
	return post, nil
}

// UpdatePost меняет текст, группу и картинку поста. pub_date не
// трогается, поэтому обновление идет явным списком колонок.
func (ps *PostService) UpdatePost(ctx context.Context, post *models.Post, text string, groupID *int64, image string) error {
	if strings.TrimSpace(text) == "" {
		return ErrTextRequired
	}
	if image == "" {
		image = post.Image
	}

	err := db.GetWriteDB(ctx).Model(post).
		Select("text", "group_id", "image").
		Updates(map[string]interface{}{
			"text":     text,
			"group_id": groupID,
			"image":    image,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// GetPost возвращает пост, принадлежащий автору с данным username,
// или ErrNotFound
func (ps *PostService) GetPost(ctx context.Context, username string, postID int64) (*models.Post, error) {
	var post models.Post
	err := db.GetReadOnlyDB(ctx).
		Preload("Author").
		Preload("Group").
		Joins("JOIN users ON users.id = posts.author_id").
		Where("posts.id = ? AND users.username = ?", postID, username).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Comments - комментарии поста, новые сверху
func (ps *PostService) Comments(ctx context.Context, postID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.GetReadOnlyDB(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created DESC, id DESC").
		Find(&comments).Error
	return comments, err
}

// AddComment добавляет комментарий к посту
func (ps *PostService) AddComment(ctx context.Context, postID, authorID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
		Created:  time.Now(),
	}
	if err := db.GetWriteDB(ctx).Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// SaveImage кладет загруженный файл в каталог медиа под случайным
// именем и возвращает сохраненное имя. Файл, не похожий на
// изображение, отклоняется с ErrInvalidImage.
func (ps *PostService) SaveImage(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	sniff := make([]byte, 512)
	n, err := src.Read(sniff)
	if err != nil && err != io.EOF {
		return "", err
	}
	if !strings.HasPrefix(http.DetectContentType(sniff[:n]), "image/") {
		return "", ErrInvalidImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	root := "media"
	if config.AppConfig != nil && config.AppConfig.Media.Root != "" {
		root = config.AppConfig.Media.Root
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(root, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}
