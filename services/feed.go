package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"yatube/db"
	"yatube/models"
)

// PageSize - размер страницы во всех лентах
const PageSize = 10

// PostCard - пост с денормализованным числом комментариев для вывода в ленте
type PostCard struct {
	models.Post
	CommentCount int64
}

// FeedService строит упорядоченные ленты постов для четырех областей:
// глобальной, по группе, по автору и по подпискам. Только чтение;
// сортировка везде pub_date DESC, id DESC.
type FeedService struct{}

func NewFeedService() *FeedService {
	return &FeedService{}
}

func postQuery(ctx context.Context) *gorm.DB {
	return db.GetReadOnlyDB(ctx).
		Preload("Author").
		Preload("Group").
		Order("posts.pub_date DESC, posts.id DESC")
}

// GlobalPosts - все посты
func (fs *FeedService) GlobalPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := postQuery(ctx).Find(&posts).Error
	return posts, err
}

// GroupBySlug возвращает группу или ErrNotFound
func (fs *FeedService) GroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	err := db.GetReadOnlyDB(ctx).Where("slug = ?", slug).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GroupPosts - посты группы по slug
func (fs *FeedService) GroupPosts(ctx context.Context, slug string) (*models.Group, []models.Post, error) {
	group, err := fs.GroupBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	var posts []models.Post
	err = postQuery(ctx).Where("posts.group_id = ?", group.ID).Find(&posts).Error
	return group, posts, err
}

// AuthorByUsername возвращает пользователя или ErrNotFound
func (fs *FeedService) AuthorByUsername(ctx context.Context, username string) (*models.User, error) {
	var author models.User
	err := db.GetReadOnlyDB(ctx).Where("username = ?", username).First(&author).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// AuthorPosts - посты автора по username
func (fs *FeedService) AuthorPosts(ctx context.Context, username string) (*models.User, []models.Post, error) {
	author, err := fs.AuthorByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	var posts []models.Post
	err = postQuery(ctx).Where("posts.author_id = ?", author.ID).Find(&posts).Error
	return author, posts, err
}

// FollowPosts - посты всех авторов, на которых подписан пользователь,
// слитые в одну ленту с общей сортировкой. Набор авторов дает граф
// подписок; пустой набор - пустая лента без запроса к постам.
func (fs *FeedService) FollowPosts(ctx context.Context, userID int64) ([]models.Post, error) {
	authorIDs, err := NewFollowService().FollowedAuthorIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var posts []models.Post
	err = postQuery(ctx).Where("posts.author_id IN ?", authorIDs).Find(&posts).Error
	return posts, err
}

// AuthorPostCount - число постов автора, живой счетчик на чтении
func (fs *FeedService) AuthorPostCount(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// AttachCommentCounts навешивает на посты страницы число комментариев
// одним сгруппированным запросом
func (fs *FeedService) AttachCommentCounts(ctx context.Context, posts []models.Post) ([]PostCard, error) {
	cards := make([]PostCard, len(posts))
	if len(posts) == 0 {
		return cards, nil
	}

	ids := make([]int64, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
		cards[i] = PostCard{Post: post}
	}

	var rows []struct {
		PostID int64
		Count  int64
	}
	err := db.GetReadOnlyDB(ctx).Model(&models.Comment{}).
		Select("post_id, count(*) as count").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	for i := range cards {
		cards[i].CommentCount = counts[cards[i].ID]
	}
	return cards, nil
}

// Groups - все группы для формы выбора при создании поста
func (fs *FeedService) Groups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := db.GetReadOnlyDB(ctx).Order("title").Find(&groups).Error
	return groups, err
}
