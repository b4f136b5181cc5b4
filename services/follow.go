package services

import (
	"context"

	"gorm.io/gorm/clause"

	"yatube/db"
	"yatube/models"
)

type FollowService struct{}

func NewFollowService() *FollowService {
	return &FollowService{}
}

// Subscribe создает ребро подписки user -> author. Подписка на себя и
// повторная подписка - тихие no-op. Уникальность пары гарантирует
// составной индекс, ON CONFLICT DO NOTHING делает вставку идемпотентной
// при конкурентных запросах.
func (fs *FollowService) Subscribe(ctx context.Context, userID, authorID int64) error {
	if userID == authorID {
		return nil
	}
	follow := &models.Follow{UserID: userID, AuthorID: authorID}
	return db.GetWriteDB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(follow).Error
}

// Unsubscribe удаляет ребро, если оно есть; иначе no-op
func (fs *FollowService) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	return db.GetWriteDB(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

// IsFollowing отвечает, подписан ли userID на authorID. Для анонимного
// запроса (userID == 0) всегда false без обращения к хранилищу.
func (fs *FollowService) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var count int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FollowedAuthorIDs возвращает авторов, чьи посты попадают в ленту
// подписок пользователя
func (fs *FollowService) FollowedAuthorIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Pluck("author_id", &ids).Error
	return ids, err
}

// FollowerCount - сколько пользователей подписано на автора. Пустое
// отношение - это просто ноль, не исключительный случай.
func (fs *FollowService) FollowerCount(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Follow{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// FollowingCount - на скольких авторов подписан пользователь
func (fs *FollowService) FollowingCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
