package mysql

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/Guyuepp/go-social-feed/domain"
	"github.com/Guyuepp/go-social-feed/internal/repository/mysql/model"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY, raised when the (user_id, post_id)
// uniqueness constraint rejects a concurrent duplicate insert.
const mysqlDuplicateEntry = 1062

type likeRepository struct {
	DB *gorm.DB
}

var _ domain.LikeRepository = (*likeRepository)(nil)

// NewLikeRepository will create an implementation of domain.LikeRepository
func NewLikeRepository(db *gorm.DB) *likeRepository {
	return &likeRepository{db}
}

func (m *likeRepository) Store(ctx context.Context, l *domain.Like) error {
	likeModel := model.NewLikeFromDomain(l)
	result := m.DB.WithContext(ctx).Create(likeModel)
	if result.Error != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(result.Error, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return domain.ErrConflict
		}
		return result.Error
	}
	l.CreatedAt = likeModel.CreatedAt
	return nil
}

func (m *likeRepository) Delete(ctx context.Context, userID, postID string) error {
	result := m.DB.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *likeRepository) Exists(ctx context.Context, userID, postID string) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (m *likeRepository) FetchByPost(ctx context.Context, postID string, limit, offset int) ([]domain.Like, int64, error) {
	var total int64
	err := m.DB.WithContext(ctx).Model(&model.Like{}).
		Where("post_id = ?", postID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var likes []model.Like
	err = m.DB.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&likes).Error
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.Like, len(likes))
	for i := range likes {
		res[i] = likes[i].ToDomain()
	}
	return res, total, nil
}

func (m *likeRepository) FilterLiked(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	if len(postIDs) == 0 {
		return map[string]bool{}, nil
	}

	var liked []string
	err := m.DB.WithContext(ctx).Model(&model.Like{}).
		Select("post_id").
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&liked).Error
	if err != nil {
		return nil, err
	}

	res := make(map[string]bool, len(liked))
	for _, id := range liked {
		res[id] = true
	}
	return res, nil
}
