package mysql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Guyuepp/go-social-feed/domain"
	"github.com/Guyuepp/go-social-feed/internal/repository/mysql/model"
)

type postRepository struct {
	DB *gorm.DB
}

var _ domain.PostRepository = (*postRepository)(nil)

// NewPostRepository will create an implementation of domain.PostRepository
func NewPostRepository(db *gorm.DB) *postRepository {
	return &postRepository{db}
}

func (m *postRepository) Store(ctx context.Context, p *domain.Post) error {
	p.ID = uuid.NewString()
	p.Version = 1
	postModel := model.NewPostFromDomain(p)
	result := m.DB.WithContext(ctx).Create(postModel)
	if result.Error != nil {
		return result.Error
	}
	p.CreatedAt = postModel.CreatedAt
	p.UpdatedAt = postModel.UpdatedAt
	return nil
}

func (m *postRepository) GetByID(ctx context.Context, id string) (domain.Post, error) {
	var post model.Post
	if err := m.DB.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Post{}, domain.ErrNotFound
		}
		return domain.Post{}, err
	}
	return post.ToDomain(), nil
}

func (m *postRepository) Fetch(ctx context.Context, limit, offset int) ([]domain.Post, int64, error) {
	var total int64
	if err := m.DB.WithContext(ctx).Model(&model.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := m.DB.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.Post, len(posts))
	for i := range posts {
		res[i] = posts[i].ToDomain()
	}
	return res, total, nil
}

func (m *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (m *postRepository) FetchIDs(ctx context.Context, cursor string, limit int) (ids []string, err error) {
	err = m.DB.WithContext(ctx).
		Model(&model.Post{}).
		Select("id").
		Where("id > ?", cursor).
		Order("id").
		Limit(limit).
		Find(&ids).Error
	return
}

// AddLikesCount applies a single relative-update statement so concurrent
// shifts commute; the floor keeps an unlike racing an administrative reset
// from driving the counter negative.
func (m *postRepository) AddLikesCount(ctx context.Context, id string, delta int64) error {
	// UpdateColumn keeps updated_at untouched, a like is not a content edit.
	result := m.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("likes_count", gorm.Expr("GREATEST(likes_count + ?, 0)", delta))
	if result.Error != nil {
		return result.Error
	}
	// RowsAffected is not checked here: MySQL reports 0 changed rows when the
	// floor leaves the value as-is, which is not a missing post.
	return nil
}

func (m *postRepository) UpdateContent(ctx context.Context, p *domain.Post) error {
	result := m.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Updates(map[string]any{
			"content": p.Content,
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		// Either the post is gone or the version is stale.
		exists, err := m.Exists(ctx, p.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	p.Version++
	return nil
}
