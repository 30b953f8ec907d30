package post

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-social-feed/domain"
)

const bloomWarmupBatch = 500

type Service struct {
	postRepo  domain.PostRepository
	likes     domain.LikeQuery
	bloomRepo domain.BloomRepository
}

var _ domain.PostUsecase = (*Service)(nil)

// NewService will create a new post service object
func NewService(p domain.PostRepository, l domain.LikeQuery, b domain.BloomRepository) *Service {
	return &Service{
		postRepo:  p,
		likes:     l,
		bloomRepo: b,
	}
}

func (s *Service) Create(ctx context.Context, userID, content string) (domain.Post, error) {
	if content == "" {
		return domain.Post{}, domain.ErrBadParamInput
	}

	p := domain.Post{
		UserID:  userID,
		Content: content,
	}
	if err := s.postRepo.Store(ctx, &p); err != nil {
		return domain.Post{}, err
	}

	if err := s.bloomRepo.Add(ctx, p.ID); err != nil {
		logrus.Warnf("failed to add post %s to bloom filter: %v", p.ID, err)
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "post_id": p.ID, "op": "create_post"}).
		Info("post created")
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Post, error) {
	exists, err := s.bloomRepo.Exists(ctx, id)
	if err == nil && !exists {
		logrus.Warnf("bloom filter says post %s does not exist", id)
		return domain.Post{}, domain.ErrNotFound
	}

	return s.postRepo.GetByID(ctx, id)
}

func (s *Service) Fetch(ctx context.Context, viewerID string, limit, offset int) ([]domain.Post, int64, error) {
	posts, total, err := s.postRepo.Fetch(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if viewerID == "" || len(posts) == 0 {
		return posts, total, nil
	}

	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	liked, err := s.likes.LikedPostIDs(ctx, viewerID, ids)
	if err != nil {
		// Annotation is best-effort; the page itself is still valid.
		logrus.Warnf("failed to annotate liked posts for user %s: %v", viewerID, err)
		return posts, total, nil
	}

	for i := range posts {
		posts[i].LikedByViewer = liked[posts[i].ID]
	}
	return posts, total, nil
}

// UpdateContent edits the post body under the optimistic version guard.
// Counters never go through this path.
func (s *Service) UpdateContent(ctx context.Context, p *domain.Post) error {
	if p.Content == "" {
		return domain.ErrBadParamInput
	}
	return s.postRepo.UpdateContent(ctx, p)
}

// InitBloomFilter warms the filter with every known post ID at startup.
func (s *Service) InitBloomFilter(ctx context.Context) error {
	cursor := ""
	for {
		ids, err := s.postRepo.FetchIDs(ctx, cursor, bloomWarmupBatch)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := s.bloomRepo.BulkAdd(ctx, ids); err != nil {
			return err
		}
		cursor = ids[len(ids)-1]
	}
}
