package like

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/go-social-feed/domain"
)

// Service is the like-toggle engine. It holds no locks across store calls;
// cross-request exclusion lives entirely in the likes uniqueness constraint
// and the counter's relative-update statement, the only places with a global
// view across processes.
type Service struct {
	likeRepo  domain.LikeRepository
	posts     domain.PostCounter
	userRepo  domain.UserRepository
	bloomRepo domain.BloomRepository
	events    domain.EventBus
}

var _ domain.LikeUsecase = (*Service)(nil)

// NewService will create a new like service object
func NewService(l domain.LikeRepository, p domain.PostCounter, u domain.UserRepository, b domain.BloomRepository, e domain.EventBus) *Service {
	return &Service{
		likeRepo:  l,
		posts:     p,
		userRepo:  u,
		bloomRepo: b,
		events:    e,
	}
}

// mustExists fast-rejects post IDs the bloom filter has never seen. A bloom
// error is ignored: the authoritative check is the post lookup that follows.
func (s *Service) mustExists(ctx context.Context, postID string) error {
	exists, err := s.bloomRepo.Exists(ctx, postID)
	if err == nil && !exists {
		logrus.Warnf("bloom filter says post %s does not exist", postID)
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) Like(ctx context.Context, userID, postID string) (domain.LikeStatus, error) {
	log := logrus.WithFields(logrus.Fields{"user_id": userID, "post_id": postID, "op": "like"})

	if err := s.mustExists(ctx, postID); err != nil {
		return "", err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return "", err
	}

	// Advisory early check; the uniqueness constraint below is the backstop.
	liked, err := s.likeRepo.Exists(ctx, userID, postID)
	if err != nil {
		return "", err
	}
	if liked {
		return "", domain.ErrConflict
	}

	err = s.likeRepo.Store(ctx, &domain.Like{UserID: userID, PostID: postID})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// A concurrent duplicate committed between the check and the
			// insert. The counter was never touched, so nothing to undo.
			log.Info("duplicate like lost the race at the uniqueness constraint")
			return "", domain.ErrConflict
		}
		return "", err
	}

	// Ordered strictly after the insert succeeds, never speculatively.
	if err := s.posts.AddLikesCount(ctx, postID, 1); err != nil {
		log.Errorf("failed to increment likes count: %v", err)
		return "", err
	}

	// No self-like notification.
	if post.UserID != userID {
		s.events.Publish(ctx, domain.EventPostLiked, domain.PostLikedEvent{
			PostID:      postID,
			UserID:      userID,
			PostOwnerID: post.UserID,
		})
	}

	return domain.StatusLiked, nil
}

func (s *Service) Unlike(ctx context.Context, userID, postID string) (domain.LikeStatus, error) {
	log := logrus.WithFields(logrus.Fields{"user_id": userID, "post_id": postID, "op": "unlike"})

	if err := s.mustExists(ctx, postID); err != nil {
		return "", err
	}

	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", domain.ErrNotFound
	}

	// Delete first; RowsAffected==0 maps to ErrNotFound so a concurrent
	// double-unlike decrements the counter at most once.
	if err := s.likeRepo.Delete(ctx, userID, postID); err != nil {
		return "", err
	}

	if err := s.posts.AddLikesCount(ctx, postID, -1); err != nil {
		log.Errorf("failed to decrement likes count: %v", err)
		return "", err
	}

	return domain.StatusUnliked, nil
}

// Toggle flips the caller's current like state. Losing the duplicate-insert
// race on the like branch is reported as liked, not ErrConflict: the caller
// asked for the opposite of the observed state and that state now holds.
func (s *Service) Toggle(ctx context.Context, userID, postID string) (domain.LikeStatus, error) {
	liked, err := s.likeRepo.Exists(ctx, userID, postID)
	if err != nil {
		return "", err
	}

	if liked {
		return s.Unlike(ctx, userID, postID)
	}

	status, err := s.Like(ctx, userID, postID)
	if errors.Is(err, domain.ErrConflict) {
		return domain.StatusLiked, nil
	}
	return status, err
}

func (s *Service) HasLiked(ctx context.Context, userID, postID string) (bool, error) {
	return s.likeRepo.Exists(ctx, userID, postID)
}

func (s *Service) LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	return s.likeRepo.FilterLiked(ctx, userID, postIDs)
}

func (s *Service) ListLikers(ctx context.Context, postID string, limit, offset int) ([]domain.User, int64, error) {
	if err := s.mustExists(ctx, postID); err != nil {
		return nil, 0, err
	}

	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, domain.ErrNotFound
	}

	likes, total, err := s.likeRepo.FetchByPost(ctx, postID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	users, err := s.fillUserDetails(ctx, likes)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// fillUserDetails resolves the liker rows into user records, preserving the
// like ordering. The page is fetched in parallel chunks with errgroup.
func (s *Service) fillUserDetails(ctx context.Context, likes []domain.Like) ([]domain.User, error) {
	if len(likes) == 0 {
		return []domain.User{}, nil
	}

	ids := make([]string, len(likes))
	for i := range likes {
		ids[i] = likes[i].UserID
	}

	const chunkSize = 50
	g, ctx := errgroup.WithContext(ctx)
	chunks := make([][]domain.User, (len(ids)+chunkSize-1)/chunkSize)
	for i := range chunks {
		i := i
		lo, hi := i*chunkSize, min((i+1)*chunkSize, len(ids))
		g.Go(func() error {
			res, err := s.userRepo.GetByIDs(ctx, ids[lo:hi])
			if err != nil {
				return err
			}
			chunks[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]domain.User, len(ids))
	for _, chunk := range chunks {
		for _, u := range chunk {
			byID[u.ID] = u
		}
	}

	users := make([]domain.User, 0, len(likes))
	for _, l := range likes {
		if u, ok := byID[l.UserID]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}
