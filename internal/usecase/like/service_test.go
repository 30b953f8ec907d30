package like_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/go-social-feed/domain"
	ucase "github.com/Guyuepp/go-social-feed/internal/usecase/like"
)

type mockLikeRepo struct {
	mock.Mock
}

func (m *mockLikeRepo) Store(ctx context.Context, l *domain.Like) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *mockLikeRepo) Delete(ctx context.Context, userID, postID string) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *mockLikeRepo) Exists(ctx context.Context, userID, postID string) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLikeRepo) FetchByPost(ctx context.Context, postID string, limit, offset int) ([]domain.Like, int64, error) {
	args := m.Called(ctx, postID, limit, offset)
	likes, _ := args.Get(0).([]domain.Like)
	return likes, args.Get(1).(int64), args.Error(2)
}

func (m *mockLikeRepo) FilterLiked(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	args := m.Called(ctx, userID, postIDs)
	res, _ := args.Get(0).(map[string]bool)
	return res, args.Error(1)
}

type mockPostCounter struct {
	mock.Mock
}

func (m *mockPostCounter) GetByID(ctx context.Context, id string) (domain.Post, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Post), args.Error(1)
}

func (m *mockPostCounter) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockPostCounter) AddLikesCount(ctx context.Context, id string, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// passthroughBloom reports every ID as possibly existing, deferring to the
// authoritative store check.
type passthroughBloom struct{}

func (passthroughBloom) Add(context.Context, string) error            { return nil }
func (passthroughBloom) Exists(context.Context, string) (bool, error) { return true, nil }
func (passthroughBloom) BulkAdd(context.Context, []string) error      { return nil }

// recordingBus captures published events synchronously.
type recordingBus struct {
	mu     sync.Mutex
	events []domain.PostLikedEvent
}

func (b *recordingBus) Publish(_ context.Context, name string, payload any) {
	if name != domain.EventPostLiked {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, payload.(domain.PostLikedEvent))
}

func (b *recordingBus) Subscribe(string, domain.EventHandler) {}

func (b *recordingBus) published() []domain.PostLikedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.PostLikedEvent(nil), b.events...)
}

func newFixture() (*mockLikeRepo, *mockPostCounter, *mockUserRepo, *recordingBus, *ucase.Service) {
	likeRepo := new(mockLikeRepo)
	posts := new(mockPostCounter)
	users := new(mockUserRepo)
	bus := new(recordingBus)
	svc := ucase.NewService(likeRepo, posts, users, passthroughBloom{}, bus)
	return likeRepo, posts, users, bus, svc
}

func TestLike(t *testing.T) {
	ownerID := faker.UUIDHyphenated()
	likerID := faker.UUIDHyphenated()
	postID := faker.UUIDHyphenated()

	t.Run("success publishes event and increments once", func(t *testing.T) {
		likeRepo, posts, _, bus, svc := newFixture()
		posts.On("GetByID", mock.Anything, postID).Return(domain.Post{ID: postID, UserID: ownerID}, nil)
		likeRepo.On("Exists", mock.Anything, likerID, postID).Return(false, nil)
		likeRepo.On("Store", mock.Anything, mock.Anything).Return(nil)
		posts.On("AddLikesCount", mock.Anything, postID, int64(1)).Return(nil)

		status, err := svc.Like(context.Background(), likerID, postID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusLiked, status)

		events := bus.published()
		require.Len(t, events, 1)
		assert.Equal(t, domain.PostLikedEvent{PostID: postID, UserID: likerID, PostOwnerID: ownerID}, events[0])
		posts.AssertNumberOfCalls(t, "AddLikesCount", 1)
	})

	t.Run("post not found", func(t *testing.T) {
		likeRepo, posts, _, bus, svc := newFixture()
		posts.On("GetByID", mock.Anything, postID).Return(domain.Post{}, domain.ErrNotFound)

		_, err := svc.Like(context.Background(), likerID, postID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		likeRepo.AssertNotCalled(t, "Store")
		assert.Empty(t, bus.published())
	})

	t.Run("already liked is a conflict before any write", func(t *testing.T) {
		likeRepo, posts, _, bus, svc := newFixture()
		posts.On("GetByID", mock.Anything, postID).Return(domain.Post{ID: postID, UserID: ownerID}, nil)
		likeRepo.On("Exists", mock.Anything, likerID, postID).Return(true, nil)

		_, err := svc.Like(context.Background(), likerID, postID)
		assert.ErrorIs(t, err, domain.ErrConflict)
		likeRepo.AssertNotCalled(t, "Store")
		posts.AssertNotCalled(t, "AddLikesCount")
		assert.Empty(t, bus.published())
	})

	t.Run("lost duplicate race maps to conflict without counter or event", func(t *testing.T) {
		likeRepo, posts, _, bus, svc := newFixture()
		posts.On("GetByID", mock.Anything, postID).Return(domain.Post{ID: postID, UserID: ownerID}, nil)
		likeRepo.On("Exists", mock.Anything, likerID, postID).Return(false, nil)
		likeRepo.On("Store", mock.Anything, mock.Anything).Return(domain.ErrConflict)

		_, err := svc.Like(context.Background(), likerID, postID)
		assert.ErrorIs(t, err, domain.ErrConflict)
		posts.AssertNotCalled(t, "AddLikesCount")
		assert.Empty(t, bus.published())
	})

	t.Run("self-like never publishes an event", func(t *testing.T) {
		likeRepo, posts, _, bus, svc := newFixture()
		posts.On("GetByID", mock.Anything, postID).Return(domain.Post{ID: postID, UserID: ownerID}, nil)
		likeRepo.On("Exists", mock.Anything, ownerID, postID).Return(false, nil)
		likeRepo.On("Store", mock.Anything, mock.Anything).Return(nil)
		posts.On("AddLikesCount", mock.Anything, postID, int64(1)).Return(nil)

		status, err := svc.Like(context.Background(), ownerID, postID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusLiked, status)
		assert.Empty(t, bus.published())
	})
}

func TestUnlike(t *testing.T) {
	userID := faker.UUIDHyphenated()
	postID := faker.UUIDHyphenated()

	t.Run("success decrements once", func(t *testing.T) {
		likeRepo, posts, _, _, svc := newFixture()
		posts.On("Exists", mock.Anything, postID).Return(true, nil)
		likeRepo.On("Delete", mock.Anything, userID, postID).Return(nil)
		posts.On("AddLikesCount", mock.Anything, postID, int64(-1)).Return(nil)

		status, err := svc.Unlike(context.Background(), userID, postID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusUnliked, status)
		posts.AssertNumberOfCalls(t, "AddLikesCount", 1)
	})

	t.Run("never liked leaves the counter untouched", func(t *testing.T) {
		likeRepo, posts, _, _, svc := newFixture()
		posts.On("Exists", mock.Anything, postID).Return(true, nil)
		likeRepo.On("Delete", mock.Anything, userID, postID).Return(domain.ErrNotFound)

		_, err := svc.Unlike(context.Background(), userID, postID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		posts.AssertNotCalled(t, "AddLikesCount")
	})

	t.Run("post not found", func(t *testing.T) {
		likeRepo, posts, _, _, svc := newFixture()
		posts.On("Exists", mock.Anything, postID).Return(false, nil)

		_, err := svc.Unlike(context.Background(), userID, postID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		likeRepo.AssertNotCalled(t, "Delete")
	})
}

func TestToggle(t *testing.T) {
	ownerID := faker.UUIDHyphenated()
	userID := faker.UUIDHyphenated()
	postID := faker.UUIDHyphenated()

	t.Run("not liked takes the like branch", func(t *testing.T) {
		likeRepo, posts, _, _, svc := newFixture()
		likeRepo.On("Exists", mock.Anything, userID, postID).Return(false, nil)
		posts.On("GetByID", mock.Anything, postID).Return(domain.Post{ID: postID, UserID: ownerID}, nil)
		likeRepo.On("Store", mock.Anything, mock.Anything).Return(nil)
		posts.On("AddLikesCount", mock.Anything, postID, int64(1)).Return(nil)

		status, err := svc.Toggle(context.Background(), userID, postID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusLiked, status)
	})

	t.Run("liked takes the unlike branch", func(t *testing.T) {
		likeRepo, posts, _, _, svc := newFixture()
		likeRepo.On("Exists", mock.Anything, userID, postID).Return(true, nil)
		posts.On("Exists", mock.Anything, postID).Return(true, nil)
		likeRepo.On("Delete", mock.Anything, userID, postID).Return(nil)
		posts.On("AddLikesCount", mock.Anything, postID, int64(-1)).Return(nil)

		status, err := svc.Toggle(context.Background(), userID, postID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusUnliked, status)
	})

	t.Run("losing the duplicate race still reports liked", func(t *testing.T) {
		likeRepo, posts, _, _, svc := newFixture()
		likeRepo.On("Exists", mock.Anything, userID, postID).Return(false, nil)
		posts.On("GetByID", mock.Anything, postID).Return(domain.Post{ID: postID, UserID: ownerID}, nil)
		likeRepo.On("Store", mock.Anything, mock.Anything).Return(domain.ErrConflict)

		status, err := svc.Toggle(context.Background(), userID, postID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusLiked, status)
		posts.AssertNotCalled(t, "AddLikesCount")
	})
}

func TestListLikers(t *testing.T) {
	postID := faker.UUIDHyphenated()

	t.Run("post not found", func(t *testing.T) {
		likeRepo, posts, _, _, svc := newFixture()
		posts.On("Exists", mock.Anything, postID).Return(false, nil)

		_, _, err := svc.ListLikers(context.Background(), postID, 20, 0)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		likeRepo.AssertNotCalled(t, "FetchByPost")
	})

	t.Run("preserves like ordering and fills user details", func(t *testing.T) {
		likeRepo, posts, users, _, svc := newFixture()
		first := domain.User{ID: faker.UUIDHyphenated(), Username: "first"}
		second := domain.User{ID: faker.UUIDHyphenated(), Username: "second"}

		posts.On("Exists", mock.Anything, postID).Return(true, nil)
		likeRepo.On("FetchByPost", mock.Anything, postID, 20, 0).Return([]domain.Like{
			{UserID: first.ID, PostID: postID},
			{UserID: second.ID, PostID: postID},
		}, int64(2), nil)
		// Lookup order inside a chunk is unspecified; output order is not.
		users.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.User{second, first}, nil)

		got, total, err := svc.ListLikers(context.Background(), postID, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, got, 2)
		assert.Equal(t, first.ID, got[0].ID)
		assert.Equal(t, second.ID, got[1].ID)
	})

	t.Run("user lookup failure surfaces", func(t *testing.T) {
		likeRepo, posts, users, _, svc := newFixture()
		posts.On("Exists", mock.Anything, postID).Return(true, nil)
		likeRepo.On("FetchByPost", mock.Anything, postID, 20, 0).Return([]domain.Like{
			{UserID: faker.UUIDHyphenated(), PostID: postID},
		}, int64(1), nil)
		users.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		_, _, err := svc.ListLikers(context.Background(), postID, 20, 0)
		assert.Error(t, err)
	})
}

func TestLikeUnlikeRestoresState(t *testing.T) {
	// like followed by unlike must shift the counter by +1 then -1.
	userID := faker.UUIDHyphenated()
	postID := faker.UUIDHyphenated()

	likeRepo, posts, _, _, svc := newFixture()
	posts.On("GetByID", mock.Anything, postID).Return(domain.Post{ID: postID, UserID: faker.UUIDHyphenated()}, nil)
	posts.On("Exists", mock.Anything, postID).Return(true, nil)
	likeRepo.On("Exists", mock.Anything, userID, postID).Return(false, nil)
	likeRepo.On("Store", mock.Anything, mock.Anything).Return(nil)
	likeRepo.On("Delete", mock.Anything, userID, postID).Return(nil)
	posts.On("AddLikesCount", mock.Anything, postID, int64(1)).Return(nil)
	posts.On("AddLikesCount", mock.Anything, postID, int64(-1)).Return(nil)

	_, err := svc.Like(context.Background(), userID, postID)
	require.NoError(t, err)
	_, err = svc.Unlike(context.Background(), userID, postID)
	require.NoError(t, err)

	posts.AssertCalled(t, "AddLikesCount", mock.Anything, postID, int64(1))
	posts.AssertCalled(t, "AddLikesCount", mock.Anything, postID, int64(-1))
	posts.AssertNumberOfCalls(t, "AddLikesCount", 2)
}
