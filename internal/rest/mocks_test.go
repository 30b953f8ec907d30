package rest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/go-social-feed/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asUser mimics the identity middleware for handler tests.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func serve(t *testing.T, router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type mockLikeUsecase struct {
	mock.Mock
}

func (m *mockLikeUsecase) Like(ctx context.Context, userID, postID string) (domain.LikeStatus, error) {
	args := m.Called(ctx, userID, postID)
	return args.Get(0).(domain.LikeStatus), args.Error(1)
}

func (m *mockLikeUsecase) Unlike(ctx context.Context, userID, postID string) (domain.LikeStatus, error) {
	args := m.Called(ctx, userID, postID)
	return args.Get(0).(domain.LikeStatus), args.Error(1)
}

func (m *mockLikeUsecase) Toggle(ctx context.Context, userID, postID string) (domain.LikeStatus, error) {
	args := m.Called(ctx, userID, postID)
	return args.Get(0).(domain.LikeStatus), args.Error(1)
}

func (m *mockLikeUsecase) HasLiked(ctx context.Context, userID, postID string) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLikeUsecase) LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	args := m.Called(ctx, userID, postIDs)
	res, _ := args.Get(0).(map[string]bool)
	return res, args.Error(1)
}

func (m *mockLikeUsecase) ListLikers(ctx context.Context, postID string, limit, offset int) ([]domain.User, int64, error) {
	args := m.Called(ctx, postID, limit, offset)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Get(1).(int64), args.Error(2)
}

type mockPostUsecase struct {
	mock.Mock
}

func (m *mockPostUsecase) Create(ctx context.Context, userID, content string) (domain.Post, error) {
	args := m.Called(ctx, userID, content)
	return args.Get(0).(domain.Post), args.Error(1)
}

func (m *mockPostUsecase) GetByID(ctx context.Context, id string) (domain.Post, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Post), args.Error(1)
}

func (m *mockPostUsecase) Fetch(ctx context.Context, viewerID string, limit, offset int) ([]domain.Post, int64, error) {
	args := m.Called(ctx, viewerID, limit, offset)
	posts, _ := args.Get(0).([]domain.Post)
	return posts, args.Get(1).(int64), args.Error(2)
}

func (m *mockPostUsecase) UpdateContent(ctx context.Context, p *domain.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPostUsecase) InitBloomFilter(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockNotificationUsecase struct {
	mock.Mock
}

func (m *mockNotificationUsecase) Create(ctx context.Context, userID string, typ domain.NotificationType, data map[string]any) (domain.Notification, error) {
	args := m.Called(ctx, userID, typ, data)
	return args.Get(0).(domain.Notification), args.Error(1)
}

func (m *mockNotificationUsecase) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	ns, _ := args.Get(0).([]domain.Notification)
	return ns, args.Get(1).(int64), args.Error(2)
}

func (m *mockNotificationUsecase) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockNotificationUsecase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
