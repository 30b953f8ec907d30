package domain

import (
	"context"
	"time"
)

// LikeStatus is the outcome reported to the caller of a like mutation.
type LikeStatus string

const (
	StatusLiked   LikeStatus = "liked"
	StatusUnliked LikeStatus = "unliked"
)

// Like is representing a like record. At most one row may exist per
// (UserID, PostID) pair; the store's uniqueness constraint is the
// authoritative guard, any application-level check is advisory only.
type Like struct {
	UserID    string
	PostID    string
	CreatedAt time.Time
}

// LikeRepository defines the contract for like-row persistence.
type LikeRepository interface {
	// Store inserts the like row.
	// Returns ErrConflict when the uniqueness constraint rejects a duplicate,
	// including duplicates created by a concurrent request.
	Store(ctx context.Context, l *Like) error

	// Delete removes the like row for (userID, postID).
	// Returns ErrNotFound if no such row exists.
	Delete(ctx context.Context, userID, postID string) error

	// Exists reports whether the user has liked the post.
	Exists(ctx context.Context, userID, postID string) (bool, error)

	// FetchByPost retrieves like rows for a post ordered by creation time
	// descending, together with the total like count for pagination.
	FetchByPost(ctx context.Context, postID string, limit, offset int) ([]Like, int64, error)

	// FilterLiked returns, out of postIDs, the subset liked by the user
	// using a single IN query.
	FilterLiked(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
}

// LikeUsecase is the like-toggle engine contract.
type LikeUsecase interface {
	// Like records a like for (userID, postID).
	// Returns ErrNotFound if the post doesn't exist and ErrConflict if the
	// pair is already liked, whether detected up front or lost in a race at
	// the uniqueness constraint.
	Like(ctx context.Context, userID, postID string) (LikeStatus, error)

	// Unlike removes an existing like.
	// Returns ErrNotFound if the post doesn't exist or was never liked.
	Unlike(ctx context.Context, userID, postID string) (LikeStatus, error)

	// Toggle flips the caller's like state. Losing a duplicate-insert race on
	// the like branch still reports StatusLiked: the desired end state holds.
	Toggle(ctx context.Context, userID, postID string) (LikeStatus, error)

	HasLiked(ctx context.Context, userID, postID string) (bool, error)
	LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)

	// ListLikers returns the users who liked the post, most recent first,
	// with the total count. Returns ErrNotFound if the post doesn't exist.
	ListLikers(ctx context.Context, postID string, limit, offset int) ([]User, int64, error)
}
