package domain

import (
	"context"
	"time"
)

// Post is representing the Post data struct.
//
// LikesCount is a denormalized counter kept consistent with the likes table
// through atomic relative updates only. Version backs optimistic locking for
// content edits; the counter path never reads it.
type Post struct {
	ID            string    // Opaque UUID-shaped identifier
	UserID        string    // Owner of the post
	Content       string    // Post body
	LikesCount    int64     // Denormalized like counter
	CommentsCount int64     // Denormalized comment counter
	Version       int64     // Optimistic-lock version, bumped on content edits
	CreatedAt     time.Time // Creation timestamp
	UpdatedAt     time.Time // Last update timestamp

	// LikedByViewer is filled in by the service layer when a viewer is known.
	// It is never persisted.
	LikedByViewer bool
}

// PostRepository defines the contract for post persistence.
type PostRepository interface {
	// Store creates a new post and backfills ID and timestamps.
	Store(ctx context.Context, p *Post) error

	// GetByID retrieves a single post.
	// Returns ErrNotFound if the post doesn't exist.
	GetByID(ctx context.Context, id string) (Post, error)

	// Fetch retrieves posts ordered by creation time descending, together
	// with the total number of posts for pagination.
	Fetch(ctx context.Context, limit, offset int) ([]Post, int64, error)

	// Exists reports whether a post with the given ID exists.
	Exists(ctx context.Context, id string) (bool, error)

	// FetchIDs pages through post IDs (id > cursor, ascending), used to warm
	// the bloom filter at startup.
	FetchIDs(ctx context.Context, cursor string, limit int) ([]string, error)

	// AddLikesCount shifts the denormalized counter by delta using a single
	// relative-update statement, floored at zero. Never read-modify-write.
	AddLikesCount(ctx context.Context, id string, delta int64) error

	// UpdateContent edits the post body guarded by the optimistic version.
	// Returns ErrConflict if the stored version no longer matches.
	UpdateContent(ctx context.Context, p *Post) error
}

// PostCounter is the capability the like engine needs from the post side:
// existence/ownership lookups and atomic counter mutation. Keeping it narrow
// avoids a compile-time cycle between the like and post components.
type PostCounter interface {
	GetByID(ctx context.Context, id string) (Post, error)
	Exists(ctx context.Context, id string) (bool, error)
	AddLikesCount(ctx context.Context, id string, delta int64) error
}

// LikeQuery is the capability the post side needs from the like component,
// used to annotate fetched posts with the viewer's like state.
type LikeQuery interface {
	// LikedPostIDs returns, out of postIDs, the subset the user has liked.
	// One set-membership query, not N lookups.
	LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
}

// PostUsecase defines the business logic contract for post operations.
type PostUsecase interface {
	Create(ctx context.Context, userID, content string) (Post, error)
	GetByID(ctx context.Context, id string) (Post, error)
	// Fetch returns a page of posts. When viewerID is non-empty each post is
	// annotated with LikedByViewer.
	Fetch(ctx context.Context, viewerID string, limit, offset int) ([]Post, int64, error)
	UpdateContent(ctx context.Context, p *Post) error
}
