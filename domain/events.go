package domain

import "context"

// EventPostLiked is published after a like has been committed, unless the
// liker is the post owner.
const EventPostLiked = "post.liked"

// PostLikedEvent carries the data subscribers need to react to a new like.
type PostLikedEvent struct {
	PostID      string
	UserID      string // The user who liked
	PostOwnerID string // The user to notify
}

// EventHandler reacts to a published event. A returned error is logged by the
// bus and never propagated back to the publisher: by the time an event fires
// the triggering writes are already committed.
type EventHandler func(ctx context.Context, payload any) error

// EventBus is an in-process, synchronous fan-out publish/subscribe channel.
// Handlers run in the publisher's goroutine; durability and retry for
// anything long-lived belongs downstream in the job queue.
type EventBus interface {
	Publish(ctx context.Context, name string, payload any)
	Subscribe(name string, h EventHandler)
}
