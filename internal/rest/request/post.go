package request

import (
	"github.com/go-playground/validator/v10"

	"github.com/Guyuepp/go-social-feed/domain"
)

var validate = validator.New()

type CreatePost struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type UpdatePost struct {
	Content string `json:"content" validate:"required,max=5000"`
	Version int64  `json:"version" validate:"required,min=1"`
}

func (r *UpdatePost) Validate() error {
	return validate.Struct(r)
}

// ToDomain: Request -> Domain
func (r *UpdatePost) ToDomain(postID string) domain.Post {
	return domain.Post{
		ID:      postID,
		Content: r.Content,
		Version: r.Version,
	}
}
