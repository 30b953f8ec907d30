package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/go-social-feed/domain"
	"github.com/Guyuepp/go-social-feed/internal/rest/request"
	"github.com/Guyuepp/go-social-feed/internal/rest/response"
)

// PostHandler represent the http handler for posts
type PostHandler struct {
	Service domain.PostUsecase
}

func NewPostHandler(svc domain.PostUsecase) *PostHandler {
	return &PostHandler{
		Service: svc,
	}
}

// Store will create a post by given request body
func (h *PostHandler) Store(c *gin.Context) {
	var req request.CreatePost
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newResponseError(http.StatusBadRequest, err.Error()))
		return
	}

	post, err := h.Service.Create(c.Request.Context(), callerID(c), req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success("Post created successfully", response.NewPostFromDomain(&post)))
}

// GetByID will get post by given id
func (h *PostHandler) GetByID(c *gin.Context) {
	post, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success("Post fetched successfully", response.NewPostFromDomain(&post)))
}

// Fetch will fetch posts newest-first, annotated with the caller's like state.
func (h *PostHandler) Fetch(c *gin.Context) {
	page, limit, offset := pagination(c)

	posts, total, err := h.Service.Fetch(c.Request.Context(), callerID(c), limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}

	items := make([]response.Post, len(posts))
	for i := range posts {
		items[i] = response.NewPostFromDomain(&posts[i])
	}
	c.JSON(http.StatusOK, response.NewPaginated(items, total, page, limit))
}

// Update edits the post body under the optimistic version guard; a stale
// version is a 409.
func (h *PostHandler) Update(c *gin.Context) {
	var req request.UpdatePost
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newResponseError(http.StatusBadRequest, err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, newResponseError(http.StatusBadRequest, err.Error()))
		return
	}

	post := req.ToDomain(c.Param("id"))
	if err := h.Service.UpdateContent(c.Request.Context(), &post); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success("Post updated successfully", gin.H{"version": post.Version}))
}
