package handler

import (
	"github.com/gin-gonic/gin"
)

// GetUser 返回单个用户的公开信息。
func (a *API) GetUser(c *gin.Context) {
	id, ok := idParam(c, "User not found.")
	if !ok {
		return
	}

	user, err := a.users.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, user, "User retrieved.")
}

// GetAuthorPosts lists a user's posts, paginated.
func (a *API) GetAuthorPosts(c *gin.Context) {
	id, ok := idParam(c, "User not found.")
	if !ok {
		return
	}

	page, err := a.posts.ListByAuthor(c.Request.Context(), id, pageRequest(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, page, "Posts retrieved.")
}
