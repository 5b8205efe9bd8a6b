package handler

import (
	"github.com/gin-gonic/gin"
)

// ListTags 获取标签列表
func (a *API) ListTags(c *gin.Context) {
	tags, err := a.tags.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, tags, "Tags retrieved.")
}

// GetTagPosts 获取某个标签下的文章
func (a *API) GetTagPosts(c *gin.Context) {
	page, err := a.posts.ListByTag(c.Request.Context(), c.Param("slug"), pageRequest(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, page, "Posts retrieved.")
}
