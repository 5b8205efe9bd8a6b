package handler

import (
	"github.com/blogapi/internal/db"
	"github.com/blogapi/internal/service"
	"github.com/gin-gonic/gin"
)

// postRequest 是创建与更新文章共用的请求体。
type postRequest struct {
	Title   string        `json:"title"`
	Slug    string        `json:"slug"`
	Content string        `json:"content"`
	Tags    []interface{} `json:"tags"`
	Status  string        `json:"status"`
}

func (r postRequest) input() service.PostInput {
	return service.PostInput{
		Title:   r.Title,
		Slug:    r.Slug,
		Content: r.Content,
		Tags:    stringList(r.Tags),
		Status:  r.Status,
	}
}

// ListPosts 获取文章分页列表
func (a *API) ListPosts(c *gin.Context) {
	page, err := a.posts.List(c.Request.Context(), pageRequest(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, page, "Posts retrieved.")
}

// SearchPosts 按标题搜索文章
func (a *API) SearchPosts(c *gin.Context) {
	posts, err := a.posts.Search(c.Request.Context(), service.SearchInput{Query: c.Query("query")})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, posts, "Posts retrieved.")
}

// GetPost 通过 slug 获取单篇文章
func (a *API) GetPost(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, postDetail{Post: post, Comments: post.Comments}, "Post retrieved.")
}

// postDetail 在详情中始终输出 comments 字段，列表接口则省略它。
type postDetail struct {
	*db.Post
	Comments []db.Comment `json:"comments"`
}

// CreatePost 创建新文章
func (a *API) CreatePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	var req postRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := a.posts.Create(c.Request.Context(), user, req.input())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, post, "Post created.")
}

// UpdatePost 更新文章
func (a *API) UpdatePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	id, ok := idParam(c, "Post not found.")
	if !ok {
		return
	}

	var req postRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := a.posts.Update(c.Request.Context(), user, id, req.input())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, post, "Post updated.")
}

// DeletePost 删除文章（软删除）
func (a *API) DeletePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	id, ok := idParam(c, "Post not found.")
	if !ok {
		return
	}

	if err := a.posts.Delete(c.Request.Context(), user, id); err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, []interface{}{}, "Post deleted.")
}
