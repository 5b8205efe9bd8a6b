package handler

import (
	"github.com/blogapi/internal/service"
	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	PostID  uint   `json:"post_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Comment string `json:"comment"`
	ReplyTo *uint  `json:"reply_to"`
	Status  string `json:"status"`
}

func (r commentRequest) input() service.CommentInput {
	return service.CommentInput{
		PostID:  r.PostID,
		Name:    r.Name,
		Email:   r.Email,
		Body:    r.Comment,
		ReplyTo: r.ReplyTo,
		Status:  r.Status,
	}
}

// ListComments 返回评论分页列表，最新的在前。
func (a *API) ListComments(c *gin.Context) {
	page, err := a.comments.List(c.Request.Context(), pageRequest(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, page, "Comments retrieved.")
}

// GetComment 获取单条评论
func (a *API) GetComment(c *gin.Context) {
	id, ok := idParam(c, "Comment not found.")
	if !ok {
		return
	}

	comment, err := a.comments.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, comment, "Comment retrieved.")
}

// CreateComment 创建评论，初始状态为待审核。
func (a *API) CreateComment(c *gin.Context) {
	var req commentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := a.comments.Create(c.Request.Context(), req.input())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, comment, "Comment created.")
}

// UpdateComment 更新评论
func (a *API) UpdateComment(c *gin.Context) {
	id, ok := idParam(c, "Comment not found.")
	if !ok {
		return
	}

	var req commentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := a.comments.Update(c.Request.Context(), id, req.input())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, comment, "Comment updated.")
}

// DeleteComment 删除评论
func (a *API) DeleteComment(c *gin.Context) {
	id, ok := idParam(c, "Comment not found.")
	if !ok {
		return
	}

	if err := a.comments.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, []interface{}{}, "Comment deleted.")
}
