package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/blogapi/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

func respondOK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, gin.H{
		"status":  statusOK,
		"data":    data,
		"message": message,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"status":  statusError,
		"message": message,
	})
}

func respondValidation(c *gin.Context, fields service.FieldErrors) {
	message := "The given data was invalid."
	if len(fields) > 0 {
		message = fields[0].Message
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"status":  statusError,
		"message": message,
		"data":    fields,
	})
}

// writeServiceError 将 service 层错误映射为 HTTP 状态码与统一的错误信封。
func writeServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondValidation(c, verr.Fields)
	case errors.Is(err, service.ErrSlugExists):
		respondValidation(c, service.FieldErrors{{Field: "slug", Message: "The slug has already been taken."}})
	case errors.Is(err, service.ErrSlugEmpty):
		respondValidation(c, service.FieldErrors{{Field: "title", Message: "The title field must contain letters or digits."}})
	case errors.Is(err, service.ErrEmailExists):
		respondValidation(c, service.FieldErrors{{Field: "email", Message: "The email has already been taken."}})
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid credentials.")
	case errors.Is(err, service.ErrInvalidToken):
		respondError(c, http.StatusUnauthorized, "Unauthenticated.")
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, "This action is unauthorized.")
	case errors.Is(err, service.ErrPostNotFound):
		respondError(c, http.StatusNotFound, "Post not found.")
	case errors.Is(err, service.ErrTagNotFound):
		respondError(c, http.StatusNotFound, "Tag not found.")
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "User not found.")
	case errors.Is(err, service.ErrCommentNotFound):
		respondError(c, http.StatusNotFound, "Comment not found.")
	default:
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "Internal server error.")
	}
}
