package handler

import (
	"log"

	"github.com/blogapi/internal/db"
	"github.com/blogapi/internal/service"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register 注册新用户并返回访问令牌。
func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := a.users.Register(c.Request.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	a.rememberSession(c, result.User)
	respondOK(c, authPayload(result), "User registered.")
}

// Login 校验账号密码并签发新的访问令牌。
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := a.users.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	a.rememberSession(c, result.User)
	respondOK(c, authPayload(result), "Logged in.")
}

// Logout revokes the presented token and clears the session.
func (a *API) Logout(c *gin.Context) {
	if token := c.GetString(tokenContextKey); token != "" {
		if err := a.users.Logout(c.Request.Context(), token); err != nil {
			writeServiceError(c, err)
			return
		}
	}

	if session := sessionFrom(c); session != nil {
		session.Clear()
		if err := session.Save(); err != nil {
			log.Printf("[AUTH] failed to clear session: %v", err)
		}
	}

	respondOK(c, []interface{}{}, "Logged out.")
}

func (a *API) rememberSession(c *gin.Context, user db.User) {
	session := sessionFrom(c)
	if session == nil {
		return
	}
	session.Set(sessionUserIDKey, user.ID)
	if err := session.Save(); err != nil {
		log.Printf("[AUTH] failed to save session: %v", err)
	}
}

func authPayload(result *service.AuthResult) gin.H {
	return gin.H{
		"token": result.Token,
		"id":    result.User.ID,
		"name":  result.User.Name,
		"email": result.User.Email,
	}
}
