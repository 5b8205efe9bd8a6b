package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/blogapi/internal/db"
	"github.com/blogapi/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	userContextKey    = "user"
	tokenContextKey   = "token"
	sessionUserIDKey  = "user_id"
	bearerTokenPrefix = "bearer "
)

// AuthRequired 校验 Bearer Token；没有 Token 时回退到会话中的 user_id。
// 会话仅在启用了会话中间件且请求无法被跨站表单伪造时生效。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if token := bearerToken(c); token != "" {
			user, err := a.users.Authenticate(ctx, token)
			if err != nil {
				if !errors.Is(err, service.ErrInvalidToken) {
					log.Printf("[AUTH] token lookup failed: %v", err)
				}
				abortUnauthenticated(c)
				return
			}
			c.Set(userContextKey, *user)
			c.Set(tokenContextKey, token)
			c.Next()
			return
		}

		if session := sessionFrom(c); session != nil && sessionAllowed(c) {
			if id, ok := session.Get(sessionUserIDKey).(uint); ok && id != 0 {
				user, err := a.users.Get(ctx, id)
				if err == nil {
					c.Set(userContextKey, *user)
					c.Next()
					return
				}
				session.Delete(sessionUserIDKey)
				_ = session.Save()
			}
		}

		abortUnauthenticated(c)
	}
}

// sessionAllowed 拒绝浏览器可以跨站直接提交的"简单请求"：非 JSON 请求体的 GET/HEAD/POST。
func sessionAllowed(c *gin.Context) bool {
	switch c.Request.Method {
	case http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return c.ContentType() == gin.MIMEJSON
}

func abortUnauthenticated(c *gin.Context) {
	respondError(c, http.StatusUnauthorized, "Unauthenticated.")
	c.Abort()
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) <= len(bearerTokenPrefix) || !strings.EqualFold(header[:len(bearerTokenPrefix)], bearerTokenPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerTokenPrefix):])
}

// sessionFrom returns nil when the sessions middleware is not installed.
func sessionFrom(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}

func currentUser(c *gin.Context) (db.User, bool) {
	value, ok := c.Get(userContextKey)
	if !ok {
		return db.User{}, false
	}
	user, ok := value.(db.User)
	return user, ok
}
