package router

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/blogapi/internal/config"
	"github.com/blogapi/internal/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader   = "X-Request-ID"
	sessionCookieName = "blog_session"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig, api *handler.API) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestID())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// 未配置 SESSION_SECRET 时不启用会话，只接受 Bearer Token
	if cfg.SessionsEnabled() {
		store := cookie.NewStore([]byte(cfg.SessionSecret))
		store.Options(sessions.Options{
			Path:     "/",
			MaxAge:   7 * 24 * 60 * 60,
			HttpOnly: true,
			Secure:   cfg.GinMode == gin.ReleaseMode,
			SameSite: http.SameSiteStrictMode,
		})
		r.Use(sessions.Sessions(sessionCookieName, store))
	}

	r.GET("/ping", api.Ping)
	r.GET("/healthz", api.HealthCheck)

	r.POST("/register", api.Register)
	r.POST("/login", api.Login)

	r.GET("/user/:id", api.GetUser)
	r.GET("/author/:id", api.GetAuthorPosts)

	r.GET("/posts", api.ListPosts)
	r.GET("/post/search", api.SearchPosts)
	r.GET("/post/:slug", api.GetPost)

	r.GET("/tags", api.ListTags)
	r.GET("/tag/:slug", api.GetTagPosts)

	r.GET("/comments", api.ListComments)
	r.POST("/comment", api.CreateComment)
	r.GET("/comment/:id", api.GetComment)
	r.PUT("/comment/:id", api.UpdateComment)

	// 需要认证的路由
	auth := r.Group("")
	auth.Use(api.AuthRequired())
	{
		auth.POST("/logout", api.Logout)

		auth.POST("/post", api.CreatePost)
		auth.PUT("/post/:id", api.UpdatePost)
		auth.DELETE("/post/:id", api.DeletePost)

		auth.DELETE("/comment/:id", api.DeleteComment)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Not found."})
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// requestID 为每个请求附加 X-Request-ID，客户端已提供时沿用。
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
