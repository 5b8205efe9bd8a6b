package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr      string
	Port            string
	GinMode         string
	LogLevel        string
	SessionSecret   string
	DefaultPageSize int
	PostOwnerOnly   bool
	CORSOrigins     []string

	Database      DatabaseConfig
	Redis         RedisConfig
	Elasticsearch ElasticsearchConfig
	TokenTTL      time.Duration

	SuperRootName     string
	SuperRootEmail    string
	SuperRootPassword string
}

// DatabaseConfig selects the gorm dialector and its connection target.
type DatabaseConfig struct {
	Driver string
	Path   string
	DSN    string
}

// minSessionSecretLen is the shortest SESSION_SECRET accepted for signing cookies.
const minSessionSecretLen = 32

// SessionsEnabled reports whether cookie sessions may authenticate requests.
func (c AppConfig) SessionsEnabled() bool {
	return c.SessionSecret != ""
}

// Validate rejects settings the server must not start with.
func (c AppConfig) Validate() error {
	if c.SessionsEnabled() && len(c.SessionSecret) < minSessionSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLen)
	}
	return nil
}

// RedisConfig 为空地址时表示使用数据库存储访问令牌。
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a redis token store should be used.
func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

// ElasticsearchConfig 为空地址时搜索回退到 SQL LIKE。
type ElasticsearchConfig struct {
	Addr     string
	Username string
	Password string
	Index    string
}

// Enabled reports whether posts should be mirrored to Elasticsearch.
func (c ElasticsearchConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("POST_OWNER_ONLY", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_PATH", "blog.db")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ELASTICSEARCH_INDEX", "posts")
	v.SetDefault("TOKEN_TTL", "0s")

	port := strings.TrimSpace(v.GetString("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(v.GetString("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	pageSize := v.GetInt("DEFAULT_PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 10
	}

	return AppConfig{
		ListenAddr:      listenAddr,
		Port:            port,
		GinMode:         strings.TrimSpace(v.GetString("GIN_MODE")),
		LogLevel:        strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		SessionSecret:   strings.TrimSpace(v.GetString("SESSION_SECRET")),
		DefaultPageSize: pageSize,
		PostOwnerOnly:   v.GetBool("POST_OWNER_ONLY"),
		CORSOrigins:     splitCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
		Database: DatabaseConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_DRIVER"))),
			Path:   strings.TrimSpace(v.GetString("DATABASE_PATH")),
			DSN:    strings.TrimSpace(v.GetString("DATABASE_DSN")),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Elasticsearch: ElasticsearchConfig{
			Addr:     strings.TrimSpace(v.GetString("ELASTICSEARCH_ADDR")),
			Username: strings.TrimSpace(v.GetString("ELASTICSEARCH_USERNAME")),
			Password: v.GetString("ELASTICSEARCH_PASSWORD"),
			Index:    strings.TrimSpace(v.GetString("ELASTICSEARCH_INDEX")),
		},
		TokenTTL:          v.GetDuration("TOKEN_TTL"),
		SuperRootName:     strings.TrimSpace(v.GetString("SUPER_ROOT_NAME")),
		SuperRootEmail:    strings.TrimSpace(v.GetString("SUPER_ROOT_EMAIL")),
		SuperRootPassword: strings.TrimSpace(v.GetString("SUPER_ROOT_PASSWORD")),
	}
}

func splitCSV(value string) []string {
	raw := strings.Split(value, ",")
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
