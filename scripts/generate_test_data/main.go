package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/blogapi/internal/config"
	"github.com/blogapi/internal/db"
	"github.com/blogapi/internal/service"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type seedPost struct {
	title   string
	content string
	tags    []string
	status  string
}

var seedPosts = []seedPost{
	{
		title:   "Building Fast Web Services in Go",
		content: "Go 的并发模型和简洁语法让它非常适合构建 Web 服务。\n\n## 要点\n- 框架选择\n- 性能优化\n- 实际案例",
		tags:    []string{"技术", "Go", "Web"},
		status:  db.PostStatusPublish,
	},
	{
		title:   "Notes on Database Indexes",
		content: "合理的索引设计是性能的基础。本文记录部分索引与唯一约束的使用方式。",
		tags:    []string{"数据库", "教程"},
		status:  db.PostStatusPublish,
	},
	{
		title:   "Weekly Review",
		content: "记录这一周的思考与生活。",
		tags:    []string{"生活", "思考"},
		status:  db.PostStatusDraft,
	},
	{
		title:   "Building Fast Web Services in Go",
		content: "同名文章用于演示 slug 自动追加序号。",
		tags:    []string{"Go", "项目"},
		status:  db.PostStatusPublish,
	},
}

type seedSummary struct {
	Posts    int
	Comments int
}

// 测试数据生成器
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// 初始化数据库
	if err := db.Init(db.Options{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		DSN:      cfg.Database.DSN,
		LogLevel: cfg.LogLevel,
	}); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")
	summary, err := seed(context.Background(), db.DB)
	if err != nil {
		log.Fatal("生成测试数据失败:", err)
	}

	fmt.Println("测试数据生成完成！")
	fmt.Println("用户: admin@example.com (密码: admin123)")
	fmt.Printf("文章: %d 篇, 评论: %d 条\n", summary.Posts, summary.Comments)
}

// seed 创建管理员、示例文章与评论；已有文章时跳过。
func seed(ctx context.Context, gdb *gorm.DB) (seedSummary, error) {
	var summary seedSummary

	if err := db.EnsureUser(gdb, "admin", "admin@example.com", "admin123"); err != nil {
		return summary, fmt.Errorf("ensure admin: %w", err)
	}
	var admin db.User
	if err := gdb.Where("email = ?", "admin@example.com").First(&admin).Error; err != nil {
		return summary, fmt.Errorf("load admin: %w", err)
	}

	var existing int64
	if err := gdb.Model(&db.Post{}).Count(&existing).Error; err != nil {
		return summary, err
	}
	if existing > 0 {
		fmt.Println("文章已存在，跳过创建")
		return summary, nil
	}

	posts := service.NewPostService(gdb)
	comments := service.NewCommentService(gdb)

	for _, sp := range seedPosts {
		post, err := posts.Create(ctx, admin, service.PostInput{
			Title:   sp.title,
			Content: sp.content,
			Tags:    sp.tags,
			Status:  sp.status,
		})
		if err != nil {
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				return summary, fmt.Errorf("seed post %q: %v", sp.title, verr.Messages())
			}
			return summary, fmt.Errorf("seed post %q: %w", sp.title, err)
		}
		summary.Posts++
		fmt.Printf("✅ %s -> /post/%s\n", post.Title, post.Slug)

		if post.Status != db.PostStatusPublish {
			continue
		}
		if _, err := comments.Create(ctx, service.CommentInput{
			PostID: post.ID,
			Name:   "读者",
			Email:  "reader@example.com",
			Body:   "写得很好，期待更多内容！",
		}); err != nil {
			return summary, fmt.Errorf("seed comment: %w", err)
		}
		summary.Comments++
	}

	return summary, nil
}
