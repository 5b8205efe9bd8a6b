package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/blogapi/internal/config"
	"github.com/blogapi/internal/db"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	name := flag.String("name", "admin", "display name")
	email := flag.String("email", "admin@example.com", "login email")
	password := flag.String("password", "admin123", "login password")
	flag.Parse()

	// 初始化数据库
	if err := db.Init(db.Options{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		DSN:      cfg.Database.DSN,
		LogLevel: cfg.LogLevel,
	}); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	var count int64
	db.DB.Model(&db.User{}).Where("email = ?", *email).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，无需初始化")
		return
	}

	if err := db.EnsureUser(db.DB, *name, *email, *password); err != nil {
		log.Fatal("创建用户失败:", err)
	}

	fmt.Println("默认管理员用户创建成功")
	fmt.Println("邮箱:", *email)
	fmt.Println("密码:", *password)
}
