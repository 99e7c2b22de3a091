package main

import (
	"context"
	"errors"

	"github.com/devblog-next/internal/config"
	"github.com/devblog-next/internal/constants"
	"github.com/devblog-next/internal/logger"
	"github.com/devblog-next/internal/models"
	"github.com/devblog-next/internal/repository"
	"github.com/devblog-next/internal/service"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogLevel, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	})
	if err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	defer models.CloseDB(db)

	// 自动迁移
	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	repo := repository.NewPostRepository(db)
	posts := service.NewPostService(repo, nil, service.NewMarkdownRenderer(), cfg.Blog)
	ctx := context.Background()

	seeds := []service.CreatePostInput{
		{
			Title:       "Getting Started with Go Modules",
			Description: "A short tour of go.mod, go.sum and module versioning.",
			Content:     "# Go Modules\n\nModules are the unit of versioning in Go.\n\n```go\nmodule example.com/hello\n```\n",
			Status:      constants.PostStatusPublished,
			Tags:        []string{"go", "tooling"},
		},
		{
			Title:       "Designing Paginated APIs",
			Description: "Offset pagination, totals and the hasMore flag.",
			Content:     "## Pagination\n\nReturn the page, the total and whether more rows exist.\n",
			Status:      constants.PostStatusPublished,
			Tags:        []string{"api", "backend"},
		},
		{
			Title:       "Notes on Markdown Rendering",
			Description: "Draft notes about sanitizing rendered HTML.",
			Content:     "Always sanitize HTML produced from user supplied Markdown.\n",
			Status:      constants.PostStatusDraft,
			Tags:        []string{"markdown", "security"},
		},
	}

	for _, seed := range seeds {
		post, err := posts.Create(ctx, seed)
		if errors.Is(err, service.ErrSlugExists) {
			stdLog.Printf("Post already exists: %s", seed.Title)
			continue
		}
		if err != nil {
			stdLog.Printf("Failed to create post %s: %v", seed.Title, err)
			continue
		}
		stdLog.Printf("Created post: %s (%s)", post.Slug, post.Status)
	}

	stdLog.Println("Seed completed")
}
