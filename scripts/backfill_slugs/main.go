package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/blogapi/internal/config"
	"github.com/blogapi/internal/db"
	"github.com/blogapi/internal/search"
	"github.com/blogapi/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	var reindex bool
	flag.StringVar(&cfg.Database.Path, "db", cfg.Database.Path, "sqlite db path")
	flag.BoolVar(&reindex, "reindex", false, "push every live post to elasticsearch afterwards")
	flag.Parse()

	if err := db.Init(db.Options{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		DSN:      cfg.Database.DSN,
		LogLevel: cfg.LogLevel,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "init db: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	updated, err := service.NewTagService(db.DB).BackfillSlugs(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "backfill tag slugs: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("done: filled %d tag slugs\n", updated)

	if !reindex {
		return
	}
	if !cfg.Elasticsearch.Enabled() {
		fmt.Fprintln(os.Stderr, "reindex: ELASTICSEARCH_ADDR is not set")
		os.Exit(1)
	}
	es, err := search.NewElastic(cfg.Elasticsearch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "elasticsearch: %v\n", err)
		os.Exit(1)
	}
	if err := es.EnsureIndex(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ensure index: %v\n", err)
		os.Exit(1)
	}
	indexed, err := service.NewPostService(db.DB).WithIndexer(es).Reindex(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reindex: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("done: indexed %d posts into %s\n", indexed, es.Index)
}
