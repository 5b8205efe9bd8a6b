// Package search mirrors posts into Elasticsearch for title search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/blogapi/internal/config"
	"github.com/blogapi/internal/db"
	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// maxHits caps how many ids one title search returns.
const maxHits = 500

// Elastic implements service.PostIndexer.
type Elastic struct {
	Client *elasticsearch.Client
	Index  string
}

// postDocument 是写入索引的文档结构。
type postDocument struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	Tags      []string  `json:"tags"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// NewElastic creates a client for cfg. It does not contact the cluster.
func NewElastic(cfg config.ElasticsearchConfig) (*Elastic, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.Addr},
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}
	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, err
	}
	index := cfg.Index
	if index == "" {
		index = "posts"
	}
	return &Elastic{Client: client, Index: index}, nil
}

// EnsureIndex creates the posts index with its mapping when missing.
func (e *Elastic) EnsureIndex(ctx context.Context) error {
	res, err := e.Client.Indices.Exists([]string{e.Index}, e.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id": map[string]string{"type": "long"},
				"title": map[string]interface{}{
					"type": "text",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 512},
					},
				},
				"slug":       map[string]string{"type": "keyword"},
				"content":    map[string]string{"type": "text"},
				"status":     map[string]string{"type": "keyword"},
				"tags":       map[string]string{"type": "keyword"},
				"user_id":    map[string]string{"type": "long"},
				"created_at": map[string]string{"type": "date"},
			},
		},
	}
	body, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	createRes, err := e.Client.Indices.Create(
		e.Index,
		e.Client.Indices.Create.WithContext(ctx),
		e.Client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return err
	}
	defer createRes.Body.Close()
	if createRes.IsError() {
		return fmt.Errorf("create index %s: %s", e.Index, createRes.String())
	}
	return nil
}

// IndexPost upserts post under its id.
func (e *Elastic) IndexPost(ctx context.Context, post db.Post) error {
	tags := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, tag.Name)
	}
	body, err := json.Marshal(postDocument{
		ID:        post.ID,
		Title:     post.Title,
		Slug:      post.Slug,
		Content:   post.Content,
		Status:    post.Status,
		Tags:      tags,
		UserID:    post.UserID,
		CreatedAt: post.CreatedAt,
	})
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      e.Index,
		DocumentID: strconv.FormatUint(uint64(post.ID), 10),
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, e.Client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index post %d: %s", post.ID, res.String())
	}
	return nil
}

// RemovePost deletes the document for id; a missing document is not an error.
func (e *Elastic) RemovePost(ctx context.Context, id uint) error {
	req := esapi.DeleteRequest{
		Index:      e.Index,
		DocumentID: strconv.FormatUint(uint64(id), 10),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, e.Client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete post %d: %s", id, res.String())
	}
	return nil
}

// SearchTitles returns ids of posts whose title contains query, newest first.
func (e *Elastic) SearchTitles(ctx context.Context, query string) ([]uint, error) {
	body, err := json.Marshal(titleQuery(query))
	if err != nil {
		return nil, err
	}

	res, err := e.Client.Search(
		e.Client.Search.WithContext(ctx),
		e.Client.Search.WithIndex(e.Index),
		e.Client.Search.WithBody(bytes.NewReader(body)),
		e.Client.Search.WithSize(maxHits),
		e.Client.Search.WithTimeout(10*time.Second),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// titleQuery matches the substring semantics of SQL LIKE '%q%' on the keyword subfield.
func titleQuery(query string) map[string]interface{} {
	escaped := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`).Replace(strings.TrimSpace(query))
	return map[string]interface{}{
		"query": map[string]interface{}{
			"wildcard": map[string]interface{}{
				"title.keyword": map[string]interface{}{
					"value":            "*" + escaped + "*",
					"case_insensitive": true,
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"created_at": map[string]string{"order": "desc"}},
		},
	}
}
