package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/blogapi/internal/config"
	"github.com/blogapi/internal/db"
)

type fakeCluster struct {
	mu       sync.Mutex
	indexed  map[string][]byte
	created  bool
	lastBody string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	body, _ := io.ReadAll(r.Body)

	switch {
	case r.Method == http.MethodHead && r.URL.Path == "/posts":
		if f.created {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPut && r.URL.Path == "/posts":
		f.created = true
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/posts/_doc/"):
		if f.indexed == nil {
			f.indexed = map[string][]byte{}
		}
		f.indexed[strings.TrimPrefix(r.URL.Path, "/posts/_doc/")] = body
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/posts/_doc/"):
		id := strings.TrimPrefix(r.URL.Path, "/posts/_doc/")
		if _, ok := f.indexed[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		delete(f.indexed, id)
		_, _ = w.Write([]byte(`{"result":"deleted"}`))
	case r.URL.Path == "/posts/_search":
		f.lastBody = string(body)
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"7"},{"_id":"bogus"},{"_id":"3"}]}}`))
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"unexpected request"}`))
	}
}

func newTestElastic(t *testing.T) (*Elastic, *fakeCluster) {
	t.Helper()
	cluster := &fakeCluster{}
	server := httptest.NewServer(cluster)
	t.Cleanup(server.Close)

	es, err := NewElastic(config.ElasticsearchConfig{Addr: server.URL})
	if err != nil {
		t.Fatalf("new elastic: %v", err)
	}
	return es, cluster
}

func TestElasticEnsureIndexCreatesOnce(t *testing.T) {
	es, cluster := newTestElastic(t)

	if err := es.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("ensure index: %v", err)
	}
	if !cluster.created {
		t.Fatalf("expected index to be created")
	}
	if err := es.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("ensure existing index: %v", err)
	}
}

func TestElasticIndexAndRemovePost(t *testing.T) {
	es, cluster := newTestElastic(t)
	ctx := context.Background()

	post := db.Post{ID: 7, Title: "Hello", Slug: "hello", Tags: []db.Tag{{Name: "go"}}}
	if err := es.IndexPost(ctx, post); err != nil {
		t.Fatalf("index post: %v", err)
	}

	var doc postDocument
	if err := json.Unmarshal(cluster.indexed["7"], &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if doc.Title != "Hello" || len(doc.Tags) != 1 || doc.Tags[0] != "go" {
		t.Fatalf("unexpected document: %+v", doc)
	}

	if err := es.RemovePost(ctx, 7); err != nil {
		t.Fatalf("remove post: %v", err)
	}
	if err := es.RemovePost(ctx, 7); err != nil {
		t.Fatalf("removing a missing post should succeed: %v", err)
	}
}

func TestElasticSearchTitlesParsesIDs(t *testing.T) {
	es, cluster := newTestElastic(t)

	ids, err := es.SearchTitles(context.Background(), "he*llo")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(ids) != 2 || ids[0] != 7 || ids[1] != 3 {
		t.Fatalf("unexpected ids: %v", ids)
	}
	if !strings.Contains(cluster.lastBody, `*he\\*llo*`) {
		t.Fatalf("expected escaped wildcard query, got %s", cluster.lastBody)
	}
}
