package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/blogapi/internal/db"
	"github.com/gin-gonic/gin"
)

func TestListTagsAndTagPosts(t *testing.T) {
	api, gdb := setupTestAPI(t, Options{})
	user := seedUser(t, gdb, "tags@example.com")

	c, w := newJSONContext(http.MethodPost, "/post", map[string]any{
		"title": "Tagged", "content": "x", "tags": []string{"Go Lang"}, "status": "publish",
	})
	c.Set(userContextKey, user)
	api.CreatePost(c)
	if w.Code != http.StatusOK {
		t.Fatalf("create post: %d", w.Code)
	}

	c, w = newJSONContext(http.MethodGet, "/tags", nil)
	api.ListTags(c)
	var tags []db.Tag
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &tags); err != nil {
		t.Fatalf("decode tags: %v", err)
	}
	if len(tags) != 1 || tags[0].Slug != "go-lang" || tags[0].PostCount != 1 {
		t.Fatalf("unexpected tags: %+v", tags)
	}

	c, w = newJSONContext(http.MethodGet, "/tag/go-lang", nil)
	c.Params = gin.Params{gin.Param{Key: "slug", Value: "go-lang"}}
	api.GetTagPosts(c)
	if w.Code != http.StatusOK {
		t.Fatalf("tag posts: %d", w.Code)
	}

	c, w = newJSONContext(http.MethodGet, "/tag/missing", nil)
	c.Params = gin.Params{gin.Param{Key: "slug", Value: "missing"}}
	api.GetTagPosts(c)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing tag, got %d", w.Code)
	}
}

func TestUserHandlers(t *testing.T) {
	api, gdb := setupTestAPI(t, Options{})
	user := seedUser(t, gdb, "author@example.com")
	id := strconv.Itoa(int(user.ID))

	c, w := newJSONContext(http.MethodGet, "/user/"+id, nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: id}}
	api.GetUser(c)
	if w.Code != http.StatusOK {
		t.Fatalf("get user: %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "hashed") {
		t.Fatalf("password hash must not be serialized: %s", w.Body.String())
	}

	c, w = newJSONContext(http.MethodGet, "/author/"+id, nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: id}}
	api.GetAuthorPosts(c)
	if w.Code != http.StatusOK {
		t.Fatalf("author posts: %d", w.Code)
	}

	c, w = newJSONContext(http.MethodGet, "/user/999", nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: "999"}}
	api.GetUser(c)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
