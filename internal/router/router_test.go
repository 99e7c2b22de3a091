package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devblog-next/internal/cache"
	"github.com/devblog-next/internal/config"
	"github.com/devblog-next/internal/models"
	"github.com/devblog-next/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type apiEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type testPost struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Status         string   `json:"status"`
	Tags           []string `json:"tags"`
	ViewCount      int64    `json:"view_count"`
	PublishedAt    *string  `json:"published_at"`
	ContentHTML    string   `json:"content_html"`
	ReadingMinutes int      `json:"reading_minutes"`
}

type testPostList struct {
	Posts   []testPost `json:"posts"`
	Total   int64      `json:"total"`
	HasMore bool       `json:"hasMore"`
}

func setupRouterTest(t *testing.T) (*gin.Engine, *provider.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		Blog: config.BlogConfig{
			TagsMaxAgeSeconds: 3600,
			TagsStaleSeconds:  86400,
		}.Normalize(),
		Upload: config.UploadConfig{Dir: t.TempDir(), MaxSize: 1 << 20},
	}
	container := provider.NewContainer(cfg, db, cache.NewStore(&cfg.Redis))
	t.Cleanup(func() { _ = container.Close() })

	return SetupRouter(cfg, container), container
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope apiEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("%s %s: decode envelope failed: %v body=%s", method, path, err, w.Body.String())
	}
	return w, envelope
}

func decodeData(t *testing.T, envelope apiEnvelope, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data failed: %v data=%s", err, string(envelope.Data))
	}
}

func createPostViaAPI(t *testing.T, r *gin.Engine, body map[string]interface{}) testPost {
	t.Helper()
	w, envelope := doJSON(t, r, http.MethodPost, "/api/v1/admin/posts", body)
	if w.Code != http.StatusOK || envelope.StatusCode != 0 {
		t.Fatalf("create post failed: http=%d body=%s", w.Code, w.Body.String())
	}
	var post testPost
	decodeData(t, envelope, &post)
	return post
}

func TestPublicPostFlow(t *testing.T) {
	r, container := setupRouterTest(t)

	draft := createPostViaAPI(t, r, map[string]interface{}{
		"title":   "Draft Notes",
		"content": "not yet",
		"tags":    []string{"go"},
	})
	if draft.Status != "draft" || draft.PublishedAt != nil {
		t.Fatalf("unexpected draft: %+v", draft)
	}
	for i := 0; i < 3; i++ {
		createPostViaAPI(t, r, map[string]interface{}{
			"title":   fmt.Sprintf("Published %d", i),
			"content": "# Hello\n\nworld",
			"status":  "published",
			"tags":    []string{"go", fmt.Sprintf("t%d", i)},
		})
	}

	w, envelope := doJSON(t, r, http.MethodGet, "/api/v1/public/posts?page=1&limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status want 200 got %d", w.Code)
	}
	var list testPostList
	decodeData(t, envelope, &list)
	if list.Total != 3 || len(list.Posts) != 2 || !list.HasMore {
		t.Fatalf("unexpected first page: %+v", list)
	}

	_, envelope = doJSON(t, r, http.MethodGet, "/api/v1/public/posts?tags=t1,missing", nil)
	decodeData(t, envelope, &list)
	if list.Total != 1 || list.Posts[0].Slug != "published-1" || list.HasMore {
		t.Fatalf("unexpected tag filtered list: %+v", list)
	}

	w, envelope = doJSON(t, r, http.MethodGet, "/api/v1/public/posts/"+draft.Slug, nil)
	if w.Code != http.StatusNotFound || envelope.StatusCode != 404 {
		t.Fatalf("draft detail want 404 got http=%d code=%d", w.Code, envelope.StatusCode)
	}

	w, envelope = doJSON(t, r, http.MethodGet, "/api/v1/public/posts/published-0", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("detail status want 200 got %d", w.Code)
	}
	var detail testPost
	decodeData(t, envelope, &detail)
	if !strings.Contains(detail.ContentHTML, "<h1") || detail.ReadingMinutes != 1 || detail.PublishedAt == nil {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	_ = container.Close()
	_, envelope = doJSON(t, r, http.MethodGet, "/api/v1/admin/posts/"+detail.ID, nil)
	decodeData(t, envelope, &detail)
	if detail.ViewCount != 1 {
		t.Fatalf("view count want 1 got %d", detail.ViewCount)
	}
}

func TestPublicPostsHugePage(t *testing.T) {
	r, _ := setupRouterTest(t)
	createPostViaAPI(t, r, map[string]interface{}{
		"title":   "Lonely Post",
		"content": "only one",
		"status":  "published",
	})

	w, envelope := doJSON(t, r, http.MethodGet, "/api/v1/public/posts?page=4611686018427387904&limit=10", nil)
	if w.Code != http.StatusBadRequest || envelope.StatusCode != 400 {
		t.Fatalf("overflowing page want 400 got http=%d body=%s", w.Code, w.Body.String())
	}
	var invalid struct {
		Fields map[string]string `json:"fields"`
	}
	decodeData(t, envelope, &invalid)
	if invalid.Fields["page"] == "" {
		t.Fatalf("page field error missing: %+v", invalid)
	}

	w, envelope = doJSON(t, r, http.MethodGet, "/api/v1/public/posts?page=1099511627776&limit=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("far page want 200 got http=%d body=%s", w.Code, w.Body.String())
	}
	var list testPostList
	decodeData(t, envelope, &list)
	if list.Total != 1 || len(list.Posts) != 0 || list.HasMore {
		t.Fatalf("far page should be empty without more: %+v", list)
	}
}

func TestAdminPostStats(t *testing.T) {
	r, _ := setupRouterTest(t)
	createPostViaAPI(t, r, map[string]interface{}{"title": "Stat A", "content": "a", "status": "published"})
	createPostViaAPI(t, r, map[string]interface{}{"title": "Stat B", "content": "b"})

	w, envelope := doJSON(t, r, http.MethodGet, "/api/v1/admin/stats/posts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats want 200 got http=%d body=%s", w.Code, w.Body.String())
	}
	var stats struct {
		Total     int64 `json:"total"`
		Published int64 `json:"published"`
		Draft     int64 `json:"draft"`
		Archived  int64 `json:"archived"`
	}
	decodeData(t, envelope, &stats)
	if stats.Total != 2 || stats.Published != 1 || stats.Draft != 1 || stats.Archived != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPublicTagsEndpoint(t *testing.T) {
	r, _ := setupRouterTest(t)
	createPostViaAPI(t, r, map[string]interface{}{"title": "A", "content": "x", "status": "published", "tags": []string{"web", "go"}})
	createPostViaAPI(t, r, map[string]interface{}{"title": "B", "content": "x", "status": "published", "tags": []string{"go", "api"}})
	createPostViaAPI(t, r, map[string]interface{}{"title": "C", "content": "x", "tags": []string{"hidden"}})

	w, envelope := doJSON(t, r, http.MethodGet, "/api/v1/public/tags", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("tags status want 200 got %d", w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got != "public, s-maxage=3600, stale-while-revalidate=86400" {
		t.Fatalf("unexpected cache control: %s", got)
	}
	var tags []string
	decodeData(t, envelope, &tags)
	if strings.Join(tags, ",") != "api,go,web" {
		t.Fatalf("unexpected tags: %v", tags)
	}
}

func TestAdminPostMutations(t *testing.T) {
	r, _ := setupRouterTest(t)

	w, envelope := doJSON(t, r, http.MethodPost, "/api/v1/admin/posts", map[string]interface{}{"content": "missing title"})
	if w.Code != http.StatusBadRequest || envelope.StatusCode != 400 {
		t.Fatalf("validation want 400 got http=%d body=%s", w.Code, w.Body.String())
	}
	var validation struct {
		Fields map[string]string `json:"fields"`
	}
	decodeData(t, envelope, &validation)
	if _, ok := validation.Fields["title"]; !ok {
		t.Fatalf("validation fields should name title: %+v", validation.Fields)
	}

	post := createPostViaAPI(t, r, map[string]interface{}{"title": "Edit Me", "content": "body"})
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/admin/posts", map[string]interface{}{"title": "Edit Me", "content": "dup"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate slug want 400 got %d", w.Code)
	}

	w, envelope = doJSON(t, r, http.MethodPut, "/api/v1/admin/posts/"+post.ID, map[string]interface{}{"status": "published"})
	if w.Code != http.StatusOK {
		t.Fatalf("update want 200 got %d body=%s", w.Code, w.Body.String())
	}
	var updated testPost
	decodeData(t, envelope, &updated)
	if updated.Status != "published" || updated.PublishedAt == nil || updated.Title != "Edit Me" {
		t.Fatalf("unexpected updated post: %+v", updated)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/admin/posts?status=published", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin list want 200 got %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/admin/posts/"+post.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete want 200 got %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/public/posts/"+post.Slug, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleted post want 404 got %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/admin/posts/"+post.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete want 404 got %d", w.Code)
	}
}

func TestAdminPreviewAndNoRoute(t *testing.T) {
	r, _ := setupRouterTest(t)

	w, envelope := doJSON(t, r, http.MethodPost, "/api/v1/admin/posts/preview", map[string]string{"content": "*hi*"})
	if w.Code != http.StatusOK {
		t.Fatalf("preview want 200 got %d", w.Code)
	}
	var preview struct {
		HTML           string `json:"html"`
		ReadingMinutes int    `json:"reading_minutes"`
	}
	decodeData(t, envelope, &preview)
	if !strings.Contains(preview.HTML, "<em>hi</em>") || preview.ReadingMinutes != 1 {
		t.Fatalf("unexpected preview: %+v", preview)
	}

	w, envelope = doJSON(t, r, http.MethodGet, "/api/v1/unknown", nil)
	if w.Code != http.StatusNotFound || envelope.StatusCode != 404 {
		t.Fatalf("unknown route want 404 got http=%d code=%d", w.Code, envelope.StatusCode)
	}
}
