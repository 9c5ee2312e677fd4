package pubcms

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eringen/pubcms/session"
)

type envelope struct {
	Success    bool                `json:"success"`
	Data       json.RawMessage     `json:"data"`
	Error      string              `json:"error"`
	Errors     map[string][]string `json:"errors"`
	Pagination *Pagination         `json:"pagination"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	s := setupTestStore(t)
	a := New(SiteConfig{
		Name:          "Test CMS",
		URL:           "https://example.com/",
		SessionSecret: "test-secret",
		UploadDir:     t.TempDir(),
	}, WithStore(s), WithSessionStore(session.NewMemoryStore(0)))
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	a.Echo.Logger.SetOutput(io.Discard)
	return a
}

func doRequest(t *testing.T, a *App, req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, env
}

func doJSON(t *testing.T, a *App, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return doRequest(t, a, req, token)
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
	return v
}

// loginAs creates a user with role and returns a bearer token for it.
func loginAs(t *testing.T, a *App, email string, role Role) string {
	t.Helper()
	createTestUser(t, a.Store, email, role)
	rec, env := doJSON(t, a, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "password123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decodeData[loginResponse](t, env).Token
}

const browserUA = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

const helloContent = `---
title: Hello World
description: First post
tags: [go, cms]
published: true
date: 2024-01-15
---

# Hello

Body text.
`

func TestLogin(t *testing.T) {
	a := newTestApp(t)
	createTestUser(t, a.Store, "admin@example.com", RoleAdmin)

	tests := []struct {
		name     string
		body     map[string]string
		wantCode int
		wantErr  string
	}{
		{"wrong password", map[string]string{"email": "admin@example.com", "password": "nope"}, http.StatusUnauthorized, "Invalid email or password"},
		{"unknown user", map[string]string{"email": "who@example.com", "password": "password123"}, http.StatusUnauthorized, "Invalid email or password"},
		{"invalid email", map[string]string{"email": "not-an-email", "password": "x"}, http.StatusBadRequest, "Validation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doJSON(t, a, http.MethodPost, "/api/auth/login", "", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if env.Success || env.Error != tt.wantErr {
				t.Errorf("error = %q, want %q", env.Error, tt.wantErr)
			}
		})
	}

	rec, env := doJSON(t, a, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "Admin@Example.com", "password": "password123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.Contains(string(env.Data), "password") {
		t.Error("response must not contain the password hash")
	}
	res := decodeData[loginResponse](t, env)
	if len(res.Token) != 64 || res.User.Role != RoleAdmin {
		t.Errorf("login response = %+v", res)
	}
	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == authCookie && c.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Error("expected an httpOnly auth-token cookie")
	}
}

func TestRequireAuth(t *testing.T) {
	a := newTestApp(t)

	rec, env := doJSON(t, a, http.MethodGet, "/api/posts", "", nil)
	if rec.Code != http.StatusUnauthorized || env.Error != "Unauthorized" {
		t.Errorf("no token: %d %q, want 401 Unauthorized", rec.Code, env.Error)
	}
	rec, _ = doJSON(t, a, http.MethodGet, "/api/posts", "bogus", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bogus token: %d, want 401", rec.Code)
	}

	token := loginAs(t, a, "editor@example.com", RoleEditor)
	rec, env = doJSON(t, a, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: %d, want 200", rec.Code)
	}
	if me := decodeData[User](t, env); me.Email != "editor@example.com" {
		t.Errorf("me = %+v", me)
	}

	rec, _ = doJSON(t, a, http.MethodPost, "/api/auth/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: %d, want 200", rec.Code)
	}
	rec, _ = doJSON(t, a, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("after logout: %d, want 401", rec.Code)
	}
}

func TestCookieAuth(t *testing.T) {
	a := newTestApp(t)
	createTestUser(t, a.Store, "admin@example.com", RoleAdmin)
	rec, _ := doJSON(t, a, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@example.com", "password": "password123"})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec, _ = doRequest(t, a, req, "")
	if rec.Code != http.StatusOK {
		t.Errorf("cookie auth: %d, want 200", rec.Code)
	}
}

func TestCreatePostFromFrontmatter(t *testing.T) {
	a := newTestApp(t)
	token := loginAs(t, a, "admin@example.com", RoleAdmin)

	rec, env := doJSON(t, a, http.MethodPost, "/api/posts", token, map[string]any{"content": helloContent})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	p := decodeData[Post](t, env)
	if p.Title != "Hello World" || p.Slug != "hello-world" || p.Excerpt != "First post" {
		t.Errorf("post = %q/%q/%q", p.Title, p.Slug, p.Excerpt)
	}
	if !p.Published || p.PublishedAt == nil || p.PublishedAt.Format("2006-01-02") != "2024-01-15" {
		t.Errorf("published = %v at %v, want true at 2024-01-15", p.Published, p.PublishedAt)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "go" {
		t.Errorf("tags = %v, want [go cms]", p.Tags)
	}
	if p.Author == nil || p.Author.Email != "admin@example.com" {
		t.Errorf("author = %+v", p.Author)
	}

	rec, env = doJSON(t, a, http.MethodPost, "/api/posts", token, map[string]any{"content": helloContent})
	if rec.Code != http.StatusConflict || env.Error != "A post with this slug already exists" {
		t.Errorf("duplicate: %d %q, want 409", rec.Code, env.Error)
	}
	if n, _ := a.Store.CountPosts(context.Background(), nil); n != 1 {
		t.Errorf("CountPosts = %d, want 1", n)
	}
}

func TestCreatePostValidation(t *testing.T) {
	a := newTestApp(t)
	token := loginAs(t, a, "admin@example.com", RoleAdmin)

	rec, env := doJSON(t, a, http.MethodPost, "/api/posts", token, map[string]any{"title": "No frontmatter", "content": "# body"})
	if rec.Code != http.StatusBadRequest || env.Error != "Frontmatter validation failed" {
		t.Fatalf("missing title: %d %q", rec.Code, env.Error)
	}
	if got := env.Errors["frontmatter"]; len(got) != 1 || got[0] != "Title is required in frontmatter" {
		t.Errorf("errors = %v", env.Errors)
	}

	rec, env = doJSON(t, a, http.MethodPost, "/api/posts", token, map[string]any{
		"content":  helloContent,
		"slug":     "Not A Slug",
		"seoTitle": strings.Repeat("x", 61),
	})
	if rec.Code != http.StatusBadRequest || env.Error != "Validation failed" {
		t.Fatalf("invalid fields: %d %q", rec.Code, env.Error)
	}
	if len(env.Errors["slug"]) == 0 || len(env.Errors["seoTitle"]) == 0 {
		t.Errorf("errors = %v, want slug and seoTitle", env.Errors)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	if rec, _ := doRequest(t, a, req, token); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: %d, want 400", rec.Code)
	}
}

func TestUpdateAndDeletePost(t *testing.T) {
	a := newTestApp(t)
	token := loginAs(t, a, "admin@example.com", RoleAdmin)
	_, env := doJSON(t, a, http.MethodPost, "/api/posts", token, map[string]any{"content": helloContent})
	p := decodeData[Post](t, env)

	rec, env := doJSON(t, a, http.MethodPut, "/api/posts/"+p.ID, token, map[string]any{"title": "Renamed Post"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}
	u := decodeData[Post](t, env)
	if u.Slug != "renamed-post" || u.Content != helloContent {
		t.Errorf("updated = %q, content kept = %v", u.Slug, u.Content == helloContent)
	}
	if !u.PublishedAt.Equal(*p.PublishedAt) {
		t.Errorf("publishedAt changed: %v -> %v", p.PublishedAt, u.PublishedAt)
	}

	rec, env = doJSON(t, a, http.MethodGet, "/api/posts/missing", token, nil)
	if rec.Code != http.StatusNotFound || env.Error != "Post not found" {
		t.Errorf("missing: %d %q", rec.Code, env.Error)
	}

	rec, _ = doJSON(t, a, http.MethodDelete, "/api/posts/"+p.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	rec, _ = doJSON(t, a, http.MethodDelete, "/api/posts/"+p.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: %d, want 404", rec.Code)
	}
}

func TestPreviewPost(t *testing.T) {
	a := newTestApp(t)
	token := loginAs(t, a, "admin@example.com", RoleAdmin)
	_, env := doJSON(t, a, http.MethodPost, "/api/posts", token, map[string]any{"content": helloContent})
	p := decodeData[Post](t, env)

	rec, _ := doJSON(t, a, http.MethodGet, "/api/posts/"+p.ID+"/preview", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview: %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<title>Hello World</title>") || !strings.Contains(body, "<h1") || strings.Contains(body, "published: true") {
		t.Errorf("preview body = %s", body)
	}
}

func TestProjectsAPI(t *testing.T) {
	a := newTestApp(t)
	token := loginAs(t, a, "admin@example.com", RoleAdmin)

	rec, env := doJSON(t, a, http.MethodPost, "/api/projects", token, map[string]any{
		"title":       "My Tool",
		"description": "A tool",
		"images":      []string{"https://example.com/a.png"},
		"githubLink":  "https://github.com/example/tool",
		"published":   true,
		"featured":    true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	p := decodeData[Project](t, env)
	if p.Slug != "my-tool" {
		t.Errorf("slug = %q, want my-tool", p.Slug)
	}

	rec, env = doJSON(t, a, http.MethodPost, "/api/projects", token, map[string]any{"title": "My Tool", "description": "again"})
	if rec.Code != http.StatusConflict || env.Error != "A project with this slug already exists" {
		t.Errorf("duplicate: %d %q", rec.Code, env.Error)
	}

	rec, env = doJSON(t, a, http.MethodPost, "/api/projects", token, map[string]any{"title": "Bad", "description": "d", "images": []string{"not a url"}})
	if rec.Code != http.StatusBadRequest || len(env.Errors["images"]) == 0 {
		t.Errorf("bad images: %d %v", rec.Code, env.Errors)
	}

	rec, env = doJSON(t, a, http.MethodPut, "/api/projects/"+p.ID, token, map[string]any{"demoLink": "https://demo.example.com"})
	if rec.Code != http.StatusOK || decodeData[Project](t, env).DemoLink != "https://demo.example.com" {
		t.Errorf("update: %d %s", rec.Code, rec.Body.String())
	}

	rec, env = doJSON(t, a, http.MethodGet, "/api/projects?featured=true", token, nil)
	if rec.Code != http.StatusOK || env.Pagination == nil || env.Pagination.Total != 1 {
		t.Errorf("list: %d %+v", rec.Code, env.Pagination)
	}
}

func TestPublicEndpoints(t *testing.T) {
	a := newTestApp(t)
	token := loginAs(t, a, "admin@example.com", RoleAdmin)
	doJSON(t, a, http.MethodPost, "/api/posts", token, map[string]any{"content": helloContent})
	doJSON(t, a, http.MethodPost, "/api/posts", token, map[string]any{"content": "---\ntitle: Secret Draft\n---\nshh"})

	rec, env := doJSON(t, a, http.MethodGet, "/api/public/posts", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d", rec.Code)
	}
	posts := decodeData[[]Post](t, env)
	if len(posts) != 1 || posts[0].Slug != "hello-world" {
		t.Errorf("public posts = %v, want only hello-world", posts)
	}
	if env.Pagination.Total != 1 || env.Pagination.Limit != defaultPageLimit || env.Pagination.TotalPages != 1 {
		t.Errorf("pagination = %+v", env.Pagination)
	}

	rec, env = doJSON(t, a, http.MethodGet, "/api/public/posts/secret-draft", "", nil)
	if rec.Code != http.StatusNotFound || env.Error != "Post not found" {
		t.Errorf("draft by slug: %d %q, want 404", rec.Code, env.Error)
	}

	for _, ua := range []string{browserUA, browserUA, "Mozilla/5.0 (compatible; Googlebot/2.1)"} {
		req := httptest.NewRequest(http.MethodGet, "/api/public/posts/hello-world", nil)
		req.Header.Set("User-Agent", ua)
		if rec, _ := doRequest(t, a, req, ""); rec.Code != http.StatusOK {
			t.Fatalf("get by slug: %d", rec.Code)
		}
	}
	p, _ := a.Store.GetPublishedPostBySlug(context.Background(), "hello-world")
	if p.Views != 2 {
		t.Errorf("views = %d, want 2 (crawler not counted)", p.Views)
	}

	rec, env = doJSON(t, a, http.MethodGet, "/api/public/tags", "", nil)
	if tags := decodeData[[]string](t, env); rec.Code != http.StatusOK || len(tags) != 2 {
		t.Errorf("tags = %v", tags)
	}

	rec, env = doJSON(t, a, http.MethodGet, "/api/public/settings", "", nil)
	if rec.Code != http.StatusOK || decodeData[publicSettings](t, env).SiteName != "Test CMS" {
		t.Errorf("public settings: %d %s", rec.Code, env.Data)
	}
}

func TestSettingsAPI(t *testing.T) {
	a := newTestApp(t)
	admin := loginAs(t, a, "admin@example.com", RoleAdmin)
	editor := loginAs(t, a, "editor@example.com", RoleEditor)

	rec, env := doJSON(t, a, http.MethodGet, "/api/settings", editor, nil)
	if rec.Code != http.StatusOK || decodeData[Settings](t, env).SiteDescription != "A modern headless CMS" {
		t.Fatalf("get: %d %s", rec.Code, env.Data)
	}

	rec, env = doJSON(t, a, http.MethodPut, "/api/settings", editor, map[string]any{"siteName": "Nope"})
	if rec.Code != http.StatusForbidden || env.Error != "Forbidden" {
		t.Errorf("editor put: %d %q, want 403", rec.Code, env.Error)
	}

	rec, env = doJSON(t, a, http.MethodPut, "/api/settings", admin, map[string]any{
		"siteName":    "Renamed",
		"socialLinks": map[string]string{"github": "https://github.com/example"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin put: %d %s", rec.Code, rec.Body.String())
	}
	st := decodeData[Settings](t, env)
	if st.SiteName != "Renamed" || st.SiteDescription != "A modern headless CMS" || st.SocialLinks.Github == "" {
		t.Errorf("settings = %+v", st)
	}

	rec, env = doJSON(t, a, http.MethodPut, "/api/settings", admin, map[string]any{"siteName": "", "contactEmail": "nope"})
	if rec.Code != http.StatusBadRequest || len(env.Errors["siteName"]) == 0 || len(env.Errors["contactEmail"]) == 0 {
		t.Errorf("invalid put: %d %v", rec.Code, env.Errors)
	}
}

func TestStatsAPI(t *testing.T) {
	a := newTestApp(t)
	token := loginAs(t, a, "admin@example.com", RoleAdmin)
	doJSON(t, a, http.MethodPost, "/api/posts", token, map[string]any{"content": helloContent})

	rec, env := doJSON(t, a, http.MethodGet, "/api/stats", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: %d", rec.Code)
	}
	if st := decodeData[Stats](t, env); st.TotalPosts != 1 || len(st.RecentPosts) != 1 || st.RecentProjects == nil {
		t.Errorf("stats = %+v", st)
	}
}

func uploadRequest(t *testing.T, field, filename string, data []byte, alt string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if field != "" {
		fw, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	}
	if alt != "" {
		w.WriteField("alt", alt)
	}
	w.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/media", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestMediaAPI(t *testing.T) {
	a := newTestApp(t)
	token := loginAs(t, a, "admin@example.com", RoleAdmin)

	rec, env := doRequest(t, a, uploadRequest(t, "", "", nil, "alt"), token)
	if rec.Code != http.StatusBadRequest || env.Error != "No file provided" {
		t.Errorf("no file: %d %q", rec.Code, env.Error)
	}

	rec, env = doRequest(t, a, uploadRequest(t, "file", "big.bin", make([]byte, maxUploadSize+1), ""), token)
	if rec.Code != http.StatusBadRequest || env.Error != "File size exceeds 10MB limit" {
		t.Errorf("too large: %d %q", rec.Code, env.Error)
	}

	rec, env = doRequest(t, a, uploadRequest(t, "file", "My Photo (1).png", testPNG(t, 1000, 20), "A photo"), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
	m := decodeData[Media](t, env)
	if !strings.HasSuffix(m.Filename, "-My_Photo__1_.png") || m.URL != "/uploads/"+m.Filename {
		t.Errorf("filename = %q, url = %q", m.Filename, m.URL)
	}
	if m.MimeType != "image/png" || m.Width != 1000 || m.Height != 20 || m.Alt != "A photo" {
		t.Errorf("media = %+v", m)
	}
	if m.ThumbnailURL == "" {
		t.Fatal("wide image should get a thumbnail")
	}
	stored := filepath.Join(a.Config.UploadDir, m.Filename)
	thumb := filepath.Join(a.Config.UploadDir, strings.TrimPrefix(m.ThumbnailURL, uploadsPath))
	for _, p := range []string{stored, thumb} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected file %s: %v", p, err)
		}
	}

	rec, env = doRequest(t, a, uploadRequest(t, "file", "notes.txt", []byte("plain text"), ""), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("text upload: %d", rec.Code)
	}
	if txt := decodeData[Media](t, env); txt.Width != 0 || txt.ThumbnailURL != "" {
		t.Errorf("text media = %+v", txt)
	}

	rec, env = doJSON(t, a, http.MethodGet, "/api/media?mimeType=image/*", token, nil)
	if rec.Code != http.StatusOK || env.Pagination.Total != 1 || env.Pagination.Limit != defaultMediaLimit {
		t.Errorf("list images: %d %+v", rec.Code, env.Pagination)
	}

	rec, _ = doJSON(t, a, http.MethodDelete, "/api/media/"+m.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	for _, p := range []string{stored, thumb} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("file %s should be removed", p)
		}
	}
	rec, env = doJSON(t, a, http.MethodGet, "/api/media/"+m.ID, token, nil)
	if rec.Code != http.StatusNotFound || env.Error != "Media not found" {
		t.Errorf("after delete: %d %q", rec.Code, env.Error)
	}
}

func TestDeleteMediaMissingFile(t *testing.T) {
	a := newTestApp(t)
	token := loginAs(t, a, "admin@example.com", RoleAdmin)
	_, env := doRequest(t, a, uploadRequest(t, "file", "a.txt", []byte("x"), ""), token)
	m := decodeData[Media](t, env)

	if err := os.Remove(filepath.Join(a.Config.UploadDir, m.Filename)); err != nil {
		t.Fatal(err)
	}
	rec, _ := doJSON(t, a, http.MethodDelete, "/api/media/"+m.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete with missing file: %d", rec.Code)
	}
	if n, _ := a.Store.CountMedia(context.Background()); n != 0 {
		t.Errorf("CountMedia = %d, want 0", n)
	}
}

func TestFeedAndSitemap(t *testing.T) {
	a := newTestApp(t)
	token := loginAs(t, a, "admin@example.com", RoleAdmin)
	doJSON(t, a, http.MethodPost, "/api/posts", token, map[string]any{"content": helloContent})
	doJSON(t, a, http.MethodPost, "/api/projects", token, map[string]any{"title": "Tool", "description": "d", "published": true})

	rec, _ := doJSON(t, a, http.MethodGet, "/feed.xml", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("feed: %d", rec.Code)
	}
	feed := rec.Body.String()
	for _, want := range []string{"<title>Test CMS</title>", "https://example.com/posts/hello-world/", "<description>First post</description>", "<category>go</category>"} {
		if !strings.Contains(feed, want) {
			t.Errorf("feed missing %q", want)
		}
	}

	rec, _ = doJSON(t, a, http.MethodGet, "/sitemap.xml", "", nil)
	sitemap := rec.Body.String()
	for _, want := range []string{"https://example.com/posts/hello-world/", "https://example.com/projects/tool/"} {
		if !strings.Contains(sitemap, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=86400" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestHealthRobotsAndNotFound(t *testing.T) {
	a := newTestApp(t)

	rec, env := doJSON(t, a, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Errorf("health: %d", rec.Code)
	}

	rec, _ = doJSON(t, a, http.MethodGet, "/robots.txt", "", nil)
	if !strings.Contains(rec.Body.String(), "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("robots = %s", rec.Body.String())
	}

	rec, env = doJSON(t, a, http.MethodGet, "/api/nothing-here", "", nil)
	if rec.Code != http.StatusNotFound || env.Success || env.Error == "" {
		t.Errorf("unknown route: %d %+v", rec.Code, env)
	}
}

func TestInitRequiresSecret(t *testing.T) {
	a := New(SiteConfig{DatabasePath: filepath.Join(t.TempDir(), "cms.db")})
	if err := a.Init(context.Background()); err == nil {
		t.Fatal("expected error without SessionSecret")
	}
}
