package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/application"
	"github.com/vidtube/backend/internal/domain/entity"
	repo "github.com/vidtube/backend/internal/domain/repository"
	handlers "github.com/vidtube/backend/internal/interface/http"
	"github.com/vidtube/backend/internal/router"
	"github.com/vidtube/backend/internal/router/modules"
	"github.com/vidtube/backend/pkg/helpers"
	"github.com/vidtube/backend/pkg/media"
	"github.com/vidtube/backend/pkg/validation"
)

// In-memory persistence doubles backing the full HTTP stack.

type memStore struct {
	users   map[string]*entity.User
	videos  map[string]*entity.Video
	tweets  map[string]*entity.Tweet
	subs    map[string]bool
	history []string
	seq     int
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[string]*entity.User{},
		videos: map[string]*entity.Video{},
		tweets: map[string]*entity.Tweet{},
		subs:   map[string]bool{},
	}
}

func (m *memStore) id(prefix int) string {
	m.seq++
	return fmt.Sprintf("%08d-0000-4000-8000-%012d", prefix, m.seq)
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	for _, e := range r.s.users {
		if e.Username == u.Username || e.Email == u.Email {
			return repo.ErrConflict
		}
	}
	u.ID = r.s.id(1)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = u
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByUsernameOrEmail(_ context.Context, username, email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r memUsers) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	_, err := r.GetByUsernameOrEmail(ctx, username, email)
	return err == nil, nil
}

func (r memUsers) Update(_ context.Context, u *entity.User) error {
	if _, ok := r.s.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (r memUsers) SetRefreshToken(_ context.Context, id, tokenHash string) error {
	u, ok := r.s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.RefreshTokenHash = tokenHash
	return nil
}

func (r memUsers) ClearRefreshToken(_ context.Context, id string) error {
	u, ok := r.s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.RefreshTokenHash = ""
	return nil
}

func (r memUsers) RotateRefreshToken(_ context.Context, id, oldHash, newHash string) error {
	u, ok := r.s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	if u.RefreshTokenHash != oldHash {
		return repo.ErrStaleData
	}
	u.RefreshTokenHash = newHash
	return nil
}

func (r memUsers) AddWatchHistory(_ context.Context, userID, videoID string) error {
	r.s.history = append(r.s.history, userID+":"+videoID)
	return nil
}

func (r memUsers) GetWatchHistory(_ context.Context, userID string) ([]entity.WatchHistoryEntry, error) {
	var out []entity.WatchHistoryEntry
	for _, h := range r.s.history {
		parts := strings.SplitN(h, ":", 2)
		if parts[0] != userID {
			continue
		}
		if v, ok := r.s.videos[parts[1]]; ok {
			out = append(out, entity.WatchHistoryEntry{Video: *v, WatchedAt: time.Now()})
		}
	}
	return out, nil
}

func (r memUsers) ChannelProfile(_ context.Context, username, viewerID string) (*entity.ChannelProfile, error) {
	for _, u := range r.s.users {
		if u.Username != username {
			continue
		}
		p := &entity.ChannelProfile{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.AvatarURL}
		for key, on := range r.s.subs {
			if !on {
				continue
			}
			parts := strings.SplitN(key, ":", 2)
			if parts[1] == u.ID {
				p.SubscriberCount++
				if parts[0] == viewerID {
					p.IsSubscribed = true
				}
			}
			if parts[0] == u.ID {
				p.SubscribedTo++
			}
		}
		return p, nil
	}
	return nil, repo.ErrNotFound
}

type memSubs struct{ s *memStore }

func (r memSubs) Toggle(_ context.Context, subscriberID, channelID string) (bool, error) {
	key := subscriberID + ":" + channelID
	if r.s.subs[key] {
		delete(r.s.subs, key)
		return false, nil
	}
	r.s.subs[key] = true
	return true, nil
}

func (r memSubs) IsSubscribed(_ context.Context, subscriberID, channelID string) (bool, error) {
	return r.s.subs[subscriberID+":"+channelID], nil
}

type memVideos struct{ s *memStore }

func (r memVideos) Create(_ context.Context, v *entity.Video) error {
	v.ID = r.s.id(2)
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	cp := *v
	r.s.videos[v.ID] = &cp
	return nil
}

func (r memVideos) GetByID(_ context.Context, id string) (*entity.Video, error) {
	v, ok := r.s.videos[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r memVideos) GetByIDWithOwner(ctx context.Context, id string) (*entity.VideoWithOwner, error) {
	v, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entity.VideoWithOwner{Video: *v, Owner: r.owner(v.OwnerID)}, nil
}

func (r memVideos) owner(id string) entity.VideoOwner {
	if u, ok := r.s.users[id]; ok {
		return entity.VideoOwner{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.AvatarURL}
	}
	return entity.VideoOwner{}
}

func (r memVideos) Update(_ context.Context, v *entity.Video) error {
	if _, ok := r.s.videos[v.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *v
	r.s.videos[v.ID] = &cp
	return nil
}

func (r memVideos) Delete(_ context.Context, id string) error {
	if _, ok := r.s.videos[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.videos, id)
	return nil
}

func (r memVideos) SetPublished(_ context.Context, id string, published bool) error {
	v, ok := r.s.videos[id]
	if !ok {
		return repo.ErrNotFound
	}
	v.IsPublished = published
	return nil
}

func (r memVideos) IncrementViews(_ context.Context, id string) error {
	v, ok := r.s.videos[id]
	if !ok {
		return repo.ErrNotFound
	}
	v.Views++
	return nil
}

func (r memVideos) List(_ context.Context, p repo.VideoListParams) ([]entity.VideoWithOwner, int64, error) {
	out := []entity.VideoWithOwner{}
	for _, v := range r.s.videos {
		if !v.IsPublished {
			continue
		}
		if p.OwnerID != "" && v.OwnerID != p.OwnerID {
			continue
		}
		out = append(out, entity.VideoWithOwner{Video: *v, Owner: r.owner(v.OwnerID)})
	}
	return out, int64(len(out)), nil
}

type memTweets struct{ s *memStore }

func (r memTweets) Create(_ context.Context, t *entity.Tweet) error {
	t.ID = r.s.id(3)
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	r.s.tweets[t.ID] = &cp
	return nil
}

func (r memTweets) GetByID(_ context.Context, id string) (*entity.Tweet, error) {
	t, ok := r.s.tweets[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memTweets) ListByOwner(_ context.Context, ownerID string) ([]entity.Tweet, error) {
	out := []entity.Tweet{}
	for _, t := range r.s.tweets {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r memTweets) Update(_ context.Context, t *entity.Tweet) error {
	if _, ok := r.s.tweets[t.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *t
	r.s.tweets[t.ID] = &cp
	return nil
}

func (r memTweets) Delete(_ context.Context, id string) error {
	if _, ok := r.s.tweets[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.tweets, id)
	return nil
}

// memUploader fabricates assets without external storage. It still consumes
// the temp file, like the real collaborator.
type memUploader struct{ seq int }

func (u *memUploader) Upload(_ context.Context, localPath, folder string) (*media.Asset, error) {
	_ = os.Remove(localPath)
	u.seq++
	id := fmt.Sprintf("%s/asset-%d", folder, u.seq)
	return &media.Asset{URL: "https://cdn.test/" + id, AssetID: id}, nil
}

func (u *memUploader) Delete(_ context.Context, _ string) error { return nil }

// envelope mirrors the wire shape of every response.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

func newTestServer(t *testing.T) (*gin.Engine, *memStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	store := newMemStore()
	users := memUsers{store}
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	userSvc := application.NewUserService(users, memSubs{store}, jwt, &memUploader{}, nil, nil, "vidtube")
	videoSvc := application.NewVideoService(memVideos{store}, users, &memUploader{}, nil, nil)
	tweetSvc := application.NewTweetService(memTweets{store})

	userHandler := handlers.NewUserHandler(userSvc, nil, "localhost", false)
	videoHandler := handlers.NewVideoHandler(videoSvc, nil)
	tweetHandler := handlers.NewTweetHandler(tweetSvc)

	r := gin.New()
	reg := router.NewRegistry(r)
	reg.Add(modules.NewUserModule(userHandler, users, jwt))
	reg.Add(modules.NewVideoModule(videoHandler, users, jwt))
	reg.Add(modules.NewTweetModule(tweetHandler, users, jwt))
	reg.RegisterAll()
	return r, store
}

func do(t *testing.T, r *gin.Engine, req *http.Request, wantStatus int) envelope {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != wantStatus {
		t.Fatalf("%s %s: status = %d, want %d; body %s", req.Method, req.URL.Path, w.Code, wantStatus, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v; body %s", err, w.Body.String())
	}
	return env
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write([]byte("binary-bytes")); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf, mw.FormDataContentType()
}

func registerUser(t *testing.T, r *gin.Engine, username, email string) entity.PublicUser {
	t.Helper()
	body, ct := multipartBody(t,
		map[string]string{
			"fullName": "User " + username,
			"email":    email,
			"username": username,
			"password": "secret-pass",
		},
		map[string]string{"avatar": "avatar.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", ct)
	env := do(t, r, req, http.StatusCreated)

	var u entity.PublicUser
	if err := json.Unmarshal(env.Data, &u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	return u
}

func loginUser(t *testing.T, r *gin.Engine, username string) []*http.Cookie {
	t.Helper()
	payload := fmt.Sprintf(`{"username":%q,"password":"secret-pass"}`, username)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) < 2 {
		t.Fatalf("login set %d cookies, want access and refresh", len(cookies))
	}
	return cookies
}

func withCookies(req *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestServer(t)

	// Missing avatar file.
	body, ct := multipartBody(t, map[string]string{
		"fullName": "A", "email": "a@b.co", "username": "a", "password": "secret-pass",
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", ct)
	env := do(t, r, req, http.StatusBadRequest)
	if env.Success {
		t.Fatal("error envelope reports success")
	}
}

func TestRegisterConflict(t *testing.T) {
	r, _ := newTestServer(t)
	registerUser(t, r, "alice", "alice@example.com")

	body, ct := multipartBody(t,
		map[string]string{"fullName": "A", "email": "alice@example.com", "username": "alice2", "password": "secret-pass"},
		map[string]string{"avatar": "a.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", ct)
	do(t, r, req, http.StatusConflict)
}

func TestSessionLifecycle(t *testing.T) {
	r, _ := newTestServer(t)
	u := registerUser(t, r, "alice", "alice@example.com")
	cookies := loginUser(t, r, "alice")

	// current-user reads identity from the cookie session.
	req := withCookies(httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil), cookies)
	env := do(t, r, req, http.StatusOK)
	var me entity.PublicUser
	if err := json.Unmarshal(env.Data, &me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if me.ID != u.ID {
		t.Fatalf("current user = %s, want %s", me.ID, u.ID)
	}

	// Refresh rotates the cookie pair.
	req = withCookies(httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil), cookies)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: status = %d, body %s", w.Code, w.Body.String())
	}
	rotated := w.Result().Cookies()
	if len(rotated) < 2 {
		t.Fatalf("refresh set %d cookies", len(rotated))
	}

	// The consumed refresh token is dead.
	req = withCookies(httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil), cookies)
	do(t, r, req, http.StatusUnauthorized)

	// Logout invalidates the rotated session.
	req = withCookies(httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil), rotated)
	do(t, r, req, http.StatusOK)
	req = withCookies(httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil), rotated)
	do(t, r, req, http.StatusUnauthorized)
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	r, _ := newTestServer(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/users/logout"},
		{http.MethodGet, "/api/v1/users/current-user"},
		{http.MethodGet, "/api/v1/users/watch-history"},
		{http.MethodPost, "/api/v1/videos"},
		{http.MethodPost, "/api/v1/tweets"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		if env := do(t, r, req, http.StatusUnauthorized); env.Success {
			t.Fatalf("%s %s: error envelope reports success", route.method, route.path)
		}
	}
}

func TestVideoPublishFlow(t *testing.T) {
	r, store := newTestServer(t)
	registerUser(t, r, "alice", "alice@example.com")
	cookies := loginUser(t, r, "alice")

	// Publish: multipart with both files.
	body, ct := multipartBody(t,
		map[string]string{"title": "Intro to Go", "description": "channels", "duration": "61.5"},
		map[string]string{"videoFile": "v.mp4", "thumbnail": "t.jpg"},
	)
	req := withCookies(httptest.NewRequest(http.MethodPost, "/api/v1/videos", body), cookies)
	req.Header.Set("Content-Type", ct)
	env := do(t, r, req, http.StatusCreated)

	var v entity.Video
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode video: %v", err)
	}
	if v.IsPublished {
		t.Fatal("fresh video listed as published")
	}
	if v.Duration != 61.5 {
		t.Fatalf("duration = %v", v.Duration)
	}

	// The draft is invisible in the public feed.
	env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil), http.StatusOK)
	var page struct {
		Items      []entity.VideoWithOwner `json:"items"`
		TotalItems int64                   `json:"totalItems"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("feed shows %d items before publish", len(page.Items))
	}

	// Toggle publish, then the feed carries it.
	req = withCookies(httptest.NewRequest(http.MethodPatch, "/api/v1/videos/toggle/publish/"+v.ID, nil), cookies)
	do(t, r, req, http.StatusOK)

	env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil), http.StatusOK)
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != v.ID {
		t.Fatalf("feed = %+v", page.Items)
	}
	if page.Items[0].Owner.Username != "alice" {
		t.Fatalf("owner projection = %+v", page.Items[0].Owner)
	}

	// A signed-in viewer bumps views and records history.
	registerUser(t, r, "bob", "bob@example.com")
	bobCookies := loginUser(t, r, "bob")
	req = withCookies(httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+v.ID, nil), bobCookies)
	env = do(t, r, req, http.StatusOK)
	var got entity.VideoWithOwner
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Views != 1 {
		t.Fatalf("views = %d, want 1", got.Views)
	}
	if len(store.history) != 1 {
		t.Fatalf("history = %v", store.history)
	}

	req = withCookies(httptest.NewRequest(http.MethodGet, "/api/v1/users/watch-history", nil), bobCookies)
	env = do(t, r, req, http.StatusOK)
	var history []entity.WatchHistoryEntry
	if err := json.Unmarshal(env.Data, &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history) != 1 || history[0].Video.ID != v.ID {
		t.Fatalf("history = %+v", history)
	}
}

func TestVideoOwnershipEnforced(t *testing.T) {
	r, _ := newTestServer(t)
	registerUser(t, r, "alice", "alice@example.com")
	aliceCookies := loginUser(t, r, "alice")

	body, ct := multipartBody(t,
		map[string]string{"title": "Mine", "description": "d", "duration": "10"},
		map[string]string{"videoFile": "v.mp4", "thumbnail": "t.jpg"},
	)
	req := withCookies(httptest.NewRequest(http.MethodPost, "/api/v1/videos", body), aliceCookies)
	req.Header.Set("Content-Type", ct)
	env := do(t, r, req, http.StatusCreated)
	var v entity.Video
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode: %v", err)
	}

	registerUser(t, r, "bob", "bob@example.com")
	bobCookies := loginUser(t, r, "bob")

	req = withCookies(httptest.NewRequest(http.MethodDelete, "/api/v1/videos/"+v.ID, nil), bobCookies)
	do(t, r, req, http.StatusUnauthorized)

	req = withCookies(httptest.NewRequest(http.MethodPatch, "/api/v1/videos/toggle/publish/"+v.ID, nil), bobCookies)
	do(t, r, req, http.StatusUnauthorized)
}

func TestChannelAndSubscriptions(t *testing.T) {
	r, _ := newTestServer(t)
	alice := registerUser(t, r, "alice", "alice@example.com")
	registerUser(t, r, "bob", "bob@example.com")
	bobCookies := loginUser(t, r, "bob")

	// Bob subscribes to alice.
	req := withCookies(httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/channel/"+alice.ID, nil), bobCookies)
	env := do(t, r, req, http.StatusOK)
	var toggle struct {
		Subscribed bool `json:"subscribed"`
	}
	if err := json.Unmarshal(env.Data, &toggle); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !toggle.Subscribed {
		t.Fatal("first toggle must subscribe")
	}

	// Self-subscription is rejected.
	aliceCookies := loginUser(t, r, "alice")
	req = withCookies(httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/channel/"+alice.ID, nil), aliceCookies)
	do(t, r, req, http.StatusBadRequest)

	// Channel page as bob: subscribed flag set.
	req = withCookies(httptest.NewRequest(http.MethodGet, "/api/v1/users/channel/alice", nil), bobCookies)
	env = do(t, r, req, http.StatusOK)
	var profile entity.ChannelProfile
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.SubscriberCount != 1 || !profile.IsSubscribed {
		t.Fatalf("profile = %+v", profile)
	}

	// Anonymous view: same counts, no personalization.
	env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/users/channel/alice", nil), http.StatusOK)
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.SubscriberCount != 1 || profile.IsSubscribed {
		t.Fatalf("anonymous profile = %+v", profile)
	}

	// Unknown channel.
	do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/users/channel/ghost", nil), http.StatusNotFound)
}

func TestTweetCRUD(t *testing.T) {
	r, _ := newTestServer(t)
	alice := registerUser(t, r, "alice", "alice@example.com")
	cookies := loginUser(t, r, "alice")

	req := withCookies(httptest.NewRequest(http.MethodPost, "/api/v1/tweets", strings.NewReader(`{"content":"hello world"}`)), cookies)
	req.Header.Set("Content-Type", "application/json")
	env := do(t, r, req, http.StatusCreated)
	var tw entity.Tweet
	if err := json.Unmarshal(env.Data, &tw); err != nil {
		t.Fatalf("decode: %v", err)
	}

	env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/tweets/user/"+alice.ID, nil), http.StatusOK)
	var tweets []entity.Tweet
	if err := json.Unmarshal(env.Data, &tweets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tweets) != 1 || tweets[0].Content != "hello world" {
		t.Fatalf("tweets = %+v", tweets)
	}

	req = withCookies(httptest.NewRequest(http.MethodPatch, "/api/v1/tweets/"+tw.ID, strings.NewReader(`{"content":"edited"}`)), cookies)
	req.Header.Set("Content-Type", "application/json")
	do(t, r, req, http.StatusOK)

	req = withCookies(httptest.NewRequest(http.MethodDelete, "/api/v1/tweets/"+tw.ID, nil), cookies)
	do(t, r, req, http.StatusOK)

	env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/tweets/user/"+alice.ID, nil), http.StatusOK)
	if err := json.Unmarshal(env.Data, &tweets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tweets) != 0 {
		t.Fatalf("tweets after delete = %+v", tweets)
	}
}

func TestRejectedUploadsCleanTempFiles(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)
	r, _ := newTestServer(t)

	// Registration fails field validation after the avatar was saved.
	body, ct := multipartBody(t,
		map[string]string{"fullName": "", "email": "a@b.co", "username": "a", "password": "secret-pass"},
		map[string]string{"avatar": "a.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", ct)
	do(t, r, req, http.StatusBadRequest)

	// Publish fails on a blank title after both files were saved.
	registerUser(t, r, "alice", "alice@example.com")
	cookies := loginUser(t, r, "alice")
	body, ct = multipartBody(t,
		map[string]string{"title": "", "description": "d", "duration": "1"},
		map[string]string{"videoFile": "v.mp4", "thumbnail": "t.jpg"},
	)
	req = withCookies(httptest.NewRequest(http.MethodPost, "/api/v1/videos", body), cookies)
	req.Header.Set("Content-Type", ct)
	do(t, r, req, http.StatusBadRequest)

	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("temp files left behind after rejected uploads: %v", names)
	}
}

func TestChangePasswordValidation(t *testing.T) {
	r, _ := newTestServer(t)
	registerUser(t, r, "alice", "alice@example.com")
	cookies := loginUser(t, r, "alice")

	// Too-short new password fails binding.
	req := withCookies(httptest.NewRequest(http.MethodPost, "/api/v1/users/change-password",
		strings.NewReader(`{"oldPassword":"secret-pass","newPassword":"short"}`)), cookies)
	req.Header.Set("Content-Type", "application/json")
	env := do(t, r, req, http.StatusBadRequest)
	if len(env.Errors) == 0 {
		t.Fatal("validation errors missing from envelope")
	}

	req = withCookies(httptest.NewRequest(http.MethodPost, "/api/v1/users/change-password",
		strings.NewReader(`{"oldPassword":"secret-pass","newPassword":"much-longer-secret"}`)), cookies)
	req.Header.Set("Content-Type", "application/json")
	do(t, r, req, http.StatusOK)
}
