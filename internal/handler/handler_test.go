package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"watchly/internal/middleware"
	"watchly/internal/model"
	"watchly/internal/recommend"
	"watchly/internal/repository"
	"watchly/pkg/tmdb"

	"github.com/gin-gonic/gin"
)

const (
	testSecret = "handler-test-secret-handler-test-secret"
	aliceID    = "6f1d2c3b-0000-4000-8000-00000000000a"
	bobID      = "6f1d2c3b-0000-4000-8000-00000000000b"
	carolID    = "6f1d2c3b-0000-4000-8000-00000000000c"
)

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]model.Profile
	err      error
}

func newFakeProfiles(profiles ...model.Profile) *fakeProfiles {
	f := &fakeProfiles{profiles: make(map[string]model.Profile)}
	for _, p := range profiles {
		f.profiles[p.UserID] = p
	}
	return f
}

func (f *fakeProfiles) GetByUserID(_ context.Context, userID string) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProfiles) GetByUserIDs(_ context.Context, userIDs []string) (map[string]model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]model.Profile)
	for _, id := range userIDs {
		if p, ok := f.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p *model.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.profiles[p.UserID] = *p
	return nil
}

func (f *fakeProfiles) Search(_ context.Context, term, excludeUserID string, limit int) ([]model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	term = strings.ToLower(term)
	var out []model.Profile
	for _, p := range f.profiles {
		if p.UserID == excludeUserID {
			continue
		}
		if strings.Contains(strings.ToLower(p.DisplayName), term) || strings.Contains(strings.ToLower(p.Email), term) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type edge struct{ follower, following string }

type fakeFollows struct {
	mu    sync.Mutex
	edges []edge
	err   error
}

func (f *fakeFollows) Follow(_ context.Context, followerID, followingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, e := range f.edges {
		if e.follower == followerID && e.following == followingID {
			return nil
		}
	}
	f.edges = append(f.edges, edge{followerID, followingID})
	return nil
}

func (f *fakeFollows) Unfollow(_ context.Context, followerID, followingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	kept := f.edges[:0]
	for _, e := range f.edges {
		if e.follower != followerID || e.following != followingID {
			kept = append(kept, e)
		}
	}
	f.edges = kept
	return nil
}

func (f *fakeFollows) IsFollowing(_ context.Context, followerID, followingID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.edges {
		if e.follower == followerID && e.following == followingID {
			return true, f.err
		}
	}
	return false, f.err
}

func (f *fakeFollows) FollowingIDs(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, e := range f.edges {
		if e.follower == userID {
			ids = append(ids, e.following)
		}
	}
	return ids, f.err
}

func (f *fakeFollows) FollowerIDs(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, e := range f.edges {
		if e.following == userID {
			ids = append(ids, e.follower)
		}
	}
	return ids, f.err
}

func (f *fakeFollows) Counts(ctx context.Context, userID string) (int, int, error) {
	followers, _ := f.FollowerIDs(ctx, userID)
	following, _ := f.FollowingIDs(ctx, userID)
	return len(followers), len(following), f.err
}

type fakeLogs struct {
	mu        sync.Mutex
	logs      []model.WatchLog
	feed      []model.WatchLog
	feedTotal int
	lastLimit int
	err       error
}

func (f *fakeLogs) Create(_ context.Context, l *model.WatchLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	l.ID = "01J0000000000000000000000" + string(rune('A'+len(f.logs)))
	l.CreatedAt = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	f.logs = append(f.logs, *l)
	return nil
}

func (f *fakeLogs) DeleteOwned(_ context.Context, id, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, l := range f.logs {
		if l.ID != id {
			continue
		}
		if l.UserID != ownerID {
			return repository.ErrForbidden
		}
		f.logs = append(f.logs[:i], f.logs[i+1:]...)
		return nil
	}
	return repository.ErrNotFound
}

func (f *fakeLogs) ListByUser(_ context.Context, userID string, postsOnly bool, limit int) ([]model.WatchLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	out := []model.WatchLog{}
	for _, l := range f.logs {
		if l.UserID == userID && (!postsOnly || l.IsPost) {
			out = append(out, l)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, f.err
}

func (f *fakeLogs) GetFeed(_ context.Context, _ string, limit, _ int) ([]model.WatchLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	return f.feed, f.err
}

func (f *fakeLogs) GetFeedTotal(context.Context, string) (int, error) {
	return f.feedTotal, f.err
}

type fakeRecommender struct {
	result *recommend.Result
	err    error
	moods  []string
}

func (f *fakeRecommender) Recommend(_ context.Context, mood string) (*recommend.Result, error) {
	f.moods = append(f.moods, mood)
	if strings.TrimSpace(mood) == "" {
		return nil, recommend.ErrMoodRequired
	}
	return f.result, f.err
}

type fakeCatalog struct {
	view    *tmdb.MovieView
	movies  []tmdb.Movie
	shows   []tmdb.TVShow
	region  string
	queries []string
	err     error
}

func (f *fakeCatalog) MovieView(_ context.Context, _ int64, region string) (*tmdb.MovieView, error) {
	f.region = region
	if f.err != nil {
		return nil, f.err
	}
	v := *f.view
	v.Region = region
	return &v, nil
}

func (f *fakeCatalog) SearchAll(ctx context.Context, query string) ([]tmdb.MediaItem, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	items := movieItems(f.movies)
	for _, s := range f.shows {
		items = append(items, s.Item())
	}
	return items, nil
}

func (f *fakeCatalog) SearchMovies(_ context.Context, query string) ([]tmdb.Movie, error) {
	f.queries = append(f.queries, query)
	return f.movies, f.err
}

func (f *fakeCatalog) SearchTV(_ context.Context, query string) ([]tmdb.TVShow, error) {
	f.queries = append(f.queries, query)
	return f.shows, f.err
}

func (f *fakeCatalog) PopularMovies(context.Context) ([]tmdb.Movie, error) {
	return f.movies, f.err
}

func (f *fakeCatalog) PosterURL(path, size string) string {
	if path == "" {
		return ""
	}
	return "https://img.test/" + size + path
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type testDeps struct {
	profiles *fakeProfiles
	follows  *fakeFollows
	logs     *fakeLogs
}

func newTestDeps() *testDeps {
	return &testDeps{
		profiles: newFakeProfiles(),
		follows:  &fakeFollows{},
		logs:     &fakeLogs{},
	}
}

func newSocialRouter(d *testDeps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	profileHandler := NewProfileHandler(d.profiles, d.follows, d.logs)
	followHandler := NewFollowHandler(d.follows)
	logHandler := NewWatchLogHandler(d.logs, d.profiles)
	feedHandler := NewFeedHandler(d.logs, d.profiles)

	api := r.Group("/api", middleware.RequireAuth(testSecret))
	api.GET("/profiles/me", profileHandler.GetMe)
	api.PUT("/profiles/me", profileHandler.UpdateMe)
	api.GET("/profiles/search", profileHandler.SearchProfiles)
	api.GET("/profiles/:userId", profileHandler.GetProfile)
	api.GET("/profiles/:userId/stats", profileHandler.GetStats)
	api.GET("/profiles/:userId/followers", profileHandler.GetFollowers)
	api.GET("/profiles/:userId/following", profileHandler.GetFollowing)
	api.GET("/profiles/:userId/logs", logHandler.GetUserLogs)
	api.POST("/follows/:userId", followHandler.Follow)
	api.DELETE("/follows/:userId", followHandler.Unfollow)
	api.POST("/logs", logHandler.CreateLog)
	api.GET("/logs/me", logHandler.GetMyLogs)
	api.DELETE("/logs/:id", logHandler.DeleteLog)
	api.GET("/feed", feedHandler.GetFeed)
	return r
}

func tokenFor(t *testing.T, userID, email string) string {
	t.Helper()
	token, err := middleware.SignToken(testSecret, userID, email, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, r *gin.Engine, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, userID, userID[len(userID)-1:]+"@example.com"))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func strPtr(s string) *string { return &s }
