package client

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"campushub/internal/app"
	"campushub/internal/domain"
	"campushub/internal/repository/sqlite"
)

type testServer struct {
	*httptest.Server
	db       *sql.DB
	requests atomic.Int64
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	router, err := app.NewRouter(db, app.Options{BcryptCost: bcrypt.MinCost, Logger: logger})
	require.NoError(t, err)

	ts := &testServer{db: db}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.requests.Add(1)
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func (ts *testServer) seedNotice(t *testing.T, title string) int64 {
	t.Helper()
	n := &domain.Notice{Title: title, Date: "Mon Jan 01 2024", Description: title}
	id, err := sqlite.NewNoticeRepository(ts.db).Create(context.Background(), n)
	require.NoError(t, err)
	return id
}

func (ts *testServer) serverReads(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, ts.db.QueryRow(`SELECT COUNT(*) FROM notice_reads`).Scan(&n))
	return n
}

type testClient struct {
	store   *Store
	cache   *AuthCache
	api     *API
	session *Session
	rec     *Reconciler
}

func newTestClient(t *testing.T, ts *testServer, path string) *testClient {
	t.Helper()
	ctx := context.Background()

	store, err := OpenStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cache := NewAuthCache(store)
	require.NoError(t, cache.Load(ctx))
	jar, err := NewCookieJar(ctx, store, ts.URL, quietLogger())
	require.NoError(t, err)
	api := NewAPI(ts.URL, jar)

	return &testClient{
		store:   store,
		cache:   cache,
		api:     api,
		session: NewSession(api, cache),
		rec:     NewReconciler(api, cache, store),
	}
}

func TestAnonymousReadStaysLocal(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts, filepath.Join(t.TempDir(), "c.db"))
	ctx := context.Background()
	id := ts.seedNotice(t, "Library hours")

	res, err := c.rec.MarkRead(ctx, id)
	require.NoError(t, err)
	assert.False(t, res.Mode.IsServerBacked())
	assert.False(t, res.SessionExpired)

	read, err := c.rec.IsRead(ctx, id)
	require.NoError(t, err)
	assert.True(t, read)
	assert.Zero(t, ts.serverReads(t))
	assert.Zero(t, ts.requests.Load())
}

func TestAnonymousUpvoteNeedsAuthWithoutRequest(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts, filepath.Join(t.TempDir(), "c.db"))
	id := ts.seedNotice(t, "Hackathon")

	_, err := c.rec.ToggleUpvote(context.Background(), id)
	require.ErrorIs(t, err, ErrAuthRequired)
	assert.Zero(t, ts.requests.Load())
}

func TestSignedInEngagementIsServerBacked(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts, filepath.Join(t.TempDir(), "c.db"))
	ctx := context.Background()
	id := ts.seedNotice(t, "Placement drive")

	who, err := c.session.Register(ctx, "Nia", "nia@campus.edu", "pw")
	require.NoError(t, err)
	current, err := c.cache.RequireAuth()
	require.NoError(t, err)
	assert.Equal(t, who, current)

	read0, err := c.rec.MarkRead(ctx, id)
	require.NoError(t, err)
	assert.True(t, read0.Mode.IsServerBacked())
	assert.Equal(t, 1, ts.serverReads(t))

	local, err := c.store.IsRead(ctx, id)
	require.NoError(t, err)
	assert.False(t, local)

	read, err := c.rec.IsRead(ctx, id)
	require.NoError(t, err)
	assert.True(t, read)

	res, err := c.rec.ToggleUpvote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.UpvoteResult{UpvoteCount: 1, Upvoted: true}, res)
	res, err = c.rec.ToggleUpvote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.UpvoteResult{UpvoteCount: 0, Upvoted: false}, res)
}

func TestSessionSurvivesRestart(t *testing.T) {
	ts := newTestServer(t)
	path := filepath.Join(t.TempDir(), "c.db")
	ctx := context.Background()
	id := ts.seedNotice(t, "Sports day")

	first := newTestClient(t, ts, path)
	_, err := first.session.Register(ctx, "Omar", "omar@campus.edu", "pw")
	require.NoError(t, err)
	require.NoError(t, first.store.Close())

	second := newTestClient(t, ts, path)
	require.True(t, second.cache.IsAuthenticated())
	res, err := second.rec.ToggleUpvote(ctx, id)
	require.NoError(t, err)
	assert.True(t, res.Upvoted)
}

func TestStaleSessionIsReportedNotCleared(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	id := ts.seedNotice(t, "Exam schedule")

	laptop := newTestClient(t, ts, filepath.Join(t.TempDir(), "laptop.db"))
	phone := newTestClient(t, ts, filepath.Join(t.TempDir(), "phone.db"))

	_, err := laptop.session.Register(ctx, "Zoe", "zoe@campus.edu", "pw")
	require.NoError(t, err)
	_, err = phone.session.Login(ctx, "zoe@campus.edu", "pw")
	require.NoError(t, err)

	// the phone's login superseded the laptop's token
	_, err = laptop.rec.ToggleUpvote(ctx, id)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.ErrorIs(t, err, ErrAuthRequired)
	assert.True(t, laptop.cache.IsAuthenticated())

	_, err = laptop.rec.IsRead(ctx, id)
	require.ErrorIs(t, err, ErrSessionExpired)

	res, err := laptop.rec.MarkRead(ctx, id)
	require.NoError(t, err)
	assert.True(t, res.SessionExpired)
	assert.False(t, res.Mode.IsServerBacked())
	assert.True(t, laptop.cache.IsAuthenticated())
	local, err := laptop.store.IsRead(ctx, id)
	require.NoError(t, err)
	assert.True(t, local)
	assert.Zero(t, ts.serverReads(t))

	require.NoError(t, laptop.session.Expire(ctx))
	assert.False(t, laptop.cache.IsAuthenticated())
	saved, err := laptop.store.Get(ctx, cookiesKey)
	require.NoError(t, err)
	assert.Nil(t, saved)

	_, err = laptop.rec.ToggleUpvote(ctx, id)
	require.ErrorIs(t, err, ErrAuthRequired)
	assert.NotErrorIs(t, err, ErrSessionExpired)
}

func TestLogoutClearsCacheEvenWhenServerIsDown(t *testing.T) {
	ts := newTestServer(t)
	path := filepath.Join(t.TempDir(), "c.db")
	ctx := context.Background()

	c := newTestClient(t, ts, path)
	_, err := c.session.Register(ctx, "Ivy", "ivy@campus.edu", "pw")
	require.NoError(t, err)

	ts.Close()
	err = c.session.Logout(ctx)
	require.Error(t, err)
	assert.False(t, c.cache.IsAuthenticated())

	reloaded := NewAuthCache(c.store)
	require.NoError(t, reloaded.Load(ctx))
	assert.False(t, reloaded.IsAuthenticated())

	saved, err := c.store.Get(ctx, cookiesKey)
	require.NoError(t, err)
	assert.Nil(t, saved)
	scope, err := apiScope(ts.URL)
	require.NoError(t, err)
	assert.Empty(t, c.api.http.Jar.Cookies(scope))
}

func TestLoginFailureLeavesCacheUntouched(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts, filepath.Join(t.TempDir(), "c.db"))
	ctx := context.Background()

	_, err := c.session.Login(ctx, "nobody@campus.edu", "pw")
	require.True(t, IsUnauthorized(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_credentials", apiErr.Kind)
	assert.False(t, c.cache.IsAuthenticated())
}
