package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhan-trinh/phongdaotao/internal/service"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
)

type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (r *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := r.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (r *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.entries[key] = raw
	return nil
}

func (r *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range r.entries {
		if strings.HasPrefix(key, prefix) {
			delete(r.entries, key)
		}
	}
	return nil
}

func newCachedRouter(repo *memoryCacheRepo, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cacheSvc := service.NewCacheService(repo, nil, time.Minute, nil, true)
	r := gin.New()
	r.GET("/things", ResponseCache(cacheSvc, time.Minute), handler)
	return r
}

func TestResponseCacheMissThenHit(t *testing.T) {
	calls := 0
	r := newCachedRouter(newMemoryCacheRepo(), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"n": calls})
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/things", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/things", nil))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)
}

func TestResponseCacheKeyIncludesQuery(t *testing.T) {
	r := newCachedRouter(newMemoryCacheRepo(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": c.Query("page")})
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/things?page=1", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/things?page=2", nil))

	assert.Equal(t, "MISS", second.Header().Get("X-Cache"))
	assert.NotEqual(t, first.Body.String(), second.Body.String())
}

func TestResponseCacheSkipsErrors(t *testing.T) {
	repo := newMemoryCacheRepo()
	r := newCachedRouter(repo, func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"status": "error"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, repo.entries)
}

func TestCacheInvalidateDropsDecidedFromCachedList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newMemoryCacheRepo()
	cacheSvc := service.NewCacheService(repo, nil, time.Minute, nil, true)

	pending := []string{"reg-42"}
	r := gin.New()
	r.GET("/course-registrations", ResponseCache(cacheSvc, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": pending})
	})
	r.POST("/course-registrations/decide", CacheInvalidate(cacheSvc, "resp:/course-registrations*"), func(c *gin.Context) {
		pending = nil
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/course-registrations?status=pending", nil))
	require.Equal(t, http.StatusOK, first.Code)
	require.Contains(t, first.Body.String(), "reg-42")

	decide := httptest.NewRecorder()
	r.ServeHTTP(decide, httptest.NewRequest(http.MethodPost, "/course-registrations/decide", nil))
	require.Equal(t, http.StatusOK, decide.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/course-registrations?status=pending", nil))
	assert.Equal(t, "MISS", second.Header().Get("X-Cache"))
	assert.NotContains(t, second.Body.String(), "reg-42")
}

func TestCacheInvalidateKeepsCacheOnFailedMutation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newMemoryCacheRepo()
	cacheSvc := service.NewCacheService(repo, nil, time.Minute, nil, true)

	r := gin.New()
	r.GET("/things", ResponseCache(cacheSvc, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/things/decide", CacheInvalidate(cacheSvc, "resp:/things*"), func(c *gin.Context) {
		c.JSON(http.StatusConflict, gin.H{"status": "error"})
	})

	warm := httptest.NewRecorder()
	r.ServeHTTP(warm, httptest.NewRequest(http.MethodGet, "/things", nil))
	require.Equal(t, "MISS", warm.Header().Get("X-Cache"))

	failed := httptest.NewRecorder()
	r.ServeHTTP(failed, httptest.NewRequest(http.MethodPost, "/things/decide", nil))
	require.Equal(t, http.StatusConflict, failed.Code)

	again := httptest.NewRecorder()
	r.ServeHTTP(again, httptest.NewRequest(http.MethodGet, "/things", nil))
	assert.Equal(t, "HIT", again.Header().Get("X-Cache"))
}

func TestResponseCacheDisabledPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cacheSvc := service.NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, false)
	r := gin.New()
	r.GET("/things", ResponseCache(cacheSvc, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Cache"))
}
