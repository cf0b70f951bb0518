package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aisenh037/MBC-sub002/cache"
	"github.com/Aisenh037/MBC-sub002/middleware"
	"github.com/Aisenh037/MBC-sub002/test/mock"
)

func newCachedEngine(store cache.Store, hits *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	pageCache := cache.New(store, "mbc", cache.DefaultTTLs())
	r := gin.New()
	r.GET("/courses", middleware.CachePage(pageCache, "courses", cache.TTLLong), func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusOK, gin.H{"success": true, "data": []string{"CS101"}})
	})
	r.GET("/broken", middleware.CachePage(pageCache, "courses", cache.TTLShort), func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
	})
	return r
}

func TestCachePageMissThenHit(t *testing.T) {
	store := mock.NewStore()
	handlerHits := 0
	r := newCachedEngine(store, &handlerHits)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses?limit=10", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, 1, handlerHits)
	firstBody := w.Body.String()

	// Population is fire-and-forget; wait for the entry to land.
	require.Eventually(t, func() bool { return store.Len() == 1 }, time.Second, 5*time.Millisecond)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses?limit=10", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, 1, handlerHits)
	assert.JSONEq(t, firstBody, w.Body.String())
}

func TestCachePageQueryOrderSharesEntry(t *testing.T) {
	store := mock.NewStore()
	handlerHits := 0
	r := newCachedEngine(store, &handlerHits)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses?limit=10&offset=0", nil))
	require.Equal(t, "MISS", w.Header().Get("X-Cache"))
	require.Eventually(t, func() bool { return store.Len() == 1 }, time.Second, 5*time.Millisecond)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses?offset=0&limit=10", nil))
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, 1, handlerHits)
}

func TestCachePageSkipsNon200(t *testing.T) {
	store := mock.NewStore()
	handlerHits := 0
	r := newCachedEngine(store, &handlerHits)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/broken", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// Give any stray population goroutine a chance to run, then verify
	// nothing was stored.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, store.Len())
}

// Page keys live under the resource namespace, so the same patterns the
// services sweep after a write also drop cached list pages. A reader must see
// a newly created entity on the next list request, not after TTL expiry.
func TestCachePageInvalidatedByResourcePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := mock.NewStore()
	pageCache := cache.New(store, "mbc", cache.DefaultTTLs())

	students := []string{"alice"}
	r := gin.New()
	r.GET("/api/v1/students", middleware.CachePage(pageCache, "students", cache.TTLShort), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": students})
	})
	r.POST("/api/v1/students", func(c *gin.Context) {
		students = append(students, "bob")
		_, err := pageCache.InvalidatePattern(c.Request.Context(), "students:*")
		require.NoError(t, err)
		c.JSON(http.StatusCreated, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/students?limit=10", nil))
	require.Equal(t, "MISS", w.Header().Get("X-Cache"))
	require.Eventually(t, func() bool { return store.Len() == 1 }, time.Second, 5*time.Millisecond)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/students?limit=10", nil))
	require.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.NotContains(t, w.Body.String(), "bob")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/students", nil))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 0, store.Len())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/students?limit=10", nil))
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Contains(t, w.Body.String(), "bob")
}

func TestCachePageDegradesWhenStoreDown(t *testing.T) {
	store := mock.NewStore()
	store.FailAll = true
	handlerHits := 0
	r := newCachedEngine(store, &handlerHits)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, handlerHits)
}
