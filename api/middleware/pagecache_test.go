package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/services"
)

func setupCachedRouter(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *gin.Engine, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	renders := 0
	router := gin.New()
	router.GET("/", CachePage(services.NewRedisPageCache(client), ttl), func(c *gin.Context) {
		renders++
		c.String(http.StatusOK, "render %d page %s", renders, c.Query("page"))
	})
	return mr, router, &renders
}

func get(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestCachePageReplaysVerbatimWithinTTL(t *testing.T) {
	_, router, renders := setupCachedRouter(t, 20*time.Second)

	first := get(router, "/?page=1")
	require.Equal(t, http.StatusOK, first.Code)

	// повторное чтение внутри окна TTL отдает байт-в-байт тот же вывод,
	// даже когда данные под ним уже изменились
	second := get(router, "/?page=1")
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, *renders)
}

func TestCachePageExpiresAfterTTL(t *testing.T) {
	mr, router, renders := setupCachedRouter(t, 20*time.Second)

	first := get(router, "/?page=1")
	mr.FastForward(21 * time.Second)
	second := get(router, "/?page=1")

	assert.NotEqual(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 2, *renders)
}

func TestCachePageKeyIncludesQueryString(t *testing.T) {
	_, router, renders := setupCachedRouter(t, time.Minute)

	page1 := get(router, "/?page=1")
	page2 := get(router, "/?page=2")

	assert.NotEqual(t, page1.Body.String(), page2.Body.String())
	assert.Equal(t, 2, *renders)

	again := get(router, "/?page=2")
	assert.Equal(t, page2.Body.String(), again.Body.String())
	assert.Equal(t, 2, *renders)
}

func TestCachePageFallsThroughWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)

	renders := 0
	router := gin.New()
	router.GET("/", CachePage(services.NewRedisPageCache(nil), time.Minute), func(c *gin.Context) {
		renders++
		c.String(http.StatusOK, fmt.Sprintf("render %d", renders))
	})

	first := get(router, "/")
	second := get(router, "/")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 2, renders)
}
