package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"yatube/services"
)

// CachePage отдает сохраненный вывод страницы, пока не истек TTL, и
// сохраняет свежий 200-й ответ при промахе. Ключ включает строку
// запроса, так что каждая страница ленты кешируется отдельно. Записи
// в хранилище кеш не сбрасывают: окно устаревания намеренное.
func CachePage(cache services.PageCache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := services.FeedPagePrefix + c.Request.URL.RawQuery

		if data, ok := cache.Get(c.Request.Context(), key); ok {
			RecordFeedCache("hit")
			c.Data(http.StatusOK, "text/html; charset=utf-8", data)
			c.Abort()
			return
		}
		RecordFeedCache("miss")

		writer := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()

		if writer.Status() == http.StatusOK {
			cache.Set(c.Request.Context(), key, writer.body.Bytes(), ttl)
		}
	}
}

type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
