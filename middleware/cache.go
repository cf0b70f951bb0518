package middleware

import (
	"bytes"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aisenh037/MBC-sub002/cache"
)

// bodyCapture tees the serialized response so the page cache can be
// populated as a side effect, without patching any framework method.
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePage serves GET requests from the cache layer when possible. The key
// lives under the given resource namespace and is derived from method, path,
// canonicalized query parameters and the authenticated principal's id and
// role. The resource prefix is what lets service-level invalidation patterns
// such as "students:*" sweep cached pages along with entity entries. On a
// miss the 2xx response body is written back to the cache fire-and-forget;
// population is detached from the request lifecycle and is never awaited by
// the response path.
func CachePage(pageCache *cache.Cache, resource string, class cache.TTLClass) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		var principalID, role string
		if p := PrincipalFromContext(c); p != nil {
			principalID = p.ID
			role = string(p.Role)
		}
		key := cache.EntityKey(resource, "page",
			cache.RequestKey(c.Request.Method, c.Request.URL.Path, c.Request.URL.Query(), principalID, role))

		if raw := pageCache.GetRaw(c.Request.Context(), key); raw != nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
			c.Abort()
			return
		}

		writer := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header("X-Cache", "MISS")
		c.Next()

		if writer.Status() == http.StatusOK && writer.buf.Len() > 0 {
			payload := make([]byte, writer.buf.Len())
			copy(payload, writer.buf.Bytes())
			go pageCache.SetRaw(context.Background(), key, payload, class)
		}
	}
}
