package cache_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aisenh037/MBC-sub002/cache"
)

func TestRequestKeyCanonicalizesQueryOrder(t *testing.T) {
	a, _ := url.ParseQuery("limit=10&offset=0&semester=3")
	b, _ := url.ParseQuery("semester=3&limit=10&offset=0")

	keyA := cache.RequestKey("GET", "/api/v1/courses", a, "u1", "student")
	keyB := cache.RequestKey("GET", "/api/v1/courses", b, "u1", "student")

	assert.Equal(t, keyA, keyB)
}

func TestRequestKeyDiffersByPrincipal(t *testing.T) {
	q, _ := url.ParseQuery("limit=10")

	keyA := cache.RequestKey("GET", "/api/v1/students", q, "u1", "student")
	keyB := cache.RequestKey("GET", "/api/v1/students", q, "u2", "student")
	keyAdmin := cache.RequestKey("GET", "/api/v1/students", q, "u1", "admin")

	assert.NotEqual(t, keyA, keyB)
	assert.NotEqual(t, keyA, keyAdmin)
}

func TestRequestKeyDiffersByValue(t *testing.T) {
	a, _ := url.ParseQuery("semester=3")
	b, _ := url.ParseQuery("semester=4")

	assert.NotEqual(t,
		cache.RequestKey("GET", "/api/v1/courses", a, "", ""),
		cache.RequestKey("GET", "/api/v1/courses", b, "", ""))
}

func TestRequestKeyRepeatedParams(t *testing.T) {
	a, _ := url.ParseQuery("tag=b&tag=a")
	b, _ := url.ParseQuery("tag=a&tag=b")

	assert.Equal(t,
		cache.RequestKey("GET", "/api/v1/notices", a, "", ""),
		cache.RequestKey("GET", "/api/v1/notices", b, "", ""))
}

func TestEntityKey(t *testing.T) {
	assert.Equal(t, "students:list:inst-1", cache.EntityKey("students", "list", "inst-1"))
}
