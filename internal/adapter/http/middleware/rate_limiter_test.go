package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"taskapi/internal/shared"
)

func rateLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(rl.Middleware())

	router.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}

func TestNewRateLimiter(t *testing.T) {
	RegisterTestingT(t)

	metrics := shared.NewAppMetrics(prometheus.NewRegistry())
	rl := NewRateLimiter(60, time.Minute, metrics)

	Expect(rl).ToNot(BeNil())
	Expect(rl.cache).ToNot(BeNil())
	Expect(rl.requests).To(Equal(60))
	Expect(rl.window).To(Equal(time.Minute))
}

func TestRateLimiterAllowedRequests(t *testing.T) {
	RegisterTestingT(t)

	rl := NewRateLimiter(10, time.Minute, nil)
	router := rateLimitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
		Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("10"))
		Expect(w.Header().Get("X-RateLimit-Remaining")).ToNot(BeEmpty())
	}
}

func TestRateLimiterExceedLimit(t *testing.T) {
	RegisterTestingT(t)

	rl := NewRateLimiter(5, time.Minute, nil)
	router := rateLimitedRouter(rl)

	for i := 0; i < 8; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		if i < 5 {
			Expect(w.Code).To(Equal(200))
		} else {
			Expect(w.Code).To(Equal(429))
			Expect(w.Body.String()).To(ContainSubstring("Rate limit exceeded"))
		}
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	RegisterTestingT(t)

	rl := NewRateLimiter(1, 50*time.Millisecond, nil)
	router := rateLimitedRouter(rl)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(200))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(429))

	time.Sleep(60 * time.Millisecond)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(200))
}

func TestRateLimiterSeparatePaths(t *testing.T) {
	RegisterTestingT(t)

	rl := NewRateLimiter(1, time.Minute, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/a", func(c *gin.Context) { c.Status(200) })
	router.GET("/b", func(c *gin.Context) { c.Status(200) })

	for _, path := range []string{"/a", "/b"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
	}

	Expect(rl.ActiveEntries()).To(Equal(2))
}
