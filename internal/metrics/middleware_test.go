package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/v1/products/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/products/:id", "404"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/42", http.NoBody))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status want 404 got %d", rec.Code)
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/products/:id", "404"))
	if after-before != 1 {
		t.Fatalf("request counter should increase by 1, before=%f after=%f", before, after)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Fatalf("duration histogram should have observations")
	}
}

func TestMiddlewareUnknownRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unknown", "404"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", http.NoBody))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unknown", "404"))
	if after-before != 1 {
		t.Fatalf("unmatched route should be labeled unknown, before=%f after=%f", before, after)
	}
}

func TestObserveSearch(t *testing.T) {
	ObserveSearch(15*time.Millisecond, 8, 3)
	if testutil.CollectAndCount(SearchResults) == 0 {
		t.Fatalf("search results histogram should have observations")
	}
}
