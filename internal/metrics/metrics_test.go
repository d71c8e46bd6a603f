package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStatementVerb(t *testing.T) {
	cases := []struct{ sql, want string }{
		{"SELECT 1", "SELECT"},
		{"\n\t\t insert into jobs (title)", "INSERT"},
		{"UPDATE jobs SET \"title\"=$1", "UPDATE"},
		{"delete from users where x = $1", "DELETE"},
		{"with x as (select 1) select * from x", "OTHER"},
		{"", "OTHER"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatementVerb(tc.sql), tc.sql)
	}
}

func TestObserveQuery(t *testing.T) {
	before := testutil.ToFloat64(queryFailedTotal.WithLabelValues("DELETE"))

	QueryStarted()
	assert.Equal(t, float64(1), testutil.ToFloat64(queriesInFlight))
	ObserveQuery("DELETE FROM jobs WHERE id = $1", time.Millisecond, errors.New("boom"))
	assert.Equal(t, float64(0), testutil.ToFloat64(queriesInFlight))

	assert.Equal(t, before+1, testutil.ToFloat64(queryFailedTotal.WithLabelValues("DELETE")))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/jobs/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := requestTotal.WithLabelValues(http.MethodGet, "/jobs/:id", "200")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/jobs/1", "/jobs/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Equal(t, before+2, testutil.ToFloat64(counter))

	unmatched := requestTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before = testutil.ToFloat64(unmatched)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(unmatched))
}
