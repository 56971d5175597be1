package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordGraphQL(t *testing.T) {
	m := New("test")

	m.RecordGraphQL(OutcomeSuccess, 10*time.Millisecond)
	m.RecordGraphQL(OutcomeSuccess, 20*time.Millisecond)
	m.RecordGraphQL(OutcomeRejected, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GraphQLRequestsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GraphQLRequestsTotal.WithLabelValues(OutcomeRejected)))
}

func TestRecordWrite(t *testing.T) {
	m := New("test")

	m.RecordWrite("person", nil)
	m.RecordWrite("movie", errors.New("unknown status"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogWritesTotal.WithLabelValues("person", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogWritesTotal.WithLabelValues("movie", "error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordGraphQL(OutcomeError, time.Second)
		m.RecordWrite("person", nil)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New("moviegraph")
	m.RecordGraphQL(OutcomePartial, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `moviegraph_graphql_requests_total{outcome="partial"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New("x"), New("x")
	a.RecordWrite("person", nil)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CatalogWritesTotal.WithLabelValues("person", "success")))
}
