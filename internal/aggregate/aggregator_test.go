package aggregate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"childcare-assistant/internal/common/config"
	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/gateway"
	"childcare-assistant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGatewayServer(t *testing.T, routes map[string]string) (*gateway.Client, *[]string) {
	t.Helper()
	var mu sync.Mutex
	var seen []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.URL.RequestURI())
		mu.Unlock()

		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return gateway.NewClient(config.GatewayConfig{BaseURL: server.URL, Timeout: 2000}), &seen
}

func TestFetchData_ListAndCount(t *testing.T) {
	gw, seen := newGatewayServer(t, map[string]string{
		"/billing": `[{"id":"i1","status":"unpaid","amount":20},{"id":"i2","status":"unpaid","amount":30}]`,
	})
	agg := NewAggregator(gw, logger.NewTestLogger(t))
	agg.now = func() time.Time { return fixedNow }

	intent := models.QueryIntent{
		Entity:    models.EntityBilling,
		Type:      models.QueryTypeList,
		Filters:   map[string]interface{}{"status": "unpaid"},
		Timeframe: models.TimeframeMonth,
	}
	res, err := agg.FetchData(context.Background(), intent)
	require.NoError(t, err)

	require.NotNil(t, res.Count)
	assert.Equal(t, 2, *res.Count)
	assert.Len(t, res.Data, 2)
	assert.Equal(t, "/billing", res.Metadata.Source)
	assert.Equal(t, "2026-03-10T12:00:00Z", res.Metadata.Timestamp)
	assert.Equal(t, []string{"/billing?status=unpaid&timeframe=month"}, *seen)
}

func TestFetchData_Analyze(t *testing.T) {
	gw, _ := newGatewayServer(t, map[string]string{
		"/attendance": `{"data":[{"status":"present"},{"status":"absent"}]}`,
	})
	agg := NewAggregator(gw, logger.NewTestLogger(t))

	res, err := agg.FetchData(context.Background(), models.QueryIntent{Entity: models.EntityAttendance, Type: models.QueryTypeAnalyze})
	require.NoError(t, err)

	stats, ok := res.Data.(AttendanceStats)
	require.True(t, ok)
	assert.Equal(t, 50.0, stats.AttendanceRate)
	assert.Equal(t, 2, *res.Count)
}

func TestFetchData_Dispatch(t *testing.T) {
	routes := map[string]string{}
	for _, r := range resources {
		routes[r] = `[]`
	}
	gw, seen := newGatewayServer(t, routes)
	agg := NewAggregator(gw, logger.NewNoOpLogger())

	for entity, resource := range resources {
		*seen = nil
		_, err := agg.FetchData(context.Background(), models.QueryIntent{Entity: entity, Type: models.QueryTypeList})
		require.NoError(t, err, entity)
		assert.Equal(t, []string{resource}, *seen, entity)
	}
}

func TestFetchData_UnsupportedEntity(t *testing.T) {
	agg := NewAggregator(&stubLister{}, logger.NewNoOpLogger())

	for _, entity := range []models.Entity{models.EntityAlbum, models.EntityUser} {
		_, err := agg.FetchData(context.Background(), models.QueryIntent{Entity: entity, Type: models.QueryTypeList})
		var ue *apperrors.UnsupportedEntityError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, string(entity), ue.Entity)
	}
}

func TestFetchData_PropagatesNetworkError(t *testing.T) {
	gw, _ := newGatewayServer(t, map[string]string{})
	agg := NewAggregator(gw, logger.NewNoOpLogger())

	_, err := agg.FetchData(context.Background(), models.QueryIntent{Entity: models.EntityStaff, Type: models.QueryTypeList})
	assert.True(t, errors.Is(err, apperrors.ErrNetwork))
}

type stubLister struct {
	mu      sync.Mutex
	calls   []string
	fail    map[string]error
	started chan string
	release chan struct{}
}

func (s *stubLister) List(ctx context.Context, resource string, _ url.Values) (interface{}, error) {
	s.mu.Lock()
	s.calls = append(s.calls, resource)
	s.mu.Unlock()

	if s.started != nil {
		s.started <- resource
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := s.fail[resource]; err != nil {
		return nil, err
	}
	return []interface{}{map[string]interface{}{"status": "active"}}, nil
}

func TestFetchData_ReportRunsSectionsConcurrently(t *testing.T) {
	lister := &stubLister{started: make(chan string, len(ReportSections)), release: make(chan struct{})}
	agg := NewAggregator(lister, logger.NewNoOpLogger())

	done := make(chan struct{})
	var res models.DataResult
	var err error
	go func() {
		res, err = agg.FetchData(context.Background(), models.QueryIntent{Entity: models.EntityReport, Type: models.QueryTypeGenerate})
		close(done)
	}()

	// Every section must be in flight before any of them is released.
	for range ReportSections {
		select {
		case <-lister.started:
		case <-time.After(2 * time.Second):
			t.Fatal("report sections were not fetched concurrently")
		}
	}
	close(lister.release)
	<-done

	require.NoError(t, err)
	assert.Equal(t, SourceReport, res.Metadata.Source)

	report, ok := res.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, report, len(ReportSections))
	assert.Equal(t, 1, report["children"].(ReportSection).Count)
	assert.IsType(t, BillingStats{}, report["billing"].(ReportSection).Summary)
}

func TestFetchData_ReportAllOrNothing(t *testing.T) {
	for _, failing := range ReportSections {
		t.Run(string(failing), func(t *testing.T) {
			resource, _ := Resource(failing)
			lister := &stubLister{fail: map[string]error{
				resource: apperrors.NewNetworkError(resource, http.StatusServiceUnavailable, nil),
			}}
			agg := NewAggregator(lister, logger.NewNoOpLogger())

			res, err := agg.FetchData(context.Background(), models.QueryIntent{Entity: models.EntityReport, Type: models.QueryTypeGenerate})

			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrNetwork))
			assert.Nil(t, res.Data)
		})
	}
}

func TestQueryParams(t *testing.T) {
	params := QueryParams(models.QueryIntent{
		Filters:     map[string]interface{}{"onDuty": true, "severity": "high", "skip": nil},
		Timeframe:   models.TimeframeWeek,
		Aggregation: models.AggregationSum,
	})
	assert.Equal(t, "aggregation=sum&onDuty=true&severity=high&timeframe=week", params.Encode())
}
