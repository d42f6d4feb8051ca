// Package aggregate fetches gateway data for an intent and summarises it.
package aggregate

import (
	"context"
	"fmt"
	"net/url"
	"time"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/gateway"
	"childcare-assistant/internal/models"

	"golang.org/x/sync/errgroup"
)

// Lister is the gateway operation the aggregator needs.
type Lister interface {
	List(ctx context.Context, resource string, params url.Values) (interface{}, error)
}

// SourceReport is the metadata source of composite reports.
const SourceReport = "report"

var resources = map[models.Entity]string{
	models.EntityChildren:   gateway.ResourceChildren,
	models.EntityAttendance: gateway.ResourceAttendance,
	models.EntityBilling:    gateway.ResourceBilling,
	models.EntityStaff:      gateway.ResourceStaff,
	models.EntityHealth:     gateway.ResourceHealth,
	models.EntitySchedule:   gateway.ResourceSchedule,
	models.EntityMedia:      gateway.ResourceMedia,
	models.EntityBooking:    gateway.ResourceBookings,
	models.EntityEvent:      gateway.ResourceEvents,
}

// ReportSections are fetched concurrently for a composite report.
var ReportSections = []models.Entity{
	models.EntityChildren,
	models.EntityAttendance,
	models.EntityBilling,
	models.EntityStaff,
	models.EntityHealth,
	models.EntitySchedule,
}

// ReportSection is one entity's part of a composite report.
type ReportSection struct {
	Count   int         `json:"count"`
	Summary interface{} `json:"summary"`
}

type Aggregator struct {
	gateway Lister
	logger  logger.Logger
	now     func() time.Time
}

func NewAggregator(gw Lister, log logger.Logger) *Aggregator {
	return &Aggregator{
		gateway: gw,
		logger:  log.With(map[string]interface{}{"component": "aggregator"}),
		now:     time.Now,
	}
}

// Resource returns the gateway path serving entity.
func Resource(entity models.Entity) (string, bool) {
	r, ok := resources[entity]
	return r, ok
}

// FetchData resolves intent against the gateway. Errors are FetchError or
// UnsupportedEntityError; nothing is retried.
func (a *Aggregator) FetchData(ctx context.Context, intent models.QueryIntent) (models.DataResult, error) {
	if intent.Entity == models.EntityReport {
		return a.fetchReport(ctx, intent)
	}

	resource, ok := resources[intent.Entity]
	if !ok {
		return models.DataResult{}, &apperrors.UnsupportedEntityError{Entity: string(intent.Entity)}
	}

	data, err := a.gateway.List(ctx, resource, QueryParams(intent))
	if err != nil {
		return models.DataResult{}, err
	}
	completedAt := a.now()

	list, isList := listOf(data)
	if !isList {
		// A single object; there is nothing to count or summarise.
		return models.NewDataResult(resource, data, nil, completedAt), nil
	}

	if intent.Type == models.QueryTypeAnalyze {
		return models.NewDataResult(resource, Analyze(intent.Entity, list, completedAt), models.IntPtr(len(list)), completedAt), nil
	}
	return models.NewDataResult(resource, list, models.IntPtr(len(list)), completedAt), nil
}

// fetchReport issues every section fetch concurrently and fails as a whole
// if any of them fails.
func (a *Aggregator) fetchReport(ctx context.Context, intent models.QueryIntent) (models.DataResult, error) {
	params := QueryParams(models.QueryIntent{Timeframe: intent.Timeframe})
	lists := make([][]interface{}, len(ReportSections))

	g, gctx := errgroup.WithContext(ctx)
	for i, entity := range ReportSections {
		i := i
		resource := resources[entity]
		g.Go(func() error {
			data, err := a.gateway.List(gctx, resource, params)
			if err != nil {
				return err
			}
			list, ok := listOf(data)
			if !ok {
				return apperrors.NewParseError(resource, fmt.Errorf("expected a JSON array"))
			}
			lists[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.logger.Warn("report aggregation failed", map[string]interface{}{"error": err})
		return models.DataResult{}, err
	}

	completedAt := a.now()
	report := make(map[string]interface{}, len(ReportSections))
	for i, entity := range ReportSections {
		report[string(entity)] = ReportSection{
			Count:   len(lists[i]),
			Summary: Analyze(entity, lists[i], completedAt),
		}
	}
	return models.NewDataResult(SourceReport, report, nil, completedAt), nil
}

// QueryParams encodes filters and timeframe as gateway query parameters.
func QueryParams(intent models.QueryIntent) url.Values {
	params := url.Values{}
	for k, v := range intent.Filters {
		if v != nil {
			params.Set(k, fmt.Sprint(v))
		}
	}
	if intent.Timeframe != "" {
		params.Set("timeframe", string(intent.Timeframe))
	}
	if intent.Aggregation != "" {
		params.Set("aggregation", string(intent.Aggregation))
	}
	return params
}
