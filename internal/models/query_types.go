// internal/models/query_types.go
package models

import "strings"

// Entity is the domain object type a query targets.
type Entity string

const (
	EntityChildren   Entity = "children"
	EntityAttendance Entity = "attendance"
	EntityBilling    Entity = "billing"
	EntityHealth     Entity = "health"
	EntityStaff      Entity = "staff"
	EntityMedia      Entity = "media"
	EntitySchedule   Entity = "schedule"
	EntityReport     Entity = "report"
	EntityBooking    Entity = "booking"
	EntityEvent      Entity = "event"
	EntityAlbum      Entity = "album"
	EntityUser       Entity = "user"
)

// QueryType is the operation requested on an entity.
type QueryType string

const (
	QueryTypeCount    QueryType = "count"
	QueryTypeList     QueryType = "list"
	QueryTypeFind     QueryType = "find"
	QueryTypeAnalyze  QueryType = "analyze"
	QueryTypeSummary  QueryType = "summary"
	QueryTypeGenerate QueryType = "generate"
)

type Timeframe string

const (
	TimeframeToday     Timeframe = "today"
	TimeframeYesterday Timeframe = "yesterday"
	TimeframeWeek      Timeframe = "week"
	TimeframeMonth     Timeframe = "month"
	TimeframeQuarter   Timeframe = "quarter"
	TimeframeYear      Timeframe = "year"
)

type Aggregation string

const (
	AggregationSum   Aggregation = "sum"
	AggregationAvg   Aggregation = "avg"
	AggregationMax   Aggregation = "max"
	AggregationMin   Aggregation = "min"
	AggregationCount Aggregation = "count"
)

var (
	Entities = []Entity{
		EntityChildren, EntityAttendance, EntityBilling, EntityHealth, EntityStaff, EntityMedia,
		EntitySchedule, EntityReport, EntityBooking, EntityEvent, EntityAlbum, EntityUser,
	}
	QueryTypes = []QueryType{
		QueryTypeCount, QueryTypeList, QueryTypeFind, QueryTypeAnalyze, QueryTypeSummary, QueryTypeGenerate,
	}
	Timeframes = []Timeframe{
		TimeframeToday, TimeframeYesterday, TimeframeWeek, TimeframeMonth, TimeframeQuarter, TimeframeYear,
	}
	Aggregations = []Aggregation{
		AggregationSum, AggregationAvg, AggregationMax, AggregationMin, AggregationCount,
	}
)

// QueryIntent is the structured interpretation of a free-text question.
// Entity and Type are always set; everything else is optional.
type QueryIntent struct {
	Entity      Entity                 `json:"entity"`
	Type        QueryType              `json:"type"`
	Filters     map[string]interface{} `json:"filters,omitempty"`
	Timeframe   Timeframe              `json:"timeframe,omitempty"`
	Aggregation Aggregation            `json:"aggregation,omitempty"`
}

// Valid reports whether the mandatory fields carry known values.
func (q QueryIntent) Valid() bool {
	return q.Entity.Valid() && q.Type.Valid()
}

func (e Entity) Valid() bool {
	for _, v := range Entities {
		if v == e {
			return true
		}
	}
	return false
}

func (t QueryType) Valid() bool {
	for _, v := range QueryTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (t Timeframe) Valid() bool {
	for _, v := range Timeframes {
		if v == t {
			return true
		}
	}
	return false
}

func (a Aggregation) Valid() bool {
	for _, v := range Aggregations {
		if v == a {
			return true
		}
	}
	return false
}

// Normalize lower-cases and trims the enum fields, dropping optional
// values that are not recognised.
func (q QueryIntent) Normalize() QueryIntent {
	q.Entity = Entity(strings.ToLower(strings.TrimSpace(string(q.Entity))))
	q.Type = QueryType(strings.ToLower(strings.TrimSpace(string(q.Type))))
	q.Timeframe = Timeframe(strings.ToLower(strings.TrimSpace(string(q.Timeframe))))
	q.Aggregation = Aggregation(strings.ToLower(strings.TrimSpace(string(q.Aggregation))))
	if q.Timeframe != "" && !q.Timeframe.Valid() {
		q.Timeframe = ""
	}
	if q.Aggregation != "" && !q.Aggregation.Valid() {
		q.Aggregation = ""
	}
	if len(q.Filters) == 0 {
		q.Filters = nil
	}
	return q
}
