package aggregate

import (
	"strconv"
	"strings"
	"time"
)

// Gateway payloads are untyped, so field access probes several spellings.
var (
	statusKeys    = []string{"status", "state"}
	amountKeys    = []string{"amount", "total", "amountDue", "amount_due", "balance"}
	checkInKeys   = []string{"checkIn", "check_in", "checkin", "clockIn"}
	clockInKeys   = []string{"clockIn", "clock_in", "checkIn", "check_in"}
	clockOutKeys  = []string{"clockOut", "clock_out", "checkOut", "check_out"}
	onDutyKeys    = []string{"onDuty", "on_duty", "isOnDuty"}
	roleKeys      = []string{"role", "position", "title", "jobTitle"}
	typeKeys      = []string{"type", "recordType", "record_type", "category", "kind"}
	severityKeys  = []string{"severity", "priority", "level"}
	startKeys     = []string{"startTime", "start_time", "start", "scheduledAt", "date", "time"}
	mediaTimeKeys = []string{"createdAt", "created_at", "uploadedAt", "uploaded_at", "timestamp", "date"}
	mediaTypeKeys = []string{"type", "mediaType", "media_type", "kind"}
	classroomKeys = []string{"classroom", "room", "className", "class_name", "classroomName"}
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// listOf unwraps the common envelope shapes ({data: [...]}, {items: [...]},
// {results: [...]}) and returns the list, or false if data is not a list.
func listOf(data interface{}) ([]interface{}, bool) {
	switch v := data.(type) {
	case []interface{}:
		return v, true
	case map[string]interface{}:
		for _, key := range []string{"data", "items", "results"} {
			if inner, ok := v[key].([]interface{}); ok {
				return inner, true
			}
		}
	}
	return nil, false
}

func records(list []interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

func str(item map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		switch v := item[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return ""
}

func lower(item map[string]interface{}, keys ...string) string {
	return strings.ToLower(str(item, keys...))
}

func number(item map[string]interface{}, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := item[k].(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func flag(item map[string]interface{}, keys ...string) (bool, bool) {
	for _, k := range keys {
		switch v := item[k].(type) {
		case bool:
			return v, true
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b, true
			}
		}
	}
	return false, false
}

// present reports whether any key holds a non-null, non-empty value.
func present(item map[string]interface{}, keys ...string) bool {
	for _, k := range keys {
		switch v := item[k].(type) {
		case nil:
		case string:
			if strings.TrimSpace(v) != "" {
				return true
			}
		default:
			return true
		}
	}
	return false
}

// timestamp parses the first key holding an RFC 3339 / date string or an
// epoch-milliseconds number.
func timestamp(item map[string]interface{}, loc *time.Location, keys ...string) (time.Time, bool) {
	for _, k := range keys {
		switch v := item[k].(type) {
		case string:
			for _, layout := range timeLayouts {
				if t, err := time.ParseInLocation(layout, strings.TrimSpace(v), loc); err == nil {
					return t, true
				}
			}
		case float64:
			return time.UnixMilli(int64(v)).In(loc), true
		}
	}
	return time.Time{}, false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
