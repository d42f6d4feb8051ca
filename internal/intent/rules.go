package intent

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"childcare-assistant/internal/models"
)

// rule is a (predicate, value) pair. Rules are evaluated top to bottom and
// the first satisfied predicate wins.
type rule[T any] struct {
	keywords []string
	value    T
}

func (r rule[T]) matches(text string) bool {
	for _, kw := range r.keywords {
		if containsWord(text, kw, wholeWords[kw]) {
			return true
		}
	}
	return false
}

// wholeWords are keywords too short to be matched as a word prefix.
var wholeWords = map[string]bool{"fee": true, "fees": true}

// containsWord reports whether kw occurs in text starting at a word
// boundary, so "count" does not match "account". Keywords are prefixes
// ("enrol" matches "enrolled") unless whole is set.
func containsWord(text, kw string, whole bool) bool {
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], kw)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(kw)
		if !isWordRune(lastRune(text[:start])) && (!whole || !isWordRune(firstRune(text[end:]))) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func firstMatch[T any](text string, rules []rule[T]) (T, bool) {
	for _, r := range rules {
		if r.matches(text) {
			return r.value, true
		}
	}
	var zero T
	return zero, false
}

var entityRules = []rule[models.Entity]{
	{[]string{"report"}, models.EntityReport},
	{[]string{"attendance", "present", "check-in", "check in", "checked in", "sign-in", "absent"}, models.EntityAttendance},
	{[]string{"billing", "invoice", "revenue", "payment", "tuition", "fee", "fees"}, models.EntityBilling},
	{[]string{"health", "allerg", "medication", "medical", "incident", "immuniz", "illness"}, models.EntityHealth},
	{[]string{"staff", "teacher", "employee", "educator", "caregiver"}, models.EntityStaff},
	{[]string{"schedule", "timetable", "routine", "activities"}, models.EntitySchedule},
	{[]string{"media", "photo", "video", "picture"}, models.EntityMedia},
	{[]string{"album"}, models.EntityAlbum},
	{[]string{"booking", "reservation", "tour", "enquir", "inquir"}, models.EntityBooking},
	{[]string{"event", "calendar", "holiday"}, models.EntityEvent},
	{[]string{"user", "account", "parent"}, models.EntityUser},
	{[]string{"child", "kid", "student", "enrol", "toddler", "infant"}, models.EntityChildren},
}

var typeRules = []rule[models.QueryType]{
	{[]string{"how many", "count", "number of"}, models.QueryTypeCount},
	{[]string{"find", "search", "show me", "look up", "where is", "who is"}, models.QueryTypeFind},
	{[]string{"analyze", "analyse", "summary", "overview", "statistics", "breakdown", "trend"}, models.QueryTypeAnalyze},
	{[]string{"generate", "create", "prepare", "draft"}, models.QueryTypeGenerate},
}

var timeframeRules = []rule[models.Timeframe]{
	{[]string{"today"}, models.TimeframeToday},
	{[]string{"yesterday"}, models.TimeframeYesterday},
	{[]string{"week"}, models.TimeframeWeek},
	{[]string{"month"}, models.TimeframeMonth},
	{[]string{"quarter"}, models.TimeframeQuarter},
	{[]string{"year"}, models.TimeframeYear},
}

type filter struct {
	key   string
	value interface{}
}

// filterRules map keywords to filters; the first match per key wins.
// "inactive" precedes "active" and "unpaid" precedes "paid" since each
// contains the other.
var filterRules = []rule[filter]{
	{[]string{"inactive"}, filter{"status", "inactive"}},
	{[]string{"active"}, filter{"status", "active"}},
	{[]string{"unpaid", "outstanding", "overdue"}, filter{"status", "unpaid"}},
	{[]string{"paid"}, filter{"status", "paid"}},
	{[]string{"high priority", "severe"}, filter{"severity", "high"}},
	{[]string{"on duty"}, filter{"onDuty", true}},
	{[]string{"absent"}, filter{"status", "absent"}},
}

// Classify maps text to an intent using keyword rules only. It is pure and
// deterministic.
func Classify(text string) models.QueryIntent {
	lower := strings.ToLower(text)

	entity, ok := firstMatch(lower, entityRules)
	if !ok {
		entity = models.EntityChildren
	}
	queryType, ok := firstMatch(lower, typeRules)
	if !ok {
		queryType = models.QueryTypeList
	}
	timeframe, _ := firstMatch(lower, timeframeRules)

	var filters map[string]interface{}
	for _, r := range filterRules {
		if !r.matches(lower) {
			continue
		}
		if filters == nil {
			filters = make(map[string]interface{})
		}
		if _, taken := filters[r.value.key]; !taken {
			filters[r.value.key] = r.value.value
		}
	}

	return models.QueryIntent{
		Entity:    entity,
		Type:      queryType,
		Timeframe: timeframe,
		Filters:   filters,
	}
}
