package aggregate

import (
	"math"
	"sort"
	"strings"
	"time"

	"childcare-assistant/internal/models"
)

type AttendanceStats struct {
	Total          int     `json:"total"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	CheckedIn      int     `json:"checkedIn"`
	AttendanceRate float64 `json:"attendanceRate"`
}

type BillingStats struct {
	Total            int                `json:"total"`
	AmountByStatus   map[string]float64 `json:"amountByStatus"`
	TotalCollected   float64            `json:"totalCollected"`
	TotalOutstanding float64            `json:"totalOutstanding"`
	OutstandingCount int                `json:"outstandingCount"`
	CollectionRate   float64            `json:"collectionRate"`
}

type StaffStats struct {
	Total   int            `json:"total"`
	OnDuty  int            `json:"onDuty"`
	OffDuty int            `json:"offDuty"`
	ByRole  map[string]int `json:"byRole"`
}

type HealthStats struct {
	Total      int            `json:"total"`
	ByType     map[string]int `json:"byType"`
	BySeverity map[string]int `json:"bySeverity"`
}

type ScheduleStats struct {
	Total    int `json:"total"`
	Upcoming int `json:"upcoming"`
	Today    int `json:"today"`
}

type MediaStats struct {
	Total  int                      `json:"total"`
	ByType map[string]int           `json:"byType"`
	Recent []map[string]interface{} `json:"recent"`
}

type ChildrenStats struct {
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"byStatus"`
	ByClassroom map[string]int `json:"byClassroom"`
}

// StatusStats is used for entities without a dedicated summary.
type StatusStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

const unknown = "unknown"

var outstandingStatuses = map[string]bool{
	"unpaid":      true,
	"pending":     true,
	"overdue":     true,
	"outstanding": true,
}

// percent returns 100*part/total rounded to two decimals, or 0 when total is 0.
func percent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return round2(100 * part / total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Analyze computes the entity summary for a raw gateway list.
func Analyze(entity models.Entity, list []interface{}, now time.Time) interface{} {
	items := records(list)
	switch entity {
	case models.EntityAttendance:
		return attendanceStats(items)
	case models.EntityBilling:
		return billingStats(items)
	case models.EntityStaff:
		return staffStats(items)
	case models.EntityHealth:
		return healthStats(items)
	case models.EntitySchedule:
		return scheduleStats(items, now)
	case models.EntityMedia:
		return mediaStats(items, now.Location())
	case models.EntityChildren:
		return childrenStats(items)
	default:
		return statusStats(items)
	}
}

func attendanceStats(items []map[string]interface{}) AttendanceStats {
	s := AttendanceStats{Total: len(items)}
	for _, item := range items {
		checkedIn := present(item, checkInKeys...)
		if checkedIn {
			s.CheckedIn++
		}

		switch lower(item, statusKeys...) {
		case "present", "checked_in", "checked-in", "checked in":
			s.Present++
		case "absent":
			s.Absent++
		case "":
			if checkedIn {
				s.Present++
			}
		}
	}
	s.AttendanceRate = percent(float64(s.Present), float64(s.Total))
	return s
}

func billingStats(items []map[string]interface{}) BillingStats {
	s := BillingStats{Total: len(items), AmountByStatus: map[string]float64{}}
	for _, item := range items {
		status := lower(item, statusKeys...)
		if status == "" {
			status = unknown
		}
		amount, _ := number(item, amountKeys...)

		s.AmountByStatus[status] += amount
		switch {
		case status == "paid":
			s.TotalCollected += amount
		case outstandingStatuses[status]:
			s.TotalOutstanding += amount
			s.OutstandingCount++
		}
	}
	for k, v := range s.AmountByStatus {
		s.AmountByStatus[k] = round2(v)
	}
	s.TotalCollected = round2(s.TotalCollected)
	s.TotalOutstanding = round2(s.TotalOutstanding)
	s.CollectionRate = percent(s.TotalCollected, s.TotalCollected+s.TotalOutstanding)
	return s
}

func staffStats(items []map[string]interface{}) StaffStats {
	s := StaffStats{Total: len(items), ByRole: map[string]int{"teacher": 0, "assistant": 0, "admin": 0, "other": 0}}
	for _, item := range items {
		onDuty, ok := flag(item, onDutyKeys...)
		if !ok {
			onDuty = present(item, clockInKeys...) && !present(item, clockOutKeys...)
		}
		if onDuty {
			s.OnDuty++
		} else {
			s.OffDuty++
		}

		role := lower(item, roleKeys...)
		switch {
		case strings.Contains(role, "teacher"):
			s.ByRole["teacher"]++
		case strings.Contains(role, "assistant"):
			s.ByRole["assistant"]++
		case strings.Contains(role, "admin"), strings.Contains(role, "director"), strings.Contains(role, "manager"):
			s.ByRole["admin"]++
		default:
			s.ByRole["other"]++
		}
	}
	return s
}

func healthStats(items []map[string]interface{}) HealthStats {
	s := HealthStats{Total: len(items), ByType: map[string]int{}, BySeverity: map[string]int{}}
	for _, item := range items {
		s.ByType[orUnknown(lower(item, typeKeys...))]++
		s.BySeverity[orUnknown(lower(item, severityKeys...))]++
	}
	return s
}

func scheduleStats(items []map[string]interface{}, now time.Time) ScheduleStats {
	s := ScheduleStats{Total: len(items)}
	for _, item := range items {
		start, ok := timestamp(item, now.Location(), startKeys...)
		if !ok {
			continue
		}
		if start.After(now) {
			s.Upcoming++
		}
		if sameDay(now, start) {
			s.Today++
		}
	}
	return s
}

func mediaStats(items []map[string]interface{}, loc *time.Location) MediaStats {
	s := MediaStats{Total: len(items), ByType: map[string]int{}}

	type dated struct {
		item map[string]interface{}
		at   time.Time
		ok   bool
	}
	all := make([]dated, 0, len(items))
	for _, item := range items {
		s.ByType[orUnknown(lower(item, mediaTypeKeys...))]++
		at, ok := timestamp(item, loc, mediaTimeKeys...)
		all = append(all, dated{item: item, at: at, ok: ok})
	}

	// Undated items sort after dated ones; ties keep gateway order.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].ok != all[j].ok {
			return all[i].ok
		}
		return all[i].at.After(all[j].at)
	})

	n := 3
	if len(all) < n {
		n = len(all)
	}
	s.Recent = make([]map[string]interface{}, 0, n)
	for _, d := range all[:n] {
		s.Recent = append(s.Recent, d.item)
	}
	return s
}

func childrenStats(items []map[string]interface{}) ChildrenStats {
	s := ChildrenStats{Total: len(items), ByStatus: map[string]int{}, ByClassroom: map[string]int{}}
	for _, item := range items {
		s.ByStatus[orUnknown(lower(item, statusKeys...))]++
		s.ByClassroom[orUnknown(str(item, classroomKeys...))]++
	}
	return s
}

func statusStats(items []map[string]interface{}) StatusStats {
	s := StatusStats{Total: len(items), ByStatus: map[string]int{}}
	for _, item := range items {
		s.ByStatus[orUnknown(lower(item, statusKeys...))]++
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
