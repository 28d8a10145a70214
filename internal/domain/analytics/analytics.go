// Package analytics summarizes the tasks of a list view for the dashboard
// panels.
package analytics

import (
	"fmt"
	"slices"
	"time"

	"github.com/rpggio/listview/internal/domain/resource"
	"github.com/rpggio/listview/internal/filter"
)

var (
	pathStatus        = filter.MustPath("status")
	pathPriority      = filter.MustPath("priority")
	pathDueDate       = filter.MustPath("dueDate")
	pathCompletedDate = filter.MustPath("completedDate")
	pathCreatedDate   = filter.MustPath("createdDate")
	pathCreatedAt     = filter.MustPath("createdAt")
	pathAssignedTo    = filter.MustPath("assignedTo")
	pathClientID      = filter.MustPath("client.id")
	pathClientIDFlat  = filter.MustPath("clientId")
	pathClientFirst   = filter.MustPath("client.firstName")
	pathClientLast    = filter.MustPath("client.lastName")
)

// Stats counts tasks by status.
type Stats struct {
	Total          int     `json:"total"`
	Pending        int     `json:"pending"`
	Completed      int     `json:"completed"`
	Cancelled      int     `json:"cancelled"`
	OnHold         int     `json:"on_hold"`
	CompletionRate float64 `json:"completion_rate"`
	Overdue        int     `json:"overdue"`
}

// FieldCount is one slice of a distribution.
type FieldCount struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// TrendPoint counts completions on one calendar day.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Label string `json:"label"`
}

// TaskStats counts items by status. Pending includes tasks in progress. A
// task is overdue when its due date falls before the start of today and it
// is not completed.
func TaskStats(items []filter.Record, now time.Time) Stats {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	st := Stats{Total: len(items)}
	for _, rec := range items {
		status, _ := filter.Lookup(rec, pathStatus).Str()
		switch status {
		case resource.StatusPending, resource.StatusInProgress:
			st.Pending++
		case resource.StatusCompleted:
			st.Completed++
		case resource.StatusCancelled:
			st.Cancelled++
		case resource.StatusOnHold:
			st.OnHold++
		}
		if status == resource.StatusCompleted {
			continue
		}
		if due, ok := filter.ParseTime(filter.Lookup(rec, pathDueDate), now.Location()); ok && due.Before(today) {
			st.Overdue++
		}
	}
	if st.Total > 0 {
		st.CompletionRate = float64(st.Completed) * 100 / float64(st.Total)
	}
	return st
}

// PriorityDistribution counts items per priority, lowest first. It is empty
// when items is.
func PriorityDistribution(items []filter.Record) []FieldCount {
	if len(items) == 0 {
		return []FieldCount{}
	}
	counts := make(map[string]int, len(resource.TaskPriorities))
	for _, rec := range items {
		if p, ok := filter.Lookup(rec, pathPriority).Str(); ok {
			counts[p]++
		}
	}
	total := float64(len(items))
	out := make([]FieldCount, 0, len(resource.TaskPriorities))
	for _, p := range resource.TaskPriorities {
		out = append(out, FieldCount{
			Label:   p + " PRIORITY",
			Count:   counts[p],
			Percent: float64(counts[p]) / total * 100,
		})
	}
	return out
}

// CompletionTrend counts completed tasks per day over the last days days,
// today included, oldest first. Days without completions are omitted.
func CompletionTrend(items []filter.Record, days int, now time.Time) []TrendPoint {
	if days <= 0 {
		return []TrendPoint{}
	}
	loc := now.Location()
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc).AddDate(0, 0, -(days - 1))

	counts := make(map[string]int)
	for _, rec := range items {
		if status, _ := filter.Lookup(rec, pathStatus).Str(); status != resource.StatusCompleted {
			continue
		}
		done, ok := filter.ParseTime(filter.Lookup(rec, pathCompletedDate), loc)
		if !ok || done.Before(start) || done.After(now) {
			continue
		}
		counts[done.In(loc).Format(time.DateOnly)]++
	}

	out := make([]TrendPoint, 0, len(counts))
	for day := start; !day.After(now); day = day.AddDate(0, 0, 1) {
		key := day.Format(time.DateOnly)
		if n := counts[key]; n > 0 {
			out = append(out, TrendPoint{Date: key, Count: n, Label: "Tasks Completed"})
		}
	}
	return out
}

// ClientTasks counts the tasks of one client.
type ClientTasks struct {
	ClientID       string  `json:"client_id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	TaskCount      int     `json:"task_count"`
	CompletedCount int     `json:"completed_count"`
	CompletionRate float64 `json:"completion_rate"`
}

// ClientTaskDistribution groups tasks by client.id, else clientId, busiest
// client first; ties keep first-seen order. Tasks without a client are not
// counted.
func ClientTaskDistribution(items []filter.Record) []ClientTasks {
	out := []ClientTasks{}
	index := make(map[string]int)
	for _, rec := range items {
		id, ok := clientID(rec)
		if !ok {
			continue
		}
		i, seen := index[id]
		if !seen {
			i = len(out)
			index[id] = i
			first, _ := filter.Lookup(rec, pathClientFirst).Str()
			last, _ := filter.Lookup(rec, pathClientLast).Str()
			out = append(out, ClientTasks{ClientID: id, FirstName: first, LastName: last})
		}
		out[i].TaskCount++
		if isCompleted(rec) {
			out[i].CompletedCount++
		}
	}
	for i := range out {
		out[i].CompletionRate = float64(out[i].CompletedCount) * 100 / float64(out[i].TaskCount)
	}
	slices.SortStableFunc(out, func(a, b ClientTasks) int { return b.TaskCount - a.TaskCount })
	return out
}

// Performance summarizes the tasks assigned to one user.
type Performance struct {
	Username           string  `json:"username"`
	TotalAssigned      int     `json:"total_assigned"`
	TotalCompleted     int     `json:"total_completed"`
	CompletionRate     float64 `json:"completion_rate"`
	AvgCompletionHours float64 `json:"avg_completion_hours"`
}

// UserPerformance counts the tasks whose assignedTo is username. The
// average covers completed tasks with both a creation date (createdDate,
// else createdAt) and a completedDate, each measured in whole hours.
func UserPerformance(items []filter.Record, username string, loc *time.Location) Performance {
	perf := Performance{Username: username}
	var hours, timed int64
	for _, rec := range items {
		if assignee, _ := filter.Lookup(rec, pathAssignedTo).Str(); assignee == "" || assignee != username {
			continue
		}
		perf.TotalAssigned++
		if !isCompleted(rec) {
			continue
		}
		perf.TotalCompleted++
		created := filter.Lookup(rec, pathCreatedDate)
		if absent(created) {
			created = filter.Lookup(rec, pathCreatedAt)
		}
		start, ok := filter.ParseTime(created, loc)
		if !ok {
			continue
		}
		done, ok := filter.ParseTime(filter.Lookup(rec, pathCompletedDate), loc)
		if !ok {
			continue
		}
		hours += int64(done.Sub(start) / time.Hour)
		timed++
	}
	if perf.TotalAssigned > 0 {
		perf.CompletionRate = float64(perf.TotalCompleted) * 100 / float64(perf.TotalAssigned)
	}
	if timed > 0 {
		perf.AvgCompletionHours = float64(hours) / float64(timed)
	}
	return perf
}

func isCompleted(rec filter.Record) bool {
	status, _ := filter.Lookup(rec, pathStatus).Str()
	return status == resource.StatusCompleted
}

func clientID(rec filter.Record) (string, bool) {
	v := filter.Lookup(rec, pathClientID)
	if absent(v) {
		v = filter.Lookup(rec, pathClientIDFlat)
	}
	switch v.Kind() {
	case filter.KindString:
		s, _ := v.Str()
		return s, s != ""
	case filter.KindNumber:
		n, _ := v.Num()
		return fmt.Sprint(n), true
	}
	return "", false
}

func absent(v filter.Value) bool {
	return v.Kind() == filter.KindAbsent || v.Kind() == filter.KindNull
}
