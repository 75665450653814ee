// Package report derives the dashboard views from the full visit list.
// Every function is pure: inputs are never mutated and results are
// recomputed from scratch on each call.
package report

import (
	"strings"

	"fieldtrack/internal/models"
)

// StatusAll is the filter selector matching every status.
const StatusAll = "all"

// UnknownWorker is the display label for records with no worker name.
const UnknownWorker = "Unknown"

// Tally summarizes the visit list by status. Revenue counts budget from
// converted records only; budgets on other records are ignored regardless
// of value.
type Tally struct {
	Total     int     `json:"total"`
	FollowUp  int     `json:"followUp"`
	Converted int     `json:"converted"`
	Rejected  int     `json:"rejected"`
	Revenue   float64 `json:"revenue"`
}

// TallyVisits partitions the records by status and totals converted revenue.
func TallyVisits(visits []models.VisitRecord) Tally {
	var t Tally
	t.Total = len(visits)
	for _, v := range visits {
		switch v.Status {
		case models.StatusFollowUp:
			t.FollowUp++
		case models.StatusConverted:
			t.Converted++
			t.Revenue += v.Budget
		case models.StatusRejected:
			t.Rejected++
		}
	}
	return t
}

// WorkerRollups groups visits by normalized worker name. The display name is
// the first-seen trimmed original, the phone the first non-empty one, and
// the result order follows first appearance in the input.
func WorkerRollups(visits []models.VisitRecord) []models.WorkerRollup {
	index := make(map[string]int)
	rollups := make([]models.WorkerRollup, 0)

	for _, v := range visits {
		key := v.WorkerKey()
		i, seen := index[key]
		if !seen {
			name := strings.TrimSpace(v.WorkerName)
			if name == "" {
				name = UnknownWorker
			}
			rollups = append(rollups, models.WorkerRollup{Name: name})
			i = len(rollups) - 1
			index[key] = i
		}

		r := &rollups[i]
		r.Total++
		switch v.Status {
		case models.StatusConverted:
			r.Converted++
		case models.StatusFollowUp:
			r.FollowUp++
		case models.StatusRejected:
			r.Rejected++
		}
		if r.Phone == "" && strings.TrimSpace(v.WorkerPhone) != "" {
			r.Phone = strings.TrimSpace(v.WorkerPhone)
		}
	}

	return rollups
}

// FilterVisits returns the records matching the status selector AND the
// search term. status is "all" or one specific status value. An empty search
// matches everything; otherwise the term must appear, case-insensitively, in
// the client name, worker name, client phone, or client email. The input
// slice is never modified.
func FilterVisits(visits []models.VisitRecord, status string, search string) []models.VisitRecord {
	term := strings.ToLower(strings.TrimSpace(search))

	out := make([]models.VisitRecord, 0, len(visits))
	for _, v := range visits {
		if status != StatusAll && string(v.Status) != status {
			continue
		}
		if term != "" && !matchesSearch(v, term) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func matchesSearch(v models.VisitRecord, term string) bool {
	return strings.Contains(strings.ToLower(v.ClientName), term) ||
		strings.Contains(strings.ToLower(v.WorkerName), term) ||
		strings.Contains(strings.ToLower(v.ClientPhone), term) ||
		strings.Contains(strings.ToLower(v.ClientEmail), term)
}
