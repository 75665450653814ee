package models

import (
	"strings"
	"time"
)

// VisitStatus represents the outcome of a field visit.
type VisitStatus string

const (
	StatusFollowUp  VisitStatus = "follow_up"
	StatusConverted VisitStatus = "converted"
	StatusRejected  VisitStatus = "rejected"
)

// IsValid reports whether the status is one of the three known outcomes.
func (s VisitStatus) IsValid() bool {
	switch s {
	case StatusFollowUp, StatusConverted, StatusRejected:
		return true
	}
	return false
}

// VisitRecord is one worker-to-client field interaction with an outcome status.
//
// Budget is meaningful only when Status is converted, FollowUpAt only when
// follow_up, RejectionReason only when rejected. The writer enforces this;
// the store carries no constraint.
type VisitRecord struct {
	ID              string      `json:"id" db:"id"`
	WorkerName      string      `json:"workerName" db:"worker_name"`
	WorkerPhone     string      `json:"workerPhone" db:"worker_phone"`
	ClientName      string      `json:"clientName" db:"client_name"`
	ClientType      string      `json:"clientType" db:"client_type"`
	ClientPhone     string      `json:"clientPhone" db:"client_phone"`
	ClientEmail     string      `json:"clientEmail,omitempty" db:"client_email"`
	Address         string      `json:"address" db:"address"`
	Landmark        string      `json:"landmark,omitempty" db:"landmark"`
	Requirements    string      `json:"requirements,omitempty" db:"requirements"`
	Budget          float64     `json:"budget" db:"budget"`
	Status          VisitStatus `json:"status" db:"status"`
	FollowUpAt      *time.Time  `json:"followUpAt,omitempty" db:"follow_up_at"`
	RejectionReason string      `json:"rejectionReason,omitempty" db:"rejection_reason"`
	Latitude        *float64    `json:"latitude,omitempty" db:"latitude"`
	Longitude       *float64    `json:"longitude,omitempty" db:"longitude"`
	PhotoURL        string      `json:"photoUrl,omitempty" db:"photo_url"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}

// ApplyStatusRules zeroes the fields that are inapplicable to the record's
// status so that a converted record never carries a follow-up time, a
// follow-up record never carries a budget, and so on.
func (v *VisitRecord) ApplyStatusRules() {
	if v.Status != StatusConverted {
		v.Budget = 0
	}
	if v.Status != StatusFollowUp {
		v.FollowUpAt = nil
	}
	if v.Status != StatusRejected {
		v.RejectionReason = ""
	}
}

// WorkerKey returns the normalized grouping key for the record's worker name:
// trimmed, lower-cased, empty mapped to "unknown".
func (v *VisitRecord) WorkerKey() string {
	name := strings.TrimSpace(v.WorkerName)
	if name == "" {
		return "unknown"
	}
	return strings.ToLower(name)
}

// WorkerRollup is a derived per-worker summary. It is never persisted and is
// recomputed from the full visit list on every request.
type WorkerRollup struct {
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Total     int    `json:"total"`
	Converted int    `json:"converted"`
	FollowUp  int    `json:"followUp"`
	Rejected  int    `json:"rejected"`
}
