package validation

import (
	"fmt"
	"regexp"
	"strings"

	"fieldtrack/internal/models"
)

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// ValidationResult collects field-level problems from a single pass so the
// client can surface all of them at once instead of one per round trip.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

func newResult() *ValidationResult {
	return &ValidationResult{Valid: true, Errors: map[string]string{}}
}

func (r *ValidationResult) add(field, message string) {
	r.Valid = false
	r.Errors[field] = message
}

// Error flattens the result into a single message for error payloads.
func (r *ValidationResult) Error() string {
	parts := make([]string, 0, len(r.Errors))
	for field, msg := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// ValidateVisit checks a visit record before it is written. Status-specific
// fields are required only for their own status; ApplyStatusRules clears the
// rest at write time.
func ValidateVisit(v *models.VisitRecord) *ValidationResult {
	result := newResult()

	name := strings.TrimSpace(v.ClientName)
	if len(name) < 2 || len(name) > 100 {
		result.add("clientName", "must be between 2 and 100 characters")
	}
	if strings.TrimSpace(v.WorkerName) == "" {
		result.add("workerName", "is required")
	}
	if v.ClientPhone != "" && !mobilePattern.MatchString(v.ClientPhone) {
		result.add("clientPhone", "must be exactly 10 digits")
	}
	if !v.Status.IsValid() {
		result.add("status", fmt.Sprintf("must be one of %s, %s, %s",
			models.StatusFollowUp, models.StatusConverted, models.StatusRejected))
	}

	switch v.Status {
	case models.StatusFollowUp:
		if v.FollowUpAt == nil {
			result.add("followUpAt", "is required when status is follow_up")
		}
	case models.StatusConverted:
		if v.Budget < 0 {
			result.add("budget", "must not be negative")
		}
	case models.StatusRejected:
		if strings.TrimSpace(v.RejectionReason) == "" {
			result.add("rejectionReason", "is required when status is rejected")
		}
	}

	if v.Latitude != nil && (*v.Latitude < -90 || *v.Latitude > 90) {
		result.add("latitude", "must be between -90 and 90")
	}
	if v.Longitude != nil && (*v.Longitude < -180 || *v.Longitude > 180) {
		result.add("longitude", "must be between -180 and 180")
	}

	return result
}

// ValidateNewAccount checks an account creation request, including the
// password confirmation pair which never reaches the stored model.
func ValidateNewAccount(u *models.UserAccount, password, confirm string) *ValidationResult {
	result := newResult()

	name := strings.TrimSpace(u.Name)
	if len(name) < 2 || len(name) > 100 {
		result.add("name", "must be between 2 and 100 characters")
	}
	if !mobilePattern.MatchString(u.Mobile) {
		result.add("mobile", "must be exactly 10 digits")
	}
	if !strings.Contains(u.Email, "@") {
		result.add("email", "must be a valid email address")
	}
	if !u.Role.IsValid() {
		result.add("role", fmt.Sprintf("must be %s or %s", models.RoleWorker, models.RoleAdmin))
	}
	if len(password) < 6 {
		result.add("password", "must be at least 6 characters")
	}
	if password != confirm {
		result.add("confirmPassword", "does not match password")
	}

	return result
}
