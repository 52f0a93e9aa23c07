package leave

import (
	"strings"
	"time"

	"github.com/frahmantamala/leave-management/internal"
)

const (
	dateLayout      = time.DateOnly
	maxReasonLength = 500
)

type SubmitRequest struct {
	EmployeeID    int64  `json:"employee_id"`
	LeaveType     string `json:"leave_type"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	DaysRequested int    `json:"days_requested"`
	Reason        string `json:"reason"`
}

// SubmitCommand is the parsed form of SubmitRequest accepted by Service.Submit.
type SubmitCommand struct {
	EmployeeID    int64
	LeaveType     string
	StartDate     time.Time
	EndDate       time.Time
	DaysRequested int
	Reason        string
}

// ToCommand parses the date strings. Field rules are checked by the service.
func (r SubmitRequest) ToCommand() (SubmitCommand, error) {
	var failures []internal.ValidationError

	parse := func(field, raw string) time.Time {
		if raw == "" {
			failures = append(failures, internal.ValidationError{Field: field, Message: field + " is required", Code: string(internal.ErrCodeValidationFailed)})
			return time.Time{}
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			failures = append(failures, internal.ValidationError{Field: field, Message: field + " must be a date in YYYY-MM-DD format", Code: string(internal.ErrCodeInvalidDate)})
			return time.Time{}
		}
		return t
	}

	cmd := SubmitCommand{
		EmployeeID:    r.EmployeeID,
		LeaveType:     strings.TrimSpace(r.LeaveType),
		StartDate:     parse("start_date", r.StartDate),
		EndDate:       parse("end_date", r.EndDate),
		DaysRequested: r.DaysRequested,
		Reason:        strings.TrimSpace(r.Reason),
	}

	if len(failures) > 0 {
		return SubmitCommand{}, internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: failures})
	}
	return cmd, nil
}

type ApproveRequest struct {
	ApprovedBy int64 `json:"approved_by"`
}

type RejectRequest struct {
	RejectedBy      int64  `json:"rejected_by"`
	RejectionReason string `json:"rejection_reason"`
}

type ApplicationResponse struct {
	ID              int64      `json:"id"`
	EmployeeID      int64      `json:"employee_id"`
	LeaveType       string     `json:"leave_type"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	DaysRequested   int        `json:"days_requested"`
	Reason          string     `json:"reason"`
	Status          Status     `json:"status"`
	ApprovedBy      *int64     `json:"approved_by,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type ApplicationsResponse struct {
	Applications []ApplicationResponse `json:"leave_applications"`
}

func (a *Application) ToResponse() ApplicationResponse {
	return ApplicationResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		LeaveType:       a.LeaveType,
		StartDate:       a.StartDate.Format(dateLayout),
		EndDate:         a.EndDate.Format(dateLayout),
		DaysRequested:   a.DaysRequested,
		Reason:          a.Reason,
		Status:          a.Status,
		ApprovedBy:      a.ApprovedBy,
		RejectionReason: a.RejectionReason,
		ApprovedAt:      a.ApprovedAt,
		CreatedAt:       a.CreatedAt,
	}
}
