package leave

import (
	"time"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/core/events"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal statuses have no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Application is a single leave request. It is created by Submit and
// mutated exactly once afterwards, by Approve or Reject.
type Application struct {
	ID              int64
	EmployeeID      int64
	LeaveType       string
	StartDate       time.Time
	EndDate         time.Time
	DaysRequested   int
	Reason          string
	Status          Status
	ApprovedBy      *int64
	RejectionReason *string
	ApprovedAt      *time.Time
	CreatedAt       time.Time
}

func (a *Application) IsPending() bool {
	return a.Status == StatusPending
}

func (a *Application) details() events.LeaveDetails {
	return events.LeaveDetails{
		ApplicationID: a.ID,
		LeaveType:     a.LeaveType,
		StartDate:     a.StartDate,
		EndDate:       a.EndDate,
		DaysRequested: a.DaysRequested,
		Reason:        a.Reason,
	}
}

// apply mirrors a successful transition on the in-memory copy.
func (a *Application) apply(t Transition) {
	a.Status = t.To
	approvedBy := t.ApprovedBy
	a.ApprovedBy = &approvedBy
	a.RejectionReason = t.RejectionReason
	at := t.At
	a.ApprovedAt = &at
}

// Transition describes the single allowed mutation of a pending application.
type Transition struct {
	To              Status
	ApprovedBy      int64
	RejectionReason *string
	At              time.Time
}

// Filter narrows ListApplications. Both fields set means both must match.
type Filter struct {
	EmployeeID *int64
	// ManagerID selects applications whose submitter reports directly to it.
	ManagerID *int64
}

func ToDataModel(a *Application) *leaveDatamodel.LeaveApplication {
	return &leaveDatamodel.LeaveApplication{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		LeaveType:       a.LeaveType,
		StartDate:       a.StartDate,
		EndDate:         a.EndDate,
		DaysRequested:   a.DaysRequested,
		Reason:          a.Reason,
		Status:          string(a.Status),
		ApprovedBy:      a.ApprovedBy,
		RejectionReason: a.RejectionReason,
		ApprovedAt:      a.ApprovedAt,
		CreatedAt:       a.CreatedAt,
	}
}

func FromDataModel(row *leaveDatamodel.LeaveApplication) *Application {
	return &Application{
		ID:              row.ID,
		EmployeeID:      row.EmployeeID,
		LeaveType:       row.LeaveType,
		StartDate:       row.StartDate,
		EndDate:         row.EndDate,
		DaysRequested:   row.DaysRequested,
		Reason:          row.Reason,
		Status:          Status(row.Status),
		ApprovedBy:      row.ApprovedBy,
		RejectionReason: row.RejectionReason,
		ApprovedAt:      row.ApprovedAt,
		CreatedAt:       row.CreatedAt,
	}
}
