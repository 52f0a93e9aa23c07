package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLeaveSubmitted = "leave.submitted"
	EventTypeLeaveApproved  = "leave.approved"
	EventTypeLeaveRejected  = "leave.rejected"
)

// Party identifies an employee as it appears in a notification.
type Party struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LeaveDetails is the part of an application every leave event carries.
type LeaveDetails struct {
	ApplicationID int64     `json:"application_id"`
	LeaveType     string    `json:"leave_type"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	DaysRequested int       `json:"days_requested"`
	Reason        string    `json:"reason"`
}

func (d LeaveDetails) data() map[string]interface{} {
	return map[string]interface{}{
		"application_id": d.ApplicationID,
		"leave_type":     d.LeaveType,
		"start_date":     d.StartDate.Format(time.DateOnly),
		"end_date":       d.EndDate.Format(time.DateOnly),
		"days_requested": d.DaysRequested,
	}
}

type LeaveSubmittedEvent struct {
	BaseEvent
	Leave    LeaveDetails `json:"leave"`
	Employee Party        `json:"employee"`
	// Manager is nil when the submitter has no manager.
	Manager *Party `json:"manager,omitempty"`
}

func NewLeaveSubmittedEvent(leave LeaveDetails, employee Party, manager *Party, at time.Time) *LeaveSubmittedEvent {
	data := leave.data()
	data["employee_id"] = employee.ID
	if manager != nil {
		data["manager_id"] = manager.ID
	}
	return &LeaveSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveSubmitted,
			Timestamp: at,
			Data:      data,
		},
		Leave:    leave,
		Employee: employee,
		Manager:  manager,
	}
}

// LeaveDecidedEvent is published for both approvals and rejections.
type LeaveDecidedEvent struct {
	BaseEvent
	Leave           LeaveDetails `json:"leave"`
	Employee        Party        `json:"employee"`
	Approver        Party        `json:"approver"`
	RejectionReason string       `json:"rejection_reason,omitempty"`
	DecidedAt       time.Time    `json:"decided_at"`
}

func (e *LeaveDecidedEvent) Approved() bool {
	return e.Type == EventTypeLeaveApproved
}

func NewLeaveApprovedEvent(leave LeaveDetails, employee, approver Party, at time.Time) *LeaveDecidedEvent {
	return newLeaveDecidedEvent(EventTypeLeaveApproved, leave, employee, approver, "", at)
}

func NewLeaveRejectedEvent(leave LeaveDetails, employee, approver Party, reason string, at time.Time) *LeaveDecidedEvent {
	return newLeaveDecidedEvent(EventTypeLeaveRejected, leave, employee, approver, reason, at)
}

func newLeaveDecidedEvent(eventType string, leave LeaveDetails, employee, approver Party, reason string, at time.Time) *LeaveDecidedEvent {
	data := leave.data()
	data["employee_id"] = employee.ID
	data["approver_id"] = approver.ID
	if reason != "" {
		data["rejection_reason"] = reason
	}
	return &LeaveDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: at,
			Data:      data,
		},
		Leave:           leave,
		Employee:        employee,
		Approver:        approver,
		RejectionReason: reason,
		DecidedAt:       at,
	}
}
