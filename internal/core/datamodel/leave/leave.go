package leave

import "time"

type LeaveApplication struct {
	ID              int64      `gorm:"primaryKey"`
	EmployeeID      int64      `gorm:"column:employee_id;not null;index"`
	LeaveType       string     `gorm:"column:leave_type;not null"`
	StartDate       time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate         time.Time  `gorm:"column:end_date;type:date;not null"`
	DaysRequested   int        `gorm:"column:days_requested;not null"`
	Reason          string     `gorm:"column:reason;not null;default:''"`
	Status          string     `gorm:"column:status;not null;default:pending;index"`
	ApprovedBy      *int64     `gorm:"column:approved_by"`
	RejectionReason *string    `gorm:"column:rejection_reason"`
	ApprovedAt      *time.Time `gorm:"column:approved_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveApplication) TableName() string {
	return "leave_applications"
}
