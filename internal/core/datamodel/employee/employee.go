package employee

import "time"

type Employee struct {
	ID                   int64     `gorm:"primaryKey"`
	Name                 string    `gorm:"column:name;not null"`
	Email                string    `gorm:"column:email;uniqueIndex;not null"`
	Role                 string    `gorm:"column:role;not null;default:employee"`
	ManagerID            *int64    `gorm:"column:manager_id;index"`
	CasualLeave          int       `gorm:"column:casual_leave;not null;default:0"`
	SickLeave            int       `gorm:"column:sick_leave;not null;default:0"`
	EarnedLeave          int       `gorm:"column:earned_leave;not null;default:0"`
	PrivilegeLeave       int       `gorm:"column:privilege_leave;not null;default:0"`
	MaternityLeave       int       `gorm:"column:maternity_leave;not null;default:0"`
	PaternityLeave       int       `gorm:"column:paternity_leave;not null;default:0"`
	CompensatoryOffLeave int       `gorm:"column:compensatory_off_leave;not null;default:0"`
	LeaveWithoutPay      int       `gorm:"column:leave_without_pay;not null;default:0"`
	LeavesEntitled       int       `gorm:"column:leaves_entitled;not null;default:0"`
	LeavesTaken          int       `gorm:"column:leaves_taken;not null;default:0"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
