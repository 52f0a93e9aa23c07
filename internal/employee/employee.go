package employee

import (
	"time"

	employeeDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/leave-management/internal/ledger"
)

type Role string

const (
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEmployee:
		return true
	}
	return false
}

type Employee struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Role           Role              `json:"role"`
	ManagerID      *int64            `json:"manager_id"`
	Allotments     ledger.Allotments `json:"allotments"`
	LeavesEntitled int               `json:"leaves_entitled"`
	LeavesTaken    int               `json:"leaves_taken"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (e *Employee) HasManager() bool {
	return e.ManagerID != nil
}

func (e *Employee) Balance() ledger.Balance {
	b := ledger.NewBalance(e.ID, e.LeavesEntitled, e.LeavesTaken)
	allotments := e.Allotments
	b.Allotments = &allotments
	return b
}

// SetAllotments replaces the allotments and recomputes the entitlement.
func (e *Employee) SetAllotments(a ledger.Allotments) {
	e.Allotments = a
	e.LeavesEntitled = ledger.TotalEntitlement(a)
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:                   e.ID,
		Name:                 e.Name,
		Email:                e.Email,
		Role:                 string(e.Role),
		ManagerID:            e.ManagerID,
		CasualLeave:          e.Allotments.Casual,
		SickLeave:            e.Allotments.Sick,
		EarnedLeave:          e.Allotments.Earned,
		PrivilegeLeave:       e.Allotments.Privilege,
		MaternityLeave:       e.Allotments.Maternity,
		PaternityLeave:       e.Allotments.Paternity,
		CompensatoryOffLeave: e.Allotments.CompensatoryOff,
		LeaveWithoutPay:      e.Allotments.LeaveWithoutPay,
		LeavesEntitled:       e.LeavesEntitled,
		LeavesTaken:          e.LeavesTaken,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Role:      Role(e.Role),
		ManagerID: e.ManagerID,
		Allotments: ledger.Allotments{
			Casual:          e.CasualLeave,
			Sick:            e.SickLeave,
			Earned:          e.EarnedLeave,
			Privilege:       e.PrivilegeLeave,
			Maternity:       e.MaternityLeave,
			Paternity:       e.PaternityLeave,
			CompensatoryOff: e.CompensatoryOffLeave,
			LeaveWithoutPay: e.LeaveWithoutPay,
		},
		LeavesEntitled: e.LeavesEntitled,
		LeavesTaken:    e.LeavesTaken,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
