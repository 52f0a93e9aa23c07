package employee

import "github.com/frahmantamala/leave-management/internal/ledger"

type EmployeesResponse struct {
	Employees []*Employee `json:"employees"`
}

type AllotmentsRequest struct {
	Allotments ledger.Allotments `json:"allotments"`
}

type AssignManagerRequest struct {
	// nil detaches the employee from any manager.
	ManagerID *int64 `json:"manager_id"`
}

type CorrectLeavesTakenRequest struct {
	LeavesTaken int    `json:"leaves_taken"`
	Note        string `json:"note,omitempty"`
}
