package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/leave-management/internal/core/database"
	employeeDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/leave-management/internal/employee"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	var row employeeDatamodel.Employee
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *EmployeeRepository) GetByIDForUpdate(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	var row employeeDatamodel.Employee
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*employeeDatamodel.Employee, error) {
	var rows []*employeeDatamodel.Employee
	err := database.Conn(ctx, r.db).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *EmployeeRepository) UpdateAllotments(ctx context.Context, row *employeeDatamodel.Employee) error {
	return database.Conn(ctx, r.db).Model(&employeeDatamodel.Employee{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"casual_leave":           row.CasualLeave,
			"sick_leave":             row.SickLeave,
			"earned_leave":           row.EarnedLeave,
			"privilege_leave":        row.PrivilegeLeave,
			"maternity_leave":        row.MaternityLeave,
			"paternity_leave":        row.PaternityLeave,
			"compensatory_off_leave": row.CompensatoryOffLeave,
			"leave_without_pay":      row.LeaveWithoutPay,
			"leaves_entitled":        row.LeavesEntitled,
		}).Error
}

func (r *EmployeeRepository) UpdateManager(ctx context.Context, id int64, managerID *int64) error {
	return database.Conn(ctx, r.db).Model(&employeeDatamodel.Employee{}).
		Where("id = ?", id).
		Update("manager_id", managerID).Error
}

func (r *EmployeeRepository) SetLeavesTaken(ctx context.Context, id int64, taken int) error {
	return database.Conn(ctx, r.db).Model(&employeeDatamodel.Employee{}).
		Where("id = ?", id).
		Update("leaves_taken", taken).Error
}

// IncrementLeavesTaken is a relative update so concurrent approvals for the
// same employee cannot lose an increment.
func (r *EmployeeRepository) IncrementLeavesTaken(ctx context.Context, id int64, days int) (*employeeDatamodel.Employee, error) {
	conn := database.Conn(ctx, r.db)
	result := conn.Model(&employeeDatamodel.Employee{}).
		Where("id = ?", id).
		Update("leaves_taken", gorm.Expr("leaves_taken + ?", days))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}
