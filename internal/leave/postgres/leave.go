package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/leave-management/internal/core/database"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/leave"
	"gorm.io/gorm"
)

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.RepositoryAPI {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(ctx context.Context, app *leave.Application) error {
	row := leave.ToDataModel(app)
	if err := database.Conn(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	app.ID = row.ID
	return nil
}

func (r *LeaveRepository) GetByID(ctx context.Context, id int64) (*leave.Application, error) {
	var row leaveDatamodel.LeaveApplication
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return leave.FromDataModel(&row), nil
}

func (r *LeaveRepository) List(ctx context.Context, filter leave.Filter) ([]*leave.Application, error) {
	query := database.Conn(ctx, r.db).
		Model(&leaveDatamodel.LeaveApplication{}).
		Select("leave_applications.*")

	if filter.EmployeeID != nil {
		query = query.Where("leave_applications.employee_id = ?", *filter.EmployeeID)
	}
	if filter.ManagerID != nil {
		query = query.
			Joins("JOIN employees ON employees.id = leave_applications.employee_id").
			Where("employees.manager_id = ?", *filter.ManagerID)
	}

	var rows []*leaveDatamodel.LeaveApplication
	err := query.
		Order("leave_applications.created_at DESC").
		Order("leave_applications.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	apps := make([]*leave.Application, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, leave.FromDataModel(row))
	}
	return apps, nil
}

// TransitionFromPending is a compare-and-swap on status: it only matches a
// row that is still pending, so two concurrent decisions cannot both win.
func (r *LeaveRepository) TransitionFromPending(ctx context.Context, id int64, t leave.Transition) (bool, error) {
	result := database.Conn(ctx, r.db).
		Model(&leaveDatamodel.LeaveApplication{}).
		Where("id = ? AND status = ?", id, string(leave.StatusPending)).
		Updates(map[string]interface{}{
			"status":           string(t.To),
			"approved_by":      t.ApprovedBy,
			"rejection_reason": t.RejectionReason,
			"approved_at":      t.At,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
