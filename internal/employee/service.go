package employee

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal"
	employeeDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/leave-management/internal/ledger"
)

// RepositoryAPI returns (nil, nil) from lookups when the row does not exist.
type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	// GetByIDForUpdate is GetByID that also locks the row until the
	// transaction in ctx ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	List(ctx context.Context) ([]*employeeDatamodel.Employee, error)
	UpdateAllotments(ctx context.Context, row *employeeDatamodel.Employee) error
	UpdateManager(ctx context.Context, id int64, managerID *int64) error
	SetLeavesTaken(ctx context.Context, id int64, taken int) error
	IncrementLeavesTaken(ctx context.Context, id int64, days int) (*employeeDatamodel.Employee, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	repo   RepositoryAPI
	tx     Transactor
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tx Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tx:     tx,
		logger: logger,
	}
}

func storeError(op string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewDependencyError("employee directory unavailable", fmt.Errorf("%s: %w", op, err))
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get employee", err)
	}
	if row == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return FromDataModel(row), nil
}

// GetManagerOf returns nil without error when the employee has no manager.
func (s *Service) GetManagerOf(ctx context.Context, employeeID int64) (*Employee, error) {
	emp, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !emp.HasManager() {
		return nil, nil
	}

	row, err := s.repo.GetByID(ctx, *emp.ManagerID)
	if err != nil {
		return nil, storeError("get manager", err)
	}
	if row == nil {
		s.logger.Warn("employee references a missing manager",
			"employee_id", employeeID,
			"manager_id", *emp.ManagerID)
		return nil, nil
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context) ([]*Employee, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError("list employees", err)
	}
	employees := make([]*Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, FromDataModel(row))
	}
	return employees, nil
}

func (s *Service) GetBalance(ctx context.Context, id int64) (ledger.Balance, error) {
	emp, err := s.GetEmployee(ctx, id)
	if err != nil {
		return ledger.Balance{}, err
	}
	return emp.Balance(), nil
}

func (s *Service) SetAllotments(ctx context.Context, id int64, allotments ledger.Allotments) (*Employee, error) {
	if err := allotments.Validate(); err != nil {
		return nil, err
	}

	emp, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	emp.SetAllotments(allotments)
	if err := s.repo.UpdateAllotments(ctx, ToDataModel(emp)); err != nil {
		return nil, storeError("update allotments", err)
	}

	s.logger.Info("allotments updated",
		"employee_id", id,
		"leaves_entitled", emp.LeavesEntitled)
	return emp, nil
}

// AssignManager sets or clears the manager of id. The manager relation must
// stay a forest, so self references and cycles are rejected. The employee and
// every row on the new manager chain stay locked until the update commits, so
// two opposite reassignments cannot both pass the cycle check.
func (s *Service) AssignManager(ctx context.Context, id int64, managerID *int64) (*Employee, error) {
	if managerID != nil && *managerID == id {
		return nil, internal.NewValidationFieldError("manager_id", "an employee cannot manage themselves", internal.ErrCodeManagerCycle)
	}

	var emp *Employee
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return storeError("lock employee", err)
		}
		if row == nil {
			return internal.ErrEmployeeNotFound
		}
		emp = FromDataModel(row)

		if managerID != nil {
			if err := s.ensureNoCycle(ctx, id, *managerID); err != nil {
				return err
			}
		}

		if err := s.repo.UpdateManager(ctx, id, managerID); err != nil {
			return storeError("update manager", err)
		}
		return nil
	})
	if err != nil {
		return nil, storeError("assign manager", err)
	}
	emp.ManagerID = managerID

	s.logger.Info("manager assigned", "employee_id", id, "manager_id", managerID)
	return emp, nil
}

func (s *Service) ensureNoCycle(ctx context.Context, id, managerID int64) error {
	visited := map[int64]bool{}
	current := managerID
	for {
		row, err := s.repo.GetByIDForUpdate(ctx, current)
		if err != nil {
			return storeError("walk manager chain", err)
		}
		if row == nil {
			if current == managerID {
				return internal.NewValidationFieldError("manager_id", "manager does not exist", internal.ErrCodeEmployeeNotFound)
			}
			return nil
		}
		visited[current] = true
		if row.ManagerID == nil {
			return nil
		}
		if *row.ManagerID == id {
			return internal.NewValidationFieldError("manager_id", "assignment would create a management cycle", internal.ErrCodeManagerCycle)
		}
		if visited[*row.ManagerID] {
			return nil
		}
		current = *row.ManagerID
	}
}

// CorrectLeavesTaken overwrites the consumption counter. It is the only path
// that may decrease it.
func (s *Service) CorrectLeavesTaken(ctx context.Context, id int64, taken int, note string) (*Employee, error) {
	if taken < 0 {
		return nil, internal.NewValidationFieldError("leaves_taken", "leaves taken must not be negative", internal.ErrCodeInvalidDays)
	}

	emp, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := emp.LeavesTaken
	if err := s.repo.SetLeavesTaken(ctx, id, taken); err != nil {
		return nil, storeError("correct leaves taken", err)
	}
	emp.LeavesTaken = taken

	s.logger.Warn("leaves taken corrected",
		"employee_id", id,
		"previous", previous,
		"current", taken,
		"note", note)
	return emp, nil
}

// IncrementLeavesTaken satisfies ledger.AccountStore.
func (s *Service) IncrementLeavesTaken(ctx context.Context, id int64, days int) (ledger.Balance, error) {
	row, err := s.repo.IncrementLeavesTaken(ctx, id, days)
	if err != nil {
		return ledger.Balance{}, storeError("increment leaves taken", err)
	}
	if row == nil {
		return ledger.Balance{}, internal.ErrEmployeeNotFound
	}
	return FromDataModel(row).Balance(), nil
}
