package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/common/validation"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/employee"
	"github.com/frahmantamala/leave-management/internal/leavetype"
	"github.com/frahmantamala/leave-management/internal/ledger"
)

// RepositoryAPI persists applications. GetByID returns (nil, nil) for an
// unknown id. TransitionFromPending must only touch a row that is still
// pending and report whether it did.
type RepositoryAPI interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	List(ctx context.Context, filter Filter) ([]*Application, error)
	TransitionFromPending(ctx context.Context, id int64, t Transition) (bool, error)
}

type Directory interface {
	GetEmployee(ctx context.Context, id int64) (*employee.Employee, error)
	GetManagerOf(ctx context.Context, employeeID int64) (*employee.Employee, error)
}

type Consumer interface {
	RecordConsumption(ctx context.Context, employeeID int64, days int) (ledger.Balance, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event)
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithApproverPolicy(policy ApproverPolicy) Option {
	return func(s *Service) { s.policy = policy }
}

// Service is the leave lifecycle engine. It holds no mutable state of its
// own; every call is an independent unit of work.
type Service struct {
	repo      RepositoryAPI
	directory Directory
	ledger    Consumer
	tx        Transactor
	publisher Publisher
	policy    ApproverPolicy
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, directory Directory, consumer Consumer, tx Transactor, publisher Publisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		directory: directory,
		ledger:    consumer,
		tx:        tx,
		publisher: publisher,
		policy:    AnyApprover{},
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func serviceError(op string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewDependencyError("leave store unavailable", fmt.Errorf("%s: %w", op, err))
}

func validateSubmit(cmd SubmitCommand) error {
	v := validation.NewValidator()
	v.Field("employee_id", cmd.EmployeeID).Required().Positive(internal.ErrCodeInvalidIdentifier)
	v.Field("leave_type", cmd.LeaveType).
		Required().
		Custom(func(value interface{}) *internal.ValidationError {
			if !leavetype.IsValid(value.(string)) {
				return &internal.ValidationError{Field: "leave_type", Message: "leave_type is not a known leave type", Code: string(internal.ErrCodeInvalidLeaveType)}
			}
			return nil
		})
	v.Field("start_date", cmd.StartDate).Required()
	v.Field("end_date", cmd.EndDate).
		Required().
		NotBefore("start_date", cmd.StartDate, internal.ErrCodeInvalidDateRange)
	v.Field("days_requested", cmd.DaysRequested).Positive(internal.ErrCodeInvalidDays)
	v.Field("reason", cmd.Reason).MaxLength(maxReasonLength, internal.ErrCodeReasonTooLong)

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Submit records a new pending application and notifies the submitter's
// manager, if there is one.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (*Application, error) {
	if err := validateSubmit(cmd); err != nil {
		s.logger.Info("leave submission rejected", "employee_id", cmd.EmployeeID, "error", err)
		return nil, err
	}

	submitter, err := s.directory.GetEmployee(ctx, cmd.EmployeeID)
	if err != nil {
		return nil, serviceError("load submitter", err)
	}

	app := &Application{
		EmployeeID:    submitter.ID,
		LeaveType:     cmd.LeaveType,
		StartDate:     cmd.StartDate,
		EndDate:       cmd.EndDate,
		DaysRequested: cmd.DaysRequested,
		Reason:        cmd.Reason,
		Status:        StatusPending,
		CreatedAt:     s.now(),
	}

	if err := s.repo.Create(ctx, app); err != nil {
		s.logger.Error("failed to create leave application", "employee_id", submitter.ID, "error", err)
		return nil, serviceError("create application", err)
	}

	s.logger.Info("leave application submitted",
		"application_id", app.ID,
		"employee_id", submitter.ID,
		"leave_type", app.LeaveType,
		"days_requested", app.DaysRequested)

	// The application exists at this point; a failed manager lookup only
	// costs the notification.
	manager, err := s.directory.GetManagerOf(ctx, submitter.ID)
	if err != nil {
		s.logger.Warn("could not resolve manager for notification",
			"application_id", app.ID,
			"employee_id", submitter.ID,
			"error", err)
	}

	var managerParty *events.Party
	if manager != nil {
		p := party(manager)
		managerParty = &p
	} else {
		s.logger.Info("submitter has no manager, skipping notification", "employee_id", submitter.ID)
	}

	s.publisher.Publish(ctx, events.NewLeaveSubmittedEvent(app.details(), party(submitter), managerParty, app.CreatedAt))
	return app, nil
}

// Approve moves a pending application to approved and consumes the requested
// days from the submitter's balance in the same transaction.
func (s *Service) Approve(ctx context.Context, id, approverID int64) (*Application, error) {
	return s.decide(ctx, id, approverID, StatusApproved, "")
}

// Reject moves a pending application to rejected. Balances are untouched.
func (s *Service) Reject(ctx context.Context, id, approverID int64, reason string) (*Application, error) {
	return s.decide(ctx, id, approverID, StatusRejected, reason)
}

func (s *Service) decide(ctx context.Context, id, approverID int64, to Status, reason string) (*Application, error) {
	if approverID <= 0 {
		field := "approved_by"
		if to == StatusRejected {
			field = "rejected_by"
		}
		return nil, internal.NewValidationFieldError(field, field+" is required", internal.ErrCodeValidationFailed)
	}
	if len([]rune(reason)) > maxReasonLength {
		return nil, internal.NewValidationFieldError("rejection_reason", fmt.Sprintf("rejection_reason must not exceed %d characters", maxReasonLength), internal.ErrCodeReasonTooLong)
	}

	var (
		app       *Application
		submitter *employee.Employee
		approver  *employee.Employee
		balance   ledger.Balance
	)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if app == nil {
			return internal.ErrApplicationNotFound
		}
		if !app.IsPending() {
			return internal.ErrAlreadyProcessed
		}

		approver, err = s.directory.GetEmployee(ctx, approverID)
		if err != nil {
			if errors.Is(err, internal.ErrEmployeeNotFound) {
				return internal.ErrApproverNotFound
			}
			return err
		}

		submitter, err = s.directory.GetEmployee(ctx, app.EmployeeID)
		if err != nil {
			return err
		}

		allowed, err := s.policy.Allow(ctx, submitter, approver)
		if err != nil {
			return err
		}
		if !allowed {
			return internal.ErrApproverNotAllowed
		}

		t := Transition{To: to, ApprovedBy: approver.ID, At: s.now()}
		if to == StatusRejected && reason != "" {
			r := reason
			t.RejectionReason = &r
		}

		swapped, err := s.repo.TransitionFromPending(ctx, id, t)
		if err != nil {
			return err
		}
		if !swapped {
			// lost the race against a concurrent decision
			return internal.ErrAlreadyProcessed
		}
		app.apply(t)

		if to == StatusApproved {
			balance, err = s.ledger.RecordConsumption(ctx, app.EmployeeID, app.DaysRequested)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Info("leave decision failed",
			"application_id", id,
			"approver_id", approverID,
			"status", to,
			"error", err)
		return nil, serviceError("decide application", err)
	}

	var event events.Event
	if to == StatusApproved {
		s.logger.Info("leave application approved",
			"application_id", app.ID,
			"approver_id", approver.ID,
			"employee_id", app.EmployeeID,
			"leaves_taken", balance.Taken,
			"leaves_entitled", balance.Entitled)
		event = events.NewLeaveApprovedEvent(app.details(), party(submitter), party(approver), *app.ApprovedAt)
	} else {
		s.logger.Info("leave application rejected",
			"application_id", app.ID,
			"approver_id", approver.ID,
			"employee_id", app.EmployeeID)
		event = events.NewLeaveRejectedEvent(app.details(), party(submitter), party(approver), reason, *app.ApprovedAt)
	}
	s.publisher.Publish(ctx, event)

	return app, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, serviceError("get application", err)
	}
	if app == nil {
		return nil, internal.ErrApplicationNotFound
	}
	return app, nil
}

// List returns applications newest first; ties keep insertion order.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Application, error) {
	apps, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, serviceError("list applications", err)
	}
	return apps, nil
}

func party(e *employee.Employee) events.Party {
	return events.Party{ID: e.ID, Name: e.Name, Email: e.Email}
}
