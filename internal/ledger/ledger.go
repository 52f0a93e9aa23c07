package ledger

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal"
)

// Allotments holds the per-category annual entitlement of an employee.
type Allotments struct {
	Casual          int `json:"casual"`
	Sick            int `json:"sick"`
	Earned          int `json:"earned"`
	Privilege       int `json:"privilege"`
	Maternity       int `json:"maternity"`
	Paternity       int `json:"paternity"`
	CompensatoryOff int `json:"compensatory_off"`
	LeaveWithoutPay int `json:"leave_without_pay"`
}

type allotmentField struct {
	name  string
	value int
}

func (a Allotments) fields() []allotmentField {
	return []allotmentField{
		{"casual", a.Casual},
		{"sick", a.Sick},
		{"earned", a.Earned},
		{"privilege", a.Privilege},
		{"maternity", a.Maternity},
		{"paternity", a.Paternity},
		{"compensatory_off", a.CompensatoryOff},
		{"leave_without_pay", a.LeaveWithoutPay},
	}
}

// Validate rejects negative allotments.
func (a Allotments) Validate() error {
	var errs []internal.ValidationError
	for _, f := range a.fields() {
		if f.value < 0 {
			errs = append(errs, internal.ValidationError{
				Field:   f.name,
				Message: f.name + " allotment must not be negative",
				Code:    string(internal.ErrCodeInvalidAllotment),
			})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
		WithDetails(internal.ValidationErrors{Errors: errs})
}

// TotalEntitlement is the sum of all eight category allotments.
func TotalEntitlement(a Allotments) int {
	return a.Casual + a.Sick + a.Earned + a.Privilege +
		a.Maternity + a.Paternity + a.CompensatoryOff + a.LeaveWithoutPay
}

// Balance is the computed view of one employee's consumption.
type Balance struct {
	EmployeeID int64       `json:"employee_id"`
	Entitled   int         `json:"entitled"`
	Taken      int         `json:"taken"`
	Remaining  int         `json:"remaining"`
	Overdrawn  bool        `json:"overdrawn"`
	Allotments *Allotments `json:"allotments,omitempty"`
}

func NewBalance(employeeID int64, entitled, taken int) Balance {
	return Balance{
		EmployeeID: employeeID,
		Entitled:   entitled,
		Taken:      taken,
		Remaining:  entitled - taken,
		Overdrawn:  taken > entitled,
	}
}

// AccountStore applies consumption to the persistent counters. The increment
// must be a single relative update executed on the transaction in ctx.
type AccountStore interface {
	IncrementLeavesTaken(ctx context.Context, employeeID int64, days int) (Balance, error)
}

type Ledger struct {
	accounts AccountStore
	logger   *slog.Logger
}

func New(accounts AccountStore, logger *slog.Logger) *Ledger {
	return &Ledger{accounts: accounts, logger: logger}
}

// RecordConsumption adds days to the employee's taken counter. Overdrawing is
// allowed and only logged.
func (l *Ledger) RecordConsumption(ctx context.Context, employeeID int64, days int) (Balance, error) {
	if days <= 0 {
		return Balance{}, internal.NewValidationFieldError("days", "consumed days must be greater than zero", internal.ErrCodeInvalidDays)
	}

	balance, err := l.accounts.IncrementLeavesTaken(ctx, employeeID, days)
	if err != nil {
		return Balance{}, err
	}

	if balance.Overdrawn {
		l.logger.Warn("leave balance overdrawn",
			"employee_id", employeeID,
			"entitled", balance.Entitled,
			"taken", balance.Taken)
	}

	return balance, nil
}
