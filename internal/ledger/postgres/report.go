package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/leave-management/internal/ledger"
	"github.com/jmoiron/sqlx"
)

const balanceReportQuery = `
SELECT id, name, email, leaves_entitled, leaves_taken
FROM employees`

type balanceRow struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	Entitled int    `db:"leaves_entitled"`
	Taken    int    `db:"leaves_taken"`
}

// ReportRepository reads balances straight from the employees table with sqlx;
// it never writes.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) BalanceReport(ctx context.Context, filter ledger.ReportFilter) ([]ledger.ReportLine, error) {
	query := balanceReportQuery
	if filter.OnlyOverdrawn {
		query += "\nWHERE leaves_taken > leaves_entitled"
	}
	query += "\nORDER BY id ASC"

	var rows []balanceRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select balance report: %w", err)
	}

	lines := make([]ledger.ReportLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, ledger.ReportLine{
			Balance: ledger.NewBalance(row.ID, row.Entitled, row.Taken),
			Name:    row.Name,
			Email:   row.Email,
		})
	}
	return lines, nil
}
