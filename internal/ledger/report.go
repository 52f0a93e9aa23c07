package ledger

import "context"

// ReportLine is one row of the organisation-wide balance report.
type ReportLine struct {
	Balance
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ReportFilter struct {
	OnlyOverdrawn bool
}

type ReportReader interface {
	BalanceReport(ctx context.Context, filter ReportFilter) ([]ReportLine, error)
}
