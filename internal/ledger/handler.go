package ledger

import (
	"net/http"
	"strconv"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
)

type ReportResponse struct {
	Balances []ReportLine `json:"balances"`
}

type Handler struct {
	*transport.BaseHandler
	Reports ReportReader
}

func NewHandler(baseHandler *transport.BaseHandler, reports ReportReader) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Reports:     reports,
	}
}

// GetBalances serves GET /balances?overdrawn=true.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	var filter ReportFilter
	if raw := r.URL.Query().Get("overdrawn"); raw != "" {
		only, err := strconv.ParseBool(raw)
		if err != nil {
			h.HandleServiceError(w, r, internal.NewValidationFieldError("overdrawn", "must be a boolean", internal.ErrCodeValidationFailed))
			return
		}
		filter.OnlyOverdrawn = only
	}

	lines, err := h.Reports.BalanceReport(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, internal.NewDependencyError("balance report unavailable", err))
		return
	}
	h.WriteJSON(w, http.StatusOK, ReportResponse{Balances: lines})
}
