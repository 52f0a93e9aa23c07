package employee

import (
	"context"
	"net/http"

	"github.com/frahmantamala/leave-management/internal/ledger"
	"github.com/frahmantamala/leave-management/internal/transport"
)

type ServiceAPI interface {
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	List(ctx context.Context) ([]*Employee, error)
	GetBalance(ctx context.Context, id int64) (ledger.Balance, error)
	SetAllotments(ctx context.Context, id int64, allotments ledger.Allotments) (*Employee, error)
	AssignManager(ctx context.Context, id int64, managerID *int64) (*Employee, error)
	CorrectLeavesTaken(ctx context.Context, id int64, taken int, note string) (*Employee, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, EmployeesResponse{Employees: employees})
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	emp, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	balance, err := h.Service.GetBalance(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, balance)
}

func (h *Handler) SetAllotments(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var req AllotmentsRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	emp, err := h.Service.SetAllotments(r.Context(), id, req.Allotments)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) AssignManager(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var req AssignManagerRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	emp, err := h.Service.AssignManager(r.Context(), id, req.ManagerID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) CorrectLeavesTaken(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var req CorrectLeavesTakenRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	emp, err := h.Service.CorrectLeavesTaken(r.Context(), id, req.LeavesTaken, req.Note)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, emp)
}
