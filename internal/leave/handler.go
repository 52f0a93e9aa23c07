package leave

import (
	"context"
	"net/http"

	"github.com/frahmantamala/leave-management/internal/transport"
)

type ServiceAPI interface {
	Submit(ctx context.Context, cmd SubmitCommand) (*Application, error)
	Approve(ctx context.Context, id, approverID int64) (*Application, error)
	Reject(ctx context.Context, id, approverID int64, reason string) (*Application, error)
	Get(ctx context.Context, id int64) (*Application, error)
	List(ctx context.Context, filter Filter) ([]*Application, error)
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

func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	app, err := h.Service.Submit(r.Context(), cmd)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, app.ToResponse())
}

func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.QueryID(r, "employee_id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	managerID, err := h.QueryID(r, "manager_id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	apps, err := h.Service.List(r.Context(), Filter{EmployeeID: employeeID, ManagerID: managerID})
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	resp := ApplicationsResponse{Applications: make([]ApplicationResponse, 0, len(apps))}
	for _, app := range apps {
		resp.Applications = append(resp.Applications, app.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	app, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, app.ToResponse())
}

func (h *Handler) ApproveApplication(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var req ApproveRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	app, err := h.Service.Approve(r.Context(), id, req.ApprovedBy)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, app.ToResponse())
}

func (h *Handler) RejectApplication(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var req RejectRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	app, err := h.Service.Reject(r.Context(), id, req.RejectedBy, req.RejectionReason)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, app.ToResponse())
}
