package leavetype

import (
	"net/http"

	"github.com/frahmantamala/leave-management/internal/transport"
)

type LeaveTypesResponse struct {
	LeaveTypes []LeaveType `json:"leave_types"`
}

type Handler struct {
	*transport.BaseHandler
}

func NewHandler(baseHandler *transport.BaseHandler) *Handler {
	return &Handler{BaseHandler: baseHandler}
}

func (h *Handler) GetLeaveTypes(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, LeaveTypesResponse{LeaveTypes: All()})
}
