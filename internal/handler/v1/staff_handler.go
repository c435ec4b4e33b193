package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/vihcare/vihcare/internal/service"
)

type StaffHandler struct {
	staffSvc *service.StaffService
}

func NewStaffHandler(staffSvc *service.StaffService) *StaffHandler {
	return &StaffHandler{staffSvc: staffSvc}
}

// List returns the full evaluator roster.
// GET /api/v1/staff
func (h *StaffHandler) List(c *gin.Context) {
	members, err := h.staffSvc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, members)
}

// Add appends a roster entry.
// POST /api/v1/staff
func (h *StaffHandler) Add(c *gin.Context) {
	var cmd service.AddStaffCommand
	if !bindJSON(c, &cmd) {
		return
	}

	member, err := h.staffSvc.AddStaffMember(c.Request.Context(), &cmd, callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, member)
}
