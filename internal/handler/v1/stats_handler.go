package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vihcare/vihcare/internal/service"
	"github.com/vihcare/vihcare/internal/stats"
)

type StatsHandler struct {
	patientSvc *service.PatientService
}

func NewStatsHandler(patientSvc *service.PatientService) *StatsHandler {
	return &StatsHandler{patientSvc: patientSvc}
}

// Report computes the statistics view tables for the requested period.
// GET /api/v1/estadisticas?periodo=month
func (h *StatsHandler) Report(c *gin.Context) {
	tf, err := stats.ParseTimeFrame(c.Query("periodo"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "periodo must be one of: all, year, semester, quarter, month, week")
		return
	}

	patients, err := h.patientSvc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, stats.BuildReport(patients, tf, time.Now()))
}
