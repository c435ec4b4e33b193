package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/vihcare/vihcare/internal/domain/patient"
	"github.com/vihcare/vihcare/internal/service"
)

type PatientHandler struct {
	patientSvc *service.PatientService
}

func NewPatientHandler(patientSvc *service.PatientService) *PatientHandler {
	return &PatientHandler{patientSvc: patientSvc}
}

// Create registers a patient at triage intake.
// POST /api/v1/patients
func (h *PatientHandler) Create(c *gin.Context) {
	var cmd patient.CreatePatientCommand
	if !bindJSON(c, &cmd) {
		return
	}

	p, err := h.patientSvc.Create(c.Request.Context(), &cmd, callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, p)
}

// List returns every record, newest consultation first.
// GET /api/v1/patients
func (h *PatientHandler) List(c *gin.Context) {
	patients, err := h.patientSvc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, patients)
}

// Get returns one record by cedula.
// GET /api/v1/patients/:id
func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	p, err := h.patientSvc.Get(c.Request.Context(), id, callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

// UpdateIdentificacion rewrites the root identity fields.
// PUT /api/v1/patients/:id/identificacion
func (h *PatientHandler) UpdateIdentificacion(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	var ident patient.Identificacion
	if !bindJSON(c, &ident) {
		return
	}

	p, err := h.patientSvc.UpdateIdentificacion(c.Request.Context(), id, ident, callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

// UpdateTriage rewrites the triage vitals; IMC is recomputed server-side.
// PUT /api/v1/patients/:id/triaje
func (h *PatientHandler) UpdateTriage(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	var t patient.TriageData
	if !bindJSON(c, &t) {
		return
	}

	p, err := h.patientSvc.UpdateTriage(c.Request.Context(), id, t, callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

// UpdateHistoriaPrimera saves the first-visit clinical history.
// PUT /api/v1/patients/:id/historia-primera
func (h *PatientHandler) UpdateHistoriaPrimera(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	var hist patient.HistoriaClinicaPrimera
	if !bindJSON(c, &hist) {
		return
	}

	p, err := h.patientSvc.UpdateHistoriaPrimera(c.Request.Context(), id, hist, callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

// AppendSucesiva adds a follow-up history entry.
// POST /api/v1/patients/:id/historias-sucesivas
func (h *PatientHandler) AppendSucesiva(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	var entry patient.HistoriaClinicaSucesiva
	if !bindJSON(c, &entry) {
		return
	}

	p, err := h.patientSvc.AppendSucesiva(c.Request.Context(), id, entry, callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, p)
}

// AppendTARChange records an antiretroviral regimen change.
// POST /api/v1/patients/:id/cambios-tar
func (h *PatientHandler) AppendTARChange(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	var change patient.TARChange
	if !bindJSON(c, &change) {
		return
	}

	p, err := h.patientSvc.AppendTARChange(c.Request.Context(), id, change, callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, p)
}

// AppendTratamientoNota records a free-text treatment note.
// POST /api/v1/patients/:id/notas-tratamiento
func (h *PatientHandler) AppendTratamientoNota(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	var nota patient.TratamientoNota
	if !bindJSON(c, &nota) {
		return
	}

	p, err := h.patientSvc.AppendTratamientoNota(c.Request.Context(), id, nota, callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, p)
}

// UpdateEstudios rewrites the labs and immunization section.
// PUT /api/v1/patients/:id/estudios
func (h *PatientHandler) UpdateEstudios(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	var e patient.EstudiosData
	if !bindJSON(c, &e) {
		return
	}

	p, err := h.patientSvc.UpdateEstudios(c.Request.Context(), id, e, callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

// SetFichaTratamiento saves the treatment initiation/change form.
// PUT /api/v1/patients/:id/ficha-tratamiento
func (h *PatientHandler) SetFichaTratamiento(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	var ficha patient.FichaInicioTratamientoData
	if !bindJSON(c, &ficha) {
		return
	}

	p, err := h.patientSvc.SetFichaInicioTratamiento(c.Request.Context(), id, ficha, callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

// SetEmbarazada saves the pregnancy record; rejected for male patients.
// PUT /api/v1/patients/:id/embarazada
func (h *PatientHandler) SetEmbarazada(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	var data patient.EmbarazadaData
	if !bindJSON(c, &data) {
		return
	}

	p, err := h.patientSvc.SetEmbarazadaData(c.Request.Context(), id, data, callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

type tipoConsultaRequest struct {
	TipoConsulta patient.TipoConsulta `json:"tipoConsulta" binding:"required"`
}

// SetTipoConsulta switches the patient's consultation mode.
// PUT /api/v1/patients/:id/tipo-consulta
func (h *PatientHandler) SetTipoConsulta(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	var req tipoConsultaRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.patientSvc.SetTipoConsulta(c.Request.Context(), id, req.TipoConsulta, callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}
