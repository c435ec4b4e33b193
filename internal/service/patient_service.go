package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vihcare/vihcare/internal/domain/patient"
	"github.com/vihcare/vihcare/pkg/metrics"
)

// Caller identifies the authenticated user performing an operation,
// for audit purposes.
type Caller struct {
	UserID uuid.UUID
	Role   string
	IP     string
}

type PatientService struct {
	repo      patient.Repository
	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:      repo,
		auditSvc:  auditSvc,
		collector: collector,
		log:       log,
	}
}

// Create registers a patient at triage intake. The cedula must be unique;
// every sub-record starts in its documented empty default state and the
// IMC is derived from the supplied vitals.
func (s *PatientService) Create(ctx context.Context, cmd *patient.CreatePatientCommand, caller Caller) (*patient.Patient, error) {
	if err := validateIntake(cmd); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByID(ctx, cmd.ID)
	if err != nil {
		s.log.Error("failed to check cedula uniqueness", zap.Error(err))
		return nil, fmt.Errorf("checking uniqueness: %w", err)
	}
	if exists {
		return nil, patient.ErrPatientAlreadyExists
	}

	p := patient.NewFromIntake(cmd, time.Now())

	if err := s.repo.Create(ctx, p); err != nil {
		s.countPersistenceError()
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, err
	}

	if s.collector != nil {
		s.collector.PatientsCreatedTotal.Inc()
	}
	s.audit(ctx, caller, "create", p.ID, "")

	s.log.Info("patient created",
		zap.String("patient_id", p.ID),
		zap.String("created_by", caller.UserID.String()),
	)

	return p, nil
}

func (s *PatientService) Get(ctx context.Context, id string, caller Caller) (*patient.Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, caller, "read", id, "")
	return p, nil
}

// List hydrates the caller's session state with every record,
// newest consultation first.
func (s *PatientService) List(ctx context.Context) ([]*patient.Patient, error) {
	return s.repo.List(ctx)
}

// UpdateIdentificacion rewrites the root-level identity fields only.
func (s *PatientService) UpdateIdentificacion(ctx context.Context, id string, ident patient.Identificacion, caller Caller) (*patient.Patient, error) {
	var errs []string
	if strings.TrimSpace(ident.Nombres) == "" {
		errs = append(errs, "nombres is required")
	}
	if strings.TrimSpace(ident.Apellidos) == "" {
		errs = append(errs, "apellidos is required")
	}
	if ident.Edad < 0 {
		errs = append(errs, "edad cannot be negative")
	}
	if !ident.Sexo.IsValid() {
		return nil, patient.ErrInvalidSexo
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	return s.patch(ctx, id, &patient.SectionPatch{Identificacion: &ident}, caller, `{"section":"identificacion"}`)
}

// UpdateTriage rewrites the triage section; the stored IMC is always the
// derived value, whatever the caller supplied.
func (s *PatientService) UpdateTriage(ctx context.Context, id string, t patient.TriageData, caller Caller) (*patient.Patient, error) {
	t.RecomputeIMC()
	return s.patch(ctx, id, &patient.SectionPatch{Triage: &t}, caller, `{"section":"triage"}`)
}

// UpdateHistoriaPrimera saves the first-visit clinical history. The
// evaluator rule is enforced before the repository is touched: a save with
// both or neither evaluator fields set never reaches persistence.
func (s *PatientService) UpdateHistoriaPrimera(ctx context.Context, id string, h patient.HistoriaClinicaPrimera, caller Caller) (*patient.Patient, error) {
	if err := h.EvaluatorRef.Validate(); err != nil {
		return nil, err
	}
	return s.patch(ctx, id, &patient.SectionPatch{HistoriaClinicaPrimera: &h}, caller, `{"section":"historia_primera"}`)
}

// AppendSucesiva prepends a follow-up entry, newest first. The entry gets
// a fresh id and timestamp here; existing entries are never modified.
func (s *PatientService) AppendSucesiva(ctx context.Context, id string, entry patient.HistoriaClinicaSucesiva, caller Caller) (*patient.Patient, error) {
	if err := entry.EvaluatorRef.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.ID = uuid.NewString()
	entry.Fecha = time.Now().Format(time.RFC3339)
	entry.Triage.RecomputeIMC()

	entries := append([]patient.HistoriaClinicaSucesiva{entry}, p.HistoriasClinicasSucesivas...)

	merged, err := s.patch(ctx, id, &patient.SectionPatch{HistoriasClinicasSucesivas: &entries}, caller, `{"section":"historias_sucesivas","op":"append"}`)
	if err != nil {
		return nil, err
	}

	if s.collector != nil {
		s.collector.SucesivasAppendedTotal.Inc()
	}
	return merged, nil
}

// AppendTARChange prepends an antiretroviral regimen change.
func (s *PatientService) AppendTARChange(ctx context.Context, id string, change patient.TARChange, caller Caller) (*patient.Patient, error) {
	if !change.Esquema.IsValid() {
		return nil, patient.ErrInvalidEsquemaTAR
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	change.ID = uuid.NewString()
	change.Fecha = time.Now().Format(time.RFC3339)

	changes := append([]patient.TARChange{change}, p.TARChanges...)

	merged, err := s.patch(ctx, id, &patient.SectionPatch{TARChanges: &changes}, caller, `{"section":"tar_changes","op":"append"}`)
	if err != nil {
		return nil, err
	}

	if s.collector != nil {
		s.collector.TARChangesTotal.Inc()
	}
	return merged, nil
}

// AppendTratamientoNota prepends a free-text treatment note.
func (s *PatientService) AppendTratamientoNota(ctx context.Context, id string, nota patient.TratamientoNota, caller Caller) (*patient.Patient, error) {
	if strings.TrimSpace(nota.Contenido) == "" {
		return nil, &ValidationError{Fields: []string{"contenido is required"}}
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	nota.ID = uuid.NewString()
	nota.Fecha = time.Now().Format(time.RFC3339)

	notas := append([]patient.TratamientoNota{nota}, p.TratamientoNotas...)

	return s.patch(ctx, id, &patient.SectionPatch{TratamientoNotas: &notas}, caller, `{"section":"tratamiento_notas","op":"append"}`)
}

// UpdateEstudios rewrites the lab/immunization section.
func (s *PatientService) UpdateEstudios(ctx context.Context, id string, e patient.EstudiosData, caller Caller) (*patient.Patient, error) {
	return s.patch(ctx, id, &patient.SectionPatch{Estudios: &e}, caller, `{"section":"estudios"}`)
}

// SetFichaInicioTratamiento saves the treatment initiation/change form.
func (s *PatientService) SetFichaInicioTratamiento(ctx context.Context, id string, ficha patient.FichaInicioTratamientoData, caller Caller) (*patient.Patient, error) {
	if ficha.ID == "" {
		ficha.ID = uuid.NewString()
	}
	return s.patch(ctx, id, &patient.SectionPatch{FichaInicioTratamiento: &ficha}, caller, `{"section":"ficha_inicio_tratamiento"}`)
}

// SetEmbarazadaData saves the pregnancy record. It is rejected outright for
// non-female patients: the pregnancy view is a guarded no-op for them and
// must never write.
func (s *PatientService) SetEmbarazadaData(ctx context.Context, id string, data patient.EmbarazadaData, caller Caller) (*patient.Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Sexo != patient.SexoFemenino {
		return nil, patient.ErrPregnancyNotApplicable
	}

	return s.patch(ctx, id, &patient.SectionPatch{EmbarazadaData: &data}, caller, `{"section":"embarazada"}`)
}

// SetTipoConsulta switches which history view is editable for the patient.
// It touches nothing else.
func (s *PatientService) SetTipoConsulta(ctx context.Context, id string, tipo patient.TipoConsulta, caller Caller) (*patient.Patient, error) {
	if !tipo.IsValid() {
		return nil, patient.ErrInvalidTipoConsulta
	}
	return s.patch(ctx, id, &patient.SectionPatch{TipoConsulta: &tipo}, caller, `{"section":"tipo_consulta"}`)
}

func (s *PatientService) patch(ctx context.Context, id string, sp *patient.SectionPatch, caller Caller, changes string) (*patient.Patient, error) {
	merged, err := s.repo.Patch(ctx, id, sp)
	if err != nil {
		s.countPersistenceError()
		s.log.Error("failed to patch patient",
			zap.String("patient_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	s.audit(ctx, caller, "update", id, changes)
	return merged, nil
}

func (s *PatientService) audit(ctx context.Context, caller Caller, action, resourceID, changes string) {
	if s.auditSvc == nil {
		return
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       caller.UserID,
		UserRole:     caller.Role,
		Action:       action,
		ResourceType: "patient",
		ResourceID:   resourceID,
		IPAddress:    caller.IP,
		Changes:      changes,
	})
}

func (s *PatientService) countPersistenceError() {
	if s.collector != nil {
		s.collector.PersistenceErrorsTotal.WithLabelValues("patient").Inc()
	}
}

func validateIntake(cmd *patient.CreatePatientCommand) error {
	if strings.TrimSpace(cmd.ID) == "" {
		return patient.ErrCedulaRequired
	}

	var errs []string
	if strings.TrimSpace(cmd.Nombres) == "" {
		errs = append(errs, "nombres is required")
	}
	if strings.TrimSpace(cmd.Apellidos) == "" {
		errs = append(errs, "apellidos is required")
	}
	if cmd.Edad < 0 {
		errs = append(errs, "edad cannot be negative")
	}
	if !cmd.Sexo.IsValid() {
		errs = append(errs, "sexo must be Masculino or Femenino")
	}
	if !cmd.TipoConsulta.IsValid() {
		errs = append(errs, "tipoConsulta must be 'Primera consulta' or 'Sucesivo'")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
