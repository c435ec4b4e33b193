package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vihcare/vihcare/internal/domain/staff"
	"github.com/vihcare/vihcare/pkg/metrics"
)

type StaffService struct {
	repo      staff.Repository
	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewStaffService(repo staff.Repository, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *StaffService {
	return &StaffService{
		repo:      repo,
		auditSvc:  auditSvc,
		collector: collector,
		log:       log,
	}
}

type AddStaffCommand struct {
	Nombre       string `json:"nombre"`
	Especialidad string `json:"especialidad"`
}

// AddStaffMember appends a roster entry. The roster is append-only: no
// update or delete operation exists.
func (s *StaffService) AddStaffMember(ctx context.Context, cmd *AddStaffCommand, caller Caller) (*staff.StaffMember, error) {
	nombre := strings.TrimSpace(cmd.Nombre)
	especialidad := strings.TrimSpace(cmd.Especialidad)

	var errs []string
	if nombre == "" {
		errs = append(errs, "nombre is required")
	}
	if especialidad == "" {
		errs = append(errs, "especialidad is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	member := &staff.StaffMember{
		ID:           uuid.NewString(),
		Nombre:       nombre,
		Especialidad: especialidad,
	}

	if err := s.repo.Create(ctx, member); err != nil {
		if s.collector != nil {
			s.collector.PersistenceErrorsTotal.WithLabelValues("staff").Inc()
		}
		s.log.Error("failed to create staff member", zap.Error(err))
		return nil, err
	}

	if s.collector != nil {
		s.collector.StaffCreatedTotal.Inc()
	}
	if s.auditSvc != nil {
		s.auditSvc.LogAsync(ctx, AuditEntry{
			UserID:       caller.UserID,
			UserRole:     caller.Role,
			Action:       "create",
			ResourceType: "staff",
			ResourceID:   member.ID,
			IPAddress:    caller.IP,
		})
	}

	s.log.Info("staff member added",
		zap.String("staff_id", member.ID),
		zap.String("nombre", member.Nombre),
	)

	return member, nil
}

func (s *StaffService) List(ctx context.Context) ([]*staff.StaffMember, error) {
	return s.repo.List(ctx)
}

// EnsureInitialRoster seeds the shipped roster on first start against an
// empty staff table. It is a no-op otherwise.
func (s *StaffService) EnsureInitialRoster(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting staff: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, member := range staff.InitialRoster() {
		m := member
		if err := s.repo.Create(ctx, &m); err != nil {
			return fmt.Errorf("seeding staff roster: %w", err)
		}
	}

	s.log.Info("staff roster seeded", zap.Int("members", len(staff.InitialRoster())))
	return nil
}
