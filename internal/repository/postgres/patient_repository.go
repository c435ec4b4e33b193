package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vihcare/vihcare/internal/domain/patient"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return patient.ErrPatientAlreadyExists
		}
		return fmt.Errorf("inserting patient: %w", err)
	}
	return nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (*patient.Patient, error) {
	var p patient.Patient
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, fmt.Errorf("fetching patient: %w", err)
	}
	return &p, nil
}

// Patch performs the section-level merge as an explicit read-modify-write
// inside a transaction, with the row locked for the duration. Only the
// sections present in the patch are rewritten; everything else keeps the
// stored value, whatever stale copy the calling view held.
func (r *PatientRepository) Patch(ctx context.Context, id string, patch *patient.SectionPatch) (*patient.Patient, error) {
	var merged patient.Patient

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&merged, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return patient.ErrPatientNotFound
			}
			return fmt.Errorf("locking patient row: %w", err)
		}

		merged.ApplyPatch(patch)

		if err := tx.Save(&merged).Error; err != nil {
			return fmt.Errorf("saving merged patient: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &merged, nil
}

func (r *PatientRepository) List(ctx context.Context) ([]*patient.Patient, error) {
	var patients []*patient.Patient
	if err := r.db.WithContext(ctx).
		Order("consultation_date DESC").
		Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	return patients, nil
}

func (r *PatientRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&patient.Patient{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking patient existence: %w", err)
	}
	return count > 0, nil
}
