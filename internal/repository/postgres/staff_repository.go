package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vihcare/vihcare/internal/domain/staff"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) Create(ctx context.Context, m *staff.StaffMember) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("inserting staff member: %w", err)
	}
	return nil
}

func (r *StaffRepository) GetByID(ctx context.Context, id string) (*staff.StaffMember, error) {
	var m staff.StaffMember
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staff.ErrStaffNotFound
		}
		return nil, fmt.Errorf("fetching staff member: %w", err)
	}
	return &m, nil
}

func (r *StaffRepository) List(ctx context.Context) ([]*staff.StaffMember, error) {
	var members []*staff.StaffMember
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("listing staff: %w", err)
	}
	return members, nil
}

func (r *StaffRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&staff.StaffMember{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting staff: %w", err)
	}
	return count, nil
}
