package staff

import (
	"context"
	"time"
)

// StaffMember is a roster entry referenced by id from patient evaluator
// fields. It is never embedded by value in a patient record.
type StaffMember struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`

	Nombre       string `gorm:"column:nombre;type:varchar(150);not null" json:"nombre"`
	Especialidad string `gorm:"column:especialidad;type:varchar(150);not null" json:"especialidad"`
}

func (StaffMember) TableName() string {
	return "clinical.staff"
}

type Repository interface {
	Create(ctx context.Context, m *StaffMember) error
	GetByID(ctx context.Context, id string) (*StaffMember, error)
	List(ctx context.Context) ([]*StaffMember, error)
	Count(ctx context.Context) (int64, error)
}

// InitialRoster returns the infectious-disease service roster the system
// ships with. Seeded once, on first start against an empty database.
func InitialRoster() []StaffMember {
	return []StaffMember{
		{ID: "1", Nombre: "Dra. María Alvarado Bruzual", Especialidad: "Médico Internista / Infectólogo"},
		{ID: "2", Nombre: "Dra. María Eugenia Landaeta", Especialidad: "Médico Infectólogo"},
		{ID: "3", Nombre: "Dr. Napoleón Guevara", Especialidad: "Médico Internista- Infectólogo"},
		{ID: "4", Nombre: "Dra. Carolyn Redondo", Especialidad: "Médico Internista- Infectologo"},
		{ID: "5", Nombre: "Dr. Martín Carballo", Especialidad: "Médico Internista- Infectólogo"},
		{ID: "6", Nombre: "Dr. Luis Solano", Especialidad: "Médico Internista- Infectólogo"},
		{ID: "7", Nombre: "Dr. David Flora", Especialidad: "Médico Internista- Infectólogo"},
		{ID: "8", Nombre: "Dra. María Molina", Especialidad: "Médico Internista- Infectólogo"},
		{ID: "9", Nombre: "Dr. David Forero", Especialidad: "Médico Internista- Infectólogo"},
		{ID: "10", Nombre: "Dr. Víctor Mendoza", Especialidad: "Médico Internista- Infectólogo"},
		{ID: "11", Nombre: "Dra. Jocays Caldera", Especialidad: "Médico Internista- Infectólogo"},
	}
}
