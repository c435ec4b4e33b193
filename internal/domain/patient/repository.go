package patient

import "context"

type Repository interface {
	// Create persists a new aggregate. Returns ErrPatientAlreadyExists
	// on a duplicate cedula.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves an aggregate by cedula. Returns ErrPatientNotFound
	// if not found.
	GetByID(ctx context.Context, id string) (*Patient, error)

	// Patch applies a section-level merge to the stored aggregate and
	// returns the merged result. Sections absent from the patch are never
	// written, regardless of how stale the calling view's copy is.
	Patch(ctx context.Context, id string, patch *SectionPatch) (*Patient, error)

	// List returns every aggregate, newest consultation first. Used to
	// hydrate client state at session start.
	List(ctx context.Context) ([]*Patient, error)

	// ExistsByID checks cedula uniqueness without fetching the aggregate.
	ExistsByID(ctx context.Context, id string) (bool, error)
}
