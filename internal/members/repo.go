package members

import (
	"context"

	"gorm.io/gorm"

	"github.com/unionhq/membercard-backend/pkg/db/models"
)

// Repository exposes membership persistence operations. All operations are
// atomic per record; uniqueness of external_id/public_id is enforced by the
// database indexes, not by application-level checks.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByExternalID retrieves the record owned by the chat-platform account.
func (r *Repository) FindByExternalID(ctx context.Context, externalID string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByPublicID retrieves the record behind a 6-digit card number.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Create persists a new membership record. Unique violations surface as
// driver errors for the service to classify.
func (r *Repository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// Update persists the mutated record.
func (r *Repository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}
