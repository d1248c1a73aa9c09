package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unionhq/membercard-backend/pkg/enums"
)

// Member is the canonical membership record. ExternalID is the chat-platform
// account that owns the record; PublicID is the human-shareable 6-digit card
// number. Both carry unique indexes so the check-then-insert race is closed
// at the store level rather than in application code.
type Member struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey"`
	ExternalID     string             `gorm:"column:external_id;type:text;not null;uniqueIndex:idx_members_external_id"`
	PublicID       string             `gorm:"column:public_id;type:varchar(6);not null;uniqueIndex:idx_members_public_id"`
	FullName       string             `gorm:"column:full_name;not null"`
	Nationality    string             `gorm:"column:nationality;not null"`
	Role           string             `gorm:"column:role;not null;default:member"`
	CredentialHash string             `gorm:"column:credential_hash;not null"`
	Status         enums.MemberStatus `gorm:"column:status;type:varchar(20);not null;default:pending"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
	IssuedAt       *time.Time         `gorm:"column:issued_at"`
	LastVerifiedAt *time.Time         `gorm:"column:last_verified_at"`
}

// BeforeCreate assigns the primary key client-side so the sqlite driver
// behaves the same as Postgres.
func (m *Member) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
