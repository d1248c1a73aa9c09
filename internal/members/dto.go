package members

import (
	"time"

	"github.com/unionhq/membercard-backend/pkg/db/models"
	"github.com/unionhq/membercard-backend/pkg/enums"
)

// MemberDTO is the transport shape for a membership record. The credential
// hash is deliberately absent.
type MemberDTO struct {
	ExternalID     string             `json:"external_id"`
	PublicID       string             `json:"public_id"`
	FullName       string             `json:"full_name"`
	Nationality    string             `json:"nationality"`
	Role           string             `json:"role"`
	Status         enums.MemberStatus `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	IssuedAt       *time.Time         `json:"issued_at"`
	LastVerifiedAt *time.Time         `json:"last_verified_at"`
}

// StatusDTO is the minimal shape returned by the status endpoint.
type StatusDTO struct {
	ExternalID string             `json:"external_id"`
	PublicID   string             `json:"public_id"`
	Status     enums.MemberStatus `json:"status"`
}

// ToDTO converts a model to the external DTO.
func ToDTO(m *models.Member) *MemberDTO {
	if m == nil {
		return nil
	}
	return &MemberDTO{
		ExternalID:     m.ExternalID,
		PublicID:       m.PublicID,
		FullName:       m.FullName,
		Nationality:    m.Nationality,
		Role:           m.Role,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
		IssuedAt:       copyTimePointer(m.IssuedAt),
		LastVerifiedAt: copyTimePointer(m.LastVerifiedAt),
	}
}

// ToStatusDTO converts a model to the status-endpoint shape.
func ToStatusDTO(m *models.Member) *StatusDTO {
	if m == nil {
		return nil
	}
	return &StatusDTO{
		ExternalID: m.ExternalID,
		PublicID:   m.PublicID,
		Status:     m.Status,
	}
}

func copyTimePointer(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}
