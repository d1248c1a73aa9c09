package members

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/unionhq/membercard-backend/pkg/config"
	"github.com/unionhq/membercard-backend/pkg/db"
	"github.com/unionhq/membercard-backend/pkg/db/models"
	"github.com/unionhq/membercard-backend/pkg/enums"
	pkgerrors "github.com/unionhq/membercard-backend/pkg/errors"
	"github.com/unionhq/membercard-backend/pkg/security"
)

const defaultRole = "member"

type memberRepository interface {
	FindByExternalID(ctx context.Context, externalID string) (*models.Member, error)
	FindByPublicID(ctx context.Context, publicID string) (*models.Member, error)
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, member *models.Member) error
}

type publicIDGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// Service drives the membership lifecycle: register, approve, reject, revoke.
// Every transition outside the table below is refused before any mutation.
//
//	(none)            register  -> pending   create record, assign public id
//	rejected/revoked  register  -> pending   overwrite profile, keep public id
//	any               approve   -> active    stamp issued_at + last_verified_at
//	pending           reject    -> rejected
//	active            revoke    -> revoked   stamp last_verified_at
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Member, error)
	Approve(ctx context.Context, externalID string) (*models.Member, error)
	Reject(ctx context.Context, externalID string) (*models.Member, error)
	Revoke(ctx context.Context, externalID string) (*models.Member, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.Member, error)
}

// RegisterInput holds the profile fields supplied at registration.
type RegisterInput struct {
	ExternalID  string
	FullName    string
	Nationality string
	Credential  string
}

// ServiceParams wires the service dependencies.
type ServiceParams struct {
	Repo       memberRepository
	IDGen      publicIDGenerator
	Credential config.CredentialConfig

	// ReapproveRefresh controls whether approving an already-active record
	// refreshes issued_at/last_verified_at (true) or is a no-op (false).
	ReapproveRefresh bool

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

type service struct {
	repo             memberRepository
	idGen            publicIDGenerator
	credential       config.CredentialConfig
	reapproveRefresh bool
	now              func() time.Time
}

// NewService builds the lifecycle service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("member repository required")
	}
	if params.IDGen == nil {
		return nil, fmt.Errorf("public id generator required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:             params.Repo,
		idGen:            params.IDGen,
		credential:       params.Credential,
		reapproveRefresh: params.ReapproveRefresh,
		now:              now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Member, error) {
	input.ExternalID = strings.TrimSpace(input.ExternalID)
	input.FullName = strings.TrimSpace(input.FullName)
	input.Nationality = strings.TrimSpace(input.Nationality)

	if input.ExternalID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "external_id is required")
	}
	if input.FullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full_name is required")
	}
	if input.Nationality == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nationality is required")
	}
	if input.Credential == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credential is required")
	}

	existing, err := s.repo.FindByExternalID(ctx, input.ExternalID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup member")
	}

	hash, err := security.HashCredential(input.Credential, s.credential)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash credential")
	}

	if existing != nil {
		return s.resubmit(ctx, existing, input, hash)
	}
	return s.create(ctx, input, hash)
}

// resubmit returns a rejected or revoked record to pending, overwriting the
// profile and credential while keeping the original public id.
func (s *service) resubmit(ctx context.Context, existing *models.Member, input RegisterInput, hash string) (*models.Member, error) {
	switch existing.Status {
	case enums.MemberStatusRejected, enums.MemberStatusRevoked:
	case enums.MemberStatusPending, enums.MemberStatusActive:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("member already registered with status %s", existing.Status))
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInternal,
			fmt.Sprintf("stored status %q outside the lifecycle enum", existing.Status))
	}

	existing.FullName = input.FullName
	existing.Nationality = input.Nationality
	existing.CredentialHash = hash
	existing.Status = enums.MemberStatusPending

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update member")
	}
	return existing, nil
}

func (s *service) create(ctx context.Context, input RegisterInput, hash string) (*models.Member, error) {
	// One retry on a public id race: two concurrent registrations can pass
	// the generator's check with the same draw, and only the unique index
	// decides the winner.
	for attempt := 0; attempt < 2; attempt++ {
		publicID, err := s.idGen.Generate(ctx)
		if err != nil {
			return nil, err
		}

		member := &models.Member{
			ExternalID:     input.ExternalID,
			PublicID:       publicID,
			FullName:       input.FullName,
			Nationality:    input.Nationality,
			Role:           defaultRole,
			CredentialHash: hash,
			Status:         enums.MemberStatusPending,
		}

		err = s.repo.Create(ctx, member)
		if err == nil {
			return member, nil
		}
		if db.IsUniqueViolation(err, "idx_members_external_id") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "member already registered")
		}
		if db.IsUniqueViolation(err, "idx_members_public_id") {
			continue
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicateKey, err, "duplicate member key")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create member")
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "public id collision retry exhausted")
}

func (s *service) Approve(ctx context.Context, externalID string) (*models.Member, error) {
	member, err := s.load(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if member.Status == enums.MemberStatusActive && !s.reapproveRefresh {
		return member, nil
	}

	now := s.now().UTC()
	member.Status = enums.MemberStatusActive
	member.IssuedAt = &now
	member.LastVerifiedAt = &now

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update member")
	}
	return member, nil
}

func (s *service) Reject(ctx context.Context, externalID string) (*models.Member, error) {
	member, err := s.load(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if member.Status != enums.MemberStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition,
			fmt.Sprintf("cannot reject a member with status %s", member.Status))
	}

	member.Status = enums.MemberStatusRejected

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update member")
	}
	return member, nil
}

func (s *service) Revoke(ctx context.Context, externalID string) (*models.Member, error) {
	member, err := s.load(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if member.Status != enums.MemberStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition,
			fmt.Sprintf("cannot revoke a member with status %s", member.Status))
	}

	now := s.now().UTC()
	member.Status = enums.MemberStatusRevoked
	member.LastVerifiedAt = &now

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update member")
	}
	return member, nil
}

func (s *service) GetByExternalID(ctx context.Context, externalID string) (*models.Member, error) {
	return s.load(ctx, externalID)
}

func (s *service) load(ctx context.Context, externalID string) (*models.Member, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "external_id is required")
	}

	member, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup member")
	}

	if !member.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeInternal,
			fmt.Sprintf("stored status %q outside the lifecycle enum", member.Status))
	}
	return member, nil
}
