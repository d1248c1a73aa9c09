package guilds

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/unionhq/membercard-backend/pkg/db/models"
	pkgerrors "github.com/unionhq/membercard-backend/pkg/errors"
)

type stubGuildConfigRepo struct {
	byGuild   map[string]*models.GuildConfig
	upsertErr error
	findErr   error
}

func newStubGuildConfigRepo() *stubGuildConfigRepo {
	return &stubGuildConfigRepo{byGuild: map[string]*models.GuildConfig{}}
}

func (s *stubGuildConfigRepo) FindByGuildID(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	cfg, ok := s.byGuild[guildID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *cfg
	return &clone, nil
}

func (s *stubGuildConfigRepo) Upsert(ctx context.Context, cfg *models.GuildConfig) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	clone := *cfg
	s.byGuild[cfg.GuildID] = &clone
	return nil
}

func strPtr(v string) *string { return &v }

func TestUpsertCreatesThenUpdates(t *testing.T) {
	repo := newStubGuildConfigRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	cfg, err := svc.UpsertConfig(context.Background(), "g1", ConfigInput{
		RegistrationChannelID: strPtr("chan-reg"),
	})
	if err != nil {
		t.Fatalf("UpsertConfig returned error: %v", err)
	}
	if cfg.GuildID != "g1" || cfg.RegistrationChannelID == nil || *cfg.RegistrationChannelID != "chan-reg" {
		t.Fatalf("unexpected stored config %+v", cfg)
	}
	if cfg.ApprovalChannelID != nil {
		t.Fatalf("approval channel should be unset")
	}

	cfg, err = svc.UpsertConfig(context.Background(), "g1", ConfigInput{
		RegistrationChannelID: strPtr("chan-reg"),
		ApprovalChannelID:     strPtr("chan-approve"),
	})
	if err != nil {
		t.Fatalf("second UpsertConfig returned error: %v", err)
	}
	if cfg.ApprovalChannelID == nil || *cfg.ApprovalChannelID != "chan-approve" {
		t.Fatalf("update did not apply: %+v", cfg)
	}
}

func TestGetConfigNotFound(t *testing.T) {
	svc, err := NewService(newStubGuildConfigRepo())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	_, err = svc.GetConfig(context.Background(), "ghost")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGuildIDRequired(t *testing.T) {
	svc, err := NewService(newStubGuildConfigRepo())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if _, err := svc.GetConfig(context.Background(), "  "); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("GetConfig: expected validation error, got %v", err)
	}
	if _, err := svc.UpsertConfig(context.Background(), "", ConfigInput{}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("UpsertConfig: expected validation error, got %v", err)
	}
}

func TestUpsertWrapsStoreFailure(t *testing.T) {
	repo := newStubGuildConfigRepo()
	repo.upsertErr = errors.New("connection reset")
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	_, err = svc.UpsertConfig(context.Background(), "g1", ConfigInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
