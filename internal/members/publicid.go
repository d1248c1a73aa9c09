package members

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"gorm.io/gorm"

	"github.com/unionhq/membercard-backend/pkg/db/models"
	pkgerrors "github.com/unionhq/membercard-backend/pkg/errors"
)

const (
	publicIDLength      = 6
	publicIDMaxAttempts = 100
)

var publicIDSpace = big.NewInt(1_000_000)

type publicIDChecker interface {
	FindByPublicID(ctx context.Context, publicID string) (*models.Member, error)
}

// PublicIDGenerator draws fixed-length numeric card ids, re-drawing on
// collision. The attempt bound is defensive; at expected scale the keyspace
// never comes close to full.
type PublicIDGenerator struct {
	repo publicIDChecker
}

func NewPublicIDGenerator(repo publicIDChecker) *PublicIDGenerator {
	return &PublicIDGenerator{repo: repo}
}

// Generate returns a 6-digit id that is free at the time of the check. The
// database unique index remains the final arbiter under concurrency.
func (g *PublicIDGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < publicIDMaxAttempts; attempt++ {
		candidate, err := drawPublicID()
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "draw public id")
		}

		_, err = g.repo.FindByPublicID(ctx, candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check public id")
		}
		// taken, re-draw
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, "public id keyspace exhausted")
}

func drawPublicID() (string, error) {
	n, err := rand.Int(rand.Reader, publicIDSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", publicIDLength, n), nil
}
