package classifier

import (
	"context"

	"github.com/FrenchMajesty/zeroshot-classifier/types"
)

// ZeroShotClient scores one text against the candidate labels
type ZeroShotClient interface {
	ZeroShot(ctx context.Context, text string, labels []string) (*types.ClassificationResult, error)
}

// SessionStore loads and saves per-user form state
type SessionStore interface {
	Get(ctx context.Context, id string) (*types.Session, error)
	Save(ctx context.Context, session *types.Session) error
}
