package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/lockwise/lockshop-backend/internal/cart"
	"github.com/lockwise/lockshop-backend/pkg/logger"
)

const defaultGuestCartRetention = 720 * time.Hour

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartCleanupRepoFactory func(tx *gorm.DB) *cart.Repository

// CartCleanupJobParams configure the abandoned guest cart sweeper.
type CartCleanupJobParams struct {
	Logger      *logger.Logger
	DB          txRunner
	Carts       *cart.Repository
	Retention   time.Duration
	RepoFactory cartCleanupRepoFactory
}

// NewCartCleanupJob builds the cron job that deletes guest carts left
// untouched beyond the retention window. User carts are never swept.
func NewCartCleanupJob(params CartCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultGuestCartRetention
	}
	repoFactory := params.RepoFactory
	if repoFactory == nil {
		repoFactory = cart.NewRepository
	}
	return &cartCleanupJob{
		logg:        params.Logger,
		db:          params.DB,
		carts:       params.Carts,
		retention:   retention,
		repoFactory: repoFactory,
		now:         time.Now,
	}, nil
}

type cartCleanupJob struct {
	logg        *logger.Logger
	db          txRunner
	carts       *cart.Repository
	retention   time.Duration
	repoFactory cartCleanupRepoFactory
	now         func() time.Time
}

func (j *cartCleanupJob) Name() string { return "guest-cart-cleanup" }

func (j *cartCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	stale, err := j.carts.FindStaleGuestCartIDs(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query stale guest carts: %w", err)
	}

	var errs []error
	deleted := 0
	for _, ref := range stale {
		err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			return j.repoFactory(tx).DeleteCart(ctx, ref.ID)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("delete cart %s: %w", ref.ID, err))
			continue
		}
		deleted++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":  cutoff,
		"matched": len(stale),
		"deleted": deleted,
	})
	j.logg.Info(logCtx, "guest cart cleanup complete")
	return multierr.Combine(errs...)
}
