package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/auction1/pto-backend-go/internal/domain/pto"
	"github.com/auction1/pto-backend-go/internal/pkg/jwt"
)

const tokenPruneInterval = time.Hour

type PTOJobs struct {
	ptoService     pto.PTOService
	jwtService     jwt.Service
	warmupInterval time.Duration
}

func NewPTOJobs(ptoService pto.PTOService, jwtService jwt.Service, warmupInterval time.Duration) *PTOJobs {
	return &PTOJobs{
		ptoService:     ptoService,
		jwtService:     jwtService,
		warmupInterval: warmupInterval,
	}
}

func (j *PTOJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "warm_sheet_cache",
		Interval: j.warmupInterval,
		Timeout:  2 * time.Minute,
		Fn:       j.WarmSheetCache,
	})
	scheduler.AddJob(Job{
		Name:     "prune_revoked_tokens",
		Interval: tokenPruneInterval,
		Fn:       j.PruneRevokedTokens,
	})
}

// WarmSheetCache loads the latest monthly sheet and the renewal sheet into
// the sheet cache.
func (j *PTOJobs) WarmSheetCache(ctx context.Context) error {
	slog.Info("Cron: Warming sheet cache")
	return j.ptoService.Warm(ctx)
}

func (j *PTOJobs) PruneRevokedTokens(ctx context.Context) error {
	if pruned := j.jwtService.PruneRevokedTokens(); pruned > 0 {
		slog.Info("Cron: Pruned revoked tokens", "count", pruned)
	}
	return nil
}
