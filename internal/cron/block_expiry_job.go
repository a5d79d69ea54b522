package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sliceops-ai/sliceops-backend/pkg/logger"
)

// BlockExpiryJobParams configures the shift block expiry job.
type BlockExpiryJobParams struct {
	Logger *logger.Logger
	Blocks blockExpirer
}

type blockExpirer interface {
	ExpirePast(ctx context.Context, now time.Time) (int64, error)
}

// NewBlockExpiryJob constructs the job that marks past shift blocks expired.
func NewBlockExpiryJob(params BlockExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Blocks == nil {
		return nil, fmt.Errorf("block service required")
	}
	return &blockExpiryJob{
		logg:   params.Logger,
		blocks: params.Blocks,
		now:    time.Now,
	}, nil
}

type blockExpiryJob struct {
	logg   *logger.Logger
	blocks blockExpirer
	now    func() time.Time
}

func (j *blockExpiryJob) Name() string { return "block-expiry" }

func (j *blockExpiryJob) Run(ctx context.Context) error {
	expired, err := j.blocks.ExpirePast(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("expire past blocks: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"expired": expired})
	j.logg.Info(logCtx, "block expiry complete")
	return nil
}
