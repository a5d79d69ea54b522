package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeBlockExpirer struct {
	expired int64
	err     error
	cutoff  time.Time
}

func (f *fakeBlockExpirer) ExpirePast(_ context.Context, now time.Time) (int64, error) {
	f.cutoff = now
	return f.expired, f.err
}

func TestBlockExpiryJobReportsExpiredCount(t *testing.T) {
	expirer := &fakeBlockExpirer{expired: 3}
	job, err := NewBlockExpiryJob(BlockExpiryJobParams{
		Logger: newCronTestLogger(),
		Blocks: expirer,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if expirer.cutoff.IsZero() {
		t.Fatalf("expected a cutoff to be passed")
	}
	if expirer.cutoff.Location() != time.UTC {
		t.Fatalf("cutoff must be UTC, got %v", expirer.cutoff.Location())
	}
}

func TestBlockExpiryJobPropagatesFailure(t *testing.T) {
	job, err := NewBlockExpiryJob(BlockExpiryJobParams{
		Logger: newCronTestLogger(),
		Blocks: &fakeBlockExpirer{err: errors.New("db down")},
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected failure to surface")
	}
}
