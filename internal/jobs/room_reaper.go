package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/phanicodella/talentsync/internal/config"
	"github.com/phanicodella/talentsync/internal/interview"
	"github.com/phanicodella/talentsync/internal/metrics"
	"github.com/phanicodella/talentsync/internal/repositories"
)

// RoomReaperJob periodically sweeps sessions still holding a room reference
// whose room should be gone: completed sessions whose best-effort teardown
// failed, and sessions abandoned before ever ending. Deletion stays
// best-effort; the reaper only narrows the window in which a leaked room
// keeps existing.
type RoomReaperJob struct {
	repo    repositories.InterviewRepository
	roomSvc interview.RoomService
	cfg     config.ReaperConfig
	logger  *zap.Logger
	cron    *cron.Cron
}

func NewRoomReaperJob(repo repositories.InterviewRepository, roomSvc interview.RoomService, cfg config.ReaperConfig, logger *zap.Logger) *RoomReaperJob {
	return &RoomReaperJob{
		repo:    repo,
		roomSvc: roomSvc,
		cfg:     cfg,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start schedules the sweep. Disabled configs are a no-op.
func (j *RoomReaperJob) Start() error {
	if !j.cfg.Enabled {
		j.logger.Info("room reaper is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.cfg.Schedule, func() {
		if err := j.RunSweep(context.Background()); err != nil {
			j.logger.Error("room reaper sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule room reaper: %w", err)
	}

	j.cron.Start()
	j.logger.Info("room reaper started", zap.String("schedule", j.cfg.Schedule))
	return nil
}

func (j *RoomReaperJob) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

// RunSweep performs a single sweep. The room reference is cleared after one
// deletion attempt whether or not it succeeded: rooms self-expire upstream,
// so a second pass over the same session buys nothing.
func (j *RoomReaperJob) RunSweep(ctx context.Context) error {
	cutoff := time.Now().Add(-j.cfg.RoomTTL)

	sessions, err := j.repo.ListWithRooms(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list sessions with rooms: %w", err)
	}
	if len(sessions) == 0 {
		return nil
	}

	j.logger.Info("room reaper sweeping", zap.Int("candidates", len(sessions)))

	for i := range sessions {
		session := &sessions[i]
		j.roomSvc.DeleteRoom(ctx, session.RoomName())

		session.RoomURL = ""
		if _, err := j.repo.Update(ctx, session); err != nil {
			j.logger.Error("failed to clear room reference",
				zap.String("id", session.ID.Hex()),
				zap.Error(err))
			continue
		}
		metrics.RoomReaped()
	}
	return nil
}
